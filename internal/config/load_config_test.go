package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))
	require.Equal(t, []string{"Amazon.Corretto.8.JDK", "Amazon.Corretto.17.JDK", "Amazon.Corretto.21.JDK"}, cfg.Packages)
	require.Len(t, cfg.Prerequisites, 2)
	require.Equal(t, "10.0.17763", cfg.MinOSVersion)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
packages:
  - Microsoft.OpenJDK.21
temp_dir: D:\scratch
timeout: 10m
release:
  api_url: https://example.com/releases/latest
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Microsoft.OpenJDK.21"}, cfg.Packages)
	require.Equal(t, `D:\scratch`, cfg.TempDir)
	require.Equal(t, 10*time.Minute, cfg.Timeout)
	require.Equal(t, "https://example.com/releases/latest", cfg.Release.APIURL)

	// Untouched defaults survive.
	require.Equal(t, ".msixbundle", cfg.Release.BundleSuffix)
	require.Equal(t, DefaultWinget, cfg.Winget)
	require.Len(t, cfg.Prerequisites, 2)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Packages = nil
	require.ErrorIs(t, Validate(cfg), errNoPackages)

	cfg = Default()
	cfg.MinOSVersion = "not-a-version"
	require.ErrorIs(t, Validate(cfg), errInvalidVersion)

	cfg = Default()
	cfg.Source.URL = "cdn/source.msix"
	require.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Prerequisites[0].File = ""
	require.ErrorIs(t, Validate(cfg), errMissingFile)

	cfg = Default()
	cfg.Release.BundleSuffix = ""
	require.ErrorIs(t, Validate(cfg), errMissingSuffix)

	cfg = Default()
	cfg.Winget = ""
	cfg.PowerShell = ""
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultWinget, cfg.Winget)
	require.Equal(t, DefaultPowerShell, cfg.PowerShell)
}
