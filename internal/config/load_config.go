package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMinOSVersion is Windows 10 1809, the first build winget supports.
	DefaultMinOSVersion = "10.0.17763"

	// DefaultWinget is the winget executable name, resolved against PATH.
	DefaultWinget = "winget"

	// DefaultPowerShell is the Windows PowerShell executable name.
	DefaultPowerShell = "powershell"
)

var (
	errNoPackages     = errors.New("at least one package id must be configured")
	errMissingFile    = errors.New("file name must be provided")
	errMissingSuffix  = errors.New("asset suffix must be provided")
	errInvalidVersion = errors.New("invalid minimum OS version")
)

// Default returns the built-in configuration: the VCLibs and UI.Xaml dependencies,
// the winget-cli latest release, the winget source package and the Corretto JDKs.
func Default() *Config {
	return &Config{
		MinOSVersion: DefaultMinOSVersion,
		Winget:       DefaultWinget,
		PowerShell:   DefaultPowerShell,
		Prerequisites: []Download{
			{
				Name:    "Microsoft.VCLibs",
				URL:     "https://aka.ms/Microsoft.VCLibs.x64.14.00.Desktop.appx",
				File:    "Microsoft.VCLibs.x64.Desktop.appx",
				Version: "14.00",
			},
			{
				Name:    "Microsoft.UI.Xaml",
				URL:     "https://github.com/microsoft/microsoft-ui-xaml/releases/download/v2.8.6/Microsoft.UI.Xaml.2.8.x64.appx",
				File:    "Microsoft.UI.Xaml.x64.appx",
				Version: "2.8.6",
			},
		},
		Release: Release{
			APIURL:        "https://api.github.com/repos/microsoft/winget-cli/releases/latest",
			LicenseSuffix: "License1.xml",
			LicenseFile:   "License1.xml",
			BundleSuffix:  ".msixbundle",
			BundleFile:    "Microsoft.DesktopAppInstaller.msixbundle",
		},
		Source: Download{
			Name: "winget source",
			URL:  "https://cdn.winget.microsoft.com/cache/source.msix",
			File: "winget_source.msix",
		},
		Packages: []string{
			"Amazon.Corretto.8.JDK",
			"Amazon.Corretto.17.JDK",
			"Amazon.Corretto.21.JDK",
		},
	}
}

// Load reads the YAML file at path on top of the defaults and validates the result.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Fields absent from the file keep their default values.
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks required fields and fills in executable defaults.
func Validate(cfg *Config) error {
	if cfg.Winget == "" {
		cfg.Winget = DefaultWinget
	}
	if cfg.PowerShell == "" {
		cfg.PowerShell = DefaultPowerShell
	}
	if cfg.MinOSVersion == "" {
		cfg.MinOSVersion = DefaultMinOSVersion
	}

	if _, err := goversion.NewVersion(cfg.MinOSVersion); err != nil {
		return fmt.Errorf("%w %q: %v", errInvalidVersion, cfg.MinOSVersion, err)
	}

	if len(cfg.Packages) == 0 {
		return errNoPackages
	}

	for _, d := range cfg.Prerequisites {
		if err := validateDownload(d); err != nil {
			return err
		}
	}
	if err := validateDownload(cfg.Source); err != nil {
		return err
	}

	if err := validateURL(cfg.Release.APIURL); err != nil {
		return fmt.Errorf("release api_url: %w", err)
	}
	if cfg.Release.LicenseSuffix == "" || cfg.Release.BundleSuffix == "" {
		return errMissingSuffix
	}
	if cfg.Release.LicenseFile == "" || cfg.Release.BundleFile == "" {
		return fmt.Errorf("release: %w", errMissingFile)
	}

	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}

	return nil
}

func validateDownload(d Download) error {
	if err := validateURL(d.URL); err != nil {
		return fmt.Errorf("download %s: %w", d.Name, err)
	}
	if d.File == "" {
		return fmt.Errorf("download %s: %w", d.Name, errMissingFile)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid URL %q: scheme and host required", raw)
	}
	return nil
}
