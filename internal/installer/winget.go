package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"winget-bootstrap/internal/config"
	"winget-bootstrap/internal/logger"
)

// State is the lifecycle of the winget installation within one run.
type State int

const (
	NotInstalled State = iota
	Installing
	Installed
	Failed
)

func (s State) String() string {
	switch s {
	case NotInstalled:
		return "not-installed"
	case Installing:
		return "installing"
	case Installed:
		return "installed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Environment variables carrying file paths into the provisioning scripts.
const (
	envBundle       = "WINGET_BOOTSTRAP_BUNDLE"
	envDependencies = "WINGET_BOOTSTRAP_DEPENDENCIES"
	envLicense      = "WINGET_BOOTSTRAP_LICENSE"
	envSource       = "WINGET_BOOTSTRAP_SOURCE"
)

// provisionScript registers the App Installer bundle for all users together with
// its dependency packages (newline separated) and license.
const provisionScript = `$ErrorActionPreference = 'Stop'
$deps = @($env:WINGET_BOOTSTRAP_DEPENDENCIES -split "` + "`" + `n" | Where-Object { $_ -ne '' })
Add-AppxProvisionedPackage -Online -PackagePath $env:WINGET_BOOTSTRAP_BUNDLE -DependencyPackagePath $deps -LicensePath $env:WINGET_BOOTSTRAP_LICENSE | Out-Null`

// sourceScript registers the winget package source.
const sourceScript = `$ErrorActionPreference = 'Stop'
Add-AppxPackage -Path $env:WINGET_BOOTSTRAP_SOURCE`

// Bootstrapper makes sure winget is callable, installing it when it is not.
type Bootstrapper struct {
	cfg        *config.Config
	runner     Runner
	downloader *Downloader
	probe      VersionProbe

	state     State
	version   string
	installed bool
}

// NewBootstrapper wires a Bootstrapper. A nil probe uses HostVersion.
func NewBootstrapper(cfg *config.Config, runner Runner, downloader *Downloader, probe VersionProbe) *Bootstrapper {
	if probe == nil {
		probe = HostVersion
	}
	return &Bootstrapper{
		cfg:        cfg,
		runner:     runner,
		downloader: downloader,
		probe:      probe,
		state:      NotInstalled,
	}
}

// State returns the current lifecycle state.
func (b *Bootstrapper) State() State { return b.state }

// Version returns the winget version reported by the last successful probe.
func (b *Bootstrapper) Version() string { return b.version }

// InstalledByBootstrap reports whether this run installed winget.
func (b *Bootstrapper) InstalledByBootstrap() bool { return b.installed }

// WingetVersion runs "winget --version" and reports whether it exited successfully.
func WingetVersion(ctx context.Context, runner Runner, env Environment, winget string) (string, bool) {
	out, err := runner.Run(ctx, env, winget, "--version")
	if err != nil {
		logger.Debug("[DEBUG] winget probe failed: %v\n", err)
		return "", false
	}
	return strings.TrimSpace(string(out.Stdout)), true
}

// EnsureWinget returns an environment in which winget can be invoked.
// If winget already answers, env is returned as is and nothing is downloaded.
// Otherwise winget is installed, the environment is reloaded, and the returned
// snapshot is the reloaded one.
func (b *Bootstrapper) EnsureWinget(ctx context.Context, env Environment) (Environment, error) {
	if v, ok := WingetVersion(ctx, b.runner, env, b.cfg.Winget); ok {
		b.version = v
		b.transition(Installed)
		logger.Info("[INFO] winget %s is already installed.\n", v)
		return env, nil
	}

	if err := b.install(ctx, env); err != nil {
		b.transition(Failed)
		return nil, err
	}
	b.installed = true
	b.transition(Installed)
	logger.Info("[INFO] winget installed successfully.\n")

	reloaded, err := ReloadEnvironment(ctx, b.runner, b.cfg.PowerShell, env)
	if err != nil {
		return nil, err
	}

	v, ok := WingetVersion(ctx, b.runner, reloaded, b.cfg.Winget)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrSubprocess, ErrWingetUnavailable)
	}
	b.version = v
	logger.Debug("[DEBUG] winget %s answers after reload\n", v)
	return reloaded, nil
}

// install drives NotInstalled -> Installing and performs every provisioning step.
// The OS gate runs before any network call.
func (b *Bootstrapper) install(ctx context.Context, env Environment) error {
	logger.Info("[INFO] Installing winget...\n")
	b.transition(Installing)

	// Check that this Windows build can run winget at all
	current, err := b.probe(ctx)
	if err != nil {
		return err
	}
	logger.Debug("[DEBUG] Host OS version %s, minimum %s\n", current, b.cfg.MinOSVersion)
	if err := CheckMinimumVersion(current, b.cfg.MinOSVersion); err != nil {
		return err
	}

	// Prepare the directory that receives every download
	dir := ResolveTempDir(env, b.cfg.TempDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory %s: %w", dir, err)
	}
	logger.Debug("[DEBUG] Using temp directory %s\n", dir)

	// Fetch the framework packages winget depends on
	deps, err := DownloadPrerequisites(ctx, b.downloader, b.cfg.Prerequisites, dir)
	if err != nil {
		return fmt.Errorf("failed to download winget prerequisites: %w", err)
	}

	// Fetch the license and bundle of the latest winget release
	files, err := DownloadLatestRelease(ctx, b.downloader, b.cfg.Release, dir)
	if err != nil {
		return err
	}

	// Provision the bundle for all users; paths travel as environment variables
	provisionEnv := env.Merge(map[string]string{
		envBundle:       files.Bundle,
		envDependencies: strings.Join(deps, "\n"),
		envLicense:      files.License,
	})
	logger.Info("[INFO] Provisioning winget %s...\n", files.Tag)
	if out, err := b.runner.Run(ctx, provisionEnv, b.cfg.PowerShell, PowerShellArgs(provisionScript)...); err != nil {
		return fmt.Errorf("failed to provision winget package: %w\nOutput: %s", err, combined(out))
	}

	// Register the default package source
	sourcePath := filepath.Join(dir, b.cfg.Source.File)
	logger.Info("[INFO] Downloading winget source package...\n")
	if err := b.downloader.Download(ctx, b.cfg.Source.URL, sourcePath); err != nil {
		return fmt.Errorf("failed to download winget source: %w", err)
	}

	sourceEnv := env.Merge(map[string]string{envSource: sourcePath})
	if out, err := b.runner.Run(ctx, sourceEnv, b.cfg.PowerShell, PowerShellArgs(sourceScript)...); err != nil {
		return fmt.Errorf("failed to add winget source: %w\nOutput: %s", err, combined(out))
	}

	return nil
}

func (b *Bootstrapper) transition(next State) {
	logger.Debug("[DEBUG] winget state: %s -> %s\n", b.state, next)
	b.state = next
}
