package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"winget-bootstrap/internal/config"
	"winget-bootstrap/internal/installer"
	"winget-bootstrap/internal/logger"
	"winget-bootstrap/internal/state"
)

// exit terminates the process; tests replace it.
var exit = os.Exit

// now is the clock used for state records.
var now = time.Now

// checkInstances warns about concurrent runs sharing the state file; tests replace it.
var checkInstances = installer.WarnIfAlreadyRunning

// app bundles the collaborators one command invocation needs.
type app struct {
	cfg        *config.Config
	runner     installer.Runner
	downloader *installer.Downloader
	probe      installer.VersionProbe
	st         *state.State
}

// newApp loads configuration and state. A configuration error is fatal.
func newApp() *app {
	checkInstances()

	cfg, err := config.Load(configPath)
	exitOnError(err, "Failed to load configuration.")

	st := &state.State{Packages: make(map[string]state.PackageState)}
	if statePath != "" {
		st = state.LoadState(statePath)
	}

	return &app{
		cfg:        cfg,
		runner:     installer.ExecRunner{},
		downloader: installer.NewDownloader(installer.CurrentEnvironment()),
		probe:      installer.HostVersion,
		st:         st,
	}
}

// runContext is cancelled on interrupt and, when configured, after the overall timeout.
func (a *app) runContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if a.cfg.Timeout <= 0 {
		return ctx, stop
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// ensureWinget is an abort step: any failure ends the process with exit code 1.
func (a *app) ensureWinget(ctx context.Context) installer.Environment {
	b := installer.NewBootstrapper(a.cfg, a.runner, a.downloader, a.probe)
	env, err := b.EnsureWinget(ctx, installer.CurrentEnvironment())
	exitOnError(err, failureMessage(err))

	a.st.RecordWinget(b.Version(), b.InstalledByBootstrap(), now())
	return env
}

// installPackages is a log-and-continue step: package failures never change the exit code.
// An interrupt or timeout is an abort: finished results are saved, then the process exits 1.
func (a *app) installPackages(ctx context.Context, env installer.Environment, ids []string) {
	results, err := installer.InstallPackages(ctx, a.runner, env, a.cfg.Winget, ids)

	failed := 0
	for _, r := range results {
		a.st.RecordPackage(r.ID, r.Err, now())
		if r.Err != nil {
			failed++
		}
	}

	if err != nil {
		a.saveState()
		exitOnError(err, "Package installation was aborted.")
		return
	}
	if failed > 0 {
		logger.Warn("[WARN] %d of %d packages failed to install.\n", failed, len(results))
	} else {
		logger.Info("[INFO] All %d packages installed.\n", len(results))
	}
}

func (a *app) saveState() {
	if statePath != "" {
		state.SaveState(statePath, a.st)
	}
}

// failureMessage picks the user-facing summary for a fatal winget setup error.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, installer.ErrUnsupportedPlatform):
		return "winget is not supported on this Windows version (Windows 10 1809 or later is required)."
	case errors.Is(err, installer.ErrEnvironmentReload):
		return "Failed to reload environment variables after installing winget. Please run this program again."
	case errors.Is(err, installer.ErrWingetUnavailable):
		return "winget was installed but could not be invoked for an unknown reason. Please run this program again."
	default:
		return "Failed to install winget."
	}
}

// exitOnError logs err with message and terminates with exit code 1. A nil err is a no-op.
func exitOnError(err error, message string) {
	if err == nil {
		return
	}
	logger.Error("[ERROR] %v\n", err)
	logger.Error("[ERROR] %s\n", message)
	exit(1)
}
