package installer

import (
	"context"
	"fmt"
	"strings"

	"winget-bootstrap/internal/logger"
)

// PackageResult records the outcome of one package install attempt.
type PackageResult struct {
	ID  string
	Err error
}

// InstallArgs returns the winget arguments installing id silently, with exact id
// matching and all source and package agreements accepted.
func InstallArgs(id string) []string {
	return []string{
		"install", "-e", "--id", id,
		"--accept-source-agreements",
		"--accept-package-agreements",
		"--silent",
		"--disable-interactivity",
	}
}

// InstallPackages installs every id in order with winget.
// A failed package is logged and recorded, and the next one is still attempted.
// Only cancellation of ctx stops the loop: the returned error then wraps ctx.Err(),
// and the results hold just the packages whose install finished.
func InstallPackages(ctx context.Context, runner Runner, env Environment, winget string, ids []string) ([]PackageResult, error) {
	logger.Debug("[DEBUG] Starting InstallPackages with %d packages\n", len(ids))

	results := make([]PackageResult, 0, len(ids))
	for _, id := range ids {
		// Stop before starting another install once the run is aborted.
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("package installation stopped before %s: %w", id, err)
		}

		logger.Info("[INFO] Installing %s...\n", id)

		out, err := runner.Run(ctx, env, winget, InstallArgs(id)...)
		if err != nil && ctx.Err() != nil {
			// winget was killed mid-install; that is an abort, not a package failure.
			return results, fmt.Errorf("package installation interrupted during %s: %w", id, ctx.Err())
		}
		if err != nil {
			logger.Error("[ERROR] Failed to install %s: %v\nOutput: %s\n", id, err, combined(out))
		} else {
			logger.Debug("[DEBUG] winget output for %s: %s\n", id, combined(out))
			logger.Info("[INFO] Installed %s\n", id)
		}
		results = append(results, PackageResult{ID: id, Err: err})
	}

	logger.Debug("[DEBUG] Finished InstallPackages\n")
	return results, nil
}

// combined joins stdout and stderr for log output.
func combined(out Output) string {
	return strings.TrimSpace(string(out.Stdout) + "\n" + string(out.Stderr))
}
