package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"winget-bootstrap/internal/config"
	"winget-bootstrap/internal/logger"
)

// ResolveTempDir picks the download directory: the override if set, then TEMP,
// then USERPROFILE\AppData\Local\Temp, then the OS default.
func ResolveTempDir(env Environment, override string) string {
	if override != "" {
		return override
	}
	if dir, ok := env.Get("TEMP"); ok && dir != "" {
		return dir
	}
	if profile, ok := env.Get("USERPROFILE"); ok && profile != "" {
		return filepath.Join(profile, "AppData", "Local", "Temp")
	}
	return os.TempDir()
}

// DownloadPrerequisites downloads every dependency package into dir and returns
// their local paths in configuration order. The first failure aborts.
func DownloadPrerequisites(ctx context.Context, d *Downloader, downloads []config.Download, dir string) ([]string, error) {
	paths := make([]string, 0, len(downloads))

	for _, dl := range downloads {
		dest := filepath.Join(dir, dl.File)
		if dl.Version != "" {
			logger.Info("[INFO] Downloading %s %s dependency...\n", dl.Name, dl.Version)
		} else {
			logger.Info("[INFO] Downloading %s dependency...\n", dl.Name)
		}

		if err := d.Download(ctx, dl.URL, dest); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", dl.Name, err)
		}
		paths = append(paths, dest)
	}

	return paths, nil
}
