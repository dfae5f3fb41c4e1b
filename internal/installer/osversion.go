package installer

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/shirou/gopsutil/v3/host"
)

// VersionProbe returns the dotted version string of the host OS.
type VersionProbe func(ctx context.Context) (string, error)

// HostVersion reads the Windows version through gopsutil. On Windows the kernel version
// has the form "10.0.19045.3448 Build 19045.3448"; only the leading dotted part is kept.
func HostVersion(ctx context.Context) (string, error) {
	if runtime.GOOS != "windows" {
		return "", fmt.Errorf("%w: winget requires Windows, running on %s", ErrUnsupportedPlatform, runtime.GOOS)
	}

	raw, err := host.KernelVersionWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read OS version: %w", err)
	}
	return normalizeOSVersion(raw)
}

func normalizeOSVersion(raw string) (string, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty OS version", ErrParse)
	}
	return fields[0], nil
}

// CheckMinimumVersion fails with ErrUnsupportedPlatform when current orders below minimum.
// Both are compared numerically per component, so "10.0.9" is older than "10.0.17763".
func CheckMinimumVersion(current, minimum string) error {
	cur, err := goversion.NewVersion(current)
	if err != nil {
		return fmt.Errorf("%w: OS version %q: %v", ErrParse, current, err)
	}
	lowest, err := goversion.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("%w: minimum version %q: %v", ErrParse, minimum, err)
	}

	if cur.LessThan(lowest) {
		return fmt.Errorf("%w: winget is not supported on Windows %s (requires %s, Windows 10 1809 or later)",
			ErrUnsupportedPlatform, current, minimum)
	}
	return nil
}
