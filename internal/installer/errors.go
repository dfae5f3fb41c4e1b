package installer

import "errors"

// Error kinds reported by the installer. Every error returned from this package
// wraps exactly one of them so callers can classify failures with errors.Is.
var (
	// ErrNetwork covers HTTP transport failures and non-success status codes.
	ErrNetwork = errors.New("network error")
	// ErrUnsupportedPlatform means the host OS is below the minimum winget version.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrSubprocess means a shell or package manager invocation failed.
	ErrSubprocess = errors.New("subprocess failed")
	// ErrParse covers malformed API responses and unparsable version strings.
	ErrParse = errors.New("parse error")
	// ErrAssetNotFound means a release lacks an asset with the wanted suffix. It is always wrapped with ErrParse.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrEnvironmentReload means the environment reload subprocess wrote to stderr or failed.
	ErrEnvironmentReload = errors.New("environment reload failed")
	// ErrWingetUnavailable means winget still cannot be invoked after installation.
	ErrWingetUnavailable = errors.New("winget unavailable after install")
)
