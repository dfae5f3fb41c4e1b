package config

import "time"

// Download is a single fixed file fetched during winget provisioning.
// - Name: Logical name used in log output (e.g., Microsoft.VCLibs).
// - URL: Where the file is fetched from.
// - File: File name inside the temp directory.
// - Version: Pinned version, informational only; the URL already encodes it.
type Download struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	File    string `yaml:"file"`
	Version string `yaml:"version"`
}

// Release describes how the latest winget release is located and which assets are needed.
type Release struct {
	APIURL        string `yaml:"api_url"`        // GitHub "latest release" endpoint
	LicenseSuffix string `yaml:"license_suffix"` // Asset name suffix of the license file
	LicenseFile   string `yaml:"license_file"`   // Local file name for the license
	BundleSuffix  string `yaml:"bundle_suffix"`  // Asset name suffix of the installer bundle
	BundleFile    string `yaml:"bundle_file"`    // Local file name for the bundle
}

// Config is the top-level structure returned after loading the YAML configuration.
type Config struct {
	// MinOSVersion is the lowest OS version winget supports (Windows 10 1809).
	MinOSVersion string `yaml:"min_os_version"`
	// Winget is the package manager executable name or path.
	Winget string `yaml:"winget"`
	// PowerShell is the shell used for provisioning and environment reload.
	PowerShell string `yaml:"powershell"`
	// TempDir overrides the resolved download directory when set.
	TempDir string `yaml:"temp_dir"`
	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`

	Prerequisites []Download `yaml:"prerequisites"`
	Release       Release    `yaml:"release"`
	Source        Download   `yaml:"source"`

	// Packages are winget package ids installed in order.
	Packages []string `yaml:"packages"`
}
