package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"winget-bootstrap/internal/config"
	"winget-bootstrap/internal/logger"
)

// ReleaseAsset is a single downloadable file attached to a GitHub release.
type ReleaseAsset struct {
	Name               string `json:"name"`                 // Asset filename
	BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
}

// GitHubRelease represents the fields of a GitHub release JSON response used here.
type GitHubRelease struct {
	TagName string         `json:"tag_name"` // The release tag (e.g., v1.9.25200)
	Assets  []ReleaseAsset `json:"assets"`
}

// ReleaseFiles are the local paths of the downloaded winget release assets.
type ReleaseFiles struct {
	Tag     string
	License string
	Bundle  string
}

// FetchLatestRelease queries the release API at apiURL.
func FetchLatestRelease(ctx context.Context, d *Downloader, apiURL string) (*GitHubRelease, error) {
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", apiURL)

	var release GitHubRelease
	if err := d.GetJSON(ctx, apiURL, &release); err != nil {
		return nil, err
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))
	return &release, nil
}

// SelectAsset returns the first asset whose name ends with suffix.
// When several assets match, the first in API order wins.
func SelectAsset(assets []ReleaseAsset, suffix string) (ReleaseAsset, error) {
	for _, asset := range assets {
		if strings.HasSuffix(asset.Name, suffix) && asset.BrowserDownloadURL != "" {
			logger.Debug("[DEBUG] Found asset %s for suffix %s\n", asset.Name, suffix)
			return asset, nil
		}
	}
	return ReleaseAsset{}, fmt.Errorf("%w: %w: no asset ending with %q", ErrParse, ErrAssetNotFound, suffix)
}

// DownloadLatestRelease fetches the latest release, picks the license and bundle assets,
// and downloads both into dir. Both assets are required.
func DownloadLatestRelease(ctx context.Context, d *Downloader, rel config.Release, dir string) (ReleaseFiles, error) {
	release, err := FetchLatestRelease(ctx, d, rel.APIURL)
	if err != nil {
		return ReleaseFiles{}, fmt.Errorf("failed to fetch latest winget release: %w", err)
	}
	logger.Info("[INFO] Latest winget version: %s\n", release.TagName)

	license, err := SelectAsset(release.Assets, rel.LicenseSuffix)
	if err != nil {
		return ReleaseFiles{}, fmt.Errorf("release %s: %w", release.TagName, err)
	}
	bundle, err := SelectAsset(release.Assets, rel.BundleSuffix)
	if err != nil {
		return ReleaseFiles{}, fmt.Errorf("release %s: %w", release.TagName, err)
	}

	files := ReleaseFiles{
		Tag:     release.TagName,
		License: filepath.Join(dir, rel.LicenseFile),
		Bundle:  filepath.Join(dir, rel.BundleFile),
	}

	logger.Info("[INFO] Downloading winget license %s...\n", license.Name)
	if err := d.Download(ctx, license.BrowserDownloadURL, files.License); err != nil {
		return ReleaseFiles{}, fmt.Errorf("failed to download license: %w", err)
	}

	logger.Info("[INFO] Downloading winget installer %s...\n", bundle.Name)
	if err := d.Download(ctx, bundle.BrowserDownloadURL, files.Bundle); err != nil {
		return ReleaseFiles{}, fmt.Errorf("failed to download installer bundle: %w", err)
	}

	return files, nil
}
