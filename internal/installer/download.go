package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"winget-bootstrap/internal/logger"
)

const (
	// chunkSize is the buffer used to stream response bodies to disk.
	chunkSize = 8192

	// errorBodyLimit caps how much of a failed response body ends up in an error message.
	errorBodyLimit = 512

	// DefaultUserAgent identifies the tool to the GitHub API, which rejects requests without one.
	DefaultUserAgent = "winget-bootstrap"
)

// Downloader fetches files and JSON documents over HTTP.
type Downloader struct {
	// Client is the HTTP client to use. Nil means http.DefaultClient.
	Client *http.Client
	// UserAgent is sent with every request. Empty means DefaultUserAgent.
	UserAgent string
	// Token, when set, is sent as a bearer token to github.com hosts only.
	Token string
}

// NewDownloader returns a Downloader using the default client and the GITHUB_TOKEN from env, if any.
func NewDownloader(env Environment) *Downloader {
	token, _ := env.Get("GITHUB_TOKEN")
	return &Downloader{
		UserAgent: DefaultUserAgent,
		Token:     strings.TrimSpace(token),
	}
}

// Download streams the body of rawURL into destPath, creating or truncating it.
// The file is complete and closed when Download returns nil.
func (d *Downloader) Download(ctx context.Context, rawURL, destPath string) (err error) {
	resp, err := d.get(ctx, rawURL, "")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body for %s: %v\n", rawURL, cerr)
		}
	}()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	// A close error means the data may not be on disk; it must fail the download.
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", destPath, cerr)
		}
	}()

	// Hiding ReadFrom keeps io.CopyBuffer on the fixed-size buffer.
	buf := make([]byte, chunkSize)
	n, err := io.CopyBuffer(struct{ io.Writer }{out}, resp.Body, buf)
	if err != nil {
		return fmt.Errorf("%w: failed to write response from %s to %s: %v", ErrNetwork, rawURL, destPath, err)
	}

	logger.Debug("[DEBUG] Downloaded %d bytes to: %s\n", n, destPath)
	return nil
}

// GetJSON fetches rawURL and decodes the JSON body into v.
func (d *Downloader) GetJSON(ctx context.Context, rawURL string, v any) error {
	resp, err := d.get(ctx, rawURL, "application/vnd.github+json")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body for %s: %v\n", rawURL, cerr)
		}
	}()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: failed to decode JSON from %s: %v", ErrParse, rawURL, err)
	}
	return nil
}

// get issues the GET request and rejects transport failures and non-2xx responses.
func (d *Downloader) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request for %s: %v", ErrNetwork, rawURL, err)
	}

	ua := d.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if d.Token != "" && isGitHubHost(req.URL) {
		req.Header.Set("Authorization", "Bearer "+d.Token)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	logger.Debug("[DEBUG] GET %s\n", rawURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to GET %s: %v", ErrNetwork, rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s: HTTP status %d: %s",
			ErrNetwork, rawURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp, nil
}

// isGitHubHost reports whether u points at github.com or one of its subdomains.
// Redirect targets (objects.githubusercontent.com, aka.ms) never receive the token.
func isGitHubHost(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "github.com" || strings.HasSuffix(host, ".github.com")
}
