package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"winget-bootstrap/internal/config"
)

func TestResolveTempDir(t *testing.T) {
	t.Parallel()

	require.Equal(t, `D:\scratch`, ResolveTempDir(Environment{"TEMP": `C:\Temp`}, `D:\scratch`))
	require.Equal(t, `C:\Temp`, ResolveTempDir(Environment{"Temp": `C:\Temp`, "USERPROFILE": `C:\Users\dev`}, ""))
	require.Equal(t, filepath.Join(`C:\Users\dev`, "AppData", "Local", "Temp"),
		ResolveTempDir(Environment{"USERPROFILE": `C:\Users\dev`}, ""))
	require.Equal(t, os.TempDir(), ResolveTempDir(Environment{}, ""))
}

func TestDownloadPrerequisitesInOrder(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, map[string]string{"/a": "A", "/b": "B"})
	dir := t.TempDir()
	downloads := []config.Download{
		{Name: "First", URL: srv.URL + "/a", File: "first.appx", Version: "1.0"},
		{Name: "Second", URL: srv.URL + "/b", File: "second.appx"},
	}

	paths, err := DownloadPrerequisites(context.Background(), &Downloader{Client: srv.Client()}, downloads, dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "first.appx"), filepath.Join(dir, "second.appx")}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Equal(t, "B", string(data))
}

func TestDownloadPrerequisitesStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	srv := newCountingServer(t, map[string]string{"/b": "B"})
	downloads := []config.Download{
		{Name: "First", URL: srv.URL + "/missing", File: "first.appx"},
		{Name: "Second", URL: srv.URL + "/b", File: "second.appx"},
	}

	_, err := DownloadPrerequisites(context.Background(), &Downloader{Client: srv.Client()}, downloads, t.TempDir())
	require.ErrorIs(t, err, ErrNetwork)
	require.Contains(t, err.Error(), "First")
	require.EqualValues(t, 1, srv.hits.Load())
}
