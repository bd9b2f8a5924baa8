// filepath: internal/mpv/download.go
package mpv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"runtime"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/storage"
)

const (
	downloadURLDarwin  = "https://github.com/aramrw/mpv_shelf_v2/releases/download/v0.0.1/mpv-aarch64-apple-darwin"
	downloadURLWindows = "https://github.com/aramrw/mpv_shelf_v2/releases/download/v0.0.1/mpv-x86_64-pc-windows-msvc.exe"
)

// ProgressFunc receives download progress as a 0-100 percentage.
type ProgressFunc func(percent int)

func downloadSource() (url, filename string, err error) {
	switch runtime.GOOS {
	case "darwin":
		return downloadURLDarwin, "mpv", nil
	case "windows":
		return downloadURLWindows, "mpv.exe", nil
	default:
		return "", "", fmt.Errorf("no bundled mpv build for %s, install it from your package manager", runtime.GOOS)
	}
}

// progressReader reports read progress as a 0-100 percentage.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.progress != nil && p.total > 0 {
		p.progress(int(float64(p.read) / float64(p.total) * 100))
	}
	return n, err
}

// DownloadBinary fetches a prebuilt mpv binary into dataDir's binary
// directory and returns the installed executable path. progress may be nil.
func DownloadBinary(ctx context.Context, dataDir string, progress ProgressFunc) (string, error) {
	url, filename, err := downloadSource()
	if err != nil {
		return "", err
	}

	binDir, err := storage.BinDir(dataDir)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading mpv: unexpected status %s", resp.Status)
	}

	if progress != nil {
		progress(0)
	}

	destPath := filepath.Join(binDir, filename)
	body := &progressReader{r: resp.Body, total: resp.ContentLength, progress: progress}
	if _, err := storage.SaveFile(body, destPath, 0755); err != nil {
		return "", err
	}

	if progress != nil {
		progress(100)
	}

	logging.Log.WithField("path", destPath).Info("Downloaded mpv binary")
	return destPath, nil
}
