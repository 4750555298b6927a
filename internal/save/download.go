package save

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDownloadPause spaces out bulk downloads.
const DefaultDownloadPause = 100 * time.Millisecond

// Downloader is the fallback used when no host is available. It drops raw
// payloads into Dir and never overwrites, renaming to "name (1).ext" the
// way browsers do.
type Downloader struct {
	Dir   string
	Pause time.Duration
}

// DefaultDownloadDir is ~/Downloads when it exists, else the working
// directory.
func DefaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "."
}

// Download writes payload under a free variant of filename and returns the
// path used.
func (d Downloader) Download(ctx context.Context, filename string, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := d.Dir
	if dir == "" {
		dir = DefaultDownloadDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := filepath.Base(filename)

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = numberedName(name, i)
		}
		dest := filepath.Join(dir, candidate)

		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(payload); err != nil {
			_ = f.Close()
			_ = os.Remove(dest)
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return dest, nil
	}
}

// Wait sleeps for the configured pause or until ctx is done.
func (d Downloader) Wait(ctx context.Context) error {
	if d.Pause <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.Pause)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// numberedName turns "dir/photo.png" into "dir/photo (n).png".
func numberedName(name string, n int) string {
	dir, base := path.Split(name)
	ext := path.Ext(base)
	return fmt.Sprintf("%s%s (%d)%s", dir, strings.TrimSuffix(base, ext), n, ext)
}
