package save

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"gyuu/internal/processor"
)

// ReasonCancelled is the failure reason a host reports when the user backs
// out. It is not an error.
const ReasonCancelled = "cancelled"

var (
	ErrHostTimeout = errors.New("host save timed out")
	ErrUnsafePath  = errors.New("path escapes the save folder")
)

// File is one payload handed to a host, carried as a data URL.
type File struct {
	// Filename may carry slash-separated folders relative to the host's root.
	Filename string
	DataURL  string
}

type FileResult struct {
	Success bool
	Path    string
	Reason  string
}

type BulkResult struct {
	Success bool
	Count   int
	Folder  string
	Reason  string
}

// Host is the optional save bridge provided by the embedding application.
// Failures are reported through Reason; a returned error means the call
// itself broke.
type Host interface {
	SaveFile(ctx context.Context, f File) (FileResult, error)
	SaveAll(ctx context.Context, files []File) (BulkResult, error)
}

// SaveError is a host or fallback save failure other than cancellation.
type SaveError struct {
	Op     string
	Name   string
	Reason string
	Err    error
}

func (e *SaveError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Name != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Name, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *SaveError) Unwrap() error { return e.Err }

func cancelledReason(ctx context.Context) (string, bool) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ReasonCancelled, true
	}
	return "", false
}

// savedName is the path an item is saved under, relative to a host's root.
func savedName(item processor.ResultItem) string {
	if item.RelPath != "" {
		return item.RelPath
	}
	return item.FileName
}

// cleanRelPath normalizes name to a slash-separated relative path that
// stays inside the destination root.
func cleanRelPath(name string) (string, error) {
	p := path.Clean(filepath.ToSlash(name))
	if p == "." || p == ".." || path.IsAbs(p) || strings.HasPrefix(p, "../") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafePath)
	}
	return p, nil
}

// uniqueFiles renames repeats of the same relative path to "name (n).ext"
// so one bulk save never overwrites its own output.
func uniqueFiles(files []File) []File {
	taken := make(map[string]bool, len(files))
	out := make([]File, len(files))
	for i, f := range files {
		name := f.Filename
		if rel, err := cleanRelPath(name); err == nil {
			name = rel
		}
		candidate := name
		for n := 1; taken[candidate]; n++ {
			candidate = numberedName(name, n)
		}
		taken[candidate] = true
		f.Filename = candidate
		out[i] = f
	}
	return out
}
