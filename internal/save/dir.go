package save

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gyuu/pkg/imgutil"
)

// DirHost saves into a fixed directory, standing in for a native save
// dialog that always picks Dir.
type DirHost struct {
	Dir string
}

func (h DirHost) SaveFile(ctx context.Context, f File) (FileResult, error) {
	if reason, ok := cancelledReason(ctx); ok {
		return FileResult{Reason: reason}, nil
	}

	path, err := h.write(f)
	if err != nil {
		return FileResult{Reason: err.Error()}, nil
	}
	return FileResult{Success: true, Path: path}, nil
}

func (h DirHost) SaveAll(ctx context.Context, files []File) (BulkResult, error) {
	if reason, ok := cancelledReason(ctx); ok {
		return BulkResult{Reason: reason}, nil
	}

	folder, err := filepath.Abs(h.Dir)
	if err != nil {
		return BulkResult{Reason: err.Error()}, nil
	}

	saved := 0
	for _, f := range uniqueFiles(files) {
		if reason, ok := cancelledReason(ctx); ok {
			return BulkResult{Reason: reason}, nil
		}
		if _, err := h.write(f); err != nil {
			return BulkResult{Reason: err.Error()}, nil
		}
		saved++
	}
	return BulkResult{Success: true, Count: saved, Folder: folder}, nil
}

func (h DirHost) write(f File) (string, error) {
	_, data, err := imgutil.DecodeDataURL(f.DataURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Filename, err)
	}
	rel, err := cleanRelPath(f.Filename)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(h.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if err := writeAtomic(dest, data); err != nil {
		return "", err
	}
	return dest, nil
}

// writeAtomic writes through a temp file in the destination directory and
// renames it into place.
func writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "gyuu-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return replaceFile(tmp.Name(), dest)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
