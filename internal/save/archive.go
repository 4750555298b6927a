package save

import (
	"archive/tar"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"gyuu/pkg/imgutil"
)

// ArchiveHost saves bulk results into one zstd-compressed tar file at Path.
// Single files are written next to the archive.
type ArchiveHost struct {
	Path string
}

func (h ArchiveHost) SaveFile(ctx context.Context, f File) (FileResult, error) {
	return DirHost{Dir: filepath.Dir(h.Path)}.SaveFile(ctx, f)
}

func (h ArchiveHost) SaveAll(ctx context.Context, files []File) (BulkResult, error) {
	if reason, ok := cancelledReason(ctx); ok {
		return BulkResult{Reason: reason}, nil
	}

	dir := filepath.Dir(h.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BulkResult{Reason: err.Error()}, nil
	}

	tmp, err := os.CreateTemp(dir, "gyuu-*.tar.zst.tmp")
	if err != nil {
		return BulkResult{Reason: err.Error()}, nil
	}
	defer os.Remove(tmp.Name())

	count, err := writeArchive(ctx, tmp, uniqueFiles(files))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if reason, ok := cancelledReason(ctx); ok {
			return BulkResult{Reason: reason}, nil
		}
		return BulkResult{Reason: err.Error()}, nil
	}

	if err := replaceFile(tmp.Name(), h.Path); err != nil {
		return BulkResult{Reason: err.Error()}, nil
	}

	abs, err := filepath.Abs(h.Path)
	if err != nil {
		abs = h.Path
	}
	return BulkResult{Success: true, Count: count, Folder: abs}, nil
}

func writeArchive(ctx context.Context, out *os.File, files []File) (int, error) {
	zw, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, err
	}
	tw := tar.NewWriter(zw)

	now := time.Now()
	count := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return count, err
		}

		_, data, err := imgutil.DecodeDataURL(f.DataURL)
		if err != nil {
			_ = zw.Close()
			return count, fmt.Errorf("%s: %w", f.Filename, err)
		}
		name, err := cleanRelPath(f.Filename)
		if err != nil {
			_ = zw.Close()
			return count, err
		}

		hdr := &tar.Header{
			Name:    name,
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: now,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			_ = zw.Close()
			return count, err
		}
		if _, err := tw.Write(data); err != nil {
			_ = zw.Close()
			return count, err
		}
		count++
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return count, err
	}
	return count, zw.Close()
}
