package processor

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gyuu/pkg/imgutil"
)

// Discover lists the regular files under root. A file root yields itself.
// Subdirectories are entered only when recursive is set; skipDir (usually
// the output folder) is never entered.
func Discover(ctx context.Context, root string, recursive bool, skipDir string) ([]Job, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		name := filepath.Base(absRoot)
		return []Job{{Path: absRoot, RelPath: name, Display: name}}, nil
	}

	var skipAbs string
	if skipDir != "" {
		if abs, absErr := filepath.Abs(skipDir); absErr == nil {
			skipAbs = filepath.Clean(abs)
		}
	}

	var jobs []Job
	err = fs.WalkDir(os.DirFS(absRoot), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path == "." {
				return nil
			}
			if !recursive {
				return fs.SkipDir
			}
			if skipAbs != "" && isWithin(filepath.Join(absRoot, path), skipAbs) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		jobs = append(jobs, Job{
			Path:    filepath.Join(absRoot, path),
			RelPath: path,
			Display: path,
		})
		return nil
	})
	if err != nil {
		return jobs, err
	}
	return jobs, nil
}

// LoadSource reads job into memory. ok is false when the file is not a
// recognised image, in which case nothing beyond the header is read.
func LoadSource(job Job) (SourceFile, bool, error) {
	f, err := os.Open(job.Path)
	if err != nil {
		return SourceFile{}, false, err
	}
	defer f.Close()

	kind, err := imgutil.SniffReader(f)
	if err != nil {
		return SourceFile{}, false, err
	}
	if kind == imgutil.KindUnknown {
		return SourceFile{}, false, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return SourceFile{}, false, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return SourceFile{}, false, err
	}

	dir := filepath.ToSlash(filepath.Dir(job.RelPath))
	if dir == "." {
		dir = ""
	}
	return SourceFile{
		Name: filepath.Base(job.Path),
		Dir:  dir,
		MIME: kind.MIME(),
		Data: data,
	}, true, nil
}

func isWithin(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
