package save

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gyuu/internal/processor"
)

// DefaultTimeout bounds a single host call.
const DefaultTimeout = 30 * time.Second

// Outcome describes where a single save went.
type Outcome struct {
	Path      string
	Cancelled bool
	// Fallback is set when the downloader handled the save.
	Fallback bool
}

// BulkOutcome describes a bulk save.
type BulkOutcome struct {
	Count     int
	Folder    string
	Cancelled bool
	Fallback  bool
	Paths     []string
}

// Manager routes saves to the host when one is configured and to the
// downloader otherwise.
type Manager struct {
	host     Host
	fallback Downloader
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

// NewManager builds a Manager. host may be nil; timeout <= 0 uses
// DefaultTimeout.
func NewManager(host Host, fallback Downloader, timeout time.Duration, logger *zap.SugaredLogger) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Manager{host: host, fallback: fallback, timeout: timeout, logger: logger}
}

// Save stores one item. A host that errors or times out hands the item to
// the downloader; a host that reports a non-cancel reason yields *SaveError.
func (m *Manager) Save(ctx context.Context, item processor.ResultItem) (Outcome, error) {
	if m.host == nil {
		return m.download(ctx, item)
	}

	res, err := callWithTimeout(ctx, m.timeout, func(ctx context.Context) (FileResult, error) {
		return m.host.SaveFile(ctx, File{Filename: savedName(item), DataURL: item.Preview})
	})
	if err != nil {
		m.logger.Warnw("host save failed, falling back to download", "file", item.FileName, "error", err)
		return m.download(ctx, item)
	}

	switch {
	case res.Success:
		m.logger.Infow("saved", "file", item.FileName, "path", res.Path)
		return Outcome{Path: res.Path}, nil
	case res.Reason == ReasonCancelled:
		return Outcome{Cancelled: true}, nil
	default:
		return Outcome{}, &SaveError{Op: "save", Name: item.FileName, Reason: res.Reason}
	}
}

// SaveAll stores every item. Any failure other than cancellation aborts
// the operation with *SaveError; files written before the failure stay.
func (m *Manager) SaveAll(ctx context.Context, items []processor.ResultItem) (BulkOutcome, error) {
	if len(items) == 0 {
		return BulkOutcome{}, nil
	}

	if m.host == nil {
		return m.downloadAll(ctx, items)
	}

	files := make([]File, 0, len(items))
	for _, item := range items {
		files = append(files, File{Filename: savedName(item), DataURL: item.Preview})
	}

	res, err := callWithTimeout(ctx, m.timeout, func(ctx context.Context) (BulkResult, error) {
		return m.host.SaveAll(ctx, files)
	})
	if err != nil {
		return BulkOutcome{}, &SaveError{Op: "save all", Err: err}
	}

	switch {
	case res.Success:
		m.logger.Infow("saved batch", "count", res.Count, "folder", res.Folder)
		return BulkOutcome{Count: res.Count, Folder: res.Folder}, nil
	case res.Reason == ReasonCancelled:
		return BulkOutcome{Cancelled: true}, nil
	default:
		return BulkOutcome{}, &SaveError{Op: "save all", Reason: res.Reason}
	}
}

func (m *Manager) download(ctx context.Context, item processor.ResultItem) (Outcome, error) {
	path, err := m.fallback.Download(ctx, item.FileName, item.Payload)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Outcome{Cancelled: true, Fallback: true}, nil
		}
		return Outcome{}, &SaveError{Op: "download", Name: item.FileName, Err: err}
	}
	return Outcome{Path: path, Fallback: true}, nil
}

func (m *Manager) downloadAll(ctx context.Context, items []processor.ResultItem) (BulkOutcome, error) {
	out := BulkOutcome{Fallback: true, Folder: m.fallback.Dir}
	if out.Folder == "" {
		out.Folder = DefaultDownloadDir()
	}

	for i, item := range items {
		if i > 0 {
			if err := m.fallback.Wait(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					out.Cancelled = true
					return out, nil
				}
				return out, &SaveError{Op: "download", Err: err}
			}
		}

		res, err := m.download(ctx, item)
		if err != nil {
			return out, err
		}
		if res.Cancelled {
			out.Cancelled = true
			return out, nil
		}
		out.Paths = append(out.Paths, res.Path)
		out.Count++
	}
	return out, nil
}

type result[T any] struct {
	val T
	err error
}

// callWithTimeout runs fn under a deadline and gives up waiting if fn
// ignores it.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrHostTimeout, timeout)
		}
		return zero, ctx.Err()
	}
}
