package batch

import (
	"context"
	"errors"

	"gyuu/internal/processor"
)

// Process loads and compresses jobs one at a time. Files that are not
// images are skipped without an entry. Per-item failures are recorded on
// the entry and do not stop the batch. Cancellation is honoured between
// items only.
func (s *Session) Process(ctx context.Context, p Pipeline, jobs []processor.Job, opts processor.Options, updates chan<- processor.ProgressUpdate) error {
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, ok, err := processor.LoadSource(job)
		if err != nil {
			id := s.Begin(job.Display)
			send(updates, processor.ProgressUpdate{TotalDelta: 1, Current: job.Display})
			_ = s.Fail(id, err)
			s.logger.Warnw("read failed", "file", job.Display, "error", err)
			send(updates, processor.ProgressUpdate{ErrorDelta: 1})
			continue
		}
		if !ok {
			s.logger.Debugw("skipping non-image", "file", job.Display)
			continue
		}

		if _, err := s.ProcessSource(ctx, p, src, opts, updates); err != nil && isContextErr(err) {
			return err
		}
	}
	return nil
}

// ProcessSource runs one in-memory source through p and records the
// outcome. It returns the entry ID and the item error, if any.
func (s *Session) ProcessSource(ctx context.Context, p Pipeline, src processor.SourceFile, opts processor.Options, updates chan<- processor.ProgressUpdate) (string, error) {
	id := s.Begin(src.Name)
	send(updates, processor.ProgressUpdate{TotalDelta: 1, Current: src.Name})

	if err := s.Start(id); err != nil {
		return id, err
	}

	item, err := p.Process(ctx, src, opts)
	if err != nil {
		_ = s.Fail(id, err)
		s.logger.Warnw("compress failed", "file", src.Name, "error", err)
		send(updates, processor.ProgressUpdate{ErrorDelta: 1})
		return id, err
	}

	if err := s.Complete(id, item); err != nil {
		return id, err
	}

	update := processor.ProgressUpdate{
		ProcessedDelta:       1,
		OriginalBytesDelta:   item.OriginalSize,
		CompressedBytesDelta: item.CompressedSize,
	}
	if item.FellBack {
		update.FallbackDelta = 1
	}
	send(updates, update)
	return id, nil
}

func send(updates chan<- processor.ProgressUpdate, u processor.ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
