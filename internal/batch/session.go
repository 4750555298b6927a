package batch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gyuu/internal/processor"
)

// Status is the lifecycle state of one entry.
type Status int

const (
	StatusPending Status = iota
	StatusProcessing
	StatusReady
	StatusFailed
	StatusRemoved
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound          = errors.New("no such item")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// IDGenerator hands out identities that are unique within a session.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// CounterGenerator yields "1", "2", ... and is safe for concurrent use.
type CounterGenerator struct {
	n atomic.Uint64
}

func (g *CounterGenerator) NewID() string {
	return strconv.FormatUint(g.n.Add(1), 10)
}

// Pipeline compresses a single source.
type Pipeline interface {
	Process(ctx context.Context, src processor.SourceFile, opts processor.Options) (processor.ResultItem, error)
}

type Entry struct {
	ID     string
	Name   string
	Status Status
	Item   processor.ResultItem
	Err    error
}

// Session owns the registry of one run. Entries keep insertion order;
// replacing an item keeps its position.
type Session struct {
	mu      sync.RWMutex
	ids     IDGenerator
	order   []string
	entries map[string]*Entry
	logger  *zap.SugaredLogger
}

func NewSession(ids IDGenerator, logger *zap.SugaredLogger) *Session {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{
		ids:     ids,
		entries: make(map[string]*Entry),
		logger:  logger,
	}
}

// Begin registers a pending entry for name and returns its ID.
func (s *Session) Begin(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.NewID()
	s.entries[id] = &Entry{ID: id, Name: name, Status: StatusPending}
	s.order = append(s.order, id)
	return id
}

// Start moves a pending entry to processing.
func (s *Session) Start(id string) error {
	return s.transition(id, func(e *Entry) error {
		if e.Status != StatusPending {
			return fmt.Errorf("%w: %s -> processing", ErrInvalidTransition, e.Status)
		}
		e.Status = StatusProcessing
		return nil
	})
}

// Complete stores item for a processing entry and marks it ready.
func (s *Session) Complete(id string, item processor.ResultItem) error {
	return s.transition(id, func(e *Entry) error {
		if e.Status != StatusProcessing {
			return fmt.Errorf("%w: %s -> ready", ErrInvalidTransition, e.Status)
		}
		item.ID = id
		e.Item = item
		e.Status = StatusReady
		return nil
	})
}

// Fail records cause on a pending or processing entry.
func (s *Session) Fail(id string, cause error) error {
	return s.transition(id, func(e *Entry) error {
		if e.Status != StatusPending && e.Status != StatusProcessing {
			return fmt.Errorf("%w: %s -> failed", ErrInvalidTransition, e.Status)
		}
		e.Err = cause
		e.Status = StatusFailed
		return nil
	})
}

func (s *Session) transition(id string, fn func(*Entry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fn(e)
}

// AddOrReplace stores item as ready. An empty ID gets a fresh identity; a
// known ID replaces that entry wholesale in place. It returns the ID used.
func (s *Session) AddOrReplace(item processor.ResultItem) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = s.ids.NewID()
	}
	if _, ok := s.entries[item.ID]; !ok {
		s.order = append(s.order, item.ID)
	}
	s.entries[item.ID] = &Entry{
		ID:     item.ID,
		Name:   item.OriginalName,
		Status: StatusReady,
		Item:   item,
	}
	return item.ID
}

// Remove drops a ready or failed entry. In-flight entries cannot be removed.
func (s *Session) Remove(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if e.Status != StatusReady && e.Status != StatusFailed {
		return Entry{}, fmt.Errorf("%w: %s -> removed", ErrInvalidTransition, e.Status)
	}

	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	removed := *e
	removed.Status = StatusRemoved
	return removed, nil
}

func (s *Session) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries returns a snapshot of every entry in insertion order.
func (s *Session) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.entries[id])
	}
	return out
}

// Items returns the ready results in insertion order.
func (s *Session) Items() []processor.ResultItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]processor.ResultItem, 0, len(s.order))
	for _, id := range s.order {
		if e := s.entries[id]; e.Status == StatusReady {
			out = append(out, e.Item)
		}
	}
	return out
}

// Summary recomputes totals over the ready entries.
func (s *Session) Summary() Summary {
	return Summarize(s.Items())
}
