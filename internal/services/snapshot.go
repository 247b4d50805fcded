package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot holds an immutable value behind an atomic pointer. Readers always
// see either the previous value or the fully-built replacement, never a
// partially populated one. Refresh is serialized so overlapping timers or
// manual triggers never duplicate backing-store loads.
type Snapshot[T any] struct {
	current atomic.Pointer[snapshotState[T]]

	mu         sync.Mutex
	ttl        time.Duration
	refreshing atomic.Bool
}

type snapshotState[T any] struct {
	value    *T
	loadedAt time.Time
}

// NewSnapshot creates an empty snapshot holder. The value is unavailable
// until the first successful Refresh.
func NewSnapshot[T any](ttl time.Duration) *Snapshot[T] {
	return &Snapshot[T]{ttl: ttl}
}

// Get returns the current value and its load time. ok is false before the
// first successful Refresh.
func (s *Snapshot[T]) Get() (value *T, loadedAt time.Time, ok bool) {
	state := s.current.Load()
	if state == nil {
		return nil, time.Time{}, false
	}
	return state.value, state.loadedAt, true
}

// Stale reports whether the snapshot is older than its TTL (or missing).
func (s *Snapshot[T]) Stale() bool {
	state := s.current.Load()
	if state == nil {
		return true
	}
	return time.Since(state.loadedAt) > s.ttl
}

// Refreshing reports whether a refresh is currently in flight.
func (s *Snapshot[T]) Refreshing() bool {
	return s.refreshing.Load()
}

// Refresh builds a replacement value and swaps it in atomically. On build
// failure the previous value stays in effect (stale-but-available) and the
// error is returned to the caller.
func (s *Snapshot[T]) Refresh(ctx context.Context, build func(ctx context.Context) (*T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshing.Store(true)
	defer s.refreshing.Store(false)

	value, err := build(ctx)
	if err != nil {
		return err
	}

	s.current.Store(&snapshotState[T]{value: value, loadedAt: time.Now()})
	return nil
}

// Invalidate marks the snapshot stale so the next timer tick reloads it.
// The current value remains readable until the reload lands. It holds the
// refresh lock: an unserialized load-then-store here could republish the
// old value over one a concurrent Refresh just swapped in.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.current.Load()
	if state == nil {
		return
	}
	s.current.Store(&snapshotState[T]{value: state.value, loadedAt: time.Time{}})
}
