// Package broadcast distributes the latest rendered body to any number of
// readers.
//
// A Slot holds one value and a version counter. Writers overwrite the value
// and never wait for readers; each Subscriber keeps a cursor and only ever
// observes versions newer than the last one it returned. Slow readers skip
// intermediate values instead of queueing them.
package broadcast

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Next once the slot is closed.
var ErrClosed = errors.New("broadcast slot closed")

// Slot is a versioned single-value cell. It is safe for concurrent use.
type Slot struct {
	mu      sync.Mutex
	cond    *sync.Cond
	value   string
	version uint64
	closed  bool
}

// New creates an empty Slot at version 0.
func New() *Slot {
	s := &Slot{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Publish replaces the current value, increments the version and wakes all
// waiting subscribers. It returns the new version. Publishing to a closed
// slot is a no-op that returns the last version.
func (s *Slot) Publish(value string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.version
	}
	s.value = value
	s.version++
	s.cond.Broadcast()
	return s.version
}

// Current returns the current value and its version. Version 0 means
// nothing was published yet.
func (s *Slot) Current() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.version
}

// Close wakes every subscriber with ErrClosed. Closing twice is a no-op.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cond.Broadcast()
}

// Closed reports whether Close was called.
func (s *Slot) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Subscribe returns a reader that has observed nothing, so its first Next
// returns the current value if one was published.
func (s *Slot) Subscribe() *Subscriber {
	return &Subscriber{slot: s}
}

// Subscriber reads a Slot. A Subscriber must not be shared between
// goroutines.
type Subscriber struct {
	slot   *Slot
	cursor uint64
}

// Cursor returns the version of the last value returned by Next.
func (sub *Subscriber) Cursor() uint64 {
	return sub.cursor
}

// Next blocks until the slot holds a version newer than the cursor, then
// returns that value and version and advances the cursor. It returns
// ErrClosed once the slot is closed and ctx.Err() when ctx ends first.
func (sub *Subscriber) Next(ctx context.Context) (string, uint64, error) {
	if err := ctx.Err(); err != nil {
		return "", sub.cursor, err
	}

	s := sub.slot
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cond.Broadcast()
	})
	defer stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.closed && s.version <= sub.cursor && ctx.Err() == nil {
		s.cond.Wait()
	}

	switch {
	case s.closed:
		return "", sub.cursor, ErrClosed
	case s.version <= sub.cursor:
		return "", sub.cursor, ctx.Err()
	}

	sub.cursor = s.version
	return s.value, s.version, nil
}
