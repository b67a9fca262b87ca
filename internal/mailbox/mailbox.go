// Package mailbox provides a single-slot, latest-wins handoff between tasks.
//
// A Mailbox is not a queue. Notify overwrites any value that has not been
// taken yet, so a consumer only ever observes the most recent value
// deposited before its Wait returns. It is shared by the scroll fan-in, the
// display redraw signal and the status line.
package mailbox

import (
	"context"
	"sync"
)

// Mailbox holds at most one undelivered value of type T. The zero value is
// an empty mailbox ready to use.
type Mailbox[T any] struct {
	mu    sync.Mutex
	value T
	full  bool
	ready chan struct{}
}

// New returns an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// signal returns the wake-up channel, creating it for zero-value
// mailboxes. m.mu must be held.
func (m *Mailbox[T]) signal() chan struct{} {
	if m.ready == nil {
		m.ready = make(chan struct{}, 1)
	}
	return m.ready
}

// Notify deposits v, replacing any value not yet consumed, and wakes at most
// one waiting consumer. It never blocks.
func (m *Mailbox[T]) Notify(v T) {
	m.mu.Lock()
	m.value = v
	m.full = true
	ready := m.signal()
	m.mu.Unlock()
	select {
	case ready <- struct{}{}:
	default:
	}
}

// Wait suspends until a value is present, then removes and returns it.
func (m *Mailbox[T]) Wait(ctx context.Context) (T, error) {
	for {
		m.mu.Lock()
		if m.full {
			v := m.take()
			m.mu.Unlock()
			return v, nil
		}
		ready := m.signal()
		m.mu.Unlock()
		select {
		case <-ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryTake removes and returns the pending value without suspending.
func (m *Mailbox[T]) TryTake() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		var zero T
		return zero, false
	}
	return m.take(), true
}

func (m *Mailbox[T]) take() T {
	var zero T
	v := m.value
	m.value = zero
	m.full = false
	return v
}
