package keyboard

import (
	"context"
	"sync"
)

// Events is the key-event state shared by the decode task (the only
// writer) and any number of tasks waiting for particular keys.
type Events struct {
	mu      sync.Mutex
	pressed [keyCount]chan struct{}
	counts  [keyCount]uint64
}

func NewEvents() *Events {
	e := &Events{}
	for i := range e.pressed {
		e.pressed[i] = make(chan struct{})
	}
	return e
}

// Press records a press of k and wakes every task waiting for it.
func (e *Events) Press(k Key) {
	if k >= keyCount {
		return
	}
	e.mu.Lock()
	ch := e.pressed[k]
	e.pressed[k] = make(chan struct{})
	e.counts[k]++
	e.mu.Unlock()
	close(ch)
}

// WaitFor suspends until the next press of k. Presses published while the
// caller is not waiting are not replayed.
func (e *Events) WaitFor(ctx context.Context, k Key) error {
	if k >= keyCount {
		<-ctx.Done()
		return ctx.Err()
	}
	e.mu.Lock()
	ch := e.pressed[k]
	e.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Count returns how many presses of k have been published.
func (e *Events) Count(k Key) uint64 {
	if k >= keyCount {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[k]
}
