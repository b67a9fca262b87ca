package keyboard

import (
	"context"
	"sync"

	"github.com/atomicstack/swb-reader/internal/logging/events"
)

// DefaultFIFODepth matches the controller's hardware FIFO.
const DefaultFIFODepth = 31

// Interrupter is implemented by devices that raise a line when new FIFO
// entries arrive, so readers can suspend instead of polling.
type Interrupter interface {
	Interrupt() <-chan struct{}
}

// FIFO is a Device fed by a front end. Entries beyond the depth are dropped,
// as the controller does when its FIFO overflows. Reads never block: an
// empty FIFO yields an idle entry and the interrupt channel signals when
// there is something to read.
type FIFO struct {
	entries chan RawKey
	irq     chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped int
}

func NewFIFO(depth int) *FIFO {
	if depth <= 0 {
		depth = DefaultFIFODepth
	}
	return &FIFO{
		entries: make(chan RawKey, depth),
		irq:     make(chan struct{}, 1),
	}
}

// Push enqueues a raw entry without blocking. It reports false when the
// entry was dropped.
func (f *FIFO) Push(raw RawKey) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	select {
	case f.entries <- raw:
	default:
		f.dropped++
		dropped := f.dropped
		f.mu.Unlock()
		events.Keyboard.Overflow(raw.State.String(), raw.Code, dropped)
		return false
	}
	f.mu.Unlock()
	f.raise()
	return true
}

// Tap pushes a press followed by its release, as one keystroke at the
// terminal produces. It reports false if either entry was dropped.
func (f *FIFO) Tap(code byte) bool {
	pressed := f.Push(RawKey{State: StatePressed, Code: code})
	released := f.Push(RawKey{State: StateReleased, Code: code})
	return pressed && released
}

func (f *FIFO) ReadFIFO(ctx context.Context) (RawKey, error) {
	if err := ctx.Err(); err != nil {
		return RawKey{}, err
	}
	select {
	case raw := <-f.entries:
		return raw, nil
	default:
	}
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return RawKey{}, ErrBusClosed
	}
	return RawKey{State: StateIdle}, nil
}

func (f *FIFO) Interrupt() <-chan struct{} {
	return f.irq
}

// Close makes reads fail with ErrBusClosed once the FIFO has drained.
func (f *FIFO) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.raise()
}

func (f *FIFO) raise() {
	select {
	case f.irq <- struct{}{}:
	default:
	}
}
