package keyboard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"
)

var ErrBusClosed = errors.New("keyboard bus closed")

// Device is the keyboard controller as seen over the bus.
type Device interface {
	// ReadFIFO returns the next FIFO entry, StateIdle when empty.
	ReadFIFO(ctx context.Context) (RawKey, error)
}

// SharedBus serialises access to a bus shared with other peripherals. Only
// one holder talks to the bus at a time; other callers suspend until it is
// released.
type SharedBus struct {
	sem *semaphore.Weighted
	dev Device
}

func NewSharedBus(dev Device) *SharedBus {
	return &SharedBus{sem: semaphore.NewWeighted(1), dev: dev}
}

// Interrupt exposes the device's interrupt line, or nil when it has none.
func (b *SharedBus) Interrupt() <-chan struct{} {
	if irq, ok := b.dev.(Interrupter); ok {
		return irq.Interrupt()
	}
	return nil
}

// Do runs fn with exclusive access to the device.
func (b *SharedBus) Do(ctx context.Context, fn func(Device) error) error {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer b.sem.Release(1)
	return fn(b.dev)
}

// ReadKey performs one FIFO read under exclusive access.
func (b *SharedBus) ReadKey(ctx context.Context) (RawKey, error) {
	var raw RawKey
	err := b.Do(ctx, func(dev Device) error {
		var err error
		raw, err = dev.ReadFIFO(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return RawKey{}, err
		}
		return RawKey{}, fmt.Errorf("read keyboard fifo: %w", err)
	}
	return raw, nil
}
