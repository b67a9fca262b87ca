package keyboard

import (
	"context"
	"time"

	"github.com/atomicstack/swb-reader/internal/backend"
	"github.com/atomicstack/swb-reader/internal/logging/events"
)

// Driver is the decode task: it drains the controller FIFO over the shared
// bus and publishes decoded presses.
type Driver struct {
	bus    *SharedBus
	events *Events
	idle   *backend.Throttle
}

// NewDriver builds a driver that polls an empty FIFO at most once per
// pollInterval when the device has no interrupt line.
func NewDriver(bus *SharedBus, ev *Events, pollInterval time.Duration) *Driver {
	return &Driver{bus: bus, events: ev, idle: backend.NewThrottle(pollInterval)}
}

// Run decodes until ctx is done or the bus faults. Bus faults are returned
// unchanged; the caller treats them as fatal.
func (d *Driver) Run(ctx context.Context) error {
	irq := d.bus.Interrupt()
	for {
		raw, err := d.bus.ReadKey(ctx)
		if err != nil {
			return err
		}
		if raw.State == StateIdle {
			if err := d.suspend(ctx, irq); err != nil {
				return err
			}
			continue
		}
		key, ok := Decode(raw)
		if !ok {
			events.Keyboard.Drop(raw.State.String(), raw.Code)
			continue
		}
		d.events.Press(key)
		events.Keyboard.Press(key.String(), d.events.Count(key))
	}
}

func (d *Driver) suspend(ctx context.Context, irq <-chan struct{}) error {
	if irq == nil {
		return d.idle.Wait(ctx)
	}
	select {
	case <-irq:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
