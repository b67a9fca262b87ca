// Package scroll turns scroll-key presses into scroll commands and applies
// them to the page window.
package scroll

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/atomicstack/swb-reader/internal/keyboard"
	"github.com/atomicstack/swb-reader/internal/mailbox"
)

// DefaultLinesPerScroll is the step applied by one consumed command.
const DefaultLinesPerScroll = 5

type Command int

const (
	Up Command = iota
	Down
)

func (c Command) String() string {
	switch c {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Apply moves start by step lines. Scrolling up clamps at zero; scrolling
// down has no upper bound, a page past the end simply renders nothing.
func Apply(start int, cmd Command, step int) int {
	switch cmd {
	case Up:
		start -= step
		if start < 0 {
			start = 0
		}
	case Down:
		start += step
	}
	return start
}

// Source watches the two scroll keys and notifies a shared mailbox. The
// mailbox coalesces, so presses that arrive before the consumer reads
// collapse into a single step.
type Source struct {
	keys     *keyboard.Events
	up, down keyboard.Key
	out      *mailbox.Mailbox[Command]
}

func NewSource(keys *keyboard.Events, up, down keyboard.Key, out *mailbox.Mailbox[Command]) *Source {
	return &Source{keys: keys, up: up, down: down, out: out}
}

// Run runs both watchers until ctx is done.
func (s *Source) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.watch(ctx, s.up, Up) })
	g.Go(func() error { return s.watch(ctx, s.down, Down) })
	return g.Wait()
}

func (s *Source) watch(ctx context.Context, key keyboard.Key, cmd Command) error {
	for {
		if err := s.keys.WaitFor(ctx, key); err != nil {
			return err
		}
		s.out.Notify(cmd)
	}
}
