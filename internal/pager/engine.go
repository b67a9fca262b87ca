package pager

import (
	"context"
	"fmt"

	"github.com/atomicstack/swb-reader/internal/document"
	"github.com/atomicstack/swb-reader/internal/logging/events"
	"github.com/atomicstack/swb-reader/internal/mailbox"
	"github.com/atomicstack/swb-reader/internal/scroll"
)

// Canvas is the framebuffer while the engine holds it.
type Canvas interface {
	LineRenderer
	Clear()
	RequestRedraw()
}

// Surface hands out the framebuffer for one page at a time. Page runs draw
// with exclusive access and releases it on every return path.
type Surface interface {
	Page(ctx context.Context, draw func(Canvas) error) error
}

// Status describes the page currently on screen.
type Status struct {
	StartLine int
	Rendered  int
	Lines     int // logical lines in the document
}

type Options struct {
	LinesPerScroll int
	// Status, when set, receives the window after every pass.
	Status *mailbox.Mailbox[Status]
}

// Engine is the render loop: draw a page, request a redraw, wait for a
// scroll command, move the window, repeat.
type Engine struct {
	prog     *document.Program
	surface  Surface
	scrolls  *mailbox.Mailbox[scroll.Command]
	capacity int
	step     int
	status   *mailbox.Mailbox[Status]
	lines    int
}

func NewEngine(prog *document.Program, surface Surface, capacity int, scrolls *mailbox.Mailbox[scroll.Command], opts Options) *Engine {
	step := opts.LinesPerScroll
	if step <= 0 {
		step = scroll.DefaultLinesPerScroll
	}
	return &Engine{
		prog:     prog,
		surface:  surface,
		scrolls:  scrolls,
		capacity: capacity,
		step:     step,
		status:   opts.Status,
		lines:    prog.LineCount(),
	}
}

// Run never returns on its own; it stops on ctx cancellation or the first
// render fault. The framebuffer is held from the clear through the redraw
// request and released while waiting for the next scroll.
func (e *Engine) Run(ctx context.Context) error {
	start := 0
	for {
		var res Result
		err := e.surface.Page(ctx, func(c Canvas) error {
			c.Clear()
			var err error
			res, err = Render(ctx, e.prog, Window{StartLine: start, Capacity: e.capacity}, c)
			if err != nil {
				return err
			}
			c.RequestRedraw()
			return nil
		})
		if err != nil {
			return fmt.Errorf("render page at line %d: %w", start, err)
		}
		events.Pager.Pass(start, res.Rendered, res.Line)
		if e.status != nil {
			e.status.Notify(Status{StartLine: start, Rendered: res.Rendered, Lines: e.lines})
		}

		cmd, err := e.scrolls.Wait(ctx)
		if err != nil {
			return err
		}
		start = scroll.Apply(start, cmd, e.step)
		events.Pager.Scroll(cmd.String(), start)
	}
}
