// Package display is the framebuffer side of the device: a fixed grid of
// styled rows, scoped exclusive access for drawing, a coalescing redraw
// request and the flush loop that hands finished frames to the front end.
//
// A redraw request copies the framebuffer while the requester still holds
// it, so drawing that starts after the request never leaks into a flush.
package display

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sync/semaphore"

	"github.com/atomicstack/swb-reader/internal/backend"
	"github.com/atomicstack/swb-reader/internal/logging/events"
	"github.com/atomicstack/swb-reader/internal/mailbox"
	"github.com/atomicstack/swb-reader/internal/style"
)

var ErrRowOutOfRange = errors.New("display row out of range")

// Geometry describes the drawable area in terminal cells.
type Geometry struct {
	Width      int // columns; 0 leaves rows unclipped
	Height     int // rows
	LineHeight int // rows consumed by one logical line
}

// Capacity is the number of logical lines that fit on screen.
func (g Geometry) Capacity() int {
	if g.LineHeight <= 0 || g.Height <= 0 {
		return 0
	}
	return g.Height / g.LineHeight
}

// Line is one drawn row of the framebuffer.
type Line struct {
	Text  string
	Style style.Style
}

// Snapshot is a flushed copy of the framebuffer.
type Snapshot struct {
	Seq      uint64
	Geometry Geometry
	Lines    []Line
}

// Display owns the framebuffer.
type Display struct {
	geom   Geometry
	sem    *semaphore.Weighted
	lines  []Line
	seq    uint64
	redraw *mailbox.Mailbox[Snapshot]
	pace   *backend.Throttle
}

// New returns a cleared display that flushes at most once per flushInterval.
func New(geom Geometry, flushInterval time.Duration) *Display {
	return &Display{
		geom:   geom,
		sem:    semaphore.NewWeighted(1),
		lines:  make([]Line, geom.Capacity()),
		redraw: mailbox.New[Snapshot](),
		pace:   backend.NewThrottle(flushInterval),
	}
}

func (d *Display) Geometry() Geometry {
	return d.geom
}

// Frame is exclusive access to the framebuffer, valid until released.
type Frame struct {
	d *Display
}

// Acquire suspends until the framebuffer is free. The returned release
// function must be called exactly once.
func (d *Display) Acquire(ctx context.Context) (*Frame, func(), error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}
	f := &Frame{d: d}
	return f, func() {
		f.d = nil
		d.sem.Release(1)
	}, nil
}

// With runs fn holding the framebuffer and releases it on every return path.
func (d *Display) With(ctx context.Context, fn func(*Frame) error) error {
	f, release, err := d.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(f)
}

// Clear blanks every row.
func (f *Frame) Clear() {
	for i := range f.d.lines {
		f.d.lines[i] = Line{}
	}
}

// Draw writes text into logical line slot row.
func (f *Frame) Draw(row int, text string, st style.Style) error {
	if row < 0 || row >= len(f.d.lines) {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(f.d.lines))
	}
	f.d.lines[row] = Line{Text: f.d.fit(text), Style: st}
	return nil
}

// DrawLine is Draw for callers that render through a context.
func (f *Frame) DrawLine(ctx context.Context, row int, text string, st style.Style) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.Draw(row, text, st)
}

// RequestRedraw hands the framebuffer as it is now to the flush loop. It
// never blocks; requests the flush loop has not picked up yet are replaced,
// so only finished pages reach the screen.
func (f *Frame) RequestRedraw() {
	f.d.seq++
	f.d.redraw.Notify(Snapshot{
		Seq:      f.d.seq,
		Geometry: f.d.geom,
		Lines:    append([]Line(nil), f.d.lines...),
	})
}

// Run is the flush loop: it waits for redraw requests, paces them and hands
// the newest requested snapshot to flush. It returns when ctx is done.
func (d *Display) Run(ctx context.Context, flush func(Snapshot)) error {
	for {
		snap, err := d.redraw.Wait(ctx)
		if err != nil {
			return err
		}
		if err := d.pace.Wait(ctx); err != nil {
			return err
		}
		if newer, ok := d.redraw.TryTake(); ok {
			snap = newer
		}
		events.Display.Flush(snap.Seq, len(snap.Lines))
		flush(snap)
	}
}

// fit strips escape sequences and control characters so document text
// cannot drive the terminal, then clips to the display width.
func (d *Display) fit(text string) string {
	text = ansi.Strip(text)
	text = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, text)
	if d.geom.Width > 0 && ansi.StringWidth(text) > d.geom.Width {
		text = ansi.Truncate(text, d.geom.Width, "")
	}
	return text
}
