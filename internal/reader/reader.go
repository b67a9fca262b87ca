// Package reader composes the scroll source and the render engine into the
// running page.
package reader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/atomicstack/swb-reader/internal/display"
	"github.com/atomicstack/swb-reader/internal/document"
	"github.com/atomicstack/swb-reader/internal/keyboard"
	"github.com/atomicstack/swb-reader/internal/mailbox"
	"github.com/atomicstack/swb-reader/internal/pager"
	"github.com/atomicstack/swb-reader/internal/scroll"
)

type Config struct {
	UpKey          keyboard.Key
	DownKey        keyboard.Key
	LinesPerScroll int
	Capacity       int
	Status         *mailbox.Mailbox[pager.Status]
}

// screen lends the display's framebuffer to the engine one page at a time.
type screen struct {
	disp *display.Display
}

func (s screen) Page(ctx context.Context, draw func(pager.Canvas) error) error {
	return s.disp.With(ctx, func(f *display.Frame) error { return draw(f) })
}

// Run starts the scroll watchers and the render loop over one shared
// scroll mailbox and returns when either of them stops.
func Run(ctx context.Context, prog *document.Program, disp *display.Display, keys *keyboard.Events, cfg Config) error {
	scrolls := mailbox.New[scroll.Command]()
	source := scroll.NewSource(keys, cfg.UpKey, cfg.DownKey, scrolls)
	engine := pager.NewEngine(prog, screen{disp: disp}, cfg.Capacity, scrolls, pager.Options{
		LinesPerScroll: cfg.LinesPerScroll,
		Status:         cfg.Status,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return source.Run(ctx) })
	g.Go(func() error { return engine.Run(ctx) })
	return g.Wait()
}
