package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/atomicstack/swb-reader/internal/display"
	"github.com/atomicstack/swb-reader/internal/document"
	"github.com/atomicstack/swb-reader/internal/keyboard"
	"github.com/atomicstack/swb-reader/internal/logging/events"
	"github.com/atomicstack/swb-reader/internal/mailbox"
	"github.com/atomicstack/swb-reader/internal/pager"
	"github.com/atomicstack/swb-reader/internal/reader"
	"github.com/atomicstack/swb-reader/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	DocumentPath   string
	Width          int
	Height         int
	LineHeight     int
	LinesPerScroll int
	ScrollUp       string
	ScrollDown     string
	ShowFooter     bool
	FlushInterval  time.Duration
	PollInterval   time.Duration
}

const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

var termSize = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Run loads the document, starts every device task and executes the
// Bubble Tea program until the user quits or a task faults.
func Run(cfg Config) error {
	prog, err := document.Load(cfg.DocumentPath)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	events.App.Loaded(cfg.DocumentPath, prog.Len(), prog.LineCount())

	screen, err := resolveScreen(cfg, termSize)
	if err != nil {
		return err
	}
	up, down, err := scrollKeys(cfg)
	if err != nil {
		return err
	}

	fifo := keyboard.NewFIFO(keyboard.DefaultFIFODepth)
	keys := keyboard.NewEvents()
	driver := keyboard.NewDriver(keyboard.NewSharedBus(fifo), keys, cfg.PollInterval)
	disp := display.New(screen.geometry, cfg.FlushInterval)
	status := mailbox.New[pager.Status]()

	model := ui.NewModel(fifo, ui.Options{
		Width:      screen.width,
		Height:     screen.height,
		ShowFooter: cfg.ShowFooter,
		UpKey:      up,
		DownKey:    down,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return driver.Run(gctx) })
	g.Go(func() error {
		return reader.Run(gctx, prog, disp, keys, reader.Config{
			UpKey:          up,
			DownKey:        down,
			LinesPerScroll: cfg.LinesPerScroll,
			Capacity:       screen.geometry.Capacity(),
			Status:         status,
		})
	})
	g.Go(func() error {
		return disp.Run(gctx, func(s display.Snapshot) {
			program.Send(ui.FrameMsg{Frame: s})
		})
	})
	g.Go(func() error {
		for {
			st, err := status.Wait(gctx)
			if err != nil {
				return err
			}
			program.Send(ui.StatusMsg{Status: st})
		}
	})

	taskErr := make(chan error, 1)
	go func() {
		err := g.Wait()
		if isFault(err) {
			program.Send(ui.FaultMsg{Err: err})
		}
		taskErr <- err
	}()

	_, runErr := program.Run()
	cancel()
	fifo.Close()
	if err := <-taskErr; isFault(err) {
		return err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	events.App.Stop("quit")
	return nil
}

func isFault(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

type screen struct {
	width    int
	height   int
	geometry display.Geometry
}

// resolveScreen fixes the display size at startup. Zero dimensions fall back
// to the terminal size; a footer row is taken from the framebuffer.
func resolveScreen(cfg Config, size func() (int, int, error)) (screen, error) {
	width, height := cfg.Width, cfg.Height
	if width == 0 || height == 0 {
		tw, th, err := size()
		if err != nil || tw <= 0 || th <= 0 {
			tw, th = fallbackWidth, fallbackHeight
		}
		if width == 0 {
			width = tw
		}
		if height == 0 {
			height = th
		}
	}
	rows := height
	if cfg.ShowFooter {
		rows--
	}
	lineHeight := cfg.LineHeight
	if lineHeight < 1 {
		lineHeight = 1
	}
	geom := display.Geometry{Width: width, Height: rows, LineHeight: lineHeight}
	if geom.Capacity() < 1 {
		return screen{}, fmt.Errorf("display of %dx%d rows cannot hold a line of height %d", width, rows, lineHeight)
	}
	return screen{width: width, height: height, geometry: geom}, nil
}

func scrollKeys(cfg Config) (keyboard.Key, keyboard.Key, error) {
	up, ok := singleKey(cfg.ScrollUp)
	if !ok {
		return 0, 0, fmt.Errorf("invalid scroll-up key %q", cfg.ScrollUp)
	}
	down, ok := singleKey(cfg.ScrollDown)
	if !ok {
		return 0, 0, fmt.Errorf("invalid scroll-down key %q", cfg.ScrollDown)
	}
	return up, down, nil
}

func singleKey(s string) (keyboard.Key, bool) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	return keyboard.KeyFor(r[0])
}
