package reader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/atomicstack/swb-reader/internal/display"
	"github.com/atomicstack/swb-reader/internal/document"
	"github.com/atomicstack/swb-reader/internal/keyboard"
	"github.com/atomicstack/swb-reader/internal/mailbox"
	"github.com/atomicstack/swb-reader/internal/pager"
	"github.com/atomicstack/swb-reader/internal/scroll"
	"github.com/atomicstack/swb-reader/internal/style"
)

func program(t *testing.T, lines int) *document.Program {
	t.Helper()
	var b document.Builder
	for i := 1; i <= lines; i++ {
		b.Text(fmt.Sprintf("line %d", i))
	}
	b.Stop()
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return prog
}

type harness struct {
	keys   *keyboard.Events
	status *mailbox.Mailbox[pager.Status]
	disp   *display.Display
	cancel context.CancelFunc
	errc   chan error
}

func newHarness() *harness {
	return &harness{
		keys:   keyboard.NewEvents(),
		status: mailbox.New[pager.Status](),
		disp:   display.New(display.Geometry{Height: 4, LineHeight: 1}, 0),
		errc:   make(chan error, 1),
	}
}

func start(t *testing.T, prog *document.Program) *harness {
	t.Helper()
	h := newHarness()
	h.run(t, prog)
	return h
}

func (h *harness) run(t *testing.T, prog *document.Program) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	t.Cleanup(cancel)
	go func() {
		h.errc <- Run(ctx, prog, h.disp, h.keys, Config{
			UpKey:          keyboard.MustKey('i'),
			DownKey:        keyboard.MustKey('k'),
			LinesPerScroll: 5,
			Capacity:       h.disp.Geometry().Capacity(),
			Status:         h.status,
		})
	}()
}

func (h *harness) next(t *testing.T) pager.Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := h.status.Wait(ctx)
	if err != nil {
		t.Fatalf("no status: %v", err)
	}
	return st
}

// pressUntilMoved keeps pressing k until the page moves, because a press
// only counts once the watcher is parked on the key.
func (h *harness) pressUntilMoved(t *testing.T, k keyboard.Key) pager.Status {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		h.keys.Press(k)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		st, err := h.status.Wait(ctx)
		cancel()
		if err == nil {
			return st
		}
	}
	t.Fatalf("page never moved for key %v", k)
	return pager.Status{}
}

func TestScrollKeysMoveThePage(t *testing.T) {
	h := start(t, program(t, 40))
	if st := h.next(t); st.StartLine != 0 || st.Rendered != 4 || st.Lines != 40 {
		t.Fatalf("unexpected first page %+v", st)
	}
	if st := h.pressUntilMoved(t, keyboard.MustKey('k')); st.StartLine != 5 {
		t.Fatalf("expected start 5 after down, got %d", st.StartLine)
	}
	if st := h.pressUntilMoved(t, keyboard.MustKey('i')); st.StartLine != 0 {
		t.Fatalf("expected start 0 after up, got %d", st.StartLine)
	}

	h.cancel()
	if err := <-h.errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderFaultStopsBothTasks(t *testing.T) {
	var b document.Builder
	b.Text("a")
	b.Pop(style.Bold)
	prog, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := start(t, prog)
	select {
	case err := <-h.errc:
		if !errors.Is(err, style.ErrUnderflow) {
			t.Fatalf("expected ErrUnderflow, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("orchestrator kept running after a render fault")
	}
}

func TestRapidDownsMoveThePageOnce(t *testing.T) {
	h := newHarness()
	// hold the framebuffer so the engine is parked before its first page
	_, release, err := h.disp.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	h.run(t, program(t, 40))
	down := keyboard.MustKey('k')

	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		h.keys.Press(down)
		time.Sleep(10 * time.Millisecond)
	}
	release()

	var st pager.Status
	for st.StartLine == 0 {
		st = h.next(t)
	}
	if st.StartLine != 5 {
		t.Fatalf("expected three downs to move 5 lines, got start %d", st.StartLine)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if extra, err := h.status.Wait(ctx); err == nil {
		t.Fatalf("expected the downs to coalesce, page moved again to %d", extra.StartLine)
	}
}

// slowScreen draws through the real display but takes a while per line, so
// the flush loop gets to run in the middle of a page.
type slowScreen struct {
	screen
	perLine time.Duration
}

type slowCanvas struct {
	pager.Canvas
	perLine time.Duration
}

func (s slowScreen) Page(ctx context.Context, draw func(pager.Canvas) error) error {
	return s.screen.Page(ctx, func(c pager.Canvas) error {
		return draw(slowCanvas{Canvas: c, perLine: s.perLine})
	})
}

func (c slowCanvas) DrawLine(ctx context.Context, row int, text string, st style.Style) error {
	time.Sleep(c.perLine)
	return c.Canvas.DrawLine(ctx, row, text, st)
}

func TestEveryFlushIsAFinishedPage(t *testing.T) {
	const (
		total = 40
		rows  = 4
	)
	disp := display.New(display.Geometry{Height: rows, LineHeight: 1}, 30*time.Millisecond)
	scrolls := mailbox.New[scroll.Command]()
	status := mailbox.New[pager.Status]()
	engine := pager.NewEngine(program(t, total), slowScreen{screen: screen{disp: disp}, perLine: 5 * time.Millisecond},
		rows, scrolls, pager.Options{LinesPerScroll: 5, Status: status})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var (
		mu      sync.Mutex
		flushes []display.Snapshot
	)
	go func() {
		_ = disp.Run(ctx, func(s display.Snapshot) {
			mu.Lock()
			flushes = append(flushes, s)
			mu.Unlock()
		})
	}()
	go func() { _ = engine.Run(ctx) }()

	wait := func() {
		t.Helper()
		wctx, wcancel := context.WithTimeout(ctx, time.Second)
		defer wcancel()
		if _, err := status.Wait(wctx); err != nil {
			t.Fatalf("status: %v", err)
		}
	}
	wait()
	for i := 0; i < 6; i++ {
		scrolls.Notify(scroll.Down)
		wait()
	}

	pageAt := func(start int) []display.Line {
		lines := make([]display.Line, rows)
		for i := range lines {
			if n := start + i + 1; n <= total {
				lines[i] = display.Line{Text: fmt.Sprintf("line %d", n)}
			}
		}
		return lines
	}
	finished := func(lines []display.Line) bool {
		for start := 0; start <= 30; start += 5 {
			if cmp.Equal(pageAt(start), lines) {
				return true
			}
		}
		return false
	}

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		got := append([]display.Snapshot(nil), flushes...)
		mu.Unlock()
		if n := len(got); n > 0 && cmp.Equal(pageAt(30), got[n-1].Lines) {
			for i, snap := range got {
				if !finished(snap.Lines) {
					t.Fatalf("flush %d showed an unfinished page: %+v", i, snap.Lines)
				}
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("last page never flushed; got %d flushes", len(got))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
