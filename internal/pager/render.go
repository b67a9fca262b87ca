// Package pager interprets a document program into one screenful of lines.
//
// A pass walks the instruction stream once from the top, counting logical
// lines, skipping the ones above the window and drawing the rest until the
// viewport is full or a Stop is reached. Nothing is cached between passes:
// every scroll re-walks the program, so no per-page line list ever exists.
package pager

import (
	"context"
	"fmt"

	"github.com/atomicstack/swb-reader/internal/document"
	"github.com/atomicstack/swb-reader/internal/style"
)

// LineRenderer draws one styled line into a logical line slot.
type LineRenderer interface {
	DrawLine(ctx context.Context, row int, text string, st style.Style) error
}

// Window selects the part of the document a pass draws.
type Window struct {
	StartLine int
	Capacity  int
}

// Result summarises one pass.
type Result struct {
	Rendered int  // Text lines drawn
	Rows     int  // slots consumed, including EndLine spacing
	Line     int  // logical line counter when the pass ended
	Stopped  bool // a Stop instruction ended the pass
	Full     bool // the viewport filled before the program ended
}

// Render runs one pass. Push and Pop are applied even while lines are being
// skipped so the style is correct when the window begins. Any failure is a
// fault in the program or the renderer and aborts the pass.
func Render(ctx context.Context, prog *document.Program, win Window, r LineRenderer) (Result, error) {
	var (
		res       Result
		styles    style.Stack
		remaining = win.Capacity
	)
	for i, in := range prog.All() {
		if remaining <= 0 {
			res.Full = true
			break
		}
		switch in.Op {
		case document.OpText:
			res.Line++
			if res.Line < win.StartLine+1 {
				continue
			}
			text, err := prog.Text(in.Addr)
			if err != nil {
				return res, fmt.Errorf("instruction %d: %w", i, err)
			}
			if err := r.DrawLine(ctx, res.Rows, text, styles.Current()); err != nil {
				return res, fmt.Errorf("draw line %d: %w", res.Line, err)
			}
			res.Rows++
			res.Rendered++
			remaining--
		case document.OpPush:
			if err := styles.Push(in.Attr); err != nil {
				return res, fmt.Errorf("instruction %d: %w", i, err)
			}
		case document.OpPop:
			if err := styles.Pop(in.Attr); err != nil {
				return res, fmt.Errorf("instruction %d: %w", i, err)
			}
		case document.OpEndLine:
			res.Line++
			// EndLine becomes visible one line earlier than Text does.
			if res.Line < win.StartLine {
				continue
			}
			res.Rows++
			remaining--
		case document.OpStop:
			res.Stopped = true
			return res, nil
		default:
			return res, fmt.Errorf("instruction %d: %w", i, document.ErrUnknownOp)
		}
	}
	return res, nil
}
