package events

import "github.com/atomicstack/swb-reader/internal/logging"

type PagerTracer struct{}

type KeyboardTracer struct{}

type DisplayTracer struct{}

var (
	Pager    = PagerTracer{}
	Keyboard = KeyboardTracer{}
	Display  = DisplayTracer{}
)

func (PagerTracer) Pass(startLine, rendered, lines int) {
	logging.Trace("pager.pass", map[string]interface{}{
		"start":    startLine,
		"rendered": rendered,
		"lines":    lines,
	})
}

func (PagerTracer) Scroll(direction string, startLine int) {
	logging.Trace("pager.scroll", map[string]interface{}{"direction": direction, "start": startLine})
}

func (KeyboardTracer) Press(key string, count uint64) {
	logging.Trace("keyboard.press", map[string]interface{}{"key": key, "count": count})
}

func (KeyboardTracer) Overflow(state string, code byte, dropped int) {
	logging.Trace("keyboard.overflow", map[string]interface{}{
		"state":   state,
		"code":    int(code),
		"dropped": dropped,
	})
}

func (KeyboardTracer) Drop(state string, code byte) {
	logging.Trace("keyboard.drop", map[string]interface{}{"state": state, "code": int(code)})
}

func (DisplayTracer) Flush(seq uint64, rows int) {
	logging.Trace("display.flush", map[string]interface{}{"seq": seq, "rows": rows})
}
