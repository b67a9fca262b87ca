package events

import "github.com/atomicstack/swb-reader/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Loaded(path string, instructions, lines int) {
	logging.Trace("app.loaded", map[string]interface{}{
		"path":         path,
		"instructions": instructions,
		"lines":        lines,
	})
}

func (AppTracer) Stop(reason string) {
	logging.Trace("app.stop", map[string]interface{}{"reason": reason})
}

func (AppTracer) Fault(err error) {
	if err == nil {
		return
	}
	logging.Trace("app.fault", map[string]interface{}{"error": err.Error()})
}
