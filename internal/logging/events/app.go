package events

import "github.com/atomicstack/shell-sync/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Quit(source string) {
	logging.Trace("app.quit", map[string]interface{}{"source": source})
}

func (AppTracer) OpenExternal(url string) {
	logging.Trace("app.open-external", map[string]interface{}{"url": url})
}
