package events

import "github.com/atomicstack/shell-sync/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type SessionTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Session = SessionTracer{}
)

func (UITracer) Enter(itemID, label, filter string) {
	logging.Trace("console.enter", map[string]interface{}{
		"item":   itemID,
		"label":  label,
		"filter": filter,
	})
}

func (UITracer) Cursor(cursor int) {
	logging.Trace("console.cursor", map[string]interface{}{"cursor": cursor})
}

func (UITracer) Mode(mode string) {
	logging.Trace("console.mode", map[string]interface{}{"mode": mode})
}

func (UITracer) Line(line string) {
	logging.Trace("console.line", map[string]interface{}{"line": line})
}

func (UITracer) Refresh(pending int) {
	logging.Trace("console.refresh", map[string]interface{}{"pending": pending})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FilterTracer) Append(filter string) {
	logging.Trace("filter.append", map[string]interface{}{"filter": filter})
}

func (FilterTracer) Backspace(filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"filter": filter})
}

func (FilterTracer) WordBackspace(filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"filter": filter})
}

func (SessionTracer) Action(action, host string) {
	logging.Trace("session.action", map[string]interface{}{"action": action, "host": host})
}

func (SessionTracer) Navigate(host, page string) {
	logging.Trace("session.navigate", map[string]interface{}{"host": host, "page": page})
}
