package events

import "github.com/atomicstack/shell-sync/internal/logging"

type WindowTracer struct{}

type attentionReason string

const (
	ReasonPreferenceOff attentionReason = "preference-off"
	ReasonFocused       attentionReason = "focused"
	ReasonNotNumeric    attentionReason = "not-numeric"
)

var Window = WindowTracer{}

func (WindowTracer) Visibility(visible bool) {
	logging.Trace("window.visibility", map[string]interface{}{"visible": visible})
}

func (WindowTracer) Attention(hostURL string, count int) {
	logging.Trace("window.attention", map[string]interface{}{"host": hostURL, "count": count})
}

func (WindowTracer) AttentionSkipped(hostURL string, reason attentionReason) {
	logging.Trace("window.attention.skip", map[string]interface{}{"host": hostURL, "reason": string(reason)})
}

func (WindowTracer) FlashStopped() {
	logging.Trace("window.flash.stop", nil)
}
