package events

import "github.com/atomicstack/shell-sync/internal/logging"

type SyncTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

type TeardownTracer struct{}

var (
	Sync     = SyncTracer{}
	Action   = ActionTracer{}
	Command  = CommandTracer{}
	Teardown = TeardownTracer{}
)

func (SyncTracer) Recompute(trigger string) {
	logging.Trace("sync.recompute", map[string]interface{}{"trigger": trigger})
}

func (SyncTracer) Publish(surface string, state interface{}) {
	logging.Trace("sync.publish", map[string]interface{}{"surface": surface, "state": state})
}

func (SyncTracer) PushFailed(surface string, err error) {
	logging.Warn("surface push failed", "surface", surface, "error", err)
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, outcome string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "outcome": outcome})
}

// Failure is logged unconditionally: teardown must finish, so the error is
// the only trace left behind.
func (TeardownTracer) Failure(step string, err error) {
	logging.Warn("teardown step failed", "step", step, "error", err)
}

func (TeardownTracer) Done(released int) {
	logging.Trace("teardown.done", map[string]interface{}{"released": released})
}
