package command

import (
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
)

// Bus coordinates the execution of menu commands against a registry.
type Bus struct {
	registry *menu.Registry
}

// New initialises a command bus instance.
func New(registry *menu.Registry) *Bus {
	return &Bus{registry: registry}
}

// Execute runs the handler registered for cmd while emitting trace logs.
// Unknown or unhandled commands are skipped and reported as no-ops.
func (b *Bus) Execute(cmd menu.Command) menu.Result {
	id := string(cmd.ID)
	label := cmd.Label()
	events.Command.Queue(id, label)
	node, ok := b.registry.Find(cmd.ID)
	if !ok || node.Action == nil {
		events.Command.Skip(id, label)
		return menu.Result{Noop: true}
	}
	res := node.Action(cmd)
	switch {
	case res.Err != nil:
		events.Action.Error(res.Err)
		events.Command.Result(id, label, "error")
	case res.Noop:
		events.Command.NoOp(id, label)
	default:
		if res.Info != "" {
			events.Action.Success(res.Info)
		}
		events.Command.Result(id, label, "ok")
	}
	return res
}
