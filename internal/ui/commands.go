package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/menu"
)

type commandResultMsg struct {
	command menu.Command
	result  menu.Result
}

// execCmd runs command off the UI goroutine and reports its result.
func (m *Model) execCmd(command menu.Command) tea.Cmd {
	executor := m.deps.Executor
	if executor == nil {
		return nil
	}
	m.errMsg = ""
	return func() tea.Msg {
		return commandResultMsg{command: command, result: executor.Execute(command)}
	}
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(commandResultMsg)
	if !ok {
		return nil
	}
	switch {
	case res.result.Err != nil:
		m.errMsg = res.result.Err.Error()
	case res.result.Noop:
		m.setInfo(res.command.Label() + ": nothing to do")
	case res.result.Info != "" && m.verbose:
		m.setInfo(res.result.Info)
	}
	return nil
}

// commandForItem maps a list entry to the command it stands for. Server
// entries select that server; the rest carry their command text as ID.
func (m *Model) commandForItem(item menu.Item) (menu.Command, error) {
	if m.servers[item.ID] {
		return menu.SelectServer(item.ID), nil
	}
	return menu.Parse(item.ID)
}
