package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	if key.String() == "ctrl+c" {
		return m.execCmd(menu.Simple(menu.CommandQuit))
	}
	if m.deps.Process != nil && m.deps.Process.AboutOpen() {
		m.deps.Process.CloseAbout()
		return nil
	}
	if m.deps.Window != nil && !m.deps.Window.IsVisible() {
		return m.handleHiddenKey(key)
	}
	switch m.mode {
	case ModeLanding:
		return m.handleLandingKey(key)
	case ModeCommand:
		return m.handleCommandKey(key)
	}
	return m.handleShellKey(key)
}

// handleHiddenKey stands in for the tray icon while the window is hidden.
func (m *Model) handleHiddenKey(key tea.KeyPressMsg) tea.Cmd {
	switch key.String() {
	case "enter", "space":
		m.deps.Bus.Publish(bus.TopicTrayVisibility, bus.Visibility{Visible: true})
	case "q":
		m.deps.Bus.Publish(bus.TopicTrayQuit, nil)
	}
	return nil
}

func (m *Model) handleShellKey(key tea.KeyPressMsg) tea.Cmd {
	switch key.String() {
	case "up", "ctrl+p":
		m.moveCursor(-1)
		return nil
	case "down", "ctrl+n":
		m.moveCursor(1)
		return nil
	case "pgup":
		m.moveCursor(-m.maxVisibleItems())
		return nil
	case "pgdown":
		m.moveCursor(m.maxVisibleItems())
		return nil
	case "enter":
		return m.handleEnterKey()
	case "esc":
		return m.handleEscapeKey()
	case ":":
		m.enterCommand()
		return nil
	}
	m.handleTextInput(key)
	return nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.list.Items) == 0 || delta == 0 {
		return
	}
	m.list.Move(delta)
	events.UI.Cursor(m.list.Cursor)
	m.syncViewport()
}

func (m *Model) handleEnterKey() tea.Cmd {
	item, ok := m.list.Selected()
	if !ok {
		return nil
	}
	events.UI.Enter(item.ID, item.Label, m.list.Filter)
	command, err := m.commandForItem(item)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if m.list.Filter != "" {
		m.list.SetFilter("", 0)
	}
	m.forceClearInfo()
	return m.execCmd(command)
}

func (m *Model) handleEscapeKey() tea.Cmd {
	if m.list.Filter != "" {
		m.list.SetFilter("", 0)
		events.Filter.Cleared()
		m.syncViewport()
		return nil
	}
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

// syncList rebuilds the entry list from the menu snapshot: servers in menu
// order, then the commands.
func (m *Model) syncList() {
	servers := make(map[string]bool, len(m.menu.Servers))
	items := make([]menu.Item, 0, len(m.menu.Servers)+len(menu.RootItems()))
	for _, server := range m.menu.Servers {
		servers[server.URL] = true
		items = append(items, menu.Item{ID: server.URL, Label: server.Title})
	}
	items = append(items, menu.RootItems()...)
	m.servers = servers
	m.list.UpdateItems(items)
	m.syncViewport()
}

func (m *Model) syncViewport() {
	m.list.EnsureVisible(m.maxVisibleItems())
}

func (m *Model) serverItems() []menu.Item {
	items := make([]menu.Item, 0, len(m.menu.Servers))
	for _, server := range m.menu.Servers {
		items = append(items, menu.Item{ID: server.URL, Label: server.Title})
	}
	return items
}
