package ui

import (
	"unicode"

	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/logging/events"
)

// handleTextInput edits the quick filter in shell mode.
func (m *Model) handleTextInput(key tea.KeyPressMsg) bool {
	switch key.String() {
	case "ctrl+u":
		if m.list.Filter == "" {
			return false
		}
		m.list.SetFilter("", 0)
		events.Filter.Cleared()
	case "ctrl+w":
		if !m.list.DeleteFilterWordBackward() {
			return false
		}
		events.Filter.WordBackspace(m.list.Filter)
	case "backspace", "ctrl+h":
		if !m.list.DeleteFilterRuneBackward() {
			return false
		}
		events.Filter.Backspace(m.list.Filter)
	case "space":
		if !m.appendToFilter(" ") {
			return false
		}
	default:
		if key.Mod&(tea.ModCtrl|tea.ModAlt) != 0 || !printable(key.Text) {
			return false
		}
		if !m.appendToFilter(key.Text) {
			return false
		}
	}
	m.errMsg = ""
	m.forceClearInfo()
	m.syncViewport()
	return true
}

func (m *Model) appendToFilter(text string) bool {
	if !m.list.InsertFilterText(text) {
		return false
	}
	events.Filter.Append(m.list.Filter)
	return true
}

func (m *Model) handlePasteMsg(msg tea.Msg) tea.Cmd {
	paste, ok := msg.(tea.PasteMsg)
	if !ok {
		return nil
	}
	switch m.mode {
	case ModeLanding, ModeCommand:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(paste)
		m.syncLandingValue()
		return cmd
	}
	if printable(paste.Content) {
		m.appendToFilter(paste.Content)
		m.syncViewport()
	}
	return nil
}

func printable(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
