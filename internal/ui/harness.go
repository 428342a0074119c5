package ui

import tea "charm.land/bubbletea/v2"

// Harness drives the UI model programmatically for integration tests.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Type sends text as individual key presses.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// Press sends a special key.
func (h *Harness) Press(code rune) {
	h.Send(tea.KeyPressMsg{Code: code})
}

// Line runs a command line as if typed after ":".
func (h *Harness) Line(line string) {
	h.Type(":")
	h.Type(line)
	h.Press(tea.KeyEnter)
}

// processCmd runs commands synchronously. Batches are expanded; the
// refresh wait is never part of a harness run because Init is not called.
func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			h.processCmd(c)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}
	mdl, next := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(next)
}

// View returns the current rendering.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.render()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
