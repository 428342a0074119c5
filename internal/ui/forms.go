package ui

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/i18n"
	"github.com/atomicstack/shell-sync/internal/validate"
)

type landingValidatedMsg struct {
	err error
}

type landingSubmittedMsg struct {
	url   string
	added bool
	err   error
}

func (m *Model) enterLanding() {
	if m.deps.Landing == nil {
		return
	}
	m.input.Reset()
	m.input.Prompt = "> "
	m.input.Placeholder = m.translate(i18n.KeyLandingPrompt)
	m.input.SetValue(m.deps.Landing.Value())
	m.input.CursorEnd()
	m.input.Focus()
	m.setMode(ModeLanding)
}

func (m *Model) leaveLanding() {
	m.input.Blur()
	m.input.Reset()
	m.setMode(ModeShell)
}

func (m *Model) handleLandingKey(key tea.KeyPressMsg) tea.Cmd {
	switch key.String() {
	case "enter":
		if m.validating {
			return nil
		}
		m.validating = true
		return submitLandingCmd(m.deps.Landing)
	case "tab":
		return validateLandingCmd(m.deps.Landing)
	case "esc":
		if len(m.menu.Servers) > 0 {
			m.leaveLanding()
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	m.syncLandingValue()
	return cmd
}

func (m *Model) syncLandingValue() {
	if m.mode != ModeLanding || m.deps.Landing == nil {
		return
	}
	if m.input.Value() != m.deps.Landing.Value() {
		m.deps.Landing.SetValue(m.input.Value())
	}
}

func validateLandingCmd(c landingController) tea.Cmd {
	return func() tea.Msg {
		return landingValidatedMsg{err: c.Blur(context.Background())}
	}
}

func submitLandingCmd(c landingController) tea.Cmd {
	return func() tea.Msg {
		url, added, err := c.Submit(context.Background())
		return landingSubmittedMsg{url: url, added: added, err: err}
	}
}

type landingController interface {
	Blur(ctx context.Context) error
	Submit(ctx context.Context) (string, bool, error)
}

func (m *Model) handleLandingValidatedMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(landingValidatedMsg)
	if !ok || errors.Is(res.err, validate.ErrSuperseded) {
		return nil
	}
	m.adoptLandingValue()
	return nil
}

func (m *Model) handleLandingSubmittedMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(landingSubmittedMsg)
	if !ok {
		return nil
	}
	m.validating = false
	if errors.Is(res.err, validate.ErrSuperseded) {
		return nil
	}
	if res.err != nil {
		m.adoptLandingValue()
		return nil
	}
	if res.added {
		m.setInfo("added " + res.url)
	} else {
		m.setInfo(res.url + " is already registered")
	}
	m.leaveLanding()
	return nil
}

// adoptLandingValue shows the controller's value, which validation may
// have rewritten.
func (m *Model) adoptLandingValue() {
	if m.mode != ModeLanding || m.deps.Landing == nil {
		return
	}
	if value := m.deps.Landing.Value(); value != m.input.Value() {
		m.input.SetValue(value)
		m.input.CursorEnd()
	}
}

func (m *Model) translate(key string, args ...interface{}) string {
	if m.deps.Translator == nil {
		return key
	}
	return m.deps.Translator.T(key, args...)
}
