package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
	uistate "github.com/atomicstack/shell-sync/internal/ui/state"
)

// consoleHelp lists the verbs understood besides menu commands.
const consoleHelp = "unread HOST N | focus | blur | show | hide | close | tray show|hide|quit | online | offline | cert HOST [FP] | remove HOST | title HOST NAME | sort HOST... | go PAGE"

func (m *Model) enterCommand() {
	m.input.Reset()
	m.input.Prompt = ":"
	m.input.Placeholder = "command"
	m.input.Focus()
	m.setMode(ModeCommand)
}

func (m *Model) leaveCommand() {
	m.input.Blur()
	m.input.Reset()
	m.setMode(ModeShell)
}

func (m *Model) handleCommandKey(key tea.KeyPressMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.leaveCommand()
		return nil
	case "enter":
		line := m.input.Value()
		m.leaveCommand()
		return m.runLine(line)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return cmd
}

// runLine interprets one command line: console verbs that stand in for
// the window manager, the tray and the embedded sessions, or else a menu
// command.
func (m *Model) runLine(line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	events.UI.Line(line)
	m.errMsg = ""
	verb, args := fields[0], fields[1:]
	fail := func(format string, a ...interface{}) tea.Cmd {
		m.errMsg = fmt.Sprintf(format, a...)
		return nil
	}

	switch verb {
	case "help":
		m.setInfo(consoleHelp)
	case "unread":
		if len(args) < 1 || len(args) > 2 {
			return fail("usage: unread HOST [COUNT]")
		}
		host, ok := m.resolveServer(args[0])
		if !ok {
			return fail("unknown server %q", args[0])
		}
		value := ""
		if len(args) == 2 {
			value = args[1]
		}
		m.deps.Sessions.ReportUnread(host, value)
	case "focus":
		m.deps.Window.Focus()
	case "blur":
		m.deps.Window.Blur()
	case "show":
		m.deps.Window.Show()
	case "hide":
		m.deps.Window.Hide()
	case "close":
		if m.deps.Window.Close() {
			return m.execCmd(menu.Simple(menu.CommandQuit))
		}
	case "tray":
		if len(args) != 1 {
			return fail("usage: tray show|hide|quit")
		}
		switch args[0] {
		case "show":
			m.deps.Bus.Publish(bus.TopicTrayVisibility, bus.Visibility{Visible: true})
		case "hide":
			m.deps.Bus.Publish(bus.TopicTrayVisibility, bus.Visibility{Visible: false})
		case "quit":
			m.deps.Bus.Publish(bus.TopicTrayQuit, nil)
		default:
			return fail("unknown tray action %q", args[0])
		}
	case "online":
		m.deps.Bus.Publish(bus.TopicOnline, nil)
	case "offline":
		m.deps.Bus.Publish(bus.TopicOffline, nil)
	case "cert":
		if len(args) < 1 || len(args) > 2 {
			return fail("usage: cert HOST [FINGERPRINT]")
		}
		fingerprint := "trusted"
		if len(args) == 2 {
			fingerprint = args[1]
		}
		m.deps.Certificates.Trust(args[0], fingerprint)
		m.deps.Bus.Publish(bus.TopicCertificateReload, bus.CertificateReload{URL: args[0]})
		m.enterLanding()
	case "remove":
		if len(args) != 1 {
			return fail("usage: remove HOST")
		}
		host, ok := m.resolveServer(args[0])
		if !ok || !m.deps.Registry.Remove(host) {
			return fail("unknown server %q", args[0])
		}
		m.setInfo("removed " + host)
	case "title":
		if len(args) < 2 {
			return fail("usage: title HOST NAME")
		}
		host, ok := m.resolveServer(args[0])
		if !ok || !m.deps.Registry.SetTitle(host, strings.Join(args[1:], " ")) {
			return fail("unknown server %q", args[0])
		}
	case "sort":
		order := make([]string, 0, len(args))
		for _, arg := range args {
			host, ok := m.resolveServer(arg)
			if !ok {
				return fail("unknown server %q", arg)
			}
			order = append(order, host)
		}
		m.deps.Sidebar.SetSortOrder(order)
	case "go":
		if len(args) != 1 {
			return fail("usage: go PAGE")
		}
		if !m.deps.Sessions.Navigate(args[0]) {
			return fail("no active server")
		}
	default:
		command, err := menu.Parse(line)
		if err != nil {
			return fail("%v", err)
		}
		if command.ID == menu.CommandSelectServer {
			host, ok := m.resolveServer(command.URL)
			if !ok {
				return fail("unknown server %q", command.URL)
			}
			command.URL = host
		}
		return m.execCmd(command)
	}
	return nil
}

func (m *Model) resolveServer(query string) (string, bool) {
	return uistate.ResolveServer(m.serverItems(), query)
}
