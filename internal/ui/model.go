package ui

import (
	"reflect"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/landing"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
	"github.com/atomicstack/shell-sync/internal/surface"
	"github.com/atomicstack/shell-sync/internal/theme"
	uistate "github.com/atomicstack/shell-sync/internal/ui/state"
)

type Mode int

const (
	ModeShell Mode = iota
	ModeLanding
	ModeCommand
)

func (m Mode) String() string {
	switch m {
	case ModeLanding:
		return "landing"
	case ModeCommand:
		return "command"
	default:
		return "shell"
	}
}

const appTitle = "shell-sync"

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Executor runs menu commands.
type Executor interface {
	Execute(menu.Command) menu.Result
}

// Registry is the part of the server registry edited from the command line.
type Registry interface {
	Remove(url string) bool
	SetTitle(url, title string) bool
}

// Sidebar is the part of the sidebar store the console reads and edits.
type Sidebar interface {
	Badge(url string) surface.Badge
	SetSortOrder(urls []string)
}

// Certificates records TLS trust decisions.
type Certificates interface {
	Trust(url, fingerprint string)
	Trusted(url string) (string, bool)
}

// Deps wires the console to the shell. Surfaces, window, sessions and
// process are the console's own adapters, shared with the synchronizer.
type Deps struct {
	Bus          *bus.Bus
	Executor     Executor
	Registry     Registry
	Sidebar      Sidebar
	Certificates Certificates
	Landing      *landing.Controller
	Translator   landing.Translator

	Window   *Window
	Sessions *Sessions
	Process  *Process
	Menu     *MenuSurface
	Tray     *TraySurface
	Dock     *DockSurface
	Activity *Activity
	Notifier *Notifier
}

// Options tunes presentation.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

// Model implements the Bubble Tea model for the shell console.
type Model struct {
	deps Deps

	list    *uistate.List
	servers map[string]bool
	mode    Mode
	input   textinput.Model

	menu surface.MenuState
	tray surface.TrayState
	dock surface.DockState

	validating  bool
	quitting    bool
	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the console over deps and reads the current surface
// snapshots.
func NewModel(deps Deps, opts Options) *Model {
	if deps.Notifier == nil {
		deps.Notifier = NewNotifier()
	}
	m := &Model{
		deps:       deps,
		list:       uistate.NewList(nil),
		servers:    map[string]bool{},
		mode:       ModeShell,
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.input = textinput.New()
	m.input.SetStyles(textinput.DefaultStyles(true))
	m.input.SetVirtualCursor(true)
	if m.width > 0 {
		m.input.SetWidth(m.width - 4)
	}
	if deps.Landing != nil {
		deps.Landing.OnChange(func(landing.View) { deps.Notifier.Notify() })
	}
	m.registerHandlers()
	m.refresh()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return waitForRefresh(m.deps.Notifier)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyPressMsg{}):     m.handleKeyMsg,
		reflect.TypeOf(tea.PasteMsg{}):        m.handlePasteMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(tea.FocusMsg{}):        m.handleFocusMsg,
		reflect.TypeOf(tea.BlurMsg{}):         m.handleBlurMsg,
		reflect.TypeOf(refreshMsg{}):          m.handleRefreshMsg,
		reflect.TypeOf(landingValidatedMsg{}): m.handleLandingValidatedMsg,
		reflect.TypeOf(landingSubmittedMsg{}): m.handleLandingSubmittedMsg,
		reflect.TypeOf(commandResultMsg{}):    m.handleCommandResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate picks up changes that happened outside the model during
// this update, such as a command that reshaped the menu.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.deps.Notifier.Drain() {
		if cmd := m.refresh(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleFocusMsg(tea.Msg) tea.Cmd {
	if m.deps.Window != nil {
		m.deps.Window.Focus()
	}
	return nil
}

func (m *Model) handleBlurMsg(tea.Msg) tea.Cmd {
	if m.deps.Window != nil {
		m.deps.Window.Blur()
	}
	return nil
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	events.UI.Mode(mode.String())
}

// Mode reports the active input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Quitting reports whether the model asked the program to exit.
func (m *Model) Quitting() bool {
	return m.quitting
}
