package ui

import (
	"fmt"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/logging/events"
)

// Notifier wakes the program when state outside the model changed. Signals
// coalesce: any number of Notify calls before the next wait yield one wake.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a notifier with a single pending slot.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify records a pending change without blocking.
func (n *Notifier) Notify() {
	if n == nil {
		return
	}
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Drain consumes a pending signal and reports whether there was one.
func (n *Notifier) Drain() bool {
	if n == nil {
		return false
	}
	select {
	case <-n.ch:
		return true
	default:
		return false
	}
}

func waitForRefresh(n *Notifier) tea.Cmd {
	return func() tea.Msg {
		<-n.ch
		return refreshMsg{}
	}
}

type refreshMsg struct{}

// Activity is the bounded log of things the console window did on behalf of
// the shell: reloads, navigation, external links.
type Activity struct {
	mu    sync.Mutex
	lines []string
	limit int
	now   func() time.Time
}

// NewActivity keeps the most recent limit lines.
func NewActivity(limit int) *Activity {
	if limit <= 0 {
		limit = 50
	}
	return &Activity{limit: limit, now: time.Now}
}

// Addf appends a formatted line.
func (a *Activity) Addf(format string, args ...interface{}) {
	if a == nil {
		return
	}
	line := a.now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	a.mu.Lock()
	a.lines = append(a.lines, line)
	if over := len(a.lines) - a.limit; over > 0 {
		a.lines = append(a.lines[:0:0], a.lines[over:]...)
	}
	a.mu.Unlock()
}

// Lines returns the retained lines, oldest first.
func (a *Activity) Lines() []string {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.lines...)
}

// Tail returns at most n of the newest lines.
func (a *Activity) Tail(n int) []string {
	lines := a.Lines()
	if n >= 0 && len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

func (m *Model) handleRefreshMsg(tea.Msg) tea.Cmd {
	m.deps.Notifier.Drain()
	cmd := m.refresh()
	wait := waitForRefresh(m.deps.Notifier)
	if cmd != nil {
		return tea.Batch(cmd, wait)
	}
	return wait
}

// refresh re-reads every external source: surface snapshots, pending tray
// lifecycle events, landing requests and process state.
func (m *Model) refresh() tea.Cmd {
	pending := 0
	if m.deps.Tray != nil {
		pending = m.deps.Tray.Flush(m.deps.Bus)
	}
	events.UI.Refresh(pending)

	if m.deps.Menu != nil {
		m.menu = m.deps.Menu.State()
	}
	if m.deps.Tray != nil {
		m.tray = m.deps.Tray.State()
	}
	if m.deps.Dock != nil {
		m.dock = m.deps.Dock.State()
	}
	m.syncList()

	if m.deps.Sessions != nil && m.deps.Sessions.TakeLanding() {
		m.enterLanding()
	} else if m.mode == ModeShell && len(m.menu.Servers) == 0 && m.deps.Landing != nil {
		m.enterLanding()
	}
	m.adoptLandingValue()

	if m.deps.Process != nil && m.deps.Process.Quitting() && !m.quitting {
		m.quitting = true
		return tea.Quit
	}
	return nil
}
