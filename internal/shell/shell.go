// Package shell keeps the native surfaces (application menu, tray icon and
// dock) in step with the preference store, the server registry, the active
// session and the window.
//
// The Synchronizer never caches derived state: every recompute reads each
// source afresh and pushes complete snapshots, so pushing twice without an
// intervening change yields identical snapshots.
package shell

import (
	"fmt"
	"sync"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/command"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
	"github.com/atomicstack/shell-sync/internal/prefs"
	"github.com/atomicstack/shell-sync/internal/surface"
)

// Server is one registry entry as shown in the menu.
type Server = surface.ServerItem

// Registry is the server registry and active-session pointer.
type Registry interface {
	Hosts() []Server
	Active() string
	SetActive(url string) bool
	ClearActive()
	RestoreActive() string
	ResetAppData()
}

// Sidebar exposes the sort order, aggregate badge and visibility of the
// server list.
type Sidebar interface {
	SortOrder() []string
	GlobalBadge() surface.Badge
	IsVisible() bool
	Toggle() error
}

// Window is the main window. Facts are read fresh on every recompute.
type Window interface {
	IsVisible() bool
	IsFullScreen() bool
	IsFocused() bool
	SetFullScreen(bool)
	Show()
	Hide()
	ShowInactive()
	FlashFrame(bool)
	Reload()
	ToggleDevTools()
	SetHideOnClose(bool)
}

// SessionHost drives the embedded remote sessions.
type SessionHost interface {
	ShowLanding()
	Reload()
	ReloadIgnoringCache()
	OpenDevTools()
	GoBack()
	GoForward()
	FocusActive()
}

// CertificateStore holds user TLS trust decisions.
type CertificateStore interface {
	Clear() error
}

// App is the process-level surface.
type App interface {
	Quit()
	OpenAboutDialog()
	OpenExternal(url string) error
}

// Deps lists the collaborators a Synchronizer reads from and drives.
// Surface adapters may be nil.
type Deps struct {
	Bus          *bus.Bus
	Prefs        *prefs.Preferences
	Registry     Registry
	Sidebar      Sidebar
	Window       Window
	Sessions     SessionHost
	Certificates CertificateStore
	App          App

	Menu surface.MenuAdapter
	Tray surface.TrayAdapter
	Dock surface.DockAdapter
}

// Synchronizer derives and pushes surface snapshots and executes menu
// commands.
type Synchronizer struct {
	deps     Deps
	commands *command.Bus

	// execMu serializes command handlers; pushMu serializes pushes.
	execMu sync.Mutex
	pushMu sync.Mutex

	mu       sync.Mutex
	subs     bus.Group
	flashing bool
	started  bool
	torn     bool
}

// New builds a synchronizer. Nothing is subscribed until Start.
func New(deps Deps) *Synchronizer {
	s := &Synchronizer{deps: deps}
	s.commands = command.New(menu.BuildRegistry(s.handlers()))
	return s
}

// MenuState derives the menu snapshot from current sources.
func (s *Synchronizer) MenuState() surface.MenuState {
	p := s.deps.Prefs
	return surface.MenuState{
		ShowTrayIcon:              p.TrayIconVisible(),
		ShowFullScreen:            s.deps.Window.IsFullScreen(),
		ShowWindowOnUnreadChanged: p.Bool(prefs.KeyShowWindowOnUnreadChanged),
		ShowMenuBar:               !p.Bool(prefs.KeyAutohideMenu),
		ShowServerList:            s.deps.Sidebar.IsVisible(),
		Servers:                   OrderServers(s.deps.Registry.Hosts(), s.deps.Sidebar.SortOrder()),
		CurrentServerURL:          s.deps.Registry.Active(),
	}
}

// TrayState derives the tray snapshot from current sources.
func (s *Synchronizer) TrayState() surface.TrayState {
	return surface.TrayState{
		ShowIcon:            s.deps.Prefs.TrayIconVisible(),
		Badge:               s.deps.Sidebar.GlobalBadge(),
		IsMainWindowVisible: s.deps.Window.IsVisible(),
	}
}

// DockState derives the dock snapshot from current sources.
func (s *Synchronizer) DockState() surface.DockState {
	return surface.DockState{
		HasTrayIcon: s.deps.Prefs.TrayIconVisible(),
		Badge:       s.deps.Sidebar.GlobalBadge(),
	}
}

// OrderServers orders hosts by their position in sortOrder. Hosts missing
// from sortOrder follow in their original order.
func OrderServers(hosts []Server, sortOrder []string) []Server {
	rank := make(map[string]int, len(sortOrder))
	for i, url := range sortOrder {
		if _, ok := rank[url]; !ok {
			rank[url] = i
		}
	}
	ordered := make([]Server, 0, len(hosts))
	var rest []Server
	placed := make([]Server, len(sortOrder))
	used := make([]bool, len(sortOrder))
	for _, host := range hosts {
		if idx, ok := rank[host.URL]; ok && !used[idx] {
			placed[idx] = host
			used[idx] = true
			continue
		}
		rest = append(rest, host)
	}
	for i, host := range placed {
		if used[i] {
			ordered = append(ordered, host)
		}
	}
	return append(ordered, rest...)
}

// RecomputeAndPublish pushes fresh snapshots to every adapter. A failing
// adapter does not stop the others.
func (s *Synchronizer) RecomputeAndPublish(trigger string) {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()
	events.Sync.Recompute(trigger)

	if s.deps.Menu != nil {
		state := s.MenuState()
		s.push("menu", state, func() error { return s.deps.Menu.SetState(state) })
	}
	if s.deps.Tray != nil {
		state := s.TrayState()
		s.push("tray", state, func() error { return s.deps.Tray.SetState(state) })
	}
	if s.deps.Dock != nil {
		state := s.DockState()
		s.push("dock", state, func() error { return s.deps.Dock.SetState(state) })
	}
}

func (s *Synchronizer) pushWindowVisibility() {
	if s.deps.Tray == nil {
		return
	}
	s.pushMu.Lock()
	defer s.pushMu.Unlock()
	visible := s.deps.Window.IsVisible()
	events.Window.Visibility(visible)
	s.push("tray", visible, func() error { return s.deps.Tray.SetMainWindowVisible(visible) })
}

func (s *Synchronizer) push(name string, state interface{}, fn func() error) {
	if err := guard(fn); err != nil {
		events.Sync.PushFailed(name, err)
		return
	}
	events.Sync.Publish(name, state)
}

func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// Execute runs cmd and recomputes afterwards regardless of its outcome.
// Commands run one at a time whichever goroutine issues them.
func (s *Synchronizer) Execute(cmd menu.Command) menu.Result {
	s.execMu.Lock()
	return s.run(cmd)
}

// run executes cmd with execMu held and releases it before recomputing.
func (s *Synchronizer) run(cmd menu.Command) menu.Result {
	res := func() menu.Result {
		defer s.execMu.Unlock()
		return s.commands.Execute(cmd)
	}()
	s.RecomputeAndPublish("command:" + string(cmd.ID))
	return res
}

// Start subscribes to the bus, restores the active session and performs the
// initial push. Calling Start twice is a no-op.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	if s.started || s.torn {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.attach()
	s.deps.Registry.RestoreActive()
	s.RecomputeAndPublish("startup")
	s.pushWindowVisibility()
}

// Teardown releases every subscription and destroys the tray and dock.
// Failures are logged and swallowed; repeated calls do nothing.
func (s *Synchronizer) Teardown() {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	s.torn = true
	s.mu.Unlock()

	released := s.subs.Release()
	if s.deps.Tray != nil {
		if err := guard(s.deps.Tray.Destroy); err != nil {
			events.Teardown.Failure("tray", err)
		}
	}
	if s.deps.Dock != nil {
		if err := guard(s.deps.Dock.Destroy); err != nil {
			events.Teardown.Failure("dock", err)
		}
	}
	events.Teardown.Done(released)
}
