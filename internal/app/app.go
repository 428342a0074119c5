package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/atomicstack/shell-sync/internal/backend"
	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/data/dispatcher"
	"github.com/atomicstack/shell-sync/internal/i18n"
	"github.com/atomicstack/shell-sync/internal/landing"
	"github.com/atomicstack/shell-sync/internal/logging"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
	"github.com/atomicstack/shell-sync/internal/prefs"
	"github.com/atomicstack/shell-sync/internal/shell"
	"github.com/atomicstack/shell-sync/internal/state"
	"github.com/atomicstack/shell-sync/internal/surface"
	"github.com/atomicstack/shell-sync/internal/ui"
	"github.com/atomicstack/shell-sync/internal/validate"
)

// Config describes user-provided application options.
type Config struct {
	PrefsPath    string
	Platform     string
	Lang         string
	ProbeTimeout time.Duration
	Servers      []string
	Width        int
	Height       int
	WatchPrefs   bool
	// ConnectivityAddr is dialled to detect connectivity. Empty disables
	// the check.
	ConnectivityAddr     string
	ConnectivityInterval time.Duration
}

// Stack is the wired set of collaborators behind both the console and the
// one-shot subcommands.
type Stack struct {
	Bus          *bus.Bus
	PrefsStore   prefs.Store
	Prefs        *prefs.Preferences
	Hosts        state.HostStore
	Sidebar      state.SidebarStore
	Certificates state.CertificateStore
	Sync         *shell.Synchronizer

	Notifier *ui.Notifier
	Activity *ui.Activity
	Window   *ui.Window
	Sessions *ui.Sessions
	Process  *ui.Process
	Menu     *ui.MenuSurface
	Tray     *ui.TraySurface
	Dock     *ui.DockSurface

	subs bus.Group
}

// Build opens the preference file and wires every collaborator. The
// synchronizer is started; Close tears it down.
func Build(cfg Config) (*Stack, error) {
	store, err := prefs.OpenFile(cfg.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return BuildWithStore(cfg, store), nil
}

// BuildWithStore wires the stack over an already opened preference store.
func BuildWithStore(cfg Config, store prefs.Store) *Stack {
	b := bus.New()
	p := prefs.New(store, cfg.Platform)
	s := &Stack{
		Bus:          b,
		PrefsStore:   store,
		Prefs:        p,
		Hosts:        state.NewHostStore(b),
		Sidebar:      state.NewSidebarStore(b, p),
		Certificates: state.NewCertificateStore(),
		Notifier:     ui.NewNotifier(),
		Activity:     ui.NewActivity(0),
	}
	s.subs.Add(state.ForgetRemovedHosts(b, s.Sidebar))

	s.Window = ui.NewWindow(b, s.Activity, s.Notifier)
	s.Sessions = ui.NewSessions(b, s.Hosts.Active, s.Sidebar, s.Activity, s.Notifier)
	s.Process = ui.NewProcess(s.Activity, s.Notifier, ui.OpenBrowser)
	s.Menu = ui.NewMenuSurface(s.Notifier)
	s.Tray = ui.NewTraySurface(s.Notifier)
	s.Dock = ui.NewDockSurface(s.Notifier)

	servers := make([]surface.ServerItem, 0, len(cfg.Servers))
	for _, url := range cfg.Servers {
		servers = append(servers, surface.ServerItem{URL: url})
	}
	s.Hosts.Load(servers, "")

	s.Sync = shell.New(shell.Deps{
		Bus:          b,
		Prefs:        p,
		Registry:     s.Hosts,
		Sidebar:      s.Sidebar,
		Window:       s.Window,
		Sessions:     s.Sessions,
		Certificates: s.Certificates,
		App:          s.Process,
		Menu:         s.Menu,
		Tray:         s.Tray,
		Dock:         s.Dock,
	})
	s.Sync.Start()
	s.Tray.Flush(b)
	return s
}

// Close tears down the synchronizer and releases stack subscriptions.
func (s *Stack) Close() {
	s.Sync.Teardown()
	s.Tray.Flush(s.Bus)
	s.subs.Release()
}

// Snapshot is the current state of every native surface.
type Snapshot struct {
	Menu surface.MenuState `json:"menu"`
	Tray surface.TrayState `json:"tray"`
	Dock surface.DockState `json:"dock"`
}

// Snapshot reports what the adapters currently render.
func (s *Stack) Snapshot() Snapshot {
	return Snapshot{Menu: s.Menu.State(), Tray: s.Tray.State(), Dock: s.Dock.State()}
}

// Exec runs commands in order and stops at the first failure. Tray
// lifecycle events raised by a command are delivered before the next one.
func (s *Stack) Exec(cmds []menu.Command) ([]menu.Result, error) {
	results := make([]menu.Result, 0, len(cmds))
	for _, cmd := range cmds {
		res := s.Sync.Execute(cmd)
		s.Tray.Flush(s.Bus)
		results = append(results, res)
		if res.Err != nil {
			return results, fmt.Errorf("%s: %w", cmd.Label(), res.Err)
		}
	}
	return results, nil
}

// NewMachine builds a validator probing over HTTP.
func NewMachine(cfg Config) *validate.Machine {
	return validate.New(validate.HTTPProber{}, cfg.ProbeTimeout)
}

// ValidateHost resolves raw to a reachable server URL. Blank input resolves
// to the default instance without probing.
func ValidateHost(ctx context.Context, cfg Config, raw string) (validate.Result, error) {
	res, err := NewMachine(cfg).Validate(ctx, raw)
	if err != nil {
		return res, err
	}
	if res.Empty {
		res.URL = validate.DefaultInstance
	}
	return res, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	stack, err := Build(cfg)
	if err != nil {
		return err
	}
	defer stack.Close()

	tr := i18n.New(cfg.Lang)
	controller := landing.New(validate.NewField(NewMachine(cfg)), stack.Hosts, stack.Sidebar, tr)
	controller.Attach(stack.Bus)
	defer controller.Detach()

	if watcher := startWatcher(cfg, stack); watcher != nil {
		defer watcher.Stop()
	}

	model := ui.NewModel(ui.Deps{
		Bus:          stack.Bus,
		Executor:     stack.Sync,
		Registry:     stack.Hosts,
		Sidebar:      stack.Sidebar,
		Certificates: stack.Certificates,
		Landing:      controller,
		Translator:   tr,
		Window:       stack.Window,
		Sessions:     stack.Sessions,
		Process:      stack.Process,
		Menu:         stack.Menu,
		Tray:         stack.Tray,
		Dock:         stack.Dock,
		Activity:     stack.Activity,
		Notifier:     stack.Notifier,
	}, ui.Options{Width: cfg.Width, Height: cfg.Height, ShowFooter: true})
	program := tea.NewProgram(model)
	_, err = program.Run()
	events.App.Quit("program")
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// startWatcher feeds preference-file and connectivity changes onto the bus.
// It returns nil when both sources are disabled or the watcher fails.
func startWatcher(cfg Config, stack *Stack) *backend.Watcher {
	opts := backend.Options{Interval: cfg.ConnectivityInterval, Debounce: 200 * time.Millisecond}
	reloader, _ := stack.PrefsStore.(dispatcher.Reloader)
	if cfg.WatchPrefs && reloader != nil {
		opts.PrefsPath = cfg.PrefsPath
	}
	if cfg.ConnectivityAddr != "" {
		opts.Connectivity = backend.DialCheck(cfg.ConnectivityAddr, 3*time.Second)
	}
	if opts.PrefsPath == "" && opts.Connectivity == nil {
		return nil
	}
	watcher, err := backend.NewWatcher(opts)
	if err != nil {
		// The console still works without live reload.
		logging.Warn("backend watcher disabled", "err", err)
		return nil
	}
	go dispatcher.New(stack.Bus, reloader).Run(watcher.Events())
	return watcher
}
