package shell

import (
	"fmt"

	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
	"github.com/atomicstack/shell-sync/internal/prefs"
)

func (s *Synchronizer) handlers() map[menu.CommandID]menu.Action {
	return map[menu.CommandID]menu.Action{
		menu.CommandQuit:                  s.quit,
		menu.CommandAbout:                 s.about,
		menu.CommandOpenURL:               s.openURL,
		menu.CommandAddNewServer:          s.addNewServer,
		menu.CommandSelectServer:          s.selectServer,
		menu.CommandReloadServer:          s.reloadServer,
		menu.CommandOpenDevToolsForServer: s.withActive(func() { s.deps.Sessions.OpenDevTools() }),
		menu.CommandGoBack:                s.withActive(func() { s.deps.Sessions.GoBack() }),
		menu.CommandGoForward:             s.withActive(func() { s.deps.Sessions.GoForward() }),
		menu.CommandReloadApp:             s.reloadApp,
		menu.CommandToggleDevTools:        s.toggleDevTools,
		menu.CommandResetAppData:          s.resetAppData,
		menu.CommandToggle:                s.toggle,
	}
}

func (s *Synchronizer) quit(menu.Command) menu.Result {
	events.App.Quit("menu")
	s.deps.App.Quit()
	return menu.Result{Info: "quitting"}
}

func (s *Synchronizer) about(menu.Command) menu.Result {
	s.deps.App.OpenAboutDialog()
	return menu.Result{}
}

func (s *Synchronizer) openURL(cmd menu.Command) menu.Result {
	if cmd.URL == "" {
		return menu.Result{Err: fmt.Errorf("open-url: missing url")}
	}
	events.App.OpenExternal(cmd.URL)
	if err := s.deps.App.OpenExternal(cmd.URL); err != nil {
		return menu.Result{Err: fmt.Errorf("open %s: %w", cmd.URL, err)}
	}
	return menu.Result{Info: "opened " + cmd.URL}
}

func (s *Synchronizer) addNewServer(menu.Command) menu.Result {
	s.deps.Window.Show()
	s.deps.Registry.ClearActive()
	s.deps.Sessions.ShowLanding()
	return menu.Result{}
}

func (s *Synchronizer) selectServer(cmd menu.Command) menu.Result {
	s.deps.Window.Show()
	if !s.deps.Registry.SetActive(cmd.URL) {
		return menu.Result{Err: fmt.Errorf("unknown server %q", cmd.URL)}
	}
	return menu.Result{Info: "selected " + cmd.URL}
}

func (s *Synchronizer) reloadServer(cmd menu.Command) menu.Result {
	if cmd.Reload.ClearCertificates && s.deps.Certificates != nil {
		if err := s.deps.Certificates.Clear(); err != nil {
			return menu.Result{Err: fmt.Errorf("clear certificates: %w", err)}
		}
	}
	if s.deps.Registry.Active() == "" {
		return menu.Result{Noop: true}
	}
	if cmd.Reload.IgnoringCache {
		s.deps.Sessions.ReloadIgnoringCache()
	} else {
		s.deps.Sessions.Reload()
	}
	return menu.Result{}
}

func (s *Synchronizer) withActive(fn func()) menu.Action {
	return func(menu.Command) menu.Result {
		if s.deps.Registry.Active() == "" {
			return menu.Result{Noop: true}
		}
		fn()
		return menu.Result{}
	}
}

func (s *Synchronizer) reloadApp(menu.Command) menu.Result {
	s.deps.Window.Reload()
	return menu.Result{}
}

func (s *Synchronizer) toggleDevTools(menu.Command) menu.Result {
	s.deps.Window.ToggleDevTools()
	return menu.Result{}
}

func (s *Synchronizer) resetAppData(menu.Command) menu.Result {
	s.deps.Registry.ResetAppData()
	return menu.Result{Info: "app data reset"}
}

// toggle flips one option. Preference-backed options persist the negation
// of their effective value, so unset keys honour their defaults.
func (s *Synchronizer) toggle(cmd menu.Command) menu.Result {
	var err error
	switch cmd.Option {
	case menu.OptionShowTrayIcon:
		_, err = s.deps.Prefs.Toggle(prefs.KeyHideTray)
	case menu.OptionShowWindowOnUnreadChanged:
		_, err = s.deps.Prefs.Toggle(prefs.KeyShowWindowOnUnreadChanged)
	case menu.OptionShowMenuBar:
		_, err = s.deps.Prefs.Toggle(prefs.KeyAutohideMenu)
	case menu.OptionShowServerList:
		err = s.deps.Sidebar.Toggle()
	case menu.OptionShowFullScreen:
		s.deps.Window.SetFullScreen(!s.deps.Window.IsFullScreen())
	default:
		return menu.Result{Noop: true}
	}
	if err != nil {
		return menu.Result{Err: fmt.Errorf("toggle %s: %w", cmd.Option, err)}
	}
	return menu.Result{Info: "toggled " + string(cmd.Option)}
}
