package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/shell-sync/internal/backend"
	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/data/dispatcher"
	"github.com/atomicstack/shell-sync/internal/menu"
	"github.com/atomicstack/shell-sync/internal/prefs"
	"github.com/atomicstack/shell-sync/internal/validate"
)

func newTestStack(t *testing.T, servers ...string) *Stack {
	t.Helper()
	stack := BuildWithStore(Config{Platform: "linux", Servers: servers}, prefs.NewMemoryStore(nil))
	t.Cleanup(stack.Close)
	return stack
}

func newFileStack(t *testing.T, servers ...string) *Stack {
	t.Helper()
	stack, err := Build(Config{
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Platform:  "linux",
		Servers:   servers,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(stack.Close)
	return stack
}

func TestBuildRestoresFirstServer(t *testing.T) {
	stack := newTestStack(t, "https://a.example/", "https://b.example")
	snap := stack.Snapshot()
	if len(snap.Menu.Servers) != 2 || snap.Menu.Servers[0].URL != "https://a.example" {
		t.Fatalf("unexpected servers %#v", snap.Menu.Servers)
	}
	if snap.Menu.CurrentServerURL != "https://a.example" {
		t.Fatalf("expected first server active, got %q", snap.Menu.CurrentServerURL)
	}
	if !snap.Tray.IsMainWindowVisible {
		t.Fatalf("expected tray to know the window is visible")
	}
}

func TestExecTogglesTrayIcon(t *testing.T) {
	stack := newTestStack(t)
	before := stack.Snapshot().Tray.ShowIcon
	results, err := stack.Exec([]menu.Command{menu.Toggle(menu.OptionShowTrayIcon)})
	if err != nil || len(results) != 1 {
		t.Fatalf("exec: %v %#v", err, results)
	}
	snap := stack.Snapshot()
	if snap.Tray.ShowIcon == before || snap.Menu.ShowTrayIcon == before {
		t.Fatalf("expected tray icon flipped from %t, got %#v", before, snap)
	}
	if stack.Window.HideOnClose() != snap.Tray.ShowIcon {
		t.Fatalf("expected hide-on-close to follow the tray icon")
	}
}

func TestExecTreatsUnknownCommandsAsNoops(t *testing.T) {
	stack := newTestStack(t, "https://a.example")
	cmds := []menu.Command{
		menu.Simple(menu.CommandGoBack),
		menu.Simple(menu.CommandID("nonsense")),
		menu.Simple(menu.CommandQuit),
	}
	results, err := stack.Exec(cmds)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(results) != 3 || !results[1].Noop {
		t.Fatalf("unexpected results %#v", results)
	}
	if !stack.Process.Quitting() {
		t.Fatalf("expected quit to be recorded")
	}
}

func TestExecStopsAtFirstFailure(t *testing.T) {
	stack := newTestStack(t, "https://a.example")
	cmds := []menu.Command{
		menu.SelectServer("https://missing.example"),
		menu.Simple(menu.CommandQuit),
	}
	results, err := stack.Exec(cmds)
	if err == nil || len(results) != 1 {
		t.Fatalf("expected failure after one command, got %v %#v", err, results)
	}
	if stack.Process.Quitting() {
		t.Fatalf("expected later commands to be skipped")
	}
}

func TestValidateHostOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != validate.InfoPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"6.0.0"}`))
	}))
	defer srv.Close()

	cfg := Config{ProbeTimeout: time.Second}
	res, err := ValidateHost(context.Background(), cfg, srv.URL)
	if err != nil || res.URL != srv.URL {
		t.Fatalf("expected %s to validate, got %#v %v", srv.URL, res, err)
	}

	res, err = ValidateHost(context.Background(), cfg, "  ")
	if err != nil || res.URL != validate.DefaultInstance {
		t.Fatalf("expected blank input to resolve to the default instance, got %#v %v", res, err)
	}

	_, err = ValidateHost(context.Background(), cfg, srv.URL+"/missing")
	if !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestConcurrentTogglesPersistEveryFlip(t *testing.T) {
	stack := newFileStack(t)
	for round := 0; round < 20; round++ {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if res := stack.Sync.Execute(menu.Toggle(menu.OptionShowMenuBar)); res.Err != nil {
					t.Errorf("toggle: %v", res.Err)
				}
			}()
		}
		wg.Wait()
		if stack.Prefs.Bool(prefs.KeyAutohideMenu) {
			t.Fatalf("round %d: expected an even number of toggles to leave autohideMenu=false", round)
		}
		if !stack.Snapshot().Menu.ShowMenuBar {
			t.Fatalf("round %d: expected the menu to show the menu bar", round)
		}
	}
}

func TestCommandsInterleaveWithNotifications(t *testing.T) {
	urls := []string{"https://a.example", "https://b.example"}
	stack := newFileStack(t, urls...)
	reloader, ok := stack.PrefsStore.(dispatcher.Reloader)
	if !ok {
		t.Fatalf("expected the file store to reload")
	}
	d := dispatcher.New(stack.Bus, reloader)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			d.Handle(backend.Event{Kind: backend.KindPrefs})
			stack.Bus.Publish(bus.TopicWindowFocus, nil)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if res := stack.Sync.Execute(menu.Toggle(menu.OptionShowTrayIcon)); res.Err != nil {
					t.Errorf("toggle: %v", res.Err)
				}
				if res := stack.Sync.Execute(menu.SelectServer(urls[(i+j)%len(urls)])); res.Err != nil {
					t.Errorf("select: %v", res.Err)
				}
			}
		}(i)
	}
	wg.Wait()
	close(stop)
	<-done

	if stack.Prefs.TrayIconVisible() {
		t.Fatalf("expected 80 toggles to restore the hidden linux default")
	}
	snap := stack.Snapshot()
	if snap.Menu.ShowTrayIcon {
		t.Fatalf("expected the menu to agree with the stored preference")
	}
	if snap.Menu.CurrentServerURL != stack.Hosts.Active() {
		t.Fatalf("expected menu selection %q to match active %q", snap.Menu.CurrentServerURL, stack.Hosts.Active())
	}
}
