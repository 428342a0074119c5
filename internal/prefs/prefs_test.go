package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestDefaultsDependOnPlatform(t *testing.T) {
	tests := []struct {
		platform string
		wantTray bool
	}{
		{"linux", false},
		{"darwin", true},
		{"windows", true},
	}
	for _, tt := range tests {
		p := New(NewMemoryStore(nil), tt.platform)
		if got := p.TrayIconVisible(); got != tt.wantTray {
			t.Fatalf("%s: expected tray visible %v, got %v", tt.platform, tt.wantTray, got)
		}
		for _, key := range []Key{KeyShowWindowOnUnreadChanged, KeyAutohideMenu, KeySidebarClosed} {
			if p.Bool(key) {
				t.Fatalf("%s: expected %s to default false", tt.platform, key)
			}
		}
	}
}

func TestExplicitValueOverridesDefault(t *testing.T) {
	p := New(NewMemoryStore(map[Key]string{KeyHideTray: "false"}), "linux")
	if !p.TrayIconVisible() {
		t.Fatalf("expected explicit hideTray=false to show the tray on linux")
	}
	p = New(NewMemoryStore(map[Key]string{KeyHideTray: "yes"}), "darwin")
	if !p.TrayIconVisible() {
		t.Fatalf("expected non-\"true\" values to read as false")
	}
}

func TestToggleRoundTripsEffectiveValue(t *testing.T) {
	for _, platform := range []string{"linux", "darwin"} {
		for _, key := range Keys() {
			p := New(NewMemoryStore(nil), platform)
			original := p.Bool(key)
			first, err := p.Toggle(key)
			if err != nil {
				t.Fatalf("toggle %s: %v", key, err)
			}
			if first == original {
				t.Fatalf("%s/%s: expected toggle to flip %v", platform, key, original)
			}
			if _, err := p.Toggle(key); err != nil {
				t.Fatalf("toggle %s: %v", key, err)
			}
			if p.Bool(key) != original {
				t.Fatalf("%s/%s: expected round trip to %v", platform, key, original)
			}
		}
	}
}

func TestSetBoolRejectsUnknownKey(t *testing.T) {
	p := New(NewMemoryStore(nil), "linux")
	if err := p.SetBool(Key("zoom"), true); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestFileStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := New(store, "linux")
	if err := p.SetBool(KeyAutohideMenu, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := p.SetBool(KeySidebarClosed, true); err != nil {
		t.Fatalf("set: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	p2 := New(reopened, "linux")
	if !p2.Bool(KeyAutohideMenu) || !p2.Bool(KeySidebarClosed) {
		t.Fatalf("expected persisted values, got autohide=%v sidebar=%v", p2.Bool(KeyAutohideMenu), p2.Bool(KeySidebarClosed))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "autohideMenu") {
		t.Fatalf("expected key in file, got %q", data)
	}
}

func TestFileStoreReloadPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := os.WriteFile(path, []byte("hideTray = \"true\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v, ok := store.Get(KeyHideTray); !ok || v != "true" {
		t.Fatalf("expected hideTray=true after reload, got %q %v", v, ok)
	}
}

func TestFileStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("hideTray = [\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestConcurrentTogglesDoNotLoseUpdates(t *testing.T) {
	store, err := OpenFile(filepath.Join(t.TempDir(), "prefs.toml"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := New(store, "linux")
	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Toggle(KeyAutohideMenu); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()
	if p.Bool(KeyAutohideMenu) {
		t.Fatalf("expected %d toggles to cancel out", n)
	}
}

func TestFileStoreReloadDuringWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			if err := store.Reload(); err != nil {
				t.Errorf("reload: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 50; i++ {
		value := "false"
		if i%2 == 0 {
			value = "true"
		}
		if err := store.Set(KeyHideTray, value); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	<-done
	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v, ok := store.Get(KeyHideTray); !ok || v != "false" {
		t.Fatalf("expected last write to survive reloads, got %q %v", v, ok)
	}
}
