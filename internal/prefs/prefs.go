// Package prefs is the injected preference port. It names every key the
// shell understands, documents each default, and turns the string-valued
// store into typed booleans.
package prefs

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/atomicstack/shell-sync/internal/logging/events"
)

// Key is a recognised preference name.
type Key string

const (
	// KeyHideTray hides the tray icon. Unset means the platform default:
	// hidden on linux, shown elsewhere.
	KeyHideTray Key = "hideTray"
	// KeyShowWindowOnUnreadChanged reveals the window when a background
	// session gains unread messages. Default false.
	KeyShowWindowOnUnreadChanged Key = "showWindowOnUnreadChanged"
	// KeyAutohideMenu hides the menu bar until Alt is pressed. Default false.
	KeyAutohideMenu Key = "autohideMenu"
	// KeySidebarClosed collapses the server list. Owned by the sidebar.
	// Default false.
	KeySidebarClosed Key = "sidebar-closed"
)

// PlatformLinux is the platform where the tray icon defaults to hidden.
const PlatformLinux = "linux"

// Keys lists every recognised key in a stable order.
func Keys() []Key {
	return []Key{KeyHideTray, KeyShowWindowOnUnreadChanged, KeyAutohideMenu, KeySidebarClosed}
}

// Valid reports whether k is a recognised key.
func (k Key) Valid() bool {
	for _, known := range Keys() {
		if k == known {
			return true
		}
	}
	return false
}

// Store is the persistence contract: string values keyed by Key.
type Store interface {
	Get(key Key) (string, bool)
	Set(key Key, value string) error
}

// Preferences layers typed access and defaults over a Store.
type Preferences struct {
	store    Store
	platform string

	// writeMu makes Toggle's read and write one step against SetBool.
	writeMu sync.Mutex
}

// New wraps store. An empty platform uses runtime.GOOS.
func New(store Store, platform string) *Preferences {
	if platform == "" {
		platform = runtime.GOOS
	}
	return &Preferences{store: store, platform: platform}
}

// Platform reports the platform used for defaults.
func (p *Preferences) Platform() string {
	return p.platform
}

// Default returns the value used when key has never been written.
func (p *Preferences) Default(key Key) bool {
	if key == KeyHideTray {
		return p.platform == PlatformLinux
	}
	return false
}

// Bool returns the effective value of key.
func (p *Preferences) Bool(key Key) bool {
	raw, ok := p.store.Get(key)
	if !ok {
		return p.Default(key)
	}
	return raw == "true"
}

// IsSet reports whether key holds an explicit value.
func (p *Preferences) IsSet(key Key) bool {
	_, ok := p.store.Get(key)
	return ok
}

// SetBool persists value for key.
func (p *Preferences) SetBool(key Key, value bool) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.setBoolLocked(key, value)
}

func (p *Preferences) setBoolLocked(key Key, value bool) error {
	if !key.Valid() {
		return fmt.Errorf("unknown preference %q", key)
	}
	encoded := strconv.FormatBool(value)
	if err := p.store.Set(key, encoded); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	events.Prefs.Set(string(key), encoded)
	return nil
}

// Toggle persists the negation of the effective value and returns it.
func (p *Preferences) Toggle(key Key) (bool, error) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	next := !p.Bool(key)
	if err := p.setBoolLocked(key, next); err != nil {
		return p.Bool(key), err
	}
	return next, nil
}

// TrayIconVisible is the effective tray icon visibility.
func (p *Preferences) TrayIconVisible() bool {
	return !p.Bool(KeyHideTray)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[Key]string
}

// NewMemoryStore creates a store seeded with values.
func NewMemoryStore(values map[Key]string) *MemoryStore {
	s := &MemoryStore{values: make(map[Key]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *MemoryStore) Get(key Key) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key Key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}
