package ui

import (
	"errors"
	"reflect"
	"sync"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/surface"
)

var errSurfaceDestroyed = errors.New("surface destroyed")

// MenuSurface renders the application menu as the console's entry list.
type MenuSurface struct {
	notify *Notifier

	mu      sync.Mutex
	state   surface.MenuState
	pushes  int
	applied int
}

// NewMenuSurface creates an empty menu surface.
func NewMenuSurface(n *Notifier) *MenuSurface {
	return &MenuSurface{notify: n}
}

// SetState records a snapshot. Snapshots equal to the current one are
// counted but not applied.
func (s *MenuSurface) SetState(state surface.MenuState) error {
	state.Servers = append([]surface.ServerItem(nil), state.Servers...)
	s.mu.Lock()
	s.pushes++
	changed := s.applied == 0 || !reflect.DeepEqual(s.state, state)
	if changed {
		s.state = state
		s.applied++
	}
	s.mu.Unlock()
	if changed {
		s.notify.Notify()
	}
	return nil
}

// State returns the applied snapshot.
func (s *MenuSurface) State() surface.MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	state.Servers = append([]surface.ServerItem(nil), s.state.Servers...)
	return state
}

// Pushes reports how many snapshots were received and how many changed
// the rendering.
func (s *MenuSurface) Pushes() (received, applied int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushes, s.applied
}

// TraySurface renders the tray as a status line. Creating and destroying the
// icon is announced on the bus, but only from Flush: pushes arrive while
// the synchronizer is mid-recompute and must not re-enter it.
type TraySurface struct {
	notify *Notifier

	mu        sync.Mutex
	state     surface.TrayState
	created   bool
	destroyed bool
	pending   []bus.Topic
}

// NewTraySurface creates a tray surface with no icon.
func NewTraySurface(n *Notifier) *TraySurface {
	return &TraySurface{notify: n}
}

func (s *TraySurface) SetState(state surface.TrayState) error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return errSurfaceDestroyed
	}
	changed := s.state != state
	s.state = state
	switch {
	case state.ShowIcon && !s.created:
		s.created = true
		s.pending = append(s.pending, bus.TopicTrayCreated)
	case !state.ShowIcon && s.created:
		s.created = false
		s.pending = append(s.pending, bus.TopicTrayDestroyed)
	}
	queued := len(s.pending) > 0
	s.mu.Unlock()
	if changed || queued {
		s.notify.Notify()
	}
	return nil
}

func (s *TraySurface) SetMainWindowVisible(visible bool) error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return errSurfaceDestroyed
	}
	changed := s.state.IsMainWindowVisible != visible
	s.state.IsMainWindowVisible = visible
	s.mu.Unlock()
	if changed {
		s.notify.Notify()
	}
	return nil
}

// Destroy removes the icon. Later pushes fail.
func (s *TraySurface) Destroy() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return nil
	}
	s.destroyed = true
	if s.created {
		s.created = false
		s.pending = append(s.pending, bus.TopicTrayDestroyed)
	}
	s.mu.Unlock()
	s.notify.Notify()
	return nil
}

// Flush publishes queued icon lifecycle events on b and reports how many
// were sent.
func (s *TraySurface) Flush(b *bus.Bus) int {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	if b == nil {
		return 0
	}
	for _, topic := range pending {
		b.Publish(topic, nil)
	}
	return len(pending)
}

// State returns the current snapshot.
func (s *TraySurface) State() surface.TrayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Created reports whether the icon exists.
func (s *TraySurface) Created() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// DockSurface renders the dock badge.
type DockSurface struct {
	notify *Notifier

	mu        sync.Mutex
	state     surface.DockState
	destroyed bool
}

// NewDockSurface creates an empty dock surface.
func NewDockSurface(n *Notifier) *DockSurface {
	return &DockSurface{notify: n}
}

func (s *DockSurface) SetState(state surface.DockState) error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return errSurfaceDestroyed
	}
	changed := s.state != state
	s.state = state
	s.mu.Unlock()
	if changed {
		s.notify.Notify()
	}
	return nil
}

func (s *DockSurface) Destroy() error {
	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()
	return nil
}

// State returns the current snapshot.
func (s *DockSurface) State() surface.DockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
