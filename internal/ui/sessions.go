package ui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/surface"
)

// Badges stores per-host unread badges.
type Badges interface {
	SetBadge(url string, badge surface.Badge)
}

type history struct {
	pages []string
	index int
}

// Sessions hosts one embedded session per server. Each session keeps its
// own navigation history; actions apply to the active server.
type Sessions struct {
	bus    *bus.Bus
	active func() string
	badges Badges
	log    *Activity
	notify *Notifier

	mu       sync.Mutex
	landing  bool
	focused  string
	history  map[string]*history
	devTools map[string]bool
}

// NewSessions creates a host reading the active server from active.
func NewSessions(b *bus.Bus, active func() string, badges Badges, log *Activity, n *Notifier) *Sessions {
	return &Sessions{
		bus:      b,
		active:   active,
		badges:   badges,
		log:      log,
		notify:   n,
		history:  map[string]*history{},
		devTools: map[string]bool{},
	}
}

// ShowLanding asks the console to present the add-server form.
func (s *Sessions) ShowLanding() {
	s.mu.Lock()
	s.landing = true
	s.mu.Unlock()
	events.Session.Action("show-landing", "")
	s.notify.Notify()
}

// TakeLanding consumes a pending ShowLanding request.
func (s *Sessions) TakeLanding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.landing
	s.landing = false
	return pending
}

func (s *Sessions) Reload() {
	s.act("reload")
}

func (s *Sessions) ReloadIgnoringCache() {
	s.act("reload ignoring cache")
}

func (s *Sessions) OpenDevTools() {
	host := s.active()
	s.mu.Lock()
	s.devTools[host] = true
	s.mu.Unlock()
	s.act("devtools")
}

func (s *Sessions) GoBack() {
	s.move(-1, "back")
}

func (s *Sessions) GoForward() {
	s.move(1, "forward")
}

// FocusActive hands keyboard focus to the active session.
func (s *Sessions) FocusActive() {
	host := s.active()
	s.mu.Lock()
	s.focused = host
	s.mu.Unlock()
	events.Session.Action("focus", host)
}

// Focused reports the session that last received focus.
func (s *Sessions) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Navigate opens page in the active session, discarding forward history.
func (s *Sessions) Navigate(page string) bool {
	host := s.active()
	page = strings.TrimSpace(page)
	if host == "" || page == "" {
		return false
	}
	if !strings.HasPrefix(page, "/") {
		page = "/" + page
	}
	s.mu.Lock()
	h := s.historyLocked(host)
	h.pages = append(h.pages[:h.index+1], page)
	h.index = len(h.pages) - 1
	s.mu.Unlock()
	events.Session.Navigate(host, page)
	s.log.Addf("%s %s", host, page)
	s.notify.Notify()
	return true
}

// Page reports the page shown by host's session.
func (s *Sessions) Page(host string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.history[host]
	if !ok {
		return "/"
	}
	return h.pages[h.index]
}

// ReportUnread records a session's unread value and announces it. Numeric
// values become count badges; "0" and "" clear; anything else marks
// activity without a count.
func (s *Sessions) ReportUnread(host, value string) {
	value = strings.TrimSpace(value)
	count, err := strconv.Atoi(value)
	numeric := err == nil
	var badge surface.Badge
	switch {
	case numeric:
		badge = surface.CountBadge(count)
	case value != "":
		badge = surface.BadgeActivity
	}
	if s.badges != nil {
		s.badges.SetBadge(host, badge)
	}
	if s.bus != nil {
		s.bus.Publish(bus.TopicUnreadChanged, bus.UnreadChanged{HostURL: host, Count: count, Numeric: numeric})
	}
}

func (s *Sessions) act(action string) {
	host := s.active()
	events.Session.Action(action, host)
	s.log.Addf("%s %s", action, host)
	s.notify.Notify()
}

func (s *Sessions) move(delta int, action string) {
	host := s.active()
	s.mu.Lock()
	h := s.historyLocked(host)
	next := h.index + delta
	moved := next >= 0 && next < len(h.pages)
	if moved {
		h.index = next
	}
	page := h.pages[h.index]
	s.mu.Unlock()
	events.Session.Action(action, host)
	if moved {
		s.log.Addf("%s %s %s", action, host, page)
	} else {
		s.log.Addf("%s %s: no history", action, host)
	}
	s.notify.Notify()
}

func (s *Sessions) historyLocked(host string) *history {
	h, ok := s.history[host]
	if !ok {
		h = &history{pages: []string{"/"}}
		s.history[host] = h
	}
	return h
}
