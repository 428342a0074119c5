package state

import (
	"sync"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/prefs"
	"github.com/atomicstack/shell-sync/internal/surface"
)

// SidebarStore owns the server list's sort order, per-host badges and its
// own visibility, which lives in the sidebar-closed preference.
type SidebarStore interface {
	SortOrder() []string
	SetSortOrder(urls []string)
	Badge(url string) surface.Badge
	SetBadge(url string, badge surface.Badge)
	GlobalBadge() surface.Badge
	Forget(url string)
	IsVisible() bool
	Show() error
	Hide() error
	Toggle() error
}

type sidebarStore struct {
	bus   *bus.Bus
	prefs *prefs.Preferences

	mu     sync.Mutex
	order  []string
	badges map[string]surface.Badge
}

// NewSidebarStore creates a sidebar backed by p for visibility.
func NewSidebarStore(b *bus.Bus, p *prefs.Preferences) SidebarStore {
	return &sidebarStore{bus: b, prefs: p, badges: make(map[string]surface.Badge)}
}

func (s *sidebarStore) SortOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneStrings(s.order)
}

func (s *sidebarStore) SetSortOrder(urls []string) {
	order := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		url = NormalizeURL(url)
		if _, dup := seen[url]; dup || url == "" {
			continue
		}
		seen[url] = struct{}{}
		order = append(order, url)
	}
	s.mu.Lock()
	s.order = order
	s.mu.Unlock()

	s.publish(bus.TopicHostsSorted, cloneStrings(order))
}

func (s *sidebarStore) Badge(url string) surface.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.badges[NormalizeURL(url)]
}

func (s *sidebarStore) SetBadge(url string, badge surface.Badge) {
	url = NormalizeURL(url)
	s.mu.Lock()
	if badge == "" {
		delete(s.badges, url)
	} else {
		s.badges[url] = badge
	}
	s.mu.Unlock()

	s.publish(bus.TopicBadgeSet, bus.HostEvent{URL: url})
}

// GlobalBadge sums numeric badges; with no positive count it falls back to
// the activity marker when any host shows activity.
func (s *sidebarStore) GlobalBadge() surface.Badge {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	activity := false
	for _, badge := range s.badges {
		if n, ok := badge.Count(); ok {
			if n > 0 {
				total += n
			}
			continue
		}
		if badge != "" {
			activity = true
		}
	}
	switch {
	case total > 0:
		return surface.CountBadge(total)
	case activity:
		return surface.BadgeActivity
	}
	return ""
}

// Forget drops the badge and sort position of a removed host.
func (s *sidebarStore) Forget(url string) {
	url = NormalizeURL(url)
	s.mu.Lock()
	_, hadBadge := s.badges[url]
	delete(s.badges, url)
	for i, entry := range s.order {
		if entry == url {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if hadBadge {
		s.publish(bus.TopicBadgeSet, bus.HostEvent{URL: url})
	}
}

func (s *sidebarStore) IsVisible() bool {
	return !s.prefs.Bool(prefs.KeySidebarClosed)
}

func (s *sidebarStore) Show() error {
	return s.setClosed(false)
}

func (s *sidebarStore) Hide() error {
	return s.setClosed(true)
}

func (s *sidebarStore) Toggle() error {
	return s.setClosed(s.IsVisible())
}

func (s *sidebarStore) setClosed(closed bool) error {
	if err := s.prefs.SetBool(prefs.KeySidebarClosed, closed); err != nil {
		return err
	}
	s.publish(bus.TopicPrefsChanged, prefs.KeySidebarClosed)
	return nil
}

func (s *sidebarStore) publish(topic bus.Topic, payload interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(topic, payload)
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}

// ForgetRemovedHosts keeps the sidebar in step with the registry: a removed
// host loses its badge and sort position.
func ForgetRemovedHosts(b *bus.Bus, s SidebarStore) *bus.Subscription {
	return b.Subscribe(bus.TopicHostRemoved, func(evt bus.Event) {
		if host, ok := evt.Payload.(bus.HostEvent); ok {
			s.Forget(host.URL)
		}
	})
}
