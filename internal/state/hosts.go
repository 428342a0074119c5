package state

import (
	"strings"
	"sync"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/surface"
)

// HostStore is the in-memory server registry. Hosts are keyed by URL and
// kept in registration order; every mutation is announced on the bus.
type HostStore interface {
	Load(hosts []surface.ServerItem, active string)
	Add(url string) (string, bool)
	Remove(url string) bool
	SetTitle(url, title string) bool
	Hosts() []surface.ServerItem
	Has(url string) bool
	Active() string
	SetActive(url string) bool
	ClearActive()
	RestoreActive() string
	ResetAppData()
}

type hostStore struct {
	bus *bus.Bus

	mu         sync.Mutex
	entries    []surface.ServerItem
	active     string
	lastActive string
}

// NewHostStore creates an empty registry publishing on b.
func NewHostStore(b *bus.Bus) HostStore {
	return &hostStore{bus: b}
}

// NormalizeURL trims whitespace and trailing slashes.
func NormalizeURL(url string) string {
	return strings.TrimRight(strings.TrimSpace(url), "/")
}

func (h *hostStore) Load(hosts []surface.ServerItem, active string) {
	h.mu.Lock()
	h.entries = nil
	for _, host := range hosts {
		url := NormalizeURL(host.URL)
		if url == "" || h.indexLocked(url) >= 0 {
			continue
		}
		title := host.Title
		if title == "" {
			title = url
		}
		h.entries = append(h.entries, surface.ServerItem{Title: title, URL: url})
	}
	h.active = ""
	h.lastActive = NormalizeURL(active)
	count := len(h.entries)
	h.mu.Unlock()

	h.publish(bus.TopicRegistryLoaded, count)
}

func (h *hostStore) Add(url string) (string, bool) {
	url = NormalizeURL(url)
	h.mu.Lock()
	if url == "" || h.indexLocked(url) >= 0 {
		h.mu.Unlock()
		events.Registry.Add(url, false)
		return url, false
	}
	h.entries = append(h.entries, surface.ServerItem{Title: url, URL: url})
	h.mu.Unlock()

	events.Registry.Add(url, true)
	h.publish(bus.TopicHostAdded, bus.HostEvent{URL: url, Title: url})
	return url, true
}

func (h *hostStore) Remove(url string) bool {
	url = NormalizeURL(url)
	h.mu.Lock()
	idx := h.indexLocked(url)
	if idx < 0 {
		h.mu.Unlock()
		return false
	}
	h.entries = append(h.entries[:idx:idx], h.entries[idx+1:]...)
	wasActive := h.active == url
	if wasActive {
		h.active = ""
	}
	if h.lastActive == url {
		h.lastActive = ""
	}
	h.mu.Unlock()

	events.Registry.Remove(url)
	h.publish(bus.TopicHostRemoved, bus.HostEvent{URL: url})
	if wasActive {
		h.publish(bus.TopicActiveCleared, nil)
	}
	return true
}

func (h *hostStore) SetTitle(url, title string) bool {
	url = NormalizeURL(url)
	h.mu.Lock()
	idx := h.indexLocked(url)
	if idx < 0 {
		h.mu.Unlock()
		return false
	}
	if title == "" {
		title = url
	}
	h.entries[idx].Title = title
	h.mu.Unlock()

	h.publish(bus.TopicTitleSet, bus.HostEvent{URL: url, Title: title})
	return true
}

func (h *hostStore) Hosts() []surface.ServerItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneHosts(h.entries)
}

func (h *hostStore) Has(url string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.indexLocked(NormalizeURL(url)) >= 0
}

func (h *hostStore) Active() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *hostStore) SetActive(url string) bool {
	url = NormalizeURL(url)
	h.mu.Lock()
	if h.indexLocked(url) < 0 {
		h.mu.Unlock()
		return false
	}
	h.active = url
	h.lastActive = url
	h.mu.Unlock()

	events.Registry.Activate(url)
	h.publish(bus.TopicActiveSet, bus.HostEvent{URL: url})
	return true
}

func (h *hostStore) ClearActive() {
	h.mu.Lock()
	h.active = ""
	h.mu.Unlock()

	events.Registry.Activate("")
	h.publish(bus.TopicActiveCleared, nil)
}

// RestoreActive re-activates the last active host, falling back to the first
// registered one. It returns the activated URL or "" when the registry is
// empty.
func (h *hostStore) RestoreActive() string {
	h.mu.Lock()
	target := ""
	if h.lastActive != "" && h.indexLocked(h.lastActive) >= 0 {
		target = h.lastActive
	} else if len(h.entries) > 0 {
		target = h.entries[0].URL
	}
	h.mu.Unlock()

	if target == "" {
		return ""
	}
	h.SetActive(target)
	return target
}

func (h *hostStore) ResetAppData() {
	h.mu.Lock()
	count := len(h.entries)
	h.entries = nil
	h.active = ""
	h.lastActive = ""
	h.mu.Unlock()

	events.Registry.Reset(count)
	h.publish(bus.TopicActiveCleared, nil)
	h.publish(bus.TopicRegistryLoaded, 0)
}

func (h *hostStore) indexLocked(url string) int {
	for i, entry := range h.entries {
		if entry.URL == url {
			return i
		}
	}
	return -1
}

func (h *hostStore) publish(topic bus.Topic, payload interface{}) {
	if h.bus == nil {
		return
	}
	h.bus.Publish(topic, payload)
}

func cloneHosts(entries []surface.ServerItem) []surface.ServerItem {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]surface.ServerItem, len(entries))
	copy(dup, entries)
	return dup
}
