// Package bus is the single internal event bus that connects the shell's
// collaborators (registry, sidebar, preference store, window, embedded
// sessions, tray) to the synchronizer.
//
// Delivery is run-to-completion: the goroutine that finds the bus idle
// drains the queue, and any Publish issued meanwhile (from a handler or from
// another goroutine) is appended and delivered by that same drain. Handlers
// therefore never interleave, and a handler that publishes never waits on
// its own event.
package bus

import (
	"fmt"
	"sync"

	"github.com/atomicstack/shell-sync/internal/logging"
)

// Topic names a class of notification.
type Topic string

const (
	TopicRegistryLoaded Topic = "registry.loaded"
	TopicActiveCleared  Topic = "registry.active-cleared"
	TopicActiveSet      Topic = "registry.active-set"
	TopicHostAdded      Topic = "registry.host-added"
	TopicHostRemoved    Topic = "registry.host-removed"
	TopicTitleSet       Topic = "registry.title-set"

	TopicHostsSorted Topic = "sidebar.hosts-sorted"
	TopicBadgeSet    Topic = "sidebar.badge-set"

	TopicPrefsChanged Topic = "prefs.changed"

	TopicWindowHide  Topic = "window.hide"
	TopicWindowShow  Topic = "window.show"
	TopicWindowFocus Topic = "window.focus"

	TopicUnreadChanged     Topic = "session.unread-changed"
	TopicCertificateReload Topic = "certificate.reload"

	TopicTrayCreated    Topic = "tray.created"
	TopicTrayDestroyed  Topic = "tray.destroyed"
	TopicTrayVisibility Topic = "tray.set-main-window-visibility"
	TopicTrayQuit       Topic = "tray.quit"

	TopicOnline  Topic = "connectivity.online"
	TopicOffline Topic = "connectivity.offline"

	// TopicCommand carries menu.Command values raised by the menu and tray
	// adapters.
	TopicCommand Topic = "menu.command"
)

// Event is a single delivered notification.
type Event struct {
	Topic   Topic
	Payload interface{}
}

// Handler receives events for a subscribed topic.
type Handler func(Event)

// HostEvent describes a registry change for one server.
type HostEvent struct {
	URL   string
	Title string
}

// UnreadChanged is raised by the embedded-session host when a session
// reports a new unread value. Numeric is false for activity-only markers.
type UnreadChanged struct {
	HostURL string
	Count   int
	Numeric bool
}

// Visibility carries a requested main-window visibility.
type Visibility struct {
	Visible bool
}

// CertificateReload asks the landing form to re-validate a URL after a TLS
// trust decision.
type CertificateReload struct {
	URL string
}

// Bus dispatches events to subscribers in publish order.
type Bus struct {
	mu       sync.Mutex
	subs     map[Topic][]*Subscription
	nextID   uint64
	queue    []Event
	draining bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]*Subscription)}
}

// Subscribe registers handler for topic. The returned subscription stays
// active until Release is called.
func (b *Bus) Subscribe(topic Topic, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{bus: b, topic: topic, id: b.nextID, handler: handler}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub
}

// Publish enqueues an event and drains the queue unless another drain is
// already in progress.
func (b *Bus) Publish(topic Topic, payload interface{}) {
	b.mu.Lock()
	b.queue = append(b.queue, Event{Topic: topic, Payload: payload})
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	for len(b.queue) > 0 {
		evt := b.queue[0]
		b.queue = b.queue[1:]
		handlers := make([]Handler, 0, len(b.subs[evt.Topic]))
		for _, sub := range b.subs[evt.Topic] {
			handlers = append(handlers, sub.handler)
		}
		b.mu.Unlock()
		for _, h := range handlers {
			deliver(h, evt)
		}
		b.mu.Lock()
	}
	b.draining = false
	b.mu.Unlock()
}

// Subscribers reports how many handlers are attached to topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

func deliver(h Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error(fmt.Errorf("bus handler for %s panicked: %v", evt.Topic, r))
		}
	}()
	h(evt)
}

func (b *Bus) remove(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.topic]
	for i, candidate := range list {
		if candidate.id != sub.id {
			continue
		}
		b.subs[sub.topic] = append(list[:i:i], list[i+1:]...)
		if len(b.subs[sub.topic]) == 0 {
			delete(b.subs, sub.topic)
		}
		return true
	}
	return false
}

// Subscription is a handle for one registered handler.
type Subscription struct {
	bus     *Bus
	topic   Topic
	id      uint64
	handler Handler
}

// Topic reports the subscribed topic.
func (s *Subscription) Topic() Topic {
	return s.topic
}

// Release detaches the handler. Releasing twice is a no-op and reports false.
func (s *Subscription) Release() bool {
	if s == nil || s.bus == nil {
		return false
	}
	return s.bus.remove(s)
}

// Group holds subscriptions that share a lifetime.
type Group struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add tracks subs for later release.
func (g *Group) Add(subs ...*Subscription) {
	g.mu.Lock()
	g.subs = append(g.subs, subs...)
	g.mu.Unlock()
}

// Len reports how many subscriptions are tracked.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// Release detaches every tracked subscription and returns how many were
// still attached.
func (g *Group) Release() int {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()
	released := 0
	for _, sub := range subs {
		if sub.Release() {
			released++
		}
	}
	return released
}
