package shell

import (
	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/logging/events"
	"github.com/atomicstack/shell-sync/internal/menu"
	"github.com/atomicstack/shell-sync/internal/prefs"
)

// recomputeTopics trigger a full recompute.
var recomputeTopics = []bus.Topic{
	bus.TopicRegistryLoaded,
	bus.TopicActiveCleared,
	bus.TopicActiveSet,
	bus.TopicHostAdded,
	bus.TopicHostRemoved,
	bus.TopicTitleSet,
	bus.TopicHostsSorted,
	bus.TopicBadgeSet,
	bus.TopicPrefsChanged,
}

func (s *Synchronizer) attach() {
	b := s.deps.Bus
	if b == nil {
		return
	}
	for _, topic := range recomputeTopics {
		trigger := string(topic)
		s.subs.Add(b.Subscribe(topic, func(bus.Event) {
			s.RecomputeAndPublish(trigger)
		}))
	}
	s.subs.Add(
		b.Subscribe(bus.TopicWindowHide, func(bus.Event) { s.pushWindowVisibility() }),
		b.Subscribe(bus.TopicWindowShow, func(bus.Event) { s.pushWindowVisibility() }),
		b.Subscribe(bus.TopicWindowFocus, func(bus.Event) { s.onFocus() }),
		b.Subscribe(bus.TopicUnreadChanged, s.onUnreadChanged),
		b.Subscribe(bus.TopicTrayCreated, func(bus.Event) { s.deps.Window.SetHideOnClose(true) }),
		b.Subscribe(bus.TopicTrayDestroyed, func(bus.Event) { s.deps.Window.SetHideOnClose(false) }),
		b.Subscribe(bus.TopicTrayVisibility, s.onTrayVisibility),
		b.Subscribe(bus.TopicTrayQuit, func(bus.Event) {
			events.App.Quit("tray")
			s.deps.App.Quit()
		}),
		b.Subscribe(bus.TopicCommand, s.onCommand),
	)
}

func (s *Synchronizer) onFocus() {
	s.mu.Lock()
	flashing := s.flashing
	s.flashing = false
	s.mu.Unlock()
	if flashing {
		s.deps.Window.FlashFrame(false)
		events.Window.FlashStopped()
	}
	s.deps.Sessions.FocusActive()
}

// onUnreadChanged raises the window without stealing focus when a numeric
// unread count arrives, the preference allows it, and the window is not
// focused. Any other case leaves the window untouched.
func (s *Synchronizer) onUnreadChanged(evt bus.Event) {
	unread, ok := evt.Payload.(bus.UnreadChanged)
	if !ok {
		return
	}
	switch {
	case !unread.Numeric:
		events.Window.AttentionSkipped(unread.HostURL, events.ReasonNotNumeric)
		return
	case !s.deps.Prefs.Bool(prefs.KeyShowWindowOnUnreadChanged):
		events.Window.AttentionSkipped(unread.HostURL, events.ReasonPreferenceOff)
		return
	case s.deps.Window.IsFocused():
		events.Window.AttentionSkipped(unread.HostURL, events.ReasonFocused)
		return
	}
	s.mu.Lock()
	s.flashing = true
	s.mu.Unlock()
	events.Window.Attention(unread.HostURL, unread.Count)
	s.deps.Window.ShowInactive()
	s.deps.Window.FlashFrame(true)
}

func (s *Synchronizer) onTrayVisibility(evt bus.Event) {
	vis, ok := evt.Payload.(bus.Visibility)
	if !ok {
		return
	}
	if vis.Visible {
		s.deps.Window.Show()
	} else {
		s.deps.Window.Hide()
	}
}

func (s *Synchronizer) onCommand(evt bus.Event) {
	cmd, ok := evt.Payload.(menu.Command)
	if !ok {
		return
	}
	// A command handler publishing inline can drain this event while
	// holding execMu; running it later avoids waiting on ourselves.
	if !s.execMu.TryLock() {
		go s.Execute(cmd)
		return
	}
	s.run(cmd)
}
