package ui

import (
	"testing"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/surface"
)

func recordBus(b *bus.Bus, topics ...bus.Topic) *[]bus.Event {
	seen := &[]bus.Event{}
	for _, topic := range topics {
		b.Subscribe(topic, func(evt bus.Event) { *seen = append(*seen, evt) })
	}
	return seen
}

func TestWindowAnnouncesTransitionsOnce(t *testing.T) {
	b := bus.New()
	seen := recordBus(b, bus.TopicWindowHide, bus.TopicWindowShow, bus.TopicWindowFocus)
	w := NewWindow(b, nil, nil)

	w.Hide()
	w.Hide()
	w.ShowInactive()
	if w.IsFocused() {
		t.Fatalf("expected ShowInactive not to take focus")
	}
	w.Show()
	want := []bus.Topic{bus.TopicWindowHide, bus.TopicWindowShow, bus.TopicWindowFocus}
	if len(*seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, *seen)
	}
	for i, topic := range want {
		if (*seen)[i].Topic != topic {
			t.Fatalf("event %d: expected %s, got %s", i, topic, (*seen)[i].Topic)
		}
	}
}

func TestWindowCloseDependsOnHideOnClose(t *testing.T) {
	w := NewWindow(nil, nil, nil)
	if !w.Close() {
		t.Fatalf("expected close to quit without a tray")
	}
	w.SetHideOnClose(true)
	if w.Close() || w.IsVisible() {
		t.Fatalf("expected close to hide when hide-on-close is set")
	}
}

type badgeRecorder map[string]surface.Badge

func (r badgeRecorder) SetBadge(url string, badge surface.Badge) {
	r[url] = badge
}

func TestSessionsReportUnread(t *testing.T) {
	b := bus.New()
	seen := recordBus(b, bus.TopicUnreadChanged)
	badges := badgeRecorder{}
	s := NewSessions(b, func() string { return "https://a" }, badges, nil, nil)

	s.ReportUnread("https://a", "4")
	s.ReportUnread("https://b", "•")
	s.ReportUnread("https://a", "0")

	if badges["https://a"] != "" || badges["https://b"] != surface.BadgeActivity {
		t.Fatalf("unexpected badges %v", badges)
	}
	first := (*seen)[0].Payload.(bus.UnreadChanged)
	second := (*seen)[1].Payload.(bus.UnreadChanged)
	if !first.Numeric || first.Count != 4 || second.Numeric {
		t.Fatalf("unexpected unread payloads %#v %#v", first, second)
	}
}

func TestSessionsHistoryIsPerServer(t *testing.T) {
	active := "https://a"
	log := NewActivity(10)
	s := NewSessions(nil, func() string { return active }, nil, log, nil)

	s.Navigate("one")
	s.Navigate("/two")
	s.GoBack()
	s.Navigate("three")
	s.GoForward()
	if page := s.Page("https://a"); page != "/three" {
		t.Fatalf("expected forward history discarded, got %q", page)
	}
	active = "https://b"
	s.GoBack()
	if page := s.Page("https://b"); page != "/" {
		t.Fatalf("expected fresh history for b, got %q", page)
	}
	if !s.Navigate("x") || s.Navigate("  ") {
		t.Fatalf("unexpected navigate results")
	}
	if len(log.Lines()) == 0 {
		t.Fatalf("expected activity to be recorded")
	}
}

func TestActivityKeepsNewestLines(t *testing.T) {
	a := NewActivity(2)
	a.Addf("one")
	a.Addf("two")
	a.Addf("three")
	lines := a.Lines()
	if len(lines) != 2 || lines[1][9:] != "three" {
		t.Fatalf("unexpected lines %q", lines)
	}
	if tail := a.Tail(1); len(tail) != 1 || tail[0] != lines[1] {
		t.Fatalf("unexpected tail %q", tail)
	}
}

func TestProcessOpenExternalUsesOpener(t *testing.T) {
	var opened string
	p := NewProcess(NewActivity(5), nil, func(url string) error {
		opened = url
		return nil
	})
	if err := p.OpenExternal("https://docs.example"); err != nil || opened != "https://docs.example" {
		t.Fatalf("expected opener to receive url, got %q %v", opened, err)
	}
	p.OpenAboutDialog()
	if !p.AboutOpen() {
		t.Fatalf("expected about box open")
	}
	p.CloseAbout()
	p.Quit()
	if p.AboutOpen() || !p.Quitting() {
		t.Fatalf("unexpected process state")
	}
}
