package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/shell-sync/internal/backend"
	"github.com/atomicstack/shell-sync/internal/bus"
)

type fakeReloader struct {
	calls int
	err   error
}

func (f *fakeReloader) Reload() error {
	f.calls++
	return f.err
}

func TestPrefsEventReloadsAndPublishes(t *testing.T) {
	b := bus.New()
	published := 0
	b.Subscribe(bus.TopicPrefsChanged, func(bus.Event) { published++ })
	reloader := &fakeReloader{}
	d := New(b, reloader)

	if res := d.Handle(backend.Event{Kind: backend.KindPrefs}); !res.PrefsReloaded {
		t.Fatalf("expected reload")
	}
	if reloader.calls != 1 || published != 1 {
		t.Fatalf("expected one reload and publish, got %d/%d", reloader.calls, published)
	}

	reloader.err = errors.New("bad toml")
	if res := d.Handle(backend.Event{Kind: backend.KindPrefs}); res.PrefsReloaded {
		t.Fatalf("expected failed reload not to publish")
	}
	if published != 1 {
		t.Fatalf("expected no publish after failed reload")
	}

	if res := d.Handle(backend.Event{Kind: backend.KindPrefs, Err: errors.New("watch failed")}); res.PrefsReloaded {
		t.Fatalf("expected error events to be ignored")
	}
}

func TestConnectivityPublishesTransitionsOnly(t *testing.T) {
	b := bus.New()
	var topics []bus.Topic
	record := func(evt bus.Event) { topics = append(topics, evt.Topic) }
	b.Subscribe(bus.TopicOnline, record)
	b.Subscribe(bus.TopicOffline, record)
	d := New(b, nil)

	for _, online := range []bool{true, true, false, false, true} {
		d.Handle(backend.Event{Kind: backend.KindConnectivity, Data: online})
	}
	want := []bus.Topic{bus.TopicOnline, bus.TopicOffline, bus.TopicOnline}
	if len(topics) != len(want) {
		t.Fatalf("expected %v, got %v", want, topics)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, topics)
		}
	}
}

func TestRunDrainsChannel(t *testing.T) {
	b := bus.New()
	reloader := &fakeReloader{}
	d := New(b, reloader)
	ch := make(chan backend.Event, 2)
	ch <- backend.Event{Kind: backend.KindPrefs}
	ch <- backend.Event{Kind: backend.KindPrefs}
	close(ch)
	d.Run(ch)
	if reloader.calls != 2 {
		t.Fatalf("expected two reloads, got %d", reloader.calls)
	}
}
