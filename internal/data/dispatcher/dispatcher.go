package dispatcher

import (
	"fmt"

	"github.com/atomicstack/shell-sync/internal/backend"
	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/logging"
)

// Reloader re-reads persisted preferences.
type Reloader interface {
	Reload() error
}

type Result struct {
	PrefsReloaded       bool
	ConnectivityChanged bool
}

// Dispatcher turns backend events into bus notifications.
type Dispatcher struct {
	bus    *bus.Bus
	prefs  Reloader
	online *bool
}

func New(b *bus.Bus, prefs Reloader) *Dispatcher {
	return &Dispatcher{bus: b, prefs: prefs}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		logging.Error(fmt.Errorf("backend event: %w", evt.Err))
		return res
	}
	switch evt.Kind {
	case backend.KindPrefs:
		if d.prefs == nil {
			return res
		}
		if err := d.prefs.Reload(); err != nil {
			logging.Error(fmt.Errorf("reload preferences: %w", err))
			return res
		}
		d.bus.Publish(bus.TopicPrefsChanged, nil)
		res.PrefsReloaded = true
	case backend.KindConnectivity:
		online, ok := evt.Data.(bool)
		if !ok {
			return res
		}
		if d.online != nil && *d.online == online {
			return res
		}
		d.online = &online
		if online {
			d.bus.Publish(bus.TopicOnline, nil)
		} else {
			d.bus.Publish(bus.TopicOffline, nil)
		}
		res.ConnectivityChanged = true
	}
	return res
}

// Run handles events until the channel closes.
func (d *Dispatcher) Run(ch <-chan backend.Event) {
	for evt := range ch {
		d.Handle(evt)
	}
}
