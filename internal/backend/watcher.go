package backend

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	// KindPrefs reports that the preference file changed on disk.
	KindPrefs Kind = iota
	// KindConnectivity carries the current online state as a bool.
	KindConnectivity
)

// Event conveys a change notification or an error from a backend source.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// ConnectivityCheck reports whether the network is reachable.
type ConnectivityCheck func(ctx context.Context) bool

// Options configures a Watcher. Zero values disable the matching source.
type Options struct {
	PrefsPath    string
	Debounce     time.Duration
	Connectivity ConnectivityCheck
	Interval     time.Duration
}

// Watcher observes the preference file and, optionally, polls connectivity.
type Watcher struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts the configured sources.
func NewWatcher(opts Options) (*Watcher, error) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}

	if opts.PrefsPath != "" {
		if err := w.startPrefsWatcher(); err != nil {
			cancel()
			return nil, err
		}
	}
	if opts.Connectivity != nil {
		w.startConnectivityPoller()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w, nil
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Sources exit after their current step completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all source goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// startPrefsWatcher watches the file's directory: editors and the store
// itself replace the file by rename, which drops a watch on the file.
func (w *Watcher) startPrefsWatcher() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	path := filepath.Clean(w.opts.PrefsPath)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	throttle := newThrottle(w.opts.Debounce)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer fsw.Close()
		for {
			select {
			case <-w.ctx.Done():
				return
			case evt, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != path || evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				throttle.wait()
				if !w.emit(Event{Kind: KindPrefs, Data: evt.Op.String()}) {
					return
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				if errors.Is(err, fsnotify.ErrEventOverflow) {
					if !w.emit(Event{Kind: KindPrefs, Data: "overflow"}) {
						return
					}
					continue
				}
				if !w.emit(Event{Kind: KindPrefs, Err: err}) {
					return
				}
			}
		}
	}()
	return nil
}

func (w *Watcher) startConnectivityPoller() {
	interval := w.opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	w.wg.Add(1)
	go w.poll(KindConnectivity, interval, func(ctx context.Context) (interface{}, error) {
		return w.opts.Connectivity(ctx), nil
	})
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func (w *Watcher) poll(kind Kind, interval time.Duration, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		return w.emit(Event{Kind: kind, Data: data, Err: err})
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
