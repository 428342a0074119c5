package ui

import (
	"sync"

	"github.com/atomicstack/shell-sync/internal/bus"
)

// Window is the terminal standing in for the main window. Visibility and
// focus transitions are announced on the bus the way a window manager
// would report them.
type Window struct {
	bus    *bus.Bus
	log    *Activity
	notify *Notifier

	mu          sync.Mutex
	visible     bool
	focused     bool
	fullScreen  bool
	flashing    bool
	hideOnClose bool
	devTools    bool
}

// NewWindow creates a visible, focused window.
func NewWindow(b *bus.Bus, log *Activity, n *Notifier) *Window {
	return &Window{bus: b, log: log, notify: n, visible: true, focused: true}
}

func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) IsFullScreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullScreen
}

func (w *Window) IsFocused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// Flashing reports whether the window is requesting attention.
func (w *Window) Flashing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flashing
}

// HideOnClose reports whether closing hides instead of quitting.
func (w *Window) HideOnClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hideOnClose
}

// DevToolsOpen reports the shell devtools state.
func (w *Window) DevToolsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.devTools
}

func (w *Window) SetFullScreen(full bool) {
	w.mu.Lock()
	w.fullScreen = full
	w.mu.Unlock()
	w.log.Addf("window full screen %t", full)
	w.notify.Notify()
}

// Show reveals and focuses the window.
func (w *Window) Show() {
	w.transition(true, true)
}

// ShowInactive reveals the window without taking focus.
func (w *Window) ShowInactive() {
	w.mu.Lock()
	focused := w.focused
	w.mu.Unlock()
	w.transition(true, focused)
}

func (w *Window) Hide() {
	w.transition(false, false)
}

// Focus marks the window focused, as when the terminal regains focus.
func (w *Window) Focus() {
	w.transition(true, true)
}

// Blur marks the window unfocused.
func (w *Window) Blur() {
	w.mu.Lock()
	w.transitionLocked(w.visible, false)
}

// Close hides the window when hide-on-close is set and reports whether the
// application should quit instead.
func (w *Window) Close() bool {
	if w.HideOnClose() {
		w.Hide()
		return false
	}
	return true
}

func (w *Window) transition(visible, focused bool) {
	w.mu.Lock()
	w.transitionLocked(visible, focused)
}

// transitionLocked is entered with mu held and releases it before
// publishing.
func (w *Window) transitionLocked(visible, focused bool) {
	shown := visible && !w.visible
	hidden := !visible && w.visible
	gainedFocus := focused && !w.focused
	w.visible = visible
	w.focused = focused
	w.mu.Unlock()

	if w.bus != nil {
		if hidden {
			w.bus.Publish(bus.TopicWindowHide, nil)
		}
		if shown {
			w.bus.Publish(bus.TopicWindowShow, nil)
		}
		if gainedFocus {
			w.bus.Publish(bus.TopicWindowFocus, nil)
		}
	}
	w.notify.Notify()
}

func (w *Window) FlashFrame(flash bool) {
	w.mu.Lock()
	w.flashing = flash
	w.mu.Unlock()
	w.notify.Notify()
}

func (w *Window) Reload() {
	w.log.Addf("shell reloaded")
	w.notify.Notify()
}

func (w *Window) ToggleDevTools() {
	w.mu.Lock()
	w.devTools = !w.devTools
	open := w.devTools
	w.mu.Unlock()
	w.log.Addf("shell devtools open %t", open)
	w.notify.Notify()
}

func (w *Window) SetHideOnClose(hide bool) {
	w.mu.Lock()
	w.hideOnClose = hide
	w.mu.Unlock()
}
