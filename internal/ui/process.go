package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// Opener hands a URL to the desktop.
type Opener func(url string) error

// OpenBrowser launches the platform URL handler without waiting for it.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch url handler: %w", err)
	}
	go cmd.Wait()
	return nil
}

// Process is the application-level surface: quitting, the about box and
// external links.
type Process struct {
	log    *Activity
	notify *Notifier
	opener Opener

	mu       sync.Mutex
	quitting bool
	about    bool
}

// NewProcess creates the process surface. A nil opener only records links.
func NewProcess(log *Activity, n *Notifier, opener Opener) *Process {
	return &Process{log: log, notify: n, opener: opener}
}

func (p *Process) Quit() {
	p.mu.Lock()
	p.quitting = true
	p.mu.Unlock()
	p.notify.Notify()
}

// Quitting reports whether Quit was called.
func (p *Process) Quitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quitting
}

func (p *Process) OpenAboutDialog() {
	p.mu.Lock()
	p.about = true
	p.mu.Unlock()
	p.notify.Notify()
}

// AboutOpen reports whether the about box is showing.
func (p *Process) AboutOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.about
}

// CloseAbout dismisses the about box.
func (p *Process) CloseAbout() {
	p.mu.Lock()
	p.about = false
	p.mu.Unlock()
}

func (p *Process) OpenExternal(url string) error {
	p.log.Addf("open %s", url)
	if p.opener == nil {
		return nil
	}
	return p.opener(url)
}
