// Package landing is the add-server form: it validates the host field on
// blur, submit and certificate reload, computes the form's affordances, and
// registers and activates the accepted server.
package landing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/i18n"
	"github.com/atomicstack/shell-sync/internal/logging"
	"github.com/atomicstack/shell-sync/internal/validate"
)

// Registry is the subset of the server registry the form needs.
type Registry interface {
	Add(url string) (string, bool)
	SetActive(url string) bool
}

// Sidebar reveals the server list after a server is added.
type Sidebar interface {
	Show() error
}

// Translator resolves message keys.
type Translator interface {
	T(key string, args ...interface{}) string
}

// View is everything needed to render the form.
type View struct {
	Value          string
	Button         string
	ButtonDisabled bool
	Error          string
	Wrong          bool
	Offline        bool
}

// Controller owns the host field.
type Controller struct {
	field    *validate.Field
	registry Registry
	sidebar  Sidebar
	tr       Translator

	mu         sync.Mutex
	value      string
	view       View
	generation uint64
	onChange   func(View)
	subs       bus.Group
}

// New builds a controller in the idle state.
func New(field *validate.Field, registry Registry, sidebar Sidebar, tr Translator) *Controller {
	c := &Controller{field: field, registry: registry, sidebar: sidebar, tr: tr}
	c.view = View{Button: tr.T(i18n.KeyLandingConnect)}
	return c
}

// OnChange registers fn to receive every view update.
func (c *Controller) OnChange(fn func(View)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// View returns the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.Value = c.value
	return v
}

// SetValue replaces the field text as the user types.
func (c *Controller) SetValue(value string) {
	c.update(func(v *View) { c.value = value })
}

// Value returns the field text.
func (c *Controller) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// SetOnline toggles the connectivity banner.
func (c *Controller) SetOnline(online bool) {
	c.update(func(v *View) { v.Offline = !online })
}

// Validate checks the current field text. On return the field shows the
// accepted URL, or the last candidate tried when validation failed.
func (c *Controller) Validate(ctx context.Context) error {
	var (
		raw string
		gen uint64
	)
	c.update(func(v *View) {
		raw = strings.TrimSpace(c.value)
		gen = c.field.Begin()
		c.generation = gen
		c.value = raw
		v.Error = ""
		v.Wrong = false
		if raw == "" {
			v.Button = c.tr.T(i18n.KeyLandingConnect)
			v.ButtonDisabled = false
			return
		}
		v.Button = c.tr.T(i18n.KeyLandingValidating)
		v.ButtonDisabled = true
	})

	res, err := c.field.Run(ctx, gen, raw)
	if errors.Is(err, validate.ErrSuperseded) {
		return err
	}

	var failure *validate.Failure
	stale := false
	c.update(func(v *View) {
		if gen != c.generation {
			stale = true
			return
		}
		v.ButtonDisabled = false
		switch {
		case err == nil:
			if !res.Empty {
				c.value = res.URL
			}
			v.Button = c.tr.T(i18n.KeyLandingConnect)
		case errors.As(err, &failure):
			c.value = failure.Candidate
			v.Button = c.tr.T(i18n.KeyLandingInvalidURL)
			v.Error = c.failureText(failure.Kind)
			v.Wrong = true
		default:
			v.Button = c.tr.T(i18n.KeyLandingConnect)
		}
	})
	if stale {
		return validate.ErrSuperseded
	}
	return err
}

func (c *Controller) failureText(kind validate.Kind) string {
	switch kind {
	case validate.KindBasicAuth:
		return c.tr.T(i18n.KeyErrorAuthNeeded, i18n.AuthHint)
	case validate.KindTimeout:
		return c.tr.T(i18n.KeyErrorConnectTimeout)
	default:
		return c.tr.T(i18n.KeyErrorNoValidServer)
	}
}

// Blur validates when the field loses focus.
func (c *Controller) Blur(ctx context.Context) error {
	return c.Validate(ctx)
}

// CertificateReload re-validates url after a TLS trust decision. A trailing
// info endpoint path is stripped first.
func (c *Controller) CertificateReload(ctx context.Context, url string) error {
	c.SetValue(validate.TrimInfoPath(url))
	return c.Validate(ctx)
}

// Submit validates, then registers and activates the server. Empty input
// selects validate.DefaultInstance. It reports the registered URL and
// whether it was new; duplicates are not activated. The field is cleared
// after a successful validation either way.
func (c *Controller) Submit(ctx context.Context) (string, bool, error) {
	if err := c.Validate(ctx); err != nil {
		return "", false, err
	}
	url := c.Value()
	if url == "" {
		url = validate.DefaultInstance
	}

	added, ok := c.registry.Add(url)
	if ok {
		if err := c.sidebar.Show(); err != nil {
			logging.Error(fmt.Errorf("show sidebar: %w", err))
		}
		c.registry.SetActive(added)
	}

	c.field.Reset()
	c.update(func(v *View) {
		c.value = ""
		*v = View{Button: c.tr.T(i18n.KeyLandingConnect), Offline: v.Offline}
	})
	return added, ok, nil
}

// Attach subscribes to certificate-reload and connectivity events.
// Certificate reloads validate on their own goroutine so the bus is never
// blocked by a probe.
func (c *Controller) Attach(b *bus.Bus) {
	c.subs.Add(
		b.Subscribe(bus.TopicCertificateReload, func(evt bus.Event) {
			reload, ok := evt.Payload.(bus.CertificateReload)
			if !ok {
				return
			}
			go func() {
				if err := c.CertificateReload(context.Background(), reload.URL); err != nil && !errors.Is(err, validate.ErrSuperseded) {
					logging.Warn("certificate reload validation failed", "url", reload.URL, "error", err)
				}
			}()
		}),
		b.Subscribe(bus.TopicOnline, func(bus.Event) { c.SetOnline(true) }),
		b.Subscribe(bus.TopicOffline, func(bus.Event) { c.SetOnline(false) }),
	)
}

// Detach releases the subscriptions made by Attach.
func (c *Controller) Detach() {
	c.subs.Release()
}

func (c *Controller) update(fn func(*View)) {
	c.mu.Lock()
	fn(&c.view)
	view := c.view
	view.Value = c.value
	notify := c.onChange
	c.mu.Unlock()
	if notify != nil {
		notify(view)
	}
}
