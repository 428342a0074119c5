package landing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/shell-sync/internal/bus"
	"github.com/atomicstack/shell-sync/internal/i18n"
	"github.com/atomicstack/shell-sync/internal/prefs"
	"github.com/atomicstack/shell-sync/internal/state"
	"github.com/atomicstack/shell-sync/internal/validate"
)

type landingFixture struct {
	bus      *bus.Bus
	registry state.HostStore
	sidebar  state.SidebarStore
	ctrl     *Controller
	probed   chan string
}

func newLandingFixture(t *testing.T, valid map[string]validate.Status) *landingFixture {
	t.Helper()
	f := &landingFixture{bus: bus.New(), probed: make(chan string, 16)}
	p := prefs.New(prefs.NewMemoryStore(map[prefs.Key]string{prefs.KeySidebarClosed: "true"}), prefs.PlatformLinux)
	f.registry = state.NewHostStore(f.bus)
	f.sidebar = state.NewSidebarStore(f.bus, p)
	prober := validate.ProberFunc(func(_ context.Context, candidate string) validate.Status {
		f.probed <- candidate
		if status, ok := valid[candidate]; ok {
			return status
		}
		return validate.StatusInvalid
	})
	field := validate.NewField(validate.New(prober, time.Second))
	f.ctrl = New(field, f.registry, f.sidebar, i18n.New("en"))
	return f
}

func TestSubmitAddsAndActivates(t *testing.T) {
	f := newLandingFixture(t, map[string]validate.Status{"https://team.rocket.chat": validate.StatusValid})
	var views []View
	f.ctrl.OnChange(func(v View) { views = append(views, v) })

	f.ctrl.SetValue("  team ")
	url, added, err := f.ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if url != "https://team.rocket.chat" || !added {
		t.Fatalf("unexpected submit result %q %v", url, added)
	}
	if f.registry.Active() != url || !f.sidebar.IsVisible() {
		t.Fatalf("expected server active and sidebar shown")
	}
	if v := f.ctrl.View(); v.Value != "" || v.Button != "Connect" || v.Wrong {
		t.Fatalf("expected cleared form, got %#v", v)
	}

	sawValidating := false
	for _, v := range views {
		if v.Button == "Validating..." && v.ButtonDisabled {
			sawValidating = true
		}
	}
	if !sawValidating {
		t.Fatalf("expected a validating view, got %#v", views)
	}
}

func TestSubmitEmptyUsesDefaultInstance(t *testing.T) {
	f := newLandingFixture(t, nil)
	url, added, err := f.ctrl.Submit(context.Background())
	if err != nil || !added || url != validate.DefaultInstance {
		t.Fatalf("unexpected submit result %q %v %v", url, added, err)
	}
	if len(f.probed) != 0 {
		t.Fatalf("expected no probes for empty input")
	}
}

func TestSubmitDuplicateIsNotActivated(t *testing.T) {
	f := newLandingFixture(t, map[string]validate.Status{"https://a.example/": validate.StatusValid})
	f.registry.Add("https://a.example")
	f.ctrl.SetValue("https://a.example/")
	url, added, err := f.ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if added || url != "https://a.example" {
		t.Fatalf("expected duplicate rejection, got %q %v", url, added)
	}
	if f.registry.Active() != "" || f.sidebar.IsVisible() {
		t.Fatalf("expected no activation for duplicate")
	}
	if f.ctrl.Value() != "" {
		t.Fatalf("expected field cleared after submit")
	}
}

func TestFailureAffordances(t *testing.T) {
	tests := []struct {
		name   string
		status validate.Status
		input  string
		value  string
		errKey string
	}{
		{"invalid", validate.StatusInvalid, "example", "https://example.rocket.chat", i18n.KeyErrorNoValidServer},
		{"auth", validate.StatusNeedsAuth, "https://locked.example", "https://locked.example", i18n.KeyErrorAuthNeeded},
		{"timeout", validate.StatusTimeout, "https://slow.example", "https://slow.example", i18n.KeyErrorConnectTimeout},
	}
	tr := i18n.New("en")
	for _, tt := range tests {
		status := tt.status
		f := newLandingFixture(t, nil)
		f.ctrl.field = validate.NewField(validate.New(validate.ProberFunc(func(context.Context, string) validate.Status {
			return status
		}), time.Second))
		f.ctrl.SetValue(tt.input)
		if _, _, err := f.ctrl.Submit(context.Background()); err == nil {
			t.Fatalf("%s: expected submit failure", tt.name)
		}
		v := f.ctrl.View()
		want := tr.T(tt.errKey)
		if tt.errKey == i18n.KeyErrorAuthNeeded {
			want = tr.T(tt.errKey, i18n.AuthHint)
		}
		if v.Value != tt.value || v.Button != "Invalid URL" || !v.Wrong || v.Error != want || v.ButtonDisabled {
			t.Fatalf("%s: unexpected view %#v", tt.name, v)
		}
		if len(f.registry.Hosts()) != 0 {
			t.Fatalf("%s: expected nothing registered", tt.name)
		}
	}
}

func TestBlurClearsPreviousError(t *testing.T) {
	f := newLandingFixture(t, map[string]validate.Status{"https://ok.example": validate.StatusValid})
	f.ctrl.SetValue("https://bad.example")
	if err := f.ctrl.Blur(context.Background()); !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	f.ctrl.SetValue("ok.example")
	if err := f.ctrl.Blur(context.Background()); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if v := f.ctrl.View(); v.Wrong || v.Error != "" || v.Value != "https://ok.example" {
		t.Fatalf("unexpected view %#v", v)
	}
}

func TestCertificateReloadOverBus(t *testing.T) {
	f := newLandingFixture(t, map[string]validate.Status{"https://secure.example": validate.StatusValid})
	f.ctrl.Attach(f.bus)
	defer f.ctrl.Detach()

	done := make(chan View, 4)
	validating := false
	f.ctrl.OnChange(func(v View) {
		if v.ButtonDisabled {
			validating = true
			return
		}
		if validating {
			done <- v
		}
	})
	f.bus.Publish(bus.TopicCertificateReload, bus.CertificateReload{URL: "https://secure.example/api/info"})

	select {
	case candidate := <-f.probed:
		if candidate != "https://secure.example" {
			t.Fatalf("expected info path stripped, got %q", candidate)
		}
	case <-time.After(time.Second):
		t.Fatalf("certificate reload never probed")
	}
	select {
	case v := <-done:
		if v.Value != "https://secure.example" || v.Wrong {
			t.Fatalf("unexpected view %#v", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("certificate reload never finished")
	}
}

func TestConnectivityBanner(t *testing.T) {
	f := newLandingFixture(t, nil)
	f.ctrl.Attach(f.bus)
	f.bus.Publish(bus.TopicOffline, nil)
	if !f.ctrl.View().Offline {
		t.Fatalf("expected offline banner")
	}
	f.bus.Publish(bus.TopicOnline, nil)
	if f.ctrl.View().Offline {
		t.Fatalf("expected banner cleared")
	}
	f.ctrl.Detach()
	f.bus.Publish(bus.TopicOffline, nil)
	if f.ctrl.View().Offline {
		t.Fatalf("expected no updates after detach")
	}
}

func TestLaterValidationWinsWhenEarlierFinishesLast(t *testing.T) {
	release := make(chan struct{})
	blocked := make(chan struct{})
	prober := validate.ProberFunc(func(ctx context.Context, candidate string) validate.Status {
		if candidate == "https://slow.example" {
			close(blocked)
			select {
			case <-release:
			case <-ctx.Done():
			}
			return validate.StatusValid
		}
		return validate.StatusValid
	})
	p := prefs.New(prefs.NewMemoryStore(nil), prefs.PlatformLinux)
	b := bus.New()
	ctrl := New(validate.NewField(validate.New(prober, 5*time.Second)), state.NewHostStore(b), state.NewSidebarStore(b, p), i18n.New("en"))

	ctrl.SetValue("https://slow.example")
	slowErr := make(chan error, 1)
	go func() { slowErr <- ctrl.Validate(context.Background()) }()
	select {
	case <-blocked:
	case <-time.After(time.Second):
		t.Fatalf("slow validation never probed")
	}

	ctrl.SetValue("https://fast.example")
	if err := ctrl.Validate(context.Background()); err != nil {
		t.Fatalf("fast validation: %v", err)
	}
	close(release)

	select {
	case err := <-slowErr:
		if !errors.Is(err, validate.ErrSuperseded) {
			t.Fatalf("expected superseded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("slow validation never returned")
	}
	if v := ctrl.View(); v.Value != "https://fast.example" || v.ButtonDisabled {
		t.Fatalf("earlier validation overwrote the form: %#v", v)
	}
}
