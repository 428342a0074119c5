package validate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFieldAppliesOnlyNewestResult(t *testing.T) {
	started := make(chan struct{})
	prober := ProberFunc(func(ctx context.Context, candidate string) Status {
		if candidate == "https://first.example" {
			close(started)
			<-ctx.Done()
			return StatusInvalid
		}
		return StatusValid
	})
	field := NewField(New(prober, 5*time.Second))

	firstErr := make(chan error, 1)
	go func() {
		_, err := field.Validate(context.Background(), "https://first.example")
		firstErr <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatalf("first validation never probed")
	}

	res, err := field.Validate(context.Background(), "https://second.example")
	if err != nil {
		t.Fatalf("second validation failed: %v", err)
	}
	if res.URL != "https://second.example" {
		t.Fatalf("unexpected url %q", res.URL)
	}

	select {
	case err := <-firstErr:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("expected superseded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("first validation never returned")
	}

	state := field.State()
	if state.State != StateValid || state.Value != "https://second.example" {
		t.Fatalf("stale result leaked into field: %#v", state)
	}
}

func TestFieldShowsLastCandidateOnFailure(t *testing.T) {
	field := NewField(New(newScriptedProber(nil), time.Second))
	_, err := field.Validate(context.Background(), "example")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
	state := field.State()
	if state.State != StateInvalid || state.Value != "https://example.rocket.chat" {
		t.Fatalf("unexpected state %#v", state)
	}
	if state.Failure == nil || state.Failure.Kind != KindInvalid {
		t.Fatalf("expected failure recorded, got %#v", state.Failure)
	}
}

func TestFieldEmptyAndReset(t *testing.T) {
	field := NewField(New(newScriptedProber(nil), time.Second))
	if _, err := field.Validate(context.Background(), "  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state := field.State(); state.State != StateValid || !state.Empty {
		t.Fatalf("expected empty valid state, got %#v", state)
	}
	field.Reset()
	if state := field.State(); state.State != StateIdle || state.Value != "" {
		t.Fatalf("expected idle after reset, got %#v", state)
	}
}

func TestFieldResetSupersedesRunning(t *testing.T) {
	started := make(chan struct{})
	prober := ProberFunc(func(ctx context.Context, _ string) Status {
		close(started)
		<-ctx.Done()
		return StatusInvalid
	})
	field := NewField(New(prober, 5*time.Second))

	errs := make(chan error, 1)
	go func() {
		_, err := field.Validate(context.Background(), "https://slow.example")
		errs <- err
	}()
	<-started
	field.Reset()

	select {
	case err := <-errs:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("expected superseded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("validation did not stop after reset")
	}
	if state := field.State(); state.State != StateIdle {
		t.Fatalf("expected idle, got %#v", state)
	}
}

func TestFieldSlotOrderWinsOverRunOrder(t *testing.T) {
	prober := newScriptedProber(map[string]Status{
		"https://old.example": StatusValid,
		"https://new.example": StatusValid,
	})
	field := NewField(New(prober, time.Second))

	older := field.Begin()
	newer := field.Begin()

	res, err := field.Run(context.Background(), newer, "https://new.example")
	if err != nil || res.URL != "https://new.example" {
		t.Fatalf("newer run failed: %#v %v", res, err)
	}
	if _, err := field.Run(context.Background(), older, "https://old.example"); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected older slot to be superseded, got %v", err)
	}
	if calls := prober.calls(); len(calls) != 1 || calls[0] != "https://new.example" {
		t.Fatalf("expected the older slot not to probe, got %v", calls)
	}
	if state := field.State(); state.Value != "https://new.example" {
		t.Fatalf("older slot overwrote the field: %#v", state)
	}
}
