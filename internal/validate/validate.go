// Package validate turns free-form host input into a reachable server URL.
//
// A validation probes the trimmed input, and on an unreachable result walks
// an ordered table of rewrite rules (bare name to hosted subdomain, then
// schemeless to https) before giving up. Authentication demands and timeouts
// end the walk immediately. Field wraps the machine for a single input box
// so that only the newest request's outcome is ever applied.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/shell-sync/internal/logging/events"
)

// DefaultInstance is substituted by callers when the input is empty.
const DefaultInstance = "https://open.rocket.chat"

// DefaultTimeout bounds each probe.
const DefaultTimeout = 2 * time.Second

// Status classifies one probe.
type Status int

const (
	StatusValid Status = iota
	StatusNeedsAuth
	StatusInvalid
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusNeedsAuth:
		return "needs-auth"
	case StatusInvalid:
		return "invalid"
	case StatusTimeout:
		return "timeout"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Prober checks whether candidate is a server endpoint.
type Prober interface {
	Probe(ctx context.Context, candidate string) Status
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, candidate string) Status

func (f ProberFunc) Probe(ctx context.Context, candidate string) Status {
	return f(ctx, candidate)
}

// Kind is the failure classification surfaced to callers.
type Kind string

const (
	KindInvalid   Kind = "invalid"
	KindTimeout   Kind = "timeout"
	KindBasicAuth Kind = "basic-auth"
)

var (
	ErrInvalid   = errors.New("no valid server found")
	ErrTimeout   = errors.New("connection timed out")
	ErrBasicAuth = errors.New("server requires credentials")
	// ErrSuperseded is returned by Field when a newer validation started
	// before this one finished.
	ErrSuperseded = errors.New("validation superseded")
)

// Failure is a terminal validation outcome.
type Failure struct {
	Kind      Kind
	Input     string
	Candidate string
	Attempts  int
}

func (f *Failure) Error() string {
	return fmt.Sprintf("validate %q: %s (last tried %q after %d attempts)", f.Input, f.Unwrap(), f.Candidate, f.Attempts)
}

// Unwrap maps the kind to its sentinel so errors.Is works.
func (f *Failure) Unwrap() error {
	switch f.Kind {
	case KindTimeout:
		return ErrTimeout
	case KindBasicAuth:
		return ErrBasicAuth
	default:
		return ErrInvalid
	}
}

// Result is a successful validation.
type Result struct {
	// URL is the accepted candidate. Empty when Empty is set.
	URL string
	// Empty marks blank input: the caller should use DefaultInstance.
	Empty    bool
	Attempts int
	// Rewrites names the rules applied, in order.
	Rewrites []string
}

// Machine runs validations against a prober.
type Machine struct {
	prober  Prober
	timeout time.Duration
}

// New builds a machine. Non-positive timeouts use DefaultTimeout.
func New(prober Prober, timeout time.Duration) *Machine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Machine{prober: prober, timeout: timeout}
}

// Timeout reports the per-probe deadline.
func (m *Machine) Timeout() time.Duration {
	return m.timeout
}

// Validate classifies raw. It returns a *Failure for terminal outcomes and
// ctx.Err() if ctx ends first.
func (m *Machine) Validate(ctx context.Context, raw string) (Result, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		events.Validate.Outcome(input, "empty", 0)
		return Result{Empty: true}, nil
	}

	candidate := input
	fired := make([]bool, len(rewriteRules))
	var rewrites []string
	attempts := 0
	for {
		attempts++
		events.Validate.Attempt(candidate, attempts)
		status, err := m.probe(ctx, candidate)
		if err != nil {
			return Result{}, err
		}
		switch status {
		case StatusValid:
			events.Validate.Outcome(input, "valid", attempts)
			return Result{URL: candidate, Attempts: attempts, Rewrites: rewrites}, nil
		case StatusNeedsAuth:
			return Result{}, m.fail(KindBasicAuth, input, candidate, attempts)
		case StatusTimeout:
			return Result{}, m.fail(KindTimeout, input, candidate, attempts)
		}

		if HasScheme(candidate) {
			return Result{}, m.fail(KindInvalid, input, candidate, attempts)
		}
		next, name, ok := nextRewrite(candidate, fired)
		if !ok {
			return Result{}, m.fail(KindInvalid, input, candidate, attempts)
		}
		events.Validate.Rewrite(name, candidate, next)
		rewrites = append(rewrites, name)
		candidate = next
	}
}

func nextRewrite(candidate string, fired []bool) (string, string, bool) {
	for i, r := range rewriteRules {
		if fired[i] || !r.applies(candidate) {
			continue
		}
		fired[i] = true
		return r.rewrite(candidate), r.name, true
	}
	return "", "", false
}

// probe enforces the hard deadline even when the prober ignores its
// context; a late answer is dropped into the buffered channel and discarded.
func (m *Machine) probe(ctx context.Context, candidate string) (Status, error) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan Status, 1)
	go func() {
		done <- m.prober.Probe(probeCtx, candidate)
	}()

	select {
	case status := <-done:
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if status != StatusValid && errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return StatusTimeout, nil
		}
		return status, nil
	case <-probeCtx.Done():
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return StatusTimeout, nil
	}
}

func (m *Machine) fail(kind Kind, input, candidate string, attempts int) error {
	events.Validate.Outcome(input, string(kind), attempts)
	return &Failure{Kind: kind, Input: input, Candidate: candidate, Attempts: attempts}
}
