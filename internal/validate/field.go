package validate

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/atomicstack/shell-sync/internal/logging/events"
)

// State is the lifecycle position of a Field.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateValid
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "idle"
	}
}

// FieldState is what a form needs to render one host field.
type FieldState struct {
	State State
	// Value is the text the field should show: the trimmed input while
	// validating, then the accepted or last-tried candidate.
	Value   string
	Empty   bool
	Failure *Failure
}

// Field serializes validations for one input. Starting a validation cancels
// the previous probe; results from superseded runs are never applied.
type Field struct {
	machine *Machine

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      FieldState
}

// NewField binds a field to machine.
func NewField(machine *Machine) *Field {
	return &Field{machine: machine}
}

// State returns a copy of the current field state.
func (f *Field) State() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reset returns the field to idle and abandons any running validation.
func (f *Field) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.state = FieldState{}
}

// Begin claims the next validation slot and cancels the running probe. A
// slot claimed later supersedes every earlier one, whichever Run starts
// first.
func (f *Field) Begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return f.generation
}

// Validate runs the machine for raw. It returns ErrSuperseded when another
// Validate or Reset happened before this run finished.
func (f *Field) Validate(ctx context.Context, raw string) (Result, error) {
	return f.Run(ctx, f.Begin(), raw)
}

// Run validates raw in the slot returned by Begin. A slot that is no longer
// the newest returns ErrSuperseded without probing.
func (f *Field) Run(ctx context.Context, gen uint64, raw string) (Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		events.Validate.Superseded(raw, gen)
		return Result{}, ErrSuperseded
	}
	f.cancel = cancel
	f.state = FieldState{State: StateValidating, Value: strings.TrimSpace(raw)}
	f.mu.Unlock()

	res, err := f.machine.Validate(runCtx, raw)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		events.Validate.Superseded(raw, gen)
		return Result{}, ErrSuperseded
	}
	f.cancel = nil

	var failure *Failure
	switch {
	case err == nil:
		f.state = FieldState{State: StateValid, Value: res.URL, Empty: res.Empty}
	case errors.As(err, &failure):
		f.state = FieldState{State: StateInvalid, Value: failure.Candidate, Failure: failure}
	default:
		f.state = FieldState{Value: f.state.Value}
	}
	return res, err
}
