package events

import "github.com/atomicstack/shell-sync/internal/logging"

type ValidateTracer struct{}

var Validate = ValidateTracer{}

func (ValidateTracer) Attempt(candidate string, attempt int) {
	logging.Trace("validate.attempt", map[string]interface{}{"candidate": candidate, "attempt": attempt})
}

func (ValidateTracer) Rewrite(rule, from, to string) {
	logging.Trace("validate.rewrite", map[string]interface{}{"rule": rule, "from": from, "to": to})
}

func (ValidateTracer) Outcome(input, outcome string, attempts int) {
	logging.Trace("validate.outcome", map[string]interface{}{"input": input, "outcome": outcome, "attempts": attempts})
}

func (ValidateTracer) Superseded(input string, generation uint64) {
	logging.Trace("validate.superseded", map[string]interface{}{"input": input, "generation": generation})
}
