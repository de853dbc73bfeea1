package chart

// Outcome reports what a manager operation actually did. Operations never
// return errors: a missing precondition (no bars, absent primary series) is
// reported as OutcomeSkipped and the call is a no-op. Callers are free to
// ignore outcomes; they exist to document the contract, not to branch on.
type Outcome int

const (
	// OutcomeNoOp means there was nothing to do (e.g. removing an id that
	// was never registered).
	OutcomeNoOp Outcome = iota
	// OutcomeCreated means backing resources were allocated.
	OutcomeCreated
	// OutcomeUpdated means an existing registration had its data replaced.
	OutcomeUpdated
	// OutcomeSkipped means a precondition was not met and nothing changed.
	OutcomeSkipped
	// OutcomeRemoved means a registration and its resources were torn down.
	OutcomeRemoved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRemoved:
		return "removed"
	}
	return "noop"
}
