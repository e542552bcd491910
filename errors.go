package citypandemic

import "fmt"

// Message templates for programmer-invariant violations (spec §7 kind 1)
// and missing-state queries (kind 4). These are always fatal: the caller
// panics with one of these instead of returning an error, because no
// recovery is well-defined once they fire. Kept in the teacher's style of
// exported %s-templated string constants rather than sentinel error
// values, so a panic message and a wrapped error can share one template.
const (
	// PersonNotFoundError fires when an accessor or mutator is asked
	// about a PersonID absent from a model's closed population.
	PersonNotFoundError = "person %s not found in population"

	// SpaceNotEnteredError fires when a person leaves a shared space
	// they never entered according to the ledger.
	SpaceNotEnteredError = "person %s left space %v, but was never recorded entering it"

	// TerminalStateTransitionError fires when Next finds an Exposed,
	// Infectious or Hospitalized state whose pending transition kind does
	// not belong to that state; %s names the state and the problem. Next
	// itself tolerates Recovered and Dead and returns them unchanged, per
	// spec §5 "stale Transition" handling.
	TerminalStateTransitionError = "cannot transition a %s state further"

	// StabilityViolationError fires when Grid.Diffuse is asked to take a
	// step that violates the explicit forward-Euler CFL-like stability
	// precondition.
	StabilityViolationError = "diffuse step unstable: 1 - 4*dt*kappa/dx^2 - dt*decay = %g, must be > 0"

	// ReservedCommandError fires if CancelFutureTrips or any other
	// host-reserved command reaches HandleCmd; the host is responsible
	// for never delivering these to the core.
	ReservedCommandError = "command %v is reserved for the host simulator and must never reach the core"

	// InvalidFloatParameterError is the message for a rejected float
	// configuration parameter.
	InvalidFloatParameterError = "invalid %s %g: %s"

	// InvalidIntParameterError is the message for a rejected int
	// configuration parameter.
	InvalidIntParameterError = "invalid %s %d: %s"

	// InvalidStringParameterError is the message for a rejected string
	// configuration parameter.
	InvalidStringParameterError = "invalid %s %q: %s"

	// UnrecognizedKeywordError is the message for a configuration field
	// whose value isn't one of the keywords the field recognizes (teacher:
	// evoepi_config.go's checkKeyword helper).
	UnrecognizedKeywordError = "%s is not a recognized value for %s"
)

// Message templates used by tests to report value mismatches, kept in the
// teacher's Unequal*ParameterError / ExpectedErrorWhileError shape.
const (
	UnequalFloatParameterError  = "expected %s %g, instead got %g"
	UnequalIntParameterError    = "expected %s %d, instead got %d"
	UnequalStringParameterError = "expected %s %s, instead got %s"
	UnequalBoolParameterError   = "expected %s %t, instead got %t"
	UnexpectedErrorWhileError   = "encountered error while %s: %s"
	ExpectedErrorWhileError     = "expected an error while %s, instead got none"
)

// NonSaneStartError is the domain precondition violation (spec §7 kind 2):
// Start/StartNow was called against a state that isn't Sane. It is
// returned as a typed error (not panicked) so a caller other than this
// package's own orchestrator could in principle recover from it; the
// orchestrator's only call sites (model.go) unwrap it into a panic.
type NonSaneStartError struct {
	Person PersonID
	Got    StateKind
}

func (e *NonSaneStartError) Error() string {
	return fmt.Sprintf("cannot start an exposure trial for %s: state is %s, not Sane", e.Person, e.Got)
}
