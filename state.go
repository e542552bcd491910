package citypandemic

import "fmt"

// StateKind discriminates the disease state sum type. Go has no native
// sum types; per the spec's design notes, this package uses an interface
// (DiseaseState) over one struct per variant, with an explicit Kind
// discriminator and an exhaustive switch with a default that panics (see
// Next, below).
type StateKind int

const (
	// StateSane is the default, uninfected state.
	StateSane StateKind = iota
	// StateExposed is infected but not yet contagious.
	StateExposed
	// StateInfectious is contagious.
	StateInfectious
	// StateHospitalized is the contagious subset receiving care.
	StateHospitalized
	// StateRecovered is a terminal, absorbing state.
	StateRecovered
	// StateDead is a terminal, absorbing state.
	StateDead
)

func (k StateKind) String() string {
	switch k {
	case StateSane:
		return "Sane"
	case StateExposed:
		return "Exposed"
	case StateInfectious:
		return "Infectious"
	case StateHospitalized:
		return "Hospitalized"
	case StateRecovered:
		return "Recovered"
	case StateDead:
		return "Dead"
	default:
		panic(fmt.Sprintf("unknown StateKind %d", int(k)))
	}
}

// TransitionKind names the transition a ScheduledEvent is waiting to
// fire. It doubles as the branch already chosen for states whose next
// transition has more than one possible destination (spec §3: Infectious
// and Hospitalized each decide, at the moment they are entered, which of
// their two possible follow-on transitions will occur).
type TransitionKind int

const (
	// TransitionExposition is a Sane person's pending (+Inf, until a
	// transmission trial starts it) wait for an exposure trial.
	TransitionExposition TransitionKind = iota
	// TransitionIncubation is an Exposed person's wait to become
	// Infectious.
	TransitionIncubation
	// TransitionToRecoveryFromInfectious is an Infectious person's wait
	// to recover directly, chosen instead of TransitionToHospitalization
	// at the moment they became Infectious.
	TransitionToRecoveryFromInfectious
	// TransitionToHospitalization is an Infectious person's wait to be
	// hospitalized, chosen instead of TransitionToRecoveryFromInfectious
	// at the moment they became Infectious.
	TransitionToHospitalization
	// TransitionToRecoveryFromHospitalized is a Hospitalized person's
	// wait to recover, chosen instead of TransitionToDeath at the
	// moment they became Hospitalized.
	TransitionToRecoveryFromHospitalized
	// TransitionToDeath is a Hospitalized person's wait to die, chosen
	// instead of TransitionToRecoveryFromHospitalized at the moment
	// they became Hospitalized.
	TransitionToDeath
)

// ScheduledEvent bundles the next scheduled transition kind, the two
// lifetime probabilities carried forward for determinism, and the
// scheduled absolute time (which may be InfTime) — spec §3.
type ScheduledEvent struct {
	Kind   TransitionKind
	PHosp  float64
	PDeath float64
	At     Time
}

// DiseaseState is the per-person disease state sum type (spec §3).
// Recovered and Dead are absorbing: Next on either of them always
// returns the same state unchanged with no further scheduled time (spec
// §5: "arrival of a stale Transition ... advances next trivially").
type DiseaseState interface {
	// Kind reports which variant this state is.
	Kind() StateKind
	// NextEventTime reports the scheduled time of this state's next
	// transition (InfTime if none is pending, as for a never-exposed
	// Sane person).
	NextEventTime() Time
}

// Sane is the default, uninfected state. NextEvent.At is InfTime until a
// transmission trial succeeds.
type Sane struct {
	NextEvent      ScheduledEvent
	LastTransition Time
}

// Kind implements DiseaseState.
func (Sane) Kind() StateKind { return StateSane }

// NextEventTime implements DiseaseState.
func (s Sane) NextEventTime() Time { return s.NextEvent.At }

// Exposed is infected but not yet contagious.
type Exposed struct {
	NextEvent ScheduledEvent
	Since     Time
}

// Kind implements DiseaseState.
func (Exposed) Kind() StateKind { return StateExposed }

// NextEventTime implements DiseaseState.
func (e Exposed) NextEventTime() Time { return e.NextEvent.At }

// Infectious is contagious; NextEvent.Kind already records whether this
// person's follow-on transition goes to Recovered directly or to
// Hospitalized — that choice is made at the moment Infectious is entered.
type Infectious struct {
	NextEvent ScheduledEvent
	Since     Time
}

// Kind implements DiseaseState.
func (Infectious) Kind() StateKind { return StateInfectious }

// NextEventTime implements DiseaseState.
func (i Infectious) NextEventTime() Time { return i.NextEvent.At }

// Hospitalized is the contagious subset receiving care; NextEvent.Kind
// already records whether this person's follow-on transition goes to
// Recovered or Death, chosen at the moment Hospitalized is entered.
type Hospitalized struct {
	NextEvent ScheduledEvent
	Since     Time
}

// Kind implements DiseaseState.
func (Hospitalized) Kind() StateKind { return StateHospitalized }

// NextEventTime implements DiseaseState.
func (h Hospitalized) NextEventTime() Time { return h.NextEvent.At }

// Recovered is a terminal, absorbing state.
type Recovered struct {
	Since Time
}

// Kind implements DiseaseState.
func (Recovered) Kind() StateKind { return StateRecovered }

// NextEventTime implements DiseaseState.
func (Recovered) NextEventTime() Time { return InfTime }

// Dead is a terminal, absorbing state.
type Dead struct {
	Since Time
}

// Kind implements DiseaseState.
func (Dead) Kind() StateKind { return StateDead }

// NextEventTime implements DiseaseState.
func (Dead) NextEventTime() Time { return InfTime }

// DiseaseParams holds the illustrative, tunable constants driving the
// disease progression timing (spec §4.C). Per-person p_hosp/p_death are
// carried on ScheduledEvent rather than here, since they can in principle
// vary per person, but DefaultPHosp/DefaultPDeath seed new Sane states.
type DiseaseParams struct {
	TInf          float64 // mean infectious-stage duration, seconds
	TInc          float64 // mean incubation duration, seconds
	R0            float64 // basic reproduction number
	DefaultPHosp  float64 // default probability routed to Recovery at hospitalization end
	DefaultPDeath float64 // default probability routed to Recovery at incubation end
}

// DefaultDiseaseParams returns the spec's illustrative constants.
func DefaultDiseaseParams() DiseaseParams {
	return DiseaseParams{
		TInf:          3600 * 10,
		TInc:          3600,
		R0:            2.5,
		DefaultPHosp:  0.05,
		DefaultPDeath: 0.95,
	}
}

// NewSane returns a fresh Sane state with no exposure trial pending yet
// (NextEvent.At is InfTime) and the given lifetime probabilities carried
// forward for whenever this person is eventually exposed.
func NewSane(pHosp, pDeath float64) Sane {
	return Sane{
		NextEvent: ScheduledEvent{Kind: TransitionExposition, PHosp: pHosp, PDeath: pDeath, At: InfTime},
	}
}

// Start consumes an exposure trial: a Sane person advances to Exposed
// only if overlap (the duration of shared-space co-occupancy with an
// infectious person) exceeds an Exp(R0/TInf) draw; otherwise the state is
// returned unchanged with no scheduled time. Start on anything but Sane
// is the domain precondition violation of spec §7 kind 2, returned as a
// typed error rather than panicked.
func Start(now Time, overlap Duration, s DiseaseState, rng *diseaseRNG, params DiseaseParams, person PersonID) (DiseaseState, *Time, error) {
	sane, ok := s.(Sane)
	if !ok {
		return s, nil, &NonSaneStartError{Person: person, Got: s.Kind()}
	}
	threshold := rng.Exponential(params.R0 / params.TInf)
	if overlap < threshold {
		return sane, nil, nil
	}
	next := exposeNow(now, sane, rng, params)
	return next, timePtr(next.NextEvent.At), nil
}

// StartNow bypasses the exposure trial (used by the airborne branch,
// which has already sampled its own Bernoulli trial against the
// concentration grid) and unconditionally advances a Sane person to
// Exposed. Like Start, calling StartNow on anything but Sane is a domain
// precondition violation.
func StartNow(now Time, s DiseaseState, rng *diseaseRNG, params DiseaseParams, person PersonID) (DiseaseState, *Time, error) {
	sane, ok := s.(Sane)
	if !ok {
		return s, nil, &NonSaneStartError{Person: person, Got: s.Kind()}
	}
	next := exposeNow(now, sane, rng, params)
	return next, timePtr(next.NextEvent.At), nil
}

func beginIncubation(now Time, rng *diseaseRNG, params DiseaseParams) Time {
	return now.Add(rng.Normal(params.TInc, params.TInc/4))
}

func exposeNow(now Time, sane Sane, rng *diseaseRNG, params DiseaseParams) Exposed {
	return Exposed{
		NextEvent: ScheduledEvent{
			Kind:   TransitionIncubation,
			PHosp:  sane.NextEvent.PHosp,
			PDeath: sane.NextEvent.PDeath,
			At:     beginIncubation(now, rng, params),
		},
		Since: now,
	}
}

func timePtr(t Time) *Time { return &t }

// Next advances s by exactly one scheduled transition (the one named by
// s's own NextEvent.Kind), independent of any contact with others. It
// returns the new state and, if another transition is now pending, the
// absolute time it should fire at.
//
// Recovered and Dead are absorbing: Next returns them unchanged with a
// nil time, which is how a stale Transition command arriving for an
// already-terminal person is tolerated (spec §5).
//
// The branch taken at each step follows spec §3/§4.C exactly, including
// the documented-but-counterintuitive probability gate (Open Question in
// spec §9): at incubation end, probability PDeath routes to Recovery
// (not Death!) and probability 1-PDeath routes to Hospitalization; at
// hospitalization end, probability PHosp routes to Recovery and
// probability 1-PHosp routes to Death. This is preserved as-is rather
// than "fixed", per the spec's explicit instruction to keep the
// observable behavior and merely document the oddity.
func Next(now Time, s DiseaseState, rng *diseaseRNG, params DiseaseParams) (DiseaseState, *Time) {
	switch st := s.(type) {
	case Sane:
		// A Sane person's only transition is via Start/StartNow, driven
		// by a contact event rather than a scheduled Transition command.
		// If one nonetheless arrives (it shouldn't, since NextEvent.At
		// is InfTime), there is nothing to do.
		return st, nil

	case Exposed:
		if st.NextEvent.Kind != TransitionIncubation {
			panic(fmt.Sprintf(TerminalStateTransitionError, "Exposed with unexpected pending kind"))
		}
		goesToRecovery := rng.Bernoulli(st.NextEvent.PDeath)
		kind := TransitionToHospitalization
		if goesToRecovery {
			kind = TransitionToRecoveryFromInfectious
		}
		next := Infectious{
			NextEvent: ScheduledEvent{
				Kind:   kind,
				PHosp:  st.NextEvent.PHosp,
				PDeath: st.NextEvent.PDeath,
				At:     now.Add(rng.Normal(params.TInf, params.TInf/4)),
			},
			Since: now,
		}
		t := next.NextEvent.At
		return next, &t

	case Infectious:
		switch st.NextEvent.Kind {
		case TransitionToRecoveryFromInfectious:
			return Recovered{Since: now}, nil
		case TransitionToHospitalization:
			goesToRecovery := rng.Bernoulli(st.NextEvent.PHosp)
			kind := TransitionToDeath
			if goesToRecovery {
				kind = TransitionToRecoveryFromHospitalized
			}
			next := Hospitalized{
				NextEvent: ScheduledEvent{
					Kind:   kind,
					PHosp:  st.NextEvent.PHosp,
					PDeath: st.NextEvent.PDeath,
					At:     now.Add(rng.Normal(params.TInf, params.TInf/4)),
				},
				Since: now,
			}
			t := next.NextEvent.At
			return next, &t
		default:
			panic(fmt.Sprintf(TerminalStateTransitionError, "Infectious with unexpected pending kind"))
		}

	case Hospitalized:
		switch st.NextEvent.Kind {
		case TransitionToRecoveryFromHospitalized:
			return Recovered{Since: now}, nil
		case TransitionToDeath:
			return Dead{Since: now}, nil
		default:
			panic(fmt.Sprintf(TerminalStateTransitionError, "Hospitalized with unexpected pending kind"))
		}

	case Recovered:
		return st, nil

	case Dead:
		return st, nil

	default:
		panic(fmt.Sprintf("unreachable: unknown DiseaseState %T", s))
	}
}
