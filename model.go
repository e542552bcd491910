package citypandemic

import (
	"fmt"
	"math"
	"sort"
)

// ModelParams holds the orchestration-level constants spec §4.D names:
// initial seeding ratios and the airborne diffusion tuning values. Kept
// separate from DiseaseParams because these govern PandemicModel's own
// behavior rather than any individual person's disease timing.
type ModelParams struct {
	ERatio        float64 // fraction of the population seeded Exposed at Initialize
	IRatio        float64 // conditional fraction of those further advanced to Infectious
	Kappa         float64 // diffusion constant
	Decay         float64 // linear decay rate
	AbsorbFloor   float64 // Grid.Absorb floor
	AirborneScale float64 // divisor turning concentration into a per-tick infection probability (spec §9 Open Question: named/validated instead of a bare literal)
}

// DefaultModelParams returns the spec's illustrative constants.
func DefaultModelParams() ModelParams {
	return ModelParams{
		ERatio:        0.2,
		IRatio:        0.5,
		Kappa:         0.002,
		Decay:         0.002,
		AbsorbFloor:   0.01,
		AirborneScale: 100.0,
	}
}

// PandemicModel is the orchestrator (spec §4.D): it owns the population's
// disease state, the airborne concentration grid, one occupancy ledger
// per shared-space kind, the auxiliary person-to-bus map used to detect
// disembarkation, and the core's own PRNG.
type PandemicModel struct {
	pop   map[PersonID]DiseaseState
	order []PersonID // sorted PersonIDs, for deterministic iteration

	concentration *Grid
	bounds        Bounds
	dx            float64
	deltaT        float64

	bldgs       *SharedSpace[BuildingID]
	sidewalks   *SharedSpace[LaneID]
	remoteBldgs *SharedSpace[OffMapLocation]
	busStops    *SharedSpace[BusStopID]
	buses       *SharedSpace[CarID]
	personToBus map[PersonID]CarID

	rng    *diseaseRNG
	params DiseaseParams
	model  ModelParams

	initialized bool

	instanceID    int
	transitions   chan TransitionRecord
	transmissions chan TransmissionRecord
	polls         chan PollRecord
}

// NewPandemicModel allocates a model over the given map bounds, with dx
// meters per grid cell and deltaT seconds between Poll ticks. nx/ny are
// derived as ceil(width/dx), ceil(height/dx) (spec §4.D "Construction").
func NewPandemicModel(bounds Bounds, dx, deltaT float64, seed int64, params DiseaseParams, model ModelParams) *PandemicModel {
	nx := int(math.Ceil(bounds.Width() / dx))
	ny := int(math.Ceil(bounds.Height() / dx))
	return &PandemicModel{
		pop:           make(map[PersonID]DiseaseState),
		concentration: ZeroGrid(nx, ny),
		bounds:        bounds,
		dx:            dx,
		deltaT:        deltaT,
		bldgs:         NewSharedSpace[BuildingID](),
		sidewalks:     NewSharedSpace[LaneID](),
		remoteBldgs:   NewSharedSpace[OffMapLocation](),
		busStops:      NewSharedSpace[BusStopID](),
		buses:         NewSharedSpace[CarID](),
		personToBus:   make(map[PersonID]CarID),
		rng:           newDiseaseRNG(seed),
		params:        params,
		model:         model,
	}
}

// Initialize seeds the full population as Sane, then with probability
// ERatio marks a person Exposed (guaranteed to pass its exposure trial,
// since it is started with an infinite overlap) and, with further
// conditional probability IRatio, immediately advances that person one
// more transition to Infectious. Every finite scheduled time produced —
// and only the final one, not any intermediate one discarded along the
// way — is pushed onto scheduler. Initialize may be called exactly once.
// HandleEvent and HandleCmd panic if it has not been called; the
// accessors, EnableLogging, CloseLogFeeds, Snapshot and Restore do not
// check.
func (m *PandemicModel) Initialize(now Time, population []PersonID, scheduler Scheduler) {
	if m.initialized {
		panic("PandemicModel.Initialize called twice")
	}
	m.initialized = true

	m.order = append([]PersonID(nil), population...)
	sort.Slice(m.order, func(i, j int) bool { return m.order[i].String() < m.order[j].String() })

	for _, person := range population {
		state := DiseaseState(NewSane(m.params.DefaultPHosp, m.params.DefaultPDeath))

		if m.rng.Bernoulli(m.model.ERatio) {
			exposed, at, err := Start(now, Duration(math.Inf(1)), state, m.rng, m.params, person)
			if err != nil {
				panic(err)
			}
			final := exposed
			finalAt := at
			if m.rng.Bernoulli(m.model.IRatio) {
				final, finalAt = Next(now, exposed, m.rng, m.params)
			}
			if finalAt != nil {
				if cmd, ok := cmdFor(final, person); ok {
					scheduler.Push(*finalAt, cmd)
				}
			}
			state = final
		}

		m.pop[person] = state
	}
}

// EnableLogging opens buffered record channels for instance id and returns
// them as a LogFeeds for the caller to hand to a DataLogger's Write*
// methods, one goroutine per channel. Every transition, transmission, and
// Poll tick recorded after this call is sent on the matching channel.
// Logging stays off (and every log* call below is a no-op) until this is
// called, so tests that never call it see no behavior change.
func (m *PandemicModel) EnableLogging(instanceID int) LogFeeds {
	m.instanceID = instanceID
	m.transitions = make(chan TransitionRecord, 256)
	m.transmissions = make(chan TransmissionRecord, 256)
	m.polls = make(chan PollRecord, 256)
	return LogFeeds{
		Transitions:   m.transitions,
		Transmissions: m.transmissions,
		Polls:         m.polls,
	}
}

// CloseLogFeeds closes the channels opened by EnableLogging, signaling the
// logger goroutines draining them to finish. The caller must not call
// HandleEvent/HandleCmd again afterward.
func (m *PandemicModel) CloseLogFeeds() {
	if m.transitions != nil {
		close(m.transitions)
	}
	if m.transmissions != nil {
		close(m.transmissions)
	}
	if m.polls != nil {
		close(m.polls)
	}
}

func (m *PandemicModel) logTransition(now Time, person PersonID, from, to StateKind) {
	if m.transitions == nil {
		return
	}
	m.transitions <- TransitionRecord{InstanceID: m.instanceID, Person: person, From: from, To: to, At: now}
}

func (m *PandemicModel) logTransmission(now Time, source, target PersonID, overlap Duration) {
	if m.transmissions == nil {
		return
	}
	m.transmissions <- TransmissionRecord{InstanceID: m.instanceID, Source: source, Target: target, Overlap: overlap, At: now}
}

func (m *PandemicModel) logPoll(rec PollRecord) {
	if m.polls == nil {
		return
	}
	rec.InstanceID = m.instanceID
	m.polls <- rec
}

func (m *PandemicModel) assertInitialized() {
	if !m.initialized {
		panic("PandemicModel used before Initialize")
	}
}

func (m *PandemicModel) stateOf(person PersonID) DiseaseState {
	s, ok := m.pop[person]
	if !ok {
		panic(fmt.Sprintf(PersonNotFoundError, person))
	}
	return s
}

// HandleEvent dispatches one mobility event (spec §4.D "Mobility event
// handling").
func (m *PandemicModel) HandleEvent(now Time, ev MobilityEvent, scheduler Scheduler) {
	m.assertInitialized()

	switch ev.Kind {
	case EventAgentEntersTraversable:
		if ev.HasAgent {
			m.sidewalks.PersonEntersSpace(now, ev.Person, ev.Lane)
		}
	case EventAgentLeavesTraversable:
		if ev.HasAgent {
			overlaps, ok := m.sidewalks.PersonLeavesSpace(now, ev.Person, ev.Lane)
			if !ok {
				panic(fmt.Sprintf(SpaceNotEnteredError, ev.Person, ev.Lane))
			}
			m.transmission(now, ev.Person, overlaps, scheduler)
		}
	case EventPersonEntersBuilding:
		m.bldgs.PersonEntersSpace(now, ev.Person, ev.Building)
	case EventPersonLeavesBuilding:
		overlaps, ok := m.bldgs.PersonLeavesSpace(now, ev.Person, ev.Building)
		if !ok {
			panic(fmt.Sprintf(SpaceNotEnteredError, ev.Person, ev.Building))
		}
		m.transmission(now, ev.Person, overlaps, scheduler)
	case EventPersonEntersRemoteBuilding:
		m.remoteBldgs.PersonEntersSpace(now, ev.Person, ev.OffMap)
	case EventPersonLeavesRemoteBuilding:
		overlaps, ok := m.remoteBldgs.PersonLeavesSpace(now, ev.Person, ev.OffMap)
		if !ok {
			panic(fmt.Sprintf(SpaceNotEnteredError, ev.Person, ev.OffMap))
		}
		m.transmission(now, ev.Person, overlaps, scheduler)
	case EventTripPhaseStarting:
		m.handleTripPhase(now, ev.Person, ev.Phase, scheduler)
	case EventPersonEntersMap, EventPersonLeavesMap:
		// Acknowledged; modeling off-map dwell time is a deliberate gap
		// (spec §4.D, §9).
	default:
		// Every other mobility event kind is ignored.
	}
}

func (m *PandemicModel) handleTripPhase(now Time, person PersonID, phase TripPhaseType, scheduler Scheduler) {
	switch phase.Kind {
	case TripWaitingForBus:
		m.busStops.PersonEntersSpace(now, person, phase.Stop)
	case TripRidingBus:
		overlaps, ok := m.busStops.PersonLeavesSpace(now, person, phase.Stop)
		if !ok {
			panic(fmt.Sprintf(SpaceNotEnteredError, person, phase.Stop))
		}
		m.transmission(now, person, overlaps, scheduler)

		m.buses.PersonEntersSpace(now, person, phase.Bus)
		m.personToBus[person] = phase.Bus
	case TripWalking:
		// A person can start walking for many reasons, but the only
		// possible state transition after riding a bus is walking, so
		// this is how the end of a bus ride is detected (spec §4.D).
		if bus, ok := m.personToBus[person]; ok {
			delete(m.personToBus, person)
			overlaps, ok := m.buses.PersonLeavesSpace(now, person, bus)
			if !ok {
				panic(fmt.Sprintf(SpaceNotEnteredError, person, bus))
			}
			m.transmission(now, person, overlaps, scheduler)
		}
	}
}

// transmission runs pairwise exposure trials between person (who just
// left a shared space) and every other occupant they overlapped with
// (spec §4.D "Pairwise transmission").
func (m *PandemicModel) transmission(now Time, person PersonID, overlaps []Overlap, scheduler Scheduler) {
	for _, ov := range overlaps {
		if susceptible, ok := m.infectiousContact(person, ov.Other); ok {
			source := person
			if susceptible == person {
				source = ov.Other
			}
			m.becomeExposed(now, ov.Duration, source, susceptible, scheduler)
		}
	}
}

// infectiousContact reports which of the two people (if either) is the
// susceptible half of a Sane/Infectious-or-Hospitalized pair.
func (m *PandemicModel) infectiousContact(a, b PersonID) (PersonID, bool) {
	if m.isSaneState(a) && m.isInfectiousState(b) {
		return a, true
	}
	if m.isInfectiousState(a) && m.isSaneState(b) {
		return b, true
	}
	return PersonID{}, false
}

func (m *PandemicModel) becomeExposed(now Time, overlap Duration, source, person PersonID, scheduler Scheduler) {
	state := m.stateOf(person)
	next, at, err := Start(now, overlap, state, m.rng, m.params, person)
	if err != nil {
		// Start's only caller here always passes a state already proven
		// Sane by infectiousContact; a mismatch is a programmer error
		// (spec §7: "the orchestrator's only call sites treat it as kind 1 via unwrap").
		panic(err)
	}
	m.pop[person] = next
	if next.Kind() != state.Kind() {
		m.logTransition(now, person, state.Kind(), next.Kind())
		m.logTransmission(now, source, person, overlap)
	}
	if at != nil {
		if cmd, ok := cmdFor(next, person); ok {
			scheduler.Push(*at, cmd)
		}
	}
}

// HandleCmd dispatches one previously scheduled command (spec §4.D).
func (m *PandemicModel) HandleCmd(now Time, cmd Cmd, walker WalkerQuery, mapInfo MapInfo, scheduler Scheduler) {
	m.assertInitialized()

	switch cmd.Kind {
	case CmdBecomeHospitalized, CmdBecomeQuarantined:
		// Stub: preserved so downstream policy layers can be added
		// later without changing this interface (spec §4.D).
	case CmdCancelFutureTrips:
		panic(fmt.Sprintf(ReservedCommandError, cmd))
	case CmdTransmission:
		panic(fmt.Sprintf(ReservedCommandError, cmd))
	case CmdPoll:
		m.pollTick(now, walker, mapInfo, scheduler)
	case CmdTransition:
		m.transition(now, cmd.Person, scheduler)
	default:
		panic(fmt.Sprintf("unreachable: unknown Cmd kind %d", cmd.Kind))
	}
}

func (m *PandemicModel) pollTick(now Time, walker WalkerQuery, mapInfo MapInfo, scheduler Scheduler) {
	agents := walker.GetUnzoomedAgents(now)

	var infectiousPositions []Pt2D
	type susceptible struct {
		person PersonID
		pos    Pt2D
	}
	var susceptibles []susceptible

	for _, a := range agents {
		if !a.HasAgent {
			continue
		}
		switch {
		case m.isInfectiousState(a.Person):
			infectiousPositions = append(infectiousPositions, a.Pos)
		case m.isSaneState(a.Person):
			susceptibles = append(susceptibles, susceptible{person: a.Person, pos: a.Pos})
		}
	}

	bounds := m.bounds
	if mapInfo != nil {
		bounds = mapInfo.Bounds()
	}

	if len(infectiousPositions) > 0 {
		m.concentration.AddSources(infectiousPositions, bounds, m.dx, m.deltaT, 1.0)
	}
	m.concentration.Diffuse(m.model.Kappa, m.model.Decay, m.dx, m.deltaT)
	m.concentration.Absorb(m.model.AbsorbFloor)

	newlyExposed := 0
	for _, s := range susceptibles {
		ix, iy := m.concentration.cellIndex(s.pos, bounds, m.dx)
		conc := m.concentration.At(ix, iy)
		p := Clamp01(conc / m.model.AirborneScale)
		if !m.rng.Bernoulli(p) {
			continue
		}

		state := m.stateOf(s.person)
		sane, ok := state.(Sane)
		if !ok || !sane.NextEvent.At.IsInf() {
			panic(fmt.Sprintf("airborne exposure of %s requires a never-exposed Sane state, got %s", s.person, state.Kind()))
		}
		next, at, err := StartNow(now, state, m.rng, m.params, s.person)
		if err != nil {
			panic(err)
		}
		m.pop[s.person] = next
		m.logTransition(now, s.person, state.Kind(), next.Kind())
		newlyExposed++
		if at != nil {
			if cmd, ok := cmdFor(next, s.person); ok {
				scheduler.Push(*at, cmd)
			}
		}
	}

	m.logPoll(PollRecord{
		At:                now,
		InfectiousCount:   len(infectiousPositions),
		SusceptibleCount:  len(susceptibles),
		NewlyExposedCount: newlyExposed,
		MeanConcentration: m.concentration.Mean(),
	})

	scheduler.Push(now.Add(Duration(m.deltaT)), Cmd{Kind: CmdPoll})
}

func (m *PandemicModel) transition(now Time, person PersonID, scheduler Scheduler) {
	state := m.stateOf(person)
	next, at := Next(now, state, m.rng, m.params)
	m.pop[person] = next
	if next.Kind() != state.Kind() {
		m.logTransition(now, person, state.Kind(), next.Kind())
	}
	if at != nil {
		if cmd, ok := cmdFor(next, person); ok {
			scheduler.Push(*at, cmd)
		}
	}
}

func (m *PandemicModel) isSaneState(p PersonID) bool {
	s, ok := m.pop[p]
	return ok && s.Kind() == StateSane
}

func (m *PandemicModel) isInfectiousState(p PersonID) bool {
	s, ok := m.pop[p]
	if !ok {
		return false
	}
	k := s.Kind()
	return k == StateInfectious || k == StateHospitalized
}

// GetTime returns the scheduled time of person's next pending transition.
func (m *PandemicModel) GetTime(person PersonID) Time {
	return m.stateOf(person).NextEventTime()
}

// IsSane reports whether person is currently Sane.
func (m *PandemicModel) IsSane(person PersonID) bool {
	return m.stateOf(person).Kind() == StateSane
}

// IsExposed reports whether person is currently Exposed.
func (m *PandemicModel) IsExposed(person PersonID) bool {
	return m.stateOf(person).Kind() == StateExposed
}

// IsInfectious reports whether person is currently Infectious or
// Hospitalized (both are contagious, per spec glossary).
func (m *PandemicModel) IsInfectious(person PersonID) bool {
	k := m.stateOf(person).Kind()
	return k == StateInfectious || k == StateHospitalized
}

// IsRecovered reports whether person has recovered.
func (m *PandemicModel) IsRecovered(person PersonID) bool {
	return m.stateOf(person).Kind() == StateRecovered
}

// IsDead reports whether person has died.
func (m *PandemicModel) IsDead(person PersonID) bool {
	return m.stateOf(person).Kind() == StateDead
}

func (m *PandemicModel) countKind(k StateKind) int {
	n := 0
	for _, person := range m.order {
		if s, ok := m.pop[person]; ok && s.Kind() == k {
			n++
		}
	}
	return n
}

// CountSane returns the number of currently Sane people.
func (m *PandemicModel) CountSane() int { return m.countKind(StateSane) }

// CountExposed returns the number of currently Exposed people.
func (m *PandemicModel) CountExposed() int { return m.countKind(StateExposed) }

// CountInfected returns the number of currently Infectious or
// Hospitalized people.
func (m *PandemicModel) CountInfected() int {
	return m.countKind(StateInfectious) + m.countKind(StateHospitalized)
}

// CountRecovered returns the number of people who have recovered.
func (m *PandemicModel) CountRecovered() int { return m.countKind(StateRecovered) }

// CountDead returns the number of people who have died.
func (m *PandemicModel) CountDead() int { return m.countKind(StateDead) }

// CountTotal returns the size of the closed population (spec §8:
// invariant across the run).
func (m *PandemicModel) CountTotal() int {
	return m.CountSane() + m.CountExposed() + m.CountInfected() + m.CountRecovered() + m.CountDead()
}
