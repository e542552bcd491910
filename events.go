package citypandemic

// TripPhaseKind discriminates TripPhaseType (spec §6).
type TripPhaseKind int

const (
	// TripWaitingForBus is the phase between arriving at a stop and
	// boarding a bus.
	TripWaitingForBus TripPhaseKind = iota
	// TripRidingBus is the phase spent aboard a bus.
	TripRidingBus
	// TripWalking is every other trip phase; per spec §4.D, its arrival
	// after a TripRidingBus phase is how disembarkation is detected,
	// since the host simulator has no explicit "alight" event.
	TripWalking
)

// TripPhaseType is the payload of a TripPhaseStarting mobility event.
type TripPhaseType struct {
	Kind    TripPhaseKind
	Stop    BusStopID // valid for TripWaitingForBus, TripRidingBus
	Bus     CarID     // valid for TripRidingBus
	LaneOpt LaneID    // valid for TripWalking, when known
}

// MobilityKind discriminates MobilityEvent (spec §6).
type MobilityKind int

const (
	// EventAgentEntersTraversable is a pedestrian stepping onto a lane.
	EventAgentEntersTraversable MobilityKind = iota
	// EventAgentLeavesTraversable is a pedestrian stepping off a lane.
	EventAgentLeavesTraversable
	// EventPersonEntersBuilding is a person entering a building.
	EventPersonEntersBuilding
	// EventPersonLeavesBuilding is a person leaving a building.
	EventPersonLeavesBuilding
	// EventPersonEntersRemoteBuilding is a person entering an off-map
	// parcel.
	EventPersonEntersRemoteBuilding
	// EventPersonLeavesRemoteBuilding is a person leaving an off-map
	// parcel.
	EventPersonLeavesRemoteBuilding
	// EventTripPhaseStarting is a person beginning a new phase of an
	// ongoing trip.
	EventTripPhaseStarting
	// EventPersonEntersMap is a person (re-)entering the simulated map
	// from an off-map location. Acknowledged; modeling is a deliberate
	// gap (spec §4.D, §9).
	EventPersonEntersMap
	// EventPersonLeavesMap is a person leaving the simulated map for an
	// off-map location. Acknowledged; modeling is a deliberate gap.
	EventPersonLeavesMap
	// EventOther is every mobility event kind the core does not
	// recognize; HandleEvent ignores these.
	EventOther
)

// MobilityEvent is the mobility event stream the host simulator delivers
// (spec §6 "Mobility event stream (consumed)"). Only the fields relevant
// to Kind are populated; unrecognized event kinds carry Kind=EventOther
// and every other field zero, and HandleEvent ignores them.
type MobilityEvent struct {
	Kind MobilityKind

	// HasAgent is false for AgentEnters/LeavesTraversable events whose
	// occupant isn't a tracked pedestrian (e.g. a car); HandleEvent
	// ignores such events.
	Person   PersonID
	HasAgent bool

	Lane     LaneID
	Building BuildingID
	OffMap   OffMapLocation
	Phase    TripPhaseType
}

// Cmd is the sum type of commands the core schedules into the host's
// Scheduler and later receives back via HandleCmd (spec §6 "Commands
// (produced)"). Grounded on original_source/sim/src/pandemic/pandemic.rs's
// Cmd enum, which derives a total order for scheduler tie-breaking; Less
// below gives this Go Cmd the same property.
type Cmd struct {
	Kind   CmdKind
	Person PersonID // valid for every kind except CmdPoll
}

// CmdKind discriminates Cmd.
type CmdKind int

const (
	// CmdPoll is the self-rescheduling airborne-diffusion tick.
	CmdPoll CmdKind = iota
	// CmdTransition is a one-shot per-person disease state transition.
	CmdTransition
	// CmdBecomeHospitalized is a stub reserved for policy layers.
	CmdBecomeHospitalized
	// CmdBecomeQuarantined is a stub reserved for policy layers.
	CmdBecomeQuarantined
	// CmdCancelFutureTrips is reserved for the host simulator and must
	// never be delivered to the core (spec §4.D, §7 kind 1).
	CmdCancelFutureTrips
	// CmdTransmission is unused; delivering it is a hard fault (spec §4.D).
	CmdTransmission
)

// Less gives Cmd a stable total order, for a Scheduler implementation
// that needs one to break ties between commands scheduled at the same
// time deterministically (mirrors the Ord/PartialOrd derive on the
// original Rust Cmd enum).
func (c Cmd) Less(o Cmd) bool {
	if c.Kind != o.Kind {
		return c.Kind < o.Kind
	}
	return c.Person.String() < o.Person.String()
}

// cmdFor builds the Cmd that should be pushed after a state transition,
// mirroring original_source's `impl From<(State, PersonID)> for Cmd`: a
// Sane result needs no command (no transition is pending until a
// transmission trial starts one), a terminal result needs no command
// either, and everything else needs a CmdTransition.
func cmdFor(s DiseaseState, person PersonID) (Cmd, bool) {
	switch s.Kind() {
	case StateSane, StateRecovered, StateDead:
		return Cmd{}, false
	default:
		return Cmd{Kind: CmdTransition, Person: person}, true
	}
}

// Scheduler is the external collaborator the core pushes future commands
// into (spec §6 "Scheduler (consumed)"). The core never reads from it.
type Scheduler interface {
	Push(at Time, cmd Cmd)
}

// WalkerAgent is one pedestrian position snapshot returned by a
// WalkerQuery (spec §6 "Walker query (consumed)").
type WalkerAgent struct {
	Person   PersonID
	HasAgent bool
	Pos      Pt2D
}

// WalkerQuery answers "who is where, right now" for pedestrians
// constrained to the map (spec §6). The core filters out entries with no
// associated PersonID itself.
type WalkerQuery interface {
	GetUnzoomedAgents(now Time) []WalkerAgent
}

// MapInfo is the subset of the host's map the core needs: the world
// bounding box (spec §6 "Map (consumed)"). Lane-to-building/road
// translation is part of the host's opaque Map and is never needed by
// this core directly, since every lane-keyed ledger operation takes a
// LaneID, not a Lane.
type MapInfo interface {
	Bounds() Bounds
}
