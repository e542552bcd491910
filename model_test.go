package citypandemic

import (
	"math"
	"testing"
)

func newTestModel() *PandemicModel {
	bounds := Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	return NewPandemicModel(bounds, 10, 60, 1, DefaultDiseaseParams(), DefaultModelParams())
}

type recordingScheduler struct {
	pushes []scheduledCmd
}

func (r *recordingScheduler) Push(at Time, cmd Cmd) {
	r.pushes = append(r.pushes, scheduledCmd{at: at, cmd: cmd})
}

func (r *recordingScheduler) countKind(k CmdKind) int {
	n := 0
	for _, p := range r.pushes {
		if p.cmd.Kind == k {
			n++
		}
	}
	return n
}

func TestInitialize_ZeroERatioLeavesEverySane(t *testing.T) {
	m := newTestModel()
	population := []PersonID{pid(1), pid(2), pid(3)}
	m.model.ERatio = 0
	sched := &recordingScheduler{}

	m.Initialize(Time(0), population, sched)

	if got := m.CountSane(); got != len(population) {
		t.Errorf(UnequalIntParameterError, "sane count", len(population), got)
	}
	if got := m.CountTotal(); got != len(population) {
		t.Errorf(UnequalIntParameterError, "total count", len(population), got)
	}
	if len(sched.pushes) != 0 {
		t.Errorf(UnequalIntParameterError, "scheduler pushes", 0, len(sched.pushes))
	}
}

func TestInitialize_FullERatioZeroIRatioLeavesEveryExposed(t *testing.T) {
	m := newTestModel()
	population := []PersonID{pid(1), pid(2), pid(3)}
	m.model.ERatio = 1
	m.model.IRatio = 0
	sched := &recordingScheduler{}

	m.Initialize(Time(0), population, sched)

	if got := m.CountExposed(); got != len(population) {
		t.Errorf(UnequalIntParameterError, "exposed count", len(population), got)
	}
	if got := sched.countKind(CmdTransition); got != len(population) {
		t.Errorf(UnequalIntParameterError, "transition pushes", len(population), got)
	}
}

func TestInitialize_FullERatioFullIRatioLeavesEveryInfectious(t *testing.T) {
	m := newTestModel()
	population := []PersonID{pid(1), pid(2), pid(3)}
	m.model.ERatio = 1
	m.model.IRatio = 1
	sched := &recordingScheduler{}

	m.Initialize(Time(0), population, sched)

	if got := m.CountInfected(); got != len(population) {
		t.Errorf(UnequalIntParameterError, "infectious count", len(population), got)
	}
}

func TestTransmission_InfiniteOverlapAlwaysExposesTheSusceptible(t *testing.T) {
	m := newTestModel()
	infectious, susceptible := pid(1), pid(2)
	m.pop[infectious] = Infectious{NextEvent: ScheduledEvent{Kind: TransitionToRecoveryFromInfectious, At: Time(1000)}}
	m.pop[susceptible] = NewSane(m.params.DefaultPHosp, m.params.DefaultPDeath)
	m.order = []PersonID{infectious, susceptible}
	m.initialized = true
	sched := &recordingScheduler{}

	overlaps := []Overlap{{Other: infectious, Duration: Duration(math.Inf(1))}}
	m.transmission(Time(0), susceptible, overlaps, sched)

	if !m.IsExposed(susceptible) {
		t.Fatalf(UnequalStringParameterError, "susceptible state", "Exposed", m.stateOf(susceptible).Kind().String())
	}
	if got := sched.countKind(CmdTransition); got != 1 {
		t.Errorf(UnequalIntParameterError, "transition pushes", 1, got)
	}
}

func TestTransmission_TwoSaneNeighborsNeitherExposesTheOther(t *testing.T) {
	m := newTestModel()
	a, b := pid(1), pid(2)
	m.pop[a] = NewSane(m.params.DefaultPHosp, m.params.DefaultPDeath)
	m.pop[b] = NewSane(m.params.DefaultPHosp, m.params.DefaultPDeath)
	m.order = []PersonID{a, b}
	m.initialized = true
	sched := &recordingScheduler{}

	overlaps := []Overlap{{Other: b, Duration: Duration(math.Inf(1))}}
	m.transmission(Time(0), a, overlaps, sched)

	if !m.IsSane(a) || !m.IsSane(b) {
		t.Errorf(UnequalStringParameterError, "state", "Sane", "non-Sane")
	}
	if len(sched.pushes) != 0 {
		t.Errorf(UnequalIntParameterError, "scheduler pushes", 0, len(sched.pushes))
	}
}

func TestHandleEvent_BusRide_LedgersEmptyAfterAlighting(t *testing.T) {
	m := newTestModel()
	infectious, susceptible := pid(1), pid(2)
	m.pop[infectious] = Infectious{NextEvent: ScheduledEvent{Kind: TransitionToRecoveryFromInfectious, At: Time(1000)}}
	m.pop[susceptible] = NewSane(m.params.DefaultPHosp, m.params.DefaultPDeath)
	m.order = []PersonID{infectious, susceptible}
	m.initialized = true
	sched := &recordingScheduler{}

	stop := BusStopID(1)
	bus := CarID(1)

	for _, p := range []PersonID{infectious, susceptible} {
		m.HandleEvent(Time(0), MobilityEvent{
			Kind: EventTripPhaseStarting, Person: p,
			Phase: TripPhaseType{Kind: TripWaitingForBus, Stop: stop},
		}, sched)
	}
	for _, p := range []PersonID{infectious, susceptible} {
		m.HandleEvent(Time(600), MobilityEvent{
			Kind: EventTripPhaseStarting, Person: p,
			Phase: TripPhaseType{Kind: TripRidingBus, Stop: stop, Bus: bus},
		}, sched)
	}
	for _, p := range []PersonID{infectious, susceptible} {
		m.HandleEvent(Time(1e9), MobilityEvent{
			Kind: EventTripPhaseStarting, Person: p,
			Phase: TripPhaseType{Kind: TripWalking},
		}, sched)
	}

	if n := len(m.busStops.occupants[stop]); n != 0 {
		t.Errorf(UnequalIntParameterError, "remaining bus stop occupants", 0, n)
	}
	if n := len(m.buses.occupants[bus]); n != 0 {
		t.Errorf(UnequalIntParameterError, "remaining bus occupants", 0, n)
	}
	if len(m.personToBus) != 0 {
		t.Errorf(UnequalIntParameterError, "remaining person-to-bus entries", 0, len(m.personToBus))
	}
	if !m.IsExposed(susceptible) {
		t.Errorf(UnequalStringParameterError, "susceptible state after an enormous overlap", "Exposed", m.stateOf(susceptible).Kind().String())
	}
}

func TestHandleEvent_LeavingUnenteredSpaceIsAHardFault(t *testing.T) {
	m := newTestModel()
	m.initialized = true
	sched := &recordingScheduler{}

	defer func() {
		if recover() == nil {
			t.Errorf(ExpectedErrorWhileError, "leaving a building never entered", "")
		}
	}()
	m.HandleEvent(Time(0), MobilityEvent{Kind: EventPersonLeavesBuilding, Person: pid(1), Building: BuildingID(1)}, sched)
}

func TestHandleCmd_PollSelfReschedulesExactlyOnce(t *testing.T) {
	m := newTestModel()
	m.initialized = true
	sched := &recordingScheduler{}
	walker := NewInMemoryWalker()
	mapInfo := NewStaticMapInfo(m.bounds)

	const ticks = 5
	now := Time(0)
	for i := 0; i < ticks; i++ {
		m.HandleCmd(now, Cmd{Kind: CmdPoll}, walker, mapInfo, sched)
		now = now.Add(Duration(m.deltaT))
	}

	if got := sched.countKind(CmdPoll); got != ticks {
		t.Errorf(UnequalIntParameterError, "poll pushes", ticks, got)
	}
}

func TestHandleCmd_ReservedCommandsPanic(t *testing.T) {
	m := newTestModel()
	m.initialized = true
	sched := &recordingScheduler{}
	walker := NewInMemoryWalker()
	mapInfo := NewStaticMapInfo(m.bounds)

	for _, kind := range []CmdKind{CmdCancelFutureTrips, CmdTransmission} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf(ExpectedErrorWhileError, "delivering a reserved command", "")
				}
			}()
			m.HandleCmd(Time(0), Cmd{Kind: kind}, walker, mapInfo, sched)
		}()
	}
}

func TestHandleCmd_TransitionAdvancesAndPushesOnlyWhilePending(t *testing.T) {
	m := newTestModel()
	person := pid(1)
	m.pop[person] = Exposed{NextEvent: ScheduledEvent{Kind: TransitionIncubation, PHosp: 1, PDeath: 0, At: Time(100)}}
	m.order = []PersonID{person}
	m.initialized = true
	sched := &recordingScheduler{}
	walker := NewInMemoryWalker()
	mapInfo := NewStaticMapInfo(m.bounds)

	m.HandleCmd(Time(100), Cmd{Kind: CmdTransition, Person: person}, walker, mapInfo, sched)

	if !m.IsInfectious(person) {
		t.Fatalf(UnequalStringParameterError, "state after incubation", "Infectious", m.stateOf(person).Kind().String())
	}
	if got := sched.countKind(CmdTransition); got != 1 {
		t.Errorf(UnequalIntParameterError, "transition pushes", 1, got)
	}
}

func TestAccessors_UnknownPersonPanics(t *testing.T) {
	m := newTestModel()
	m.initialized = true

	defer func() {
		if recover() == nil {
			t.Errorf(ExpectedErrorWhileError, "querying an unknown person", "")
		}
	}()
	m.IsSane(pid(99))
}
