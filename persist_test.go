package citypandemic

import (
	"bytes"
	"testing"
)

func TestSnapshotRestore_MidOccupancyLedgerEntrySurvives(t *testing.T) {
	m := newTestModel()
	population := []PersonID{pid(1), pid(2)}
	sched := &recordingScheduler{}
	m.Initialize(Time(0), population, sched)

	bldg := BuildingID(1)
	m.bldgs.PersonEntersSpace(Time(0), pid(1), bldg)

	var buf bytes.Buffer
	if err := m.SaveTo(&buf); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "saving a snapshot with a mid-occupancy entry", err)
	}

	restored := newTestModel()
	if err := restored.LoadFrom(&buf); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "loading a snapshot with a mid-occupancy entry", err)
	}

	if n := len(restored.bldgs.occupants[bldg]); n != 1 {
		t.Fatalf(UnequalIntParameterError, "restored building occupants", 1, n)
	}

	overlaps, ok := restored.bldgs.PersonLeavesSpace(Time(Hours(1)), pid(1), bldg)
	if !ok {
		t.Fatalf(ExpectedErrorWhileError, "leaving a building entered before the snapshot was taken", "")
	}
	if len(overlaps) != 0 {
		t.Errorf(UnequalIntParameterError, "overlap count", 0, len(overlaps))
	}
}

func TestSnapshotRestore_PersonToBusSurvives(t *testing.T) {
	m := newTestModel()
	population := []PersonID{pid(1)}
	sched := &recordingScheduler{}
	m.Initialize(Time(0), population, sched)

	bus := CarID(1)
	m.buses.PersonEntersSpace(Time(0), pid(1), bus)
	m.personToBus[pid(1)] = bus

	s := m.Snapshot()
	restored := newTestModel()
	restored.Restore(s)

	if got, ok := restored.personToBus[pid(1)]; !ok || got != bus {
		t.Errorf(UnequalIntParameterError, "restored bus assignment", int(bus), int(got))
	}
	if n := len(restored.buses.occupants[bus]); n != 1 {
		t.Errorf(UnequalIntParameterError, "restored bus occupants", 1, n)
	}
}

func TestSnapshotRestore_RoundTripsDiseaseTrajectoryAndGrid(t *testing.T) {
	m := newTestModel()
	population := []PersonID{pid(1), pid(2), pid(3)}
	m.model.ERatio = 1
	m.model.IRatio = 1
	sched := &recordingScheduler{}
	m.Initialize(Time(0), population, sched)

	m.concentration.AddSources([]Pt2D{{X: 50, Y: 50}}, m.bounds, m.dx, m.deltaT, 1.0)

	var buf bytes.Buffer
	if err := m.SaveTo(&buf); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "saving a snapshot", err)
	}

	restored := newTestModel()
	if err := restored.LoadFrom(&buf); err != nil {
		t.Fatalf(UnexpectedErrorWhileError, "loading a snapshot", err)
	}

	if got := restored.CountInfected(); got != len(population) {
		t.Errorf(UnequalIntParameterError, "restored infectious count", len(population), got)
	}
	if got := restored.concentration.Mean(); got != m.concentration.Mean() {
		t.Errorf(UnequalFloatParameterError, "restored grid mean", m.concentration.Mean(), got)
	}
}
