package citypandemic

import (
	"encoding/gob"
	"io"
)

func init() {
	gob.Register(Sane{})
	gob.Register(Exposed{})
	gob.Register(Infectious{})
	gob.Register(Hospitalized{})
	gob.Register(Recovered{})
	gob.Register(Dead{})
}

// Snapshot is the serializable image of a PandemicModel's full state:
// disease trajectory, airborne concentration field, every per-space-kind
// occupancy ledger, the in-progress bus-ride tracking map, and the PRNG
// (spec §6 "Persistence": "population map, grid, ledgers, PRNG,
// initialized flag", §8 "Round-trip / idempotence"). A person captured
// mid-occupancy (inside a building, on a bus, on a sidewalk) round-trips
// with their ledger entry intact, so a later PersonLeavesSpace after
// restore finds them exactly as the continuous run would have.
type Snapshot struct {
	Pop         map[PersonID]DiseaseState
	Order       []PersonID
	GridData    []float64
	GridWidth   int
	GridHeight  int
	Bounds      Bounds
	Dx          float64
	DeltaT      float64
	RNGState    uint64
	Params      DiseaseParams
	Model       ModelParams
	Initialized bool

	Buildings       map[BuildingID][]occupantSnapshot
	Sidewalks       map[LaneID][]occupantSnapshot
	RemoteBuildings map[OffMapLocation][]occupantSnapshot
	BusStops        map[BusStopID][]occupantSnapshot
	Buses           map[CarID][]occupantSnapshot
	PersonToBus     map[PersonID]CarID
}

// Snapshot captures the model's current state.
func (m *PandemicModel) Snapshot() Snapshot {
	pop := make(map[PersonID]DiseaseState, len(m.pop))
	for k, v := range m.pop {
		pop[k] = v
	}
	gridData := make([]float64, len(m.concentration.data))
	copy(gridData, m.concentration.data)

	personToBus := make(map[PersonID]CarID, len(m.personToBus))
	for k, v := range m.personToBus {
		personToBus[k] = v
	}

	return Snapshot{
		Pop:         pop,
		Order:       append([]PersonID(nil), m.order...),
		GridData:    gridData,
		GridWidth:   m.concentration.width,
		GridHeight:  m.concentration.height,
		Bounds:      m.bounds,
		Dx:          m.dx,
		DeltaT:      m.deltaT,
		RNGState:    m.rng.State(),
		Params:      m.params,
		Model:       m.model,
		Initialized: m.initialized,

		Buildings:       m.bldgs.Snapshot(),
		Sidewalks:       m.sidewalks.Snapshot(),
		RemoteBuildings: m.remoteBldgs.Snapshot(),
		BusStops:        m.busStops.Snapshot(),
		Buses:           m.buses.Snapshot(),
		PersonToBus:     personToBus,
	}
}

// Restore replaces m's disease trajectory, concentration field, occupancy
// ledgers, person-to-bus map, and RNG state with s's.
func (m *PandemicModel) Restore(s Snapshot) {
	m.pop = make(map[PersonID]DiseaseState, len(s.Pop))
	for k, v := range s.Pop {
		m.pop[k] = v
	}
	m.order = append([]PersonID(nil), s.Order...)

	m.concentration = &Grid{
		data:   append([]float64(nil), s.GridData...),
		width:  s.GridWidth,
		height: s.GridHeight,
	}
	m.bounds = s.Bounds
	m.dx = s.Dx
	m.deltaT = s.DeltaT
	m.rng = newDiseaseRNG(1)
	m.rng.SetState(s.RNGState)
	m.params = s.Params
	m.model = s.Model
	m.initialized = s.Initialized

	m.bldgs = NewSharedSpace[BuildingID]()
	m.bldgs.Restore(s.Buildings)
	m.sidewalks = NewSharedSpace[LaneID]()
	m.sidewalks.Restore(s.Sidewalks)
	m.remoteBldgs = NewSharedSpace[OffMapLocation]()
	m.remoteBldgs.Restore(s.RemoteBuildings)
	m.busStops = NewSharedSpace[BusStopID]()
	m.busStops.Restore(s.BusStops)
	m.buses = NewSharedSpace[CarID]()
	m.buses.Restore(s.Buses)

	m.personToBus = make(map[PersonID]CarID, len(s.PersonToBus))
	for k, v := range s.PersonToBus {
		m.personToBus[k] = v
	}
}

// SaveTo gob-encodes m's Snapshot to w.
func (m *PandemicModel) SaveTo(w io.Writer) error {
	return gob.NewEncoder(w).Encode(m.Snapshot())
}

// LoadFrom gob-decodes a Snapshot from r and restores it into m.
func (m *PandemicModel) LoadFrom(r io.Reader) error {
	var s Snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return err
	}
	m.Restore(s)
	return nil
}
