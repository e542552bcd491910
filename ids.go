package citypandemic

import "github.com/segmentio/ksuid"

// PersonID is an opaque, totally ordered identifier assigned by the host
// simulator. ksuid.KSUID sorts lexicographically by its own construction
// time, which is enough to give us a stable total order without the core
// minting any IDs of its own; the host is the only party that ever calls
// ksuid.New or ksuid.Parse.
type PersonID = ksuid.KSUID

// BuildingID identifies a single building, as assigned by the map.
type BuildingID int

// LaneID identifies a sidewalk (or any other pedestrian-traversable lane),
// as assigned by the map.
type LaneID int

// BusStopID identifies a bus stop, as assigned by the map.
type BusStopID int

// CarID identifies a vehicle, including buses, as assigned by the map.
type CarID int

// OffMapLocation identifies a parcel outside the simulated map bounding
// box. Distinct off-map parcels are distinct shared spaces for ledger
// purposes, even though the core never models the time actually spent
// there (see PersonEntersMap/PersonLeavesMap in events.go).
type OffMapLocation struct {
	ParcelID int
}
