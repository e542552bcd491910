package citypandemic

// occupant is one (person, entry time) pair recorded against a shared
// space.
type occupant struct {
	person PersonID
	since  Time
}

// Overlap is the result of one person leaving a shared space: the other
// person they shared it with, and how long their stays overlapped.
type Overlap struct {
	Other    PersonID
	Duration Duration
}

// SharedSpace is a per-space-kind occupancy ledger. T is the key type
// identifying one instance of that kind of space (BuildingID, LaneID,
// BusStopID, CarID, OffMapLocation, ...); a separate SharedSpace is kept
// per kind because each kind uses a different key type (spec §4.B).
//
// Grounded on original_source/sim/src/pandemic/pandemic.rs's SharedSpace<T>,
// which keeps an ordered BTreeMap<T, Vec<(PersonID, Time)>>. Here occupants
// is a plain Go map (no key order) from space to the list of people
// currently inside, each list in entry order.
// Overlap is computed lazily, only on exit, so cost is proportional to
// current occupancy rather than occupancy integrated over time.
type SharedSpace[T comparable] struct {
	occupants map[T][]occupant
}

// NewSharedSpace allocates an empty ledger.
func NewSharedSpace[T comparable]() *SharedSpace[T] {
	return &SharedSpace[T]{occupants: make(map[T][]occupant)}
}

// occupantSnapshot is occupant's serializable form. occupant's own fields
// are unexported, and encoding/gob only encodes exported fields, so a
// snapshot taken mid-occupancy needs this twin to round-trip at all.
type occupantSnapshot struct {
	Person PersonID
	Since  Time
}

// Snapshot returns a serializable copy of the ledger's current occupants,
// keyed the same way as the live map (spec §6 "Persistence").
func (s *SharedSpace[T]) Snapshot() map[T][]occupantSnapshot {
	out := make(map[T][]occupantSnapshot, len(s.occupants))
	for space, list := range s.occupants {
		copied := make([]occupantSnapshot, len(list))
		for i, occ := range list {
			copied[i] = occupantSnapshot{Person: occ.person, Since: occ.since}
		}
		out[space] = copied
	}
	return out
}

// Restore replaces the ledger's contents with a previously captured
// Snapshot, preserving each space's insertion order.
func (s *SharedSpace[T]) Restore(snap map[T][]occupantSnapshot) {
	s.occupants = make(map[T][]occupant, len(snap))
	for space, list := range snap {
		copied := make([]occupant, len(list))
		for i, occ := range list {
			copied[i] = occupant{person: occ.Person, since: occ.Since}
		}
		s.occupants[space] = copied
	}
}

// PersonEntersSpace records that person entered space at now. There is no
// uniqueness check: the host simulator is trusted never to double-enter a
// person into the same space, and double-entry is explicitly undefined
// behavior per spec §4.B.
func (s *SharedSpace[T]) PersonEntersSpace(now Time, person PersonID, space T) {
	s.occupants[space] = append(s.occupants[space], occupant{person: person, since: now})
}

// PersonLeavesSpace removes the (person, entry time) pair recorded for
// person in space and returns the overlap between person's stay and every
// other occupant still present, in the ledger's existing (insertion)
// order. It returns ok=false if person was never recorded as having
// entered space — the "bug" signal from spec §4.B — which callers must
// treat as a hard fault (spec §7 kind 1).
func (s *SharedSpace[T]) PersonLeavesSpace(now Time, person PersonID, space T) (overlaps []Overlap, ok bool) {
	list := s.occupants[space]
	var enteredAt Time
	found := false
	remaining := list[:0:0]
	for _, occ := range list {
		if !found && occ.person == person {
			enteredAt = occ.since
			found = true
			continue
		}
		remaining = append(remaining, occ)
	}
	if !found {
		return nil, false
	}
	s.occupants[space] = remaining

	overlaps = make([]Overlap, 0, len(remaining))
	for _, occ := range remaining {
		since := occ.since
		if enteredAt > since {
			since = enteredAt
		}
		overlaps = append(overlaps, Overlap{Other: occ.person, Duration: now.Sub(since)})
	}
	return overlaps, true
}
