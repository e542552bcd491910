package citypandemic

import (
	"testing"

	"github.com/segmentio/ksuid"
)

func pid(n byte) PersonID {
	var b [20]byte
	b[19] = n
	id, err := ksuid.FromBytes(b[:])
	if err != nil {
		panic(err)
	}
	return id
}

func TestSharedSpace_EmptyOverlapOnImmediateLeave(t *testing.T) {
	space := NewSharedSpace[BuildingID]()
	bldg := BuildingID(1)
	p1 := pid(1)

	space.PersonEntersSpace(Time(0), p1, bldg)
	overlaps, ok := space.PersonLeavesSpace(Time(Hours(1)), p1, bldg)
	if !ok {
		t.Fatalf(ExpectedErrorWhileError, "leaving a space just entered", "")
	}
	if len(overlaps) != 0 {
		t.Errorf(UnequalIntParameterError, "overlap count", 0, len(overlaps))
	}
}

func TestSharedSpace_LeaveWithoutEnterIsBug(t *testing.T) {
	space := NewSharedSpace[BuildingID]()
	bldg := BuildingID(2)
	p1 := pid(1)

	if _, ok := space.PersonLeavesSpace(Time(0), p1, bldg); ok {
		t.Errorf(ExpectedErrorWhileError, "leaving a space never entered", "")
	}
}

func TestSharedSpace_ThreeWayOverlap(t *testing.T) {
	space := NewSharedSpace[BuildingID]()
	bldg := BuildingID(1)
	p1, p2, p3 := pid(1), pid(2), pid(3)

	space.PersonEntersSpace(Time(Hours(5)), p1, bldg)
	space.PersonEntersSpace(Time(Hours(6)), p2, bldg)
	space.PersonEntersSpace(Time(Hours(7)), p3, bldg)

	overlaps, ok := space.PersonLeavesSpace(Time(Hours(10)), p1, bldg)
	if !ok {
		t.Fatalf(ExpectedErrorWhileError, "person1 leaving", "")
	}
	if len(overlaps) != 2 {
		t.Fatalf(UnequalIntParameterError, "overlap count", 2, len(overlaps))
	}
	if overlaps[0].Other != p2 || overlaps[0].Duration != Hours(4) {
		t.Errorf(UnequalFloatParameterError, "person2 overlap hours", 4, overlaps[0].Duration.Seconds()/3600)
	}
	if overlaps[1].Other != p3 || overlaps[1].Duration != Hours(3) {
		t.Errorf(UnequalFloatParameterError, "person3 overlap hours", 3, overlaps[1].Duration.Seconds()/3600)
	}

	overlaps, ok = space.PersonLeavesSpace(Time(Hours(12)), p2, bldg)
	if !ok {
		t.Fatalf(ExpectedErrorWhileError, "person2 leaving", "")
	}
	if len(overlaps) != 1 || overlaps[0].Other != p3 || overlaps[0].Duration != Hours(5) {
		t.Errorf(UnequalFloatParameterError, "person3 remaining overlap hours", 5, overlaps[0].Duration.Seconds()/3600)
	}
}
