package citypandemic

// Pt2D is a point in the map's planar coordinate system, in meters.
type Pt2D struct {
	X, Y float64
}

// Bounds is an axis-aligned bounding box over the map, in meters.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Contains reports whether p falls within the bounds, inclusive of the
// min corner and exclusive of the max corner.
func (b Bounds) Contains(p Pt2D) bool {
	return p.X >= b.MinX && p.X < b.MaxX && p.Y >= b.MinY && p.Y < b.MaxY
}
