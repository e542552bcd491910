package citypandemic

import "fmt"

// Grid is a row-major width x height scalar field over the map's bounding
// box, used to carry an airborne pathogen concentration. It is pure
// in-memory arithmetic: its only failure mode is the stability assertion
// in Diffuse (spec §7 kind 1).
//
// Grounded on original_source/sim/src/grid/mod.rs: row-major storage,
// bounds-checked Get, unchecked index operator, and an explicit
// forward-Euler diffusion step that snapshots the grid before mutating it
// so every cell reads pre-step neighbor values.
type Grid struct {
	data          []float64
	width, height int
}

// NewGrid allocates a width x height grid with every cell set to default.
func NewGrid(width, height int, def float64) *Grid {
	data := make([]float64, width*height)
	for i := range data {
		data[i] = def
	}
	return &Grid{data: data, width: width, height: height}
}

// ZeroGrid allocates a width x height grid with every cell set to zero.
func ZeroGrid(width, height int) *Grid {
	return &Grid{data: make([]float64, width*height), width: width, height: height}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

func (g *Grid) idx(x, y int) int {
	return y*g.width + x
}

// Get returns the value at (x, y), or false if it falls outside the grid.
func (g *Grid) Get(x, y int) (float64, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return 0, false
	}
	return g.data[g.idx(x, y)], true
}

// At returns the value at (x, y) without bounds checking; the caller must
// guarantee 0 <= x < Width() and 0 <= y < Height().
func (g *Grid) At(x, y int) float64 {
	return g.data[g.idx(x, y)]
}

// Set writes the value at (x, y) without bounds checking; the caller must
// guarantee 0 <= x < Width() and 0 <= y < Height().
func (g *Grid) Set(x, y int, v float64) {
	g.data[g.idx(x, y)] = v
}

// cellIndex maps a map-space position to a grid cell, clamped to the
// valid [0,width)x[0,height) range.
//
// The original spec leaves add_sources's out-of-range behavior an Open
// Question ("does not bounds-check cell indices; at map edges this can
// read/write out of range"). This implementation resolves it by clamping,
// which is the documented choice: a pedestrian standing exactly on the
// map boundary (or a hair past it due to floating point) still deposits
// into the nearest real cell instead of corrupting adjacent memory or
// panicking mid-tick.
func (g *Grid) cellIndex(p Pt2D, bounds Bounds, dx float64) (int, int) {
	ix := int((p.X - bounds.MinX) / dx)
	iy := int((p.Y - bounds.MinY) / dx)
	if ix < 0 {
		ix = 0
	}
	if ix >= g.width {
		ix = g.width - 1
	}
	if iy < 0 {
		iy = 0
	}
	if iy >= g.height {
		iy = g.height - 1
	}
	return ix, iy
}

// AddSources injects dt*magnitudePerSec at the cell containing each
// position. An empty positions list is a no-op.
func (g *Grid) AddSources(positions []Pt2D, bounds Bounds, dx, dt, magnitudePerSec float64) {
	amount := dt * magnitudePerSec
	for _, p := range positions {
		ix, iy := g.cellIndex(p, bounds, dx)
		g.data[g.idx(ix, iy)] += amount
	}
}

// Diffuse performs one explicit forward-Euler step of the 2-D heat
// equation with linear decay, in place:
//
//	c'[x,y] = c[x,y]*(1 - 4*dt*kappa/dx^2 - dt*decay) +
//	          (dt*kappa/dx^2) * (c[x+1,y] + c[x-1,y] + c[x,y+1] + c[x,y-1])
//
// using pre-step values for every interior cell's neighbors. Boundary
// cells (x==0, y==0, x==width-1, y==height-1) are left unchanged
// (homogeneous Dirichlet via non-update). Diffuse panics if the
// CFL-like stability precondition 1 - 4*dt*kappa/dx^2 - dt*decay > 0
// does not hold strictly; this is a programmer-invariant violation
// (spec §7 kind 1), not a recoverable error.
func (g *Grid) Diffuse(kappa, decay, dx, dt float64) {
	diffTerm := dt * kappa / (dx * dx)
	centerTerm := 1 - 4*diffTerm - dt*decay
	if centerTerm <= 0 {
		panic(fmt.Sprintf(StabilityViolationError, centerTerm))
	}

	prev := make([]float64, len(g.data))
	copy(prev, g.data)

	at := func(x, y int) float64 {
		return prev[y*g.width+x]
	}

	for x := 1; x < g.width-1; x++ {
		for y := 1; y < g.height-1; y++ {
			v := at(x, y)*centerTerm + diffTerm*(at(x+1, y)+at(x-1, y)+at(x, y+1)+at(x, y-1))
			g.data[g.idx(x, y)] = v
		}
	}
}

// Mean returns the arithmetic mean of every cell's concentration, used by
// the orchestrator to summarize a Poll tick for logging.
func (g *Grid) Mean() float64 {
	if len(g.data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range g.data {
		sum += v
	}
	return sum / float64(len(g.data))
}

// Absorb zeroes every cell whose value is below floor, modeling settling
// and deposition and removing numerical dust left behind by repeated
// diffusion steps. Grid cells are guaranteed non-negative after Absorb
// runs, per spec §8.
func (g *Grid) Absorb(floor float64) {
	for i, v := range g.data {
		if v < floor {
			g.data[i] = 0
		}
	}
}
