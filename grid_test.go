package citypandemic

import "testing"

func TestGrid_GetBounds(t *testing.T) {
	g := ZeroGrid(3, 4)
	if _, ok := g.Get(-1, 0); ok {
		t.Errorf(ExpectedErrorWhileError, "reading a negative column", "")
	}
	if _, ok := g.Get(3, 0); ok {
		t.Errorf(ExpectedErrorWhileError, "reading a column past width", "")
	}
	if _, ok := g.Get(0, 4); ok {
		t.Errorf(ExpectedErrorWhileError, "reading a row past height", "")
	}
	if v, ok := g.Get(2, 3); !ok || v != 0 {
		t.Errorf(UnequalFloatParameterError, "in-bounds cell", 0.0, v)
	}
}

func TestGrid_AddSourcesEmptyIsNoop(t *testing.T) {
	g := ZeroGrid(5, 5)
	before := append([]float64(nil), g.data...)
	g.AddSources(nil, Bounds{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}, 1.0, 1.0, 1.0)
	for i, v := range g.data {
		if v != before[i] {
			t.Errorf(UnequalFloatParameterError, "cell after no-op AddSources", before[i], v)
		}
	}
}

func TestGrid_AddSourcesPlacesInCorrectCell(t *testing.T) {
	g := ZeroGrid(5, 5)
	bounds := Bounds{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}
	g.AddSources([]Pt2D{{X: 2.5, Y: 1.1}}, bounds, 1.0, 1.0, 1.0)
	if v := g.At(2, 1); v != 1.0 {
		t.Errorf(UnequalFloatParameterError, "source cell", 1.0, v)
	}
}

func TestGrid_DiffuseIdentityWhenKappaAndDecayAreZero(t *testing.T) {
	g := ZeroGrid(5, 5)
	g.Set(2, 2, 10.0)
	before := append([]float64(nil), g.data...)
	g.Diffuse(0, 0, 1.0, 1.0)
	for i, v := range g.data {
		if v != before[i] {
			t.Errorf(UnequalFloatParameterError, "cell after zero-kappa diffuse", before[i], v)
		}
	}
}

func TestGrid_DiffuseLeavesBoundaryUnchanged(t *testing.T) {
	g := NewGrid(4, 4, 5.0)
	g.Diffuse(0.1, 0.0, 1.0, 0.1)
	for x := 0; x < 4; x++ {
		if v := g.At(x, 0); v != 5.0 {
			t.Errorf(UnequalFloatParameterError, "top boundary cell", 5.0, v)
		}
		if v := g.At(x, 3); v != 5.0 {
			t.Errorf(UnequalFloatParameterError, "bottom boundary cell", 5.0, v)
		}
	}
	for y := 0; y < 4; y++ {
		if v := g.At(0, y); v != 5.0 {
			t.Errorf(UnequalFloatParameterError, "left boundary cell", 5.0, v)
		}
		if v := g.At(3, y); v != 5.0 {
			t.Errorf(UnequalFloatParameterError, "right boundary cell", 5.0, v)
		}
	}
}

func TestGrid_DiffuseRejectsUnstableStep(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf(ExpectedErrorWhileError, "diffusing at the stability boundary", "")
		}
	}()
	g := ZeroGrid(5, 5)
	// 1 - 4*dt*kappa/dx^2 - dt*decay == 0 exactly: kappa=1, dx=1, dt=0.25, decay=0
	g.Diffuse(1.0, 0.0, 1.0, 0.25)
}

func TestGrid_AbsorbNonNegative(t *testing.T) {
	g := NewGrid(3, 3, 0.005)
	g.Set(1, 1, 0.5)
	g.Absorb(0.01)
	for _, v := range g.data {
		if v < 0 {
			t.Errorf(UnequalFloatParameterError, "cell after absorb", 0.0, v)
		}
	}
	if v := g.At(0, 0); v != 0 {
		t.Errorf(UnequalFloatParameterError, "cell below floor", 0.0, v)
	}
	if v := g.At(1, 1); v != 0.5 {
		t.Errorf(UnequalFloatParameterError, "cell above floor", 0.5, v)
	}
}
