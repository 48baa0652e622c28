package sky

import (
	gomath "math"
	"testing"
)

func TestBuildDome_Shape(t *testing.T) {
	p := DefaultParams()
	m := BuildDome(p)

	wantVerts := (p.Slices + 1) * (p.Stacks + 1)
	if m.VertexCount() != wantVerts {
		t.Fatalf("expected %d vertices, got %d", wantVerts, m.VertexCount())
	}
	wantTris := p.Slices * p.Stacks * 2
	if m.TriangleCount() != wantTris {
		t.Fatalf("expected %d triangles, got %d", wantTris, m.TriangleCount())
	}

	for i, pos := range m.Positions {
		if pos.Y < -1e-3 {
			t.Fatalf("vertex %d below the horizon: y = %v", i, pos.Y)
		}
		dist := pos.Length()
		if gomath.Abs(float64(dist-p.Radius)) > 1e-1 {
			t.Fatalf("vertex %d off the dome surface: %v", i, dist)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= wantVerts {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestBuildDome_ZenithAndHorizon(t *testing.T) {
	p := DefaultParams()
	m := BuildDome(p)

	// First ring is the zenith.
	if top := m.Positions[0]; gomath.Abs(float64(top.Y-p.Radius)) > 1e-2 {
		t.Errorf("zenith vertex y = %v, want %v", top.Y, p.Radius)
	}
	// Last ring sits on the horizon plane.
	lastStart := m.VertexCount() - (p.Slices + 1)
	for i := lastStart; i < m.VertexCount(); i++ {
		if gomath.Abs(float64(m.Positions[i].Y)) > 1e-2 {
			t.Fatalf("horizon vertex %d y = %v, want 0", i, m.Positions[i].Y)
		}
	}
}

func TestBuildDome_ClampsDegenerateResolution(t *testing.T) {
	m := BuildDome(Params{Radius: 10})
	if m.TriangleCount() == 0 {
		t.Error("degenerate params should still produce a drawable dome")
	}
}

func TestBuildDome_SeamWraps(t *testing.T) {
	p := DefaultParams()
	m := BuildDome(p)

	// Slice 0 and slice=slices duplicate positions but not UVs.
	ring := p.Slices + 1
	first := m.Positions[1*ring]
	last := m.Positions[1*ring+p.Slices]
	if d := first.Sub(last).Length(); d > 1e-2 {
		t.Errorf("seam vertices %v apart, want coincident", d)
	}
	if m.UVs[1*ring].X == m.UVs[1*ring+p.Slices].X {
		t.Error("seam UVs should differ so the texture wraps")
	}
}
