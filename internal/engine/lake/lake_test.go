package lake

import (
	gomath "math"
	"testing"

	"github.com/hollowpine/meadowfall/pkg/math"
)

// flatTerrain samples a constant height.
type flatTerrain float32

func (f flatTerrain) SampleHeight(x, z float32) float32 { return float32(f) }

func almostEqual(a, b, eps float32) bool {
	return float32(gomath.Abs(float64(a-b))) <= eps
}

func testLake() *Lake {
	cfg := DefaultConfig()
	cfg.Center = math.Vec2{X: 30, Y: 40}
	cfg.Radius = 25
	return New(cfg, flatTerrain(5))
}

func TestNew_WaterLevel(t *testing.T) {
	l := testLake()
	if !almostEqual(l.WaterLevel(), 5.1, 1e-5) {
		t.Errorf("water level = %v, want terrain height + 0.1", l.WaterLevel())
	}
}

func TestContains(t *testing.T) {
	l := testLake()
	tests := []struct {
		x, z float32
		want bool
	}{
		{30, 40, true},     // center
		{54, 40, true},     // just inside
		{55, 40, false},    // on the rim counts as outside
		{56, 40, false},    // outside
		{30, 64.9, true},   // inside on Z
		{-30, -40, false},  // far away
		{47, 57, true},      // diagonal inside (distance ~24)
		{48.5, 58.5, false}, // diagonal outside (distance ~26)
	}
	for _, tt := range tests {
		if got := l.Contains(tt.x, tt.z); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.z, got, tt.want)
		}
	}
}

func TestDepthAt(t *testing.T) {
	l := testLake()
	if d := l.DepthAt(30, 40); !almostEqual(d, 1, 1e-5) {
		t.Errorf("depth at center = %v, want 1", d)
	}
	if d := l.DepthAt(55, 40); d != 0 {
		t.Errorf("depth at rim = %v, want 0", d)
	}
	if d := l.DepthAt(100, 100); d != 0 {
		t.Errorf("depth outside = %v, want 0", d)
	}
	half := l.DepthAt(30+12.5, 40)
	if !almostEqual(half, 0.5, 1e-5) {
		t.Errorf("depth halfway = %v, want 0.5", half)
	}
}

func TestBuildMesh_Shape(t *testing.T) {
	l := testLake()
	m := l.BuildMesh()

	cfg := l.Config()
	wantVerts := 1 + cfg.RadialSegments*cfg.RingSegments
	if m.VertexCount() != wantVerts {
		t.Fatalf("expected %d vertices, got %d", wantVerts, m.VertexCount())
	}
	wantTris := cfg.RadialSegments + (cfg.RingSegments-1)*cfg.RadialSegments*2
	if m.TriangleCount() != wantTris {
		t.Fatalf("expected %d triangles, got %d", wantTris, m.TriangleCount())
	}

	for i, p := range m.Positions {
		if !almostEqual(p.Y, l.WaterLevel(), 1e-5) {
			t.Fatalf("vertex %d not on the water plane: y = %v", i, p.Y)
		}
		dx, dz := p.X-30, p.Z-40
		dist := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
		if dist > cfg.Radius+1e-3 {
			t.Fatalf("vertex %d outside the radius: %v", i, dist)
		}
		uv := m.UVs[i]
		if uv.X < -1e-5 || uv.X > 1+1e-5 || uv.Y < -1e-5 || uv.Y > 1+1e-5 {
			t.Fatalf("vertex %d UV %v outside [0, 1]", i, uv)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= wantVerts {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestBuildMesh_RimOnRadius(t *testing.T) {
	l := testLake()
	m := l.BuildMesh()
	cfg := l.Config()

	// Last ring starts at 1 + (rings-1)*radials.
	rimStart := 1 + (cfg.RingSegments-1)*cfg.RadialSegments
	for i := rimStart; i < m.VertexCount(); i++ {
		p := m.Positions[i]
		dx, dz := p.X-30, p.Z-40
		dist := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
		if !almostEqual(dist, cfg.Radius, 1e-3) {
			t.Fatalf("rim vertex %d at distance %v, want %v", i, dist, cfg.Radius)
		}
	}
}

func TestNew_ClampsDegenerateSegments(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RadialSegments = 0
	cfg.RingSegments = 0
	l := New(cfg, flatTerrain(0))
	m := l.BuildMesh()
	if m.TriangleCount() < 3 {
		t.Errorf("degenerate config should still produce a drawable disc, got %d triangles",
			m.TriangleCount())
	}
}
