package world

import (
	gomath "math"
	"testing"

	"github.com/hollowpine/meadowfall/internal/engine/lake"
	"github.com/hollowpine/meadowfall/internal/engine/terrain"
	"github.com/hollowpine/meadowfall/internal/engine/vegetation"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// walkWorld returns a flat obstacle-free world for movement tests. Colliders
// are added through w.collision.
func walkWorld(t *testing.T, size float32) *World {
	t.Helper()
	return &World{
		Terrain:   flatField(t, size),
		collision: vegetation.NewSpatialHashGrid(size, size, collisionCellSize),
	}
}

func addRock(w *World, x, z, radius float32) {
	w.collision.Insert(vegetation.Item{Position: math.Vec3{X: x, Z: z}, Radius: radius})
}

func approx(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestPlayerSpawn(t *testing.T) {
	samples := []float32{0.5, 0.5, 0.5, 0.5}
	hf, err := terrain.New(samples, 2, 2, 40, 40, 10)
	if err != nil {
		t.Fatalf("failed to build heightfield: %v", err)
	}
	w := &World{Terrain: hf}

	p := NewPlayer(w)
	// Ground is at 5, eyes at 5 + 1.7
	if !approx(p.Position().Y, 6.7, 1e-4) {
		t.Errorf("expected eye height 6.7, got %f", p.Position().Y)
	}
	if p.Position().X != 0 || p.Position().Z != 0 {
		t.Errorf("expected spawn at origin, got %+v", p.Position())
	}
}

func TestPlayerMovesForward(t *testing.T) {
	w := walkWorld(t, 100)
	p := NewPlayer(w)

	// Yaw 0 faces -Z; one 50ms step at 8 u/s covers 0.4
	p.Update(MoveInput{Forward: true}, 0.05)

	if !approx(p.Position().Z, -0.4, 1e-4) {
		t.Errorf("expected z -0.4, got %f", p.Position().Z)
	}
	if !approx(p.Position().X, 0, 1e-4) {
		t.Errorf("expected x 0, got %f", p.Position().X)
	}
	if !approx(p.Position().Y, EyeHeight, 1e-4) {
		t.Errorf("expected eye height %f, got %f", float32(EyeHeight), p.Position().Y)
	}
}

func TestPlayerSprint(t *testing.T) {
	w := walkWorld(t, 100)
	p := NewPlayer(w)

	p.Update(MoveInput{Forward: true, Sprint: true}, 0.05)

	// 8 * 1.5 * 0.05 = 0.6
	if !approx(p.Position().Z, -0.6, 1e-4) {
		t.Errorf("expected z -0.6 when sprinting, got %f", p.Position().Z)
	}
}

func TestPlayerDtClamp(t *testing.T) {
	w := walkWorld(t, 100)
	p := NewPlayer(w)

	// A 1-second frame still advances at most maxFrameStep of movement
	p.Update(MoveInput{Forward: true}, 1.0)

	if !approx(p.Position().Z, -0.4, 1e-4) {
		t.Errorf("expected z -0.4 with clamped step, got %f", p.Position().Z)
	}
}

func TestPlayerOpposedKeysCancel(t *testing.T) {
	w := walkWorld(t, 100)
	p := NewPlayer(w)

	p.Update(MoveInput{Forward: true, Backward: true}, 0.05)

	if p.Position().X != 0 || p.Position().Z != 0 {
		t.Errorf("expected no movement, got %+v", p.Position())
	}
}

func TestPlayerBlockedByRock(t *testing.T) {
	w := walkWorld(t, 100)
	// Rock ahead: start distance 1.7 is clear of 1+0.5, one step closer is not
	addRock(w, 0, -1.7, 1)
	p := NewPlayer(w)

	p.Update(MoveInput{Forward: true}, 0.05)

	if p.Position().Z != 0 {
		t.Errorf("expected movement blocked, got z %f", p.Position().Z)
	}
}

func TestPlayerSlidesAlongRock(t *testing.T) {
	w := walkWorld(t, 100)
	addRock(w, 0, -1.6, 1)
	p := NewPlayer(w)

	// Diagonal step into the rock: Z is blocked, X stays clear
	p.Update(MoveInput{Forward: true, Right: true}, 0.05)

	if p.Position().X <= 0 {
		t.Errorf("expected slide along +X, got x %f", p.Position().X)
	}
	if p.Position().Z != 0 {
		t.Errorf("expected z unchanged while sliding, got %f", p.Position().Z)
	}
}

func TestPlayerWorldBounds(t *testing.T) {
	w := walkWorld(t, 10)
	p := NewPlayer(w)

	// Walk into the border; the walkable area ends one unit in
	for i := 0; i < 50; i++ {
		p.Update(MoveInput{Forward: true}, 0.05)
	}

	if !approx(p.Position().Z, -4, 1e-4) {
		t.Errorf("expected clamp at z -4, got %f", p.Position().Z)
	}
}

func TestPlayerLakeShore(t *testing.T) {
	size := float32(100)
	hf := flatField(t, size)
	lcfg := lake.DefaultConfig()
	lcfg.Center = math.Vec2{X: 0, Y: -5}
	lcfg.Radius = 3
	w := &World{
		Terrain:   hf,
		Lake:      lake.New(lcfg, hf),
		collision: vegetation.NewSpatialHashGrid(size, size, collisionCellSize),
	}
	p := NewPlayer(w)

	for i := 0; i < 30; i++ {
		p.Update(MoveInput{Forward: true}, 0.05)
	}

	// The keep-out edge is radius - playerRadius - shoreMargin = 2
	dist := math.Vec2{X: p.Position().X, Y: p.Position().Z}.Distance(lcfg.Center)
	if dist < 2-1e-3 {
		t.Errorf("expected player held at the shore, distance %f", dist)
	}
	if p.Position().Z > -2 {
		t.Errorf("expected player to have walked toward the lake, got z %f", p.Position().Z)
	}
}

func TestPlayerEyeFollowsTerrain(t *testing.T) {
	// Height rises from 0 at -Z edge to 10 at +Z edge
	samples := []float32{0, 0, 1, 1}
	hf, err := terrain.New(samples, 2, 2, 40, 40, 10)
	if err != nil {
		t.Fatalf("failed to build heightfield: %v", err)
	}
	w := &World{Terrain: hf}
	p := NewPlayer(w)

	startY := p.Position().Y
	for i := 0; i < 20; i++ {
		p.Update(MoveInput{Forward: true}, 0.05)
	}

	pos := p.Position()
	if pos.Y >= startY {
		t.Errorf("expected eye height to drop walking downhill, %f -> %f", startY, pos.Y)
	}
	want := w.Terrain.SampleHeight(pos.X, pos.Z) + EyeHeight
	if !approx(pos.Y, want, 1e-4) {
		t.Errorf("expected eye at %f, got %f", want, pos.Y)
	}
}

func TestPlayerMouseLook(t *testing.T) {
	w := walkWorld(t, 100)
	p := NewPlayer(w)

	p.Update(MoveInput{MouseDX: 100}, 0.016)
	if p.Camera.Yaw >= 0 {
		t.Errorf("expected yaw to turn negative, got %f", p.Camera.Yaw)
	}

	// Pitch clamps short of straight down
	p.Update(MoveInput{MouseDY: 1e6}, 0.016)
	if p.Camera.Pitch < -1.46 {
		t.Errorf("expected pitch clamped near -1.45, got %f", p.Camera.Pitch)
	}

	// Movement follows the new yaw
	p.Camera.Yaw = float32(gomath.Pi / 2) // facing -X
	p.Update(MoveInput{Forward: true}, 0.05)
	if !approx(p.Position().X, -0.4, 1e-4) {
		t.Errorf("expected x -0.4 after turning, got %f", p.Position().X)
	}
	if !approx(p.Position().Z, 0, 1e-4) {
		t.Errorf("expected z 0 after turning, got %f", p.Position().Z)
	}
}
