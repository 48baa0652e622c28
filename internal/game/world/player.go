package world

import (
	"github.com/hollowpine/meadowfall/internal/engine/camera"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// EyeHeight is the camera height above the terrain surface.
const EyeHeight = 1.7

// Movement tuning. Speeds are world units per second.
const (
	moveSpeed        = 8.0
	sprintMultiplier = 1.5
	playerRadius     = 0.5

	// maxFrameStep caps the simulated time of a single movement step. A
	// stalled frame (window drag, breakpoint) advances at most this much.
	maxFrameStep = 0.05

	// boundsMargin keeps the player off the outermost terrain cells.
	boundsMargin = 1.0
)

// MoveInput is one frame of movement intent, decoupled from the input
// backend.
type MoveInput struct {
	Forward, Backward bool
	Left, Right       bool
	Sprint            bool
	MouseDX, MouseDY  float32
}

// Player is the first-person avatar: a camera with walking movement,
// collision and terrain-following eye height.
type Player struct {
	Camera *camera.FirstPerson
	world  *World
}

// NewPlayer spawns a player at the world origin facing -Z.
func NewPlayer(w *World) *Player {
	ground := w.Terrain.SampleHeight(0, 0)
	return &Player{
		Camera: camera.NewFirstPerson(math.Vec3{Y: ground + EyeHeight}),
		world:  w,
	}
}

// Update applies one frame of look and movement. Movement is blocked by
// rocks, the lake shore and the world border; a blocked diagonal step slides
// along whichever single axis stays clear.
func (p *Player) Update(in MoveInput, dt float32) {
	if dt > maxFrameStep {
		dt = maxFrameStep
	}

	p.Camera.HandleMouse(in.MouseDX, in.MouseDY)

	var dir math.Vec3
	forward := p.Camera.Forward()
	right := p.Camera.Right()
	if in.Forward {
		dir = dir.Add(forward)
	}
	if in.Backward {
		dir = dir.Sub(forward)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}

	pos := p.Camera.Position
	if dir.Length() > 0 {
		speed := float32(moveSpeed)
		if in.Sprint {
			speed *= sprintMultiplier
		}
		step := dir.Normalize().Scale(speed * dt)

		next := p.clampToBounds(pos.Add(step))
		if !p.world.Blocked(next.X, next.Z, playerRadius) {
			pos = next
		} else {
			slideX := p.clampToBounds(math.Vec3{X: pos.X + step.X, Y: pos.Y, Z: pos.Z})
			slideZ := p.clampToBounds(math.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z + step.Z})
			if !p.world.Blocked(slideX.X, slideX.Z, playerRadius) {
				pos = slideX
			} else if !p.world.Blocked(slideZ.X, slideZ.Z, playerRadius) {
				pos = slideZ
			}
		}
	}

	pos.Y = p.world.Terrain.SampleHeight(pos.X, pos.Z) + EyeHeight
	p.Camera.Position = pos
}

// Position returns the eye position.
func (p *Player) Position() math.Vec3 {
	return p.Camera.Position
}

// clampToBounds keeps a position inside the walkable border.
func (p *Player) clampToBounds(pos math.Vec3) math.Vec3 {
	sizeX, sizeZ := p.world.Terrain.Size()
	halfX := sizeX/2 - boundsMargin
	halfZ := sizeZ/2 - boundsMargin
	pos.X = clampf(pos.X, -halfX, halfX)
	pos.Z = clampf(pos.Z, -halfZ, halfZ)
	return pos
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
