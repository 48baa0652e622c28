// Package camera provides the first-person camera.
package camera

import (
	gomath "math"

	"github.com/hollowpine/meadowfall/pkg/math"
)

// pitchLimit keeps the view just short of straight up/down so the look
// direction never collapses onto the up vector.
const pitchLimit = 1.45

// FirstPerson is a free-look camera at the player's eye position.
type FirstPerson struct {
	Position math.Vec3

	// Orientation in radians. Yaw 0 looks down -Z; positive pitch looks up.
	Yaw   float32
	Pitch float32

	Sensitivity float32
}

// NewFirstPerson creates a camera at the given position with default mouse
// sensitivity.
func NewFirstPerson(pos math.Vec3) *FirstPerson {
	return &FirstPerson{
		Position:    pos,
		Sensitivity: 0.0025,
	}
}

// HandleMouse applies a relative mouse motion, clamping pitch.
func (c *FirstPerson) HandleMouse(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.Sensitivity
	c.Pitch -= deltaY * c.Sensitivity

	if c.Pitch > pitchLimit {
		c.Pitch = pitchLimit
	}
	if c.Pitch < -pitchLimit {
		c.Pitch = -pitchLimit
	}
}

// Direction returns the unit look direction.
func (c *FirstPerson) Direction() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: -float32(gomath.Sin(float64(c.Yaw))) * cp,
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: -float32(gomath.Cos(float64(c.Yaw))) * cp,
	}
}

// Forward returns the unit movement direction on the XZ plane: where the
// player walks when pressing forward, independent of pitch.
func (c *FirstPerson) Forward() math.Vec3 {
	return math.Vec3{
		X: -float32(gomath.Sin(float64(c.Yaw))),
		Z: -float32(gomath.Cos(float64(c.Yaw))),
	}
}

// Right returns the unit strafe direction on the XZ plane.
func (c *FirstPerson) Right() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Cos(float64(c.Yaw))),
		Z: -float32(gomath.Sin(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix.
func (c *FirstPerson) ViewMatrix() math.Mat4 {
	target := c.Position.Add(c.Direction())
	return math.LookAt(c.Position, target, math.Vec3{Y: 1})
}
