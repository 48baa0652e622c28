package camera

import (
	gomath "math"
	"testing"

	"github.com/hollowpine/meadowfall/pkg/math"
)

func almostEqual(a, b, eps float32) bool {
	return float32(gomath.Abs(float64(a-b))) <= eps
}

func TestHandleMouse_PitchClamp(t *testing.T) {
	c := NewFirstPerson(math.Vec3{})

	// Drag far past straight up and straight down.
	c.HandleMouse(0, -100000)
	if c.Pitch > pitchLimit+1e-6 {
		t.Errorf("pitch %v exceeds limit %v", c.Pitch, pitchLimit)
	}
	c.HandleMouse(0, 100000)
	if c.Pitch < -pitchLimit-1e-6 {
		t.Errorf("pitch %v below limit %v", c.Pitch, -pitchLimit)
	}
}

func TestDirection_UnitLength(t *testing.T) {
	c := NewFirstPerson(math.Vec3{})
	for _, move := range [][2]float32{{0, 0}, {500, -200}, {-1500, 900}, {40, 100000}} {
		c.HandleMouse(move[0], move[1])
		if d := c.Direction(); !almostEqual(d.Length(), 1, 1e-5) {
			t.Fatalf("direction %+v not unit after yaw %v pitch %v", d, c.Yaw, c.Pitch)
		}
	}
}

func TestForwardRight_PlanarAndOrthogonal(t *testing.T) {
	c := NewFirstPerson(math.Vec3{})
	c.Yaw = 1.234
	c.Pitch = 0.8 // pitch must not leak into walking directions

	f, r := c.Forward(), c.Right()
	if f.Y != 0 || r.Y != 0 {
		t.Error("movement directions should stay on the XZ plane")
	}
	if !almostEqual(f.Length(), 1, 1e-5) || !almostEqual(r.Length(), 1, 1e-5) {
		t.Error("movement directions should be unit length")
	}
	if !almostEqual(f.Dot(r), 0, 1e-5) {
		t.Errorf("forward and right not orthogonal: dot = %v", f.Dot(r))
	}
}

func TestDirection_Defaults(t *testing.T) {
	c := NewFirstPerson(math.Vec3{})
	d := c.Direction()
	// Yaw 0, pitch 0 looks down -Z.
	if !almostEqual(d.X, 0, 1e-6) || !almostEqual(d.Y, 0, 1e-6) || !almostEqual(d.Z, -1, 1e-6) {
		t.Errorf("default direction %+v, want (0, 0, -1)", d)
	}

	f := c.Forward()
	if !almostEqual(f.Z, -1, 1e-6) {
		t.Errorf("default forward %+v, want -Z", f)
	}
	r := c.Right()
	if !almostEqual(r.X, 1, 1e-6) {
		t.Errorf("default right %+v, want +X", r)
	}
}

func TestViewMatrix_TransformsEyeToOrigin(t *testing.T) {
	c := NewFirstPerson(math.Vec3{X: 3, Y: 5, Z: -2})
	c.Yaw = 0.7
	c.Pitch = -0.3

	view := c.ViewMatrix()
	eye := view.TransformPoint([3]float32{3, 5, -2})
	for i, v := range eye {
		if !almostEqual(v, 0, 1e-4) {
			t.Errorf("eye component %d = %v, want 0", i, v)
		}
	}

	// A point one unit along the look direction lands on -Z in view space.
	p := c.Position.Add(c.Direction())
	vp := view.TransformPoint([3]float32{p.X, p.Y, p.Z})
	if !almostEqual(vp[2], -1, 1e-4) {
		t.Errorf("look target at view z = %v, want -1", vp[2])
	}
}
