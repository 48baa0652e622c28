// Package sky provides the gradient sky dome: a hemisphere mesh centered
// on the camera, shaded from horizon to zenith with depth writes off.
package sky

import (
	gomath "math"

	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// Params holds the dome shape and gradient colors.
type Params struct {
	ZenithColor  math.Vec3
	HorizonColor math.Vec3
	Radius       float32
	Slices       int // horizontal resolution around Y
	Stacks       int // vertical resolution, zenith to horizon
}

// DefaultParams returns the clear-day gradient.
func DefaultParams() Params {
	return Params{
		ZenithColor:  math.Vec3{X: 0.2, Y: 0.4, Z: 0.8},
		HorizonColor: math.Vec3{X: 0.8, Y: 0.7, Z: 0.5},
		Radius:       5000,
		Slices:       64,
		Stacks:       32,
	}
}

// BuildDome triangulates the hemisphere. Vertices run stack by stack from
// the zenith down to the horizon, duplicating the seam column so UVs wrap
// cleanly. Normals hold the unit position; the sky shader only needs the
// direction for the gradient.
func BuildDome(p Params) *mesh.Mesh {
	slices := p.Slices
	if slices < 3 {
		slices = 3
	}
	stacks := p.Stacks
	if stacks < 2 {
		stacks = 2
	}

	m := &mesh.Mesh{}
	for stack := 0; stack <= stacks; stack++ {
		// Hemisphere: phi spans [0, pi/2], zenith to horizon.
		phi := float64(stack) / float64(stacks) * gomath.Pi / 2
		y := float32(gomath.Cos(phi))
		r := float32(gomath.Sin(phi))

		for slice := 0; slice <= slices; slice++ {
			theta := float64(slice) / float64(slices) * 2 * gomath.Pi
			x := r * float32(gomath.Cos(theta))
			z := r * float32(gomath.Sin(theta))

			pos := math.Vec3{X: x, Y: y, Z: z}
			m.Positions = append(m.Positions, pos.Scale(p.Radius))
			m.Normals = append(m.Normals, pos)
			m.UVs = append(m.UVs, math.Vec2{
				X: float32(slice) / float32(slices),
				Y: float32(stack) / float32(stacks),
			})
		}
	}

	ring := uint32(slices + 1)
	for stack := uint32(0); stack < uint32(stacks); stack++ {
		for slice := uint32(0); slice < uint32(slices); slice++ {
			i0 := stack*ring + slice
			i1 := i0 + 1
			i2 := (stack+1)*ring + slice
			i3 := i2 + 1
			m.Indices = append(m.Indices, i0, i1, i2, i1, i3, i2)
		}
	}
	return m
}
