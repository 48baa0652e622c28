// Package fog holds the distance/height fog parameters shared by every
// scene shader, plus a CPU mirror of the shader falloff for tools and tests.
package fog

import (
	gomath "math"

	"github.com/hollowpine/meadowfall/pkg/math"
)

// Params describes exponential-squared distance fog attenuated by height
// above GroundLevel.
type Params struct {
	Color         math.Vec3
	Density       float32
	HeightFalloff float32
	GroundLevel   float32
	MaxDistance   float32
}

// Default returns the daytime haze the game ships with.
func Default() Params {
	return Params{
		Color:         math.Vec3{X: 0.65, Y: 0.75, Z: 0.88},
		Density:       0.02,
		HeightFalloff: 0.06,
		GroundLevel:   -5,
		MaxDistance:   150,
	}
}

// Factor returns the fog blend in [0, 1] for a fragment at the given camera
// distance and world height: 0 = clear, 1 = fully fogged. Same curve as the
// shaders: 1 - exp(-(dist*density)^2), scaled by exp height falloff.
func (p Params) Factor(dist, worldY float32) float32 {
	if dist >= p.MaxDistance {
		return 1
	}
	d := float64(dist * p.Density)
	f := 1 - gomath.Exp(-d*d)

	height := gomath.Exp(-float64(worldY-p.GroundLevel) * float64(p.HeightFalloff))
	if height > 1 {
		height = 1
	}
	v := float32(f * height)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
