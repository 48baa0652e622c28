// Package terrain provides the heightfield terrain: sampled height data
// with bilinear interpolation, slope and normal queries, and a renderable
// grid mesh. Height data comes from RAW/PNG heightmaps or a procedural
// noise source.
package terrain

import (
	"fmt"
	gomath "math"

	"github.com/hollowpine/meadowfall/pkg/math"
)

// Heightfield is a world-centered rectangular terrain. Samples are
// normalized to [0, 1] and scaled by HeightScale on every query. The world
// rectangle spans [-sizeX/2, sizeX/2] x [-sizeZ/2, sizeZ/2].
type Heightfield struct {
	samples     []float32
	width       int
	height      int
	sizeX       float32
	sizeZ       float32
	heightScale float32
}

// New builds a heightfield from normalized samples in row-major order
// (width columns per row).
func New(samples []float32, width, height int, sizeX, sizeZ, heightScale float32) (*Heightfield, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("heightfield needs at least 2x2 samples, got %dx%d", width, height)
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("sample count %d does not match %dx%d", len(samples), width, height)
	}
	if sizeX <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("world size must be positive, got %vx%v", sizeX, sizeZ)
	}
	return &Heightfield{
		samples:     samples,
		width:       width,
		height:      height,
		sizeX:       sizeX,
		sizeZ:       sizeZ,
		heightScale: heightScale,
	}, nil
}

// SampleHeight returns the bilinearly interpolated height at a world XZ
// position. Coordinates outside the terrain clamp to the border.
func (h *Heightfield) SampleHeight(x, z float32) float32 {
	u := clamp01((x + h.sizeX/2) / h.sizeX)
	v := clamp01((z + h.sizeZ/2) / h.sizeZ)

	fx := u * float32(h.width-1)
	fz := v * float32(h.height-1)

	x0 := int(fx)
	z0 := int(fz)
	if x0 >= h.width-1 {
		x0 = h.width - 2
	}
	if z0 >= h.height-1 {
		z0 = h.height - 2
	}
	tx := fx - float32(x0)
	tz := fz - float32(z0)

	h00 := h.at(x0, z0)
	h10 := h.at(x0+1, z0)
	h01 := h.at(x0, z0+1)
	h11 := h.at(x0+1, z0+1)

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return (top + (bottom-top)*tz) * h.heightScale
}

// SlopeDeg returns the terrain slope in degrees at a world XZ position,
// measured from central differences half a unit out on each axis.
func (h *Heightfield) SlopeDeg(x, z float32) float32 {
	dx := h.SampleHeight(x+0.5, z) - h.SampleHeight(x-0.5, z)
	dz := h.SampleHeight(x, z+0.5) - h.SampleHeight(x, z-0.5)
	grad := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
	return float32(gomath.Atan(float64(grad))) * 180 / gomath.Pi
}

// Normal returns the unit surface normal at a world XZ position.
func (h *Heightfield) Normal(x, z float32) math.Vec3 {
	hl := h.SampleHeight(x-0.5, z)
	hr := h.SampleHeight(x+0.5, z)
	hd := h.SampleHeight(x, z-0.5)
	hu := h.SampleHeight(x, z+0.5)

	dxv := math.Vec3{X: 1, Y: hr - hl, Z: 0}
	dzv := math.Vec3{X: 0, Y: hu - hd, Z: 1}
	// Cross(dz, dx) = (-(hr-hl), 1, -(hu-hd)), always upward.
	return dzv.Cross(dxv).Normalize()
}

// Min returns the lowest height on the terrain.
func (h *Heightfield) Min() float32 {
	min := h.samples[0]
	for _, s := range h.samples[1:] {
		if s < min {
			min = s
		}
	}
	return min * h.heightScale
}

// Max returns the highest height on the terrain.
func (h *Heightfield) Max() float32 {
	max := h.samples[0]
	for _, s := range h.samples[1:] {
		if s > max {
			max = s
		}
	}
	return max * h.heightScale
}

// Size returns the world extent on X and Z.
func (h *Heightfield) Size() (sizeX, sizeZ float32) {
	return h.sizeX, h.sizeZ
}

// HeightScale returns the vertical scale applied to the normalized samples.
func (h *Heightfield) HeightScale() float32 {
	return h.heightScale
}

// Resolution returns the sample grid dimensions.
func (h *Heightfield) Resolution() (width, height int) {
	return h.width, h.height
}

func (h *Heightfield) at(x, z int) float32 {
	return h.samples[z*h.width+x]
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
