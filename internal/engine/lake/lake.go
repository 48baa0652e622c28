// Package lake models the circular lake: placement, water level,
// containment queries and the disc mesh the water renderer draws.
package lake

import (
	gomath "math"

	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// waterOffset lifts the water surface slightly above the terrain at the
// lake center so the shoreline reads cleanly.
const waterOffset = 0.1

// Config holds the lake shape and water appearance parameters.
type Config struct {
	Center math.Vec2 // world XZ
	Radius float32

	ShallowColor math.Vec3
	DeepColor    math.Vec3
	Transparency float32

	WaveSpeed float32
	WaveScale float32

	ReflectionStrength   float32
	ReflectionDistortion float32

	RadialSegments int
	RingSegments   int
}

// DefaultConfig returns the lake the game ships with.
func DefaultConfig() Config {
	return Config{
		Center:               math.Vec2{X: 30, Y: 40},
		Radius:               25,
		ShallowColor:         math.Vec3{X: 0, Y: 0.2, Z: 0.5},
		DeepColor:            math.Vec3{X: 0, Y: 0.05, Z: 0.15},
		Transparency:         0.85,
		WaveSpeed:            0.6,
		WaveScale:            0.3,
		ReflectionStrength:   0.8,
		ReflectionDistortion: 0.02,
		RadialSegments:       64,
		RingSegments:         32,
	}
}

// HeightSampler is the terrain query the lake needs to find its water level.
type HeightSampler interface {
	SampleHeight(x, z float32) float32
}

// Lake is a placed lake with a resolved water level.
type Lake struct {
	cfg        Config
	waterLevel float32
}

// New places a lake on the terrain. The water level is the terrain height
// at the lake center plus a small offset.
func New(cfg Config, terrain HeightSampler) *Lake {
	if cfg.RadialSegments < 3 {
		cfg.RadialSegments = 3
	}
	if cfg.RingSegments < 1 {
		cfg.RingSegments = 1
	}
	return &Lake{
		cfg:        cfg,
		waterLevel: terrain.SampleHeight(cfg.Center.X, cfg.Center.Y) + waterOffset,
	}
}

// Config returns the lake parameters.
func (l *Lake) Config() Config {
	return l.cfg
}

// Center returns the lake center on the XZ plane.
func (l *Lake) Center() math.Vec2 {
	return l.cfg.Center
}

// Radius returns the lake radius.
func (l *Lake) Radius() float32 {
	return l.cfg.Radius
}

// WaterLevel returns the world-space height of the water surface.
func (l *Lake) WaterLevel() float32 {
	return l.waterLevel
}

// Contains reports whether a world XZ position lies on the water.
func (l *Lake) Contains(x, z float32) bool {
	dx := x - l.cfg.Center.X
	dz := z - l.cfg.Center.Y
	return dx*dx+dz*dz < l.cfg.Radius*l.cfg.Radius
}

// DepthAt returns the normalized water depth at a world XZ position:
// 0 at the shoreline rising to 1 at the center, 0 outside the lake.
func (l *Lake) DepthAt(x, z float32) float32 {
	dx := x - l.cfg.Center.X
	dz := z - l.cfg.Center.Y
	d := float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
	if d >= l.cfg.Radius {
		return 0
	}
	return 1 - d/l.cfg.Radius
}

// BuildMesh triangulates the water disc: a center vertex, RingSegments
// concentric rings of RadialSegments vertices each, fanned and stitched.
// UVs put the center at (0.5, 0.5) with the rim on the unit circle edge.
func (l *Lake) BuildMesh() *mesh.Mesh {
	cfg := l.cfg
	m := &mesh.Mesh{}

	m.Positions = append(m.Positions, math.Vec3{X: cfg.Center.X, Y: l.waterLevel, Z: cfg.Center.Y})
	m.Normals = append(m.Normals, math.Vec3{Y: 1})
	m.UVs = append(m.UVs, math.Vec2{X: 0.5, Y: 0.5})

	for ring := 1; ring <= cfg.RingSegments; ring++ {
		ringRadius := float32(ring) / float32(cfg.RingSegments) * cfg.Radius
		ringUV := float32(ring) / float32(cfg.RingSegments) * 0.5
		for seg := 0; seg < cfg.RadialSegments; seg++ {
			angle := float64(seg) / float64(cfg.RadialSegments) * 2 * gomath.Pi
			cos := float32(gomath.Cos(angle))
			sin := float32(gomath.Sin(angle))

			m.Positions = append(m.Positions, math.Vec3{
				X: cfg.Center.X + cos*ringRadius,
				Y: l.waterLevel,
				Z: cfg.Center.Y + sin*ringRadius,
			})
			m.Normals = append(m.Normals, math.Vec3{Y: 1})
			m.UVs = append(m.UVs, math.Vec2{X: 0.5 + cos*ringUV, Y: 0.5 + sin*ringUV})
		}
	}

	radial := uint32(cfg.RadialSegments)
	for seg := uint32(0); seg < radial; seg++ {
		next := (seg + 1) % radial
		m.Indices = append(m.Indices, 0, 1+next, 1+seg)
	}
	for ring := uint32(1); ring < uint32(cfg.RingSegments); ring++ {
		ringStart := 1 + (ring-1)*radial
		nextStart := 1 + ring*radial
		for seg := uint32(0); seg < radial; seg++ {
			next := (seg + 1) % radial
			m.Indices = append(m.Indices,
				ringStart+seg, nextStart+next, nextStart+seg,
				ringStart+seg, ringStart+next, nextStart+next,
			)
		}
	}
	return m
}
