// Package vegetation implements deterministic procedural placement of grass
// and rock items over a heightfield: jittered grid candidates, noise-biased
// category selection, cluster scattering with radial falloff, slope/height
// filtering and minimum-spacing enforcement via a spatial hash grid.
package vegetation

import (
	gomath "math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// candidateWarnLimit is the spawn candidate count above which Generate logs
// a warning. Output is never capped, whatever the count.
const candidateWarnLimit = 200000

// HeightProvider supplies terrain height at arbitrary world XZ. It must be
// defined over the whole generation area and return the same height for the
// same input, or slope filtering and determinism break.
type HeightProvider interface {
	SampleHeight(x, z float32) float32
}

// Generator scatters vegetation over a rectangular area centered on the
// world origin and keeps the resulting item lists. The zero value is ready
// to use; call Generate to (re)populate it.
type Generator struct {
	cfg    Config
	seed   uint32
	sizeX  float32
	sizeZ  float32
	height HeightProvider

	rng   *rand.Rand
	noise *NoiseField
	grid  *SpatialHashGrid

	grass []Item
	rocks []Item
}

// Generate replaces the item lists with a fresh placement run. A zero seed
// draws a random one; any other seed makes the run fully reproducible.
// Degenerate input (nil provider, non-positive world size or density)
// yields empty lists, which is a valid no-vegetation state, not an error.
func (g *Generator) Generate(height HeightProvider, cfg Config, worldSizeX, worldSizeZ float32, seed uint32) {
	g.grass = g.grass[:0]
	g.rocks = g.rocks[:0]
	g.cfg = cfg
	g.sizeX = worldSizeX
	g.sizeZ = worldSizeZ
	g.height = height

	if height == nil || worldSizeX <= 0 || worldSizeZ <= 0 || cfg.Density <= 0 {
		return
	}

	for seed == 0 {
		seed = rand.Uint32()
	}
	g.seed = seed
	g.rng = rand.New(rand.NewSource(int64(seed)))
	g.noise = NewNoiseField(seed)

	cellSize := cfg.RockRadius
	if cfg.GrassRadius > cellSize {
		cellSize = cfg.GrassRadius
	}
	cellSize *= 4
	if cellSize <= 0 {
		cellSize = 4
	}
	g.grid = NewSpatialHashGrid(worldSizeX, worldSizeZ, cellSize)

	points := g.spawnPoints()
	if len(points) > candidateWarnLimit {
		logger.Warn("very high vegetation candidate count",
			zap.Int("candidates", len(points)),
			zap.Float32("density", cfg.Density),
			zap.Float32("spacing", cfg.MinPointSpacing),
		)
	}

	for _, p := range points {
		category := g.pickCategory(p.X, p.Y)
		cluster := g.clusterFor(category)

		if g.rng.Float32() < cluster.Probability {
			g.placeCluster(p.X, p.Y, category, cluster)
		} else {
			g.tryPlace(p.X, p.Y, category)
		}
	}

	// The grid only lives for one run.
	g.grid = nil
	g.height = nil
}

// GrassItems returns the grass list from the last run. The slice is owned
// by the generator; callers must not modify it.
func (g *Generator) GrassItems() []Item { return g.grass }

// RockItems returns the rock list from the last run. The slice is owned by
// the generator; callers must not modify it.
func (g *Generator) RockItems() []Item { return g.rocks }

// ItemCount returns the total number of placed items.
func (g *Generator) ItemCount() int { return len(g.grass) + len(g.rocks) }

// Seed returns the seed used by the last run, with a zero input seed
// resolved to the randomly drawn value.
func (g *Generator) Seed() uint32 { return g.seed }

// spawnPoints tiles the world into a regular grid, jitters a candidate in
// each cell, drops 10% of them and everything on invalid terrain, then
// shuffles so placement order carries no spatial bias.
func (g *Generator) spawnPoints() []math.Vec2 {
	halfX := g.sizeX * 0.5
	halfZ := g.sizeZ * 0.5

	spacing := g.cfg.MinPointSpacing
	if s := 1 / float32(gomath.Sqrt(float64(g.cfg.Density))); s > spacing {
		spacing = s
	}
	if spacing <= 0 {
		return nil
	}

	countX := int(gomath.Ceil(float64(g.sizeX / spacing)))
	countZ := int(gomath.Ceil(float64(g.sizeZ / spacing)))
	jitter := spacing * 0.4

	var points []math.Vec2
	for gz := 0; gz < countZ; gz++ {
		for gx := 0; gx < countX; gx++ {
			baseX := -halfX + (float32(gx)+0.5)*spacing
			baseZ := -halfZ + (float32(gz)+0.5)*spacing

			x := baseX + (g.rng.Float32()*2-1)*jitter
			z := baseZ + (g.rng.Float32()*2-1)*jitter

			x = clampf(x, -halfX+1, halfX-1)
			z = clampf(z, -halfZ+1, halfZ-1)

			if g.rng.Float32() < 0.1 {
				continue
			}
			if !g.validLocation(x, z) {
				continue
			}

			points = append(points, math.Vec2{X: x, Y: z})
		}
	}

	g.rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
	return points
}

// validLocation checks the height and slope constraints at (x, z).
func (g *Generator) validLocation(x, z float32) bool {
	h := g.height.SampleHeight(x, z)
	if h < g.cfg.MinHeight || h > g.cfg.MaxHeight {
		return false
	}

	const delta = 0.5
	h1 := g.height.SampleHeight(x+delta, z)
	h2 := g.height.SampleHeight(x-delta, z)
	h3 := g.height.SampleHeight(x, z+delta)
	h4 := g.height.SampleHeight(x, z-delta)

	slopeX := (h1 - h2) / (2 * delta)
	slopeZ := (h3 - h4) / (2 * delta)
	grad := float32(gomath.Sqrt(float64(slopeX*slopeX + slopeZ*slopeZ)))
	slope := float32(gomath.Atan(float64(grad))) * 180 / gomath.Pi

	return slope >= g.cfg.MinSlope && slope <= g.cfg.MaxSlope
}

// pickCategory decides grass vs rock for one point. The clamp keeps active
// noise from fully saturating the mix; with NoiseInfluence zero the
// configured probability applies exactly, so an all-grass or all-rock
// config stays that way.
func (g *Generator) pickCategory(x, z float32) Category {
	chance := g.cfg.RockProbability

	if g.cfg.NoiseInfluence != 0 {
		n := (g.noise.FBM(x*g.cfg.NoiseScale, z*g.cfg.NoiseScale, 4, 0.5) + 1) * 0.5
		chance += (n - 0.5) * g.cfg.NoiseInfluence * 2
		chance = clampf(chance, 0.05, 0.95)
	}

	if g.rng.Float32() < chance {
		return CategoryRock
	}
	return CategoryGrass
}

func (g *Generator) clusterFor(category Category) ClusterConfig {
	if category == CategoryRock {
		return g.cfg.RockCluster
	}
	return g.cfg.GrassCluster
}

// placeCluster places the center item, then scatters count-1 satellites
// with radial falloff. Satellites landing outside the 1-unit world margin
// are dropped, not retried.
func (g *Generator) placeCluster(centerX, centerZ float32, category Category, cluster ClusterConfig) {
	count := cluster.MinItems
	if span := cluster.MaxItems - cluster.MinItems; span > 0 {
		count += g.rng.Intn(span + 1)
	}

	g.tryPlace(centerX, centerZ, category)

	halfX := g.sizeX * 0.5
	halfZ := g.sizeZ * 0.5

	for i := 1; i < count; i++ {
		t := g.rng.Float32()
		distance := cluster.Radius * (1 - powf(1-t, cluster.Falloff))
		distance *= g.rng.Float32()*0.3 + 0.85

		angle := g.rng.Float32() * 2 * gomath.Pi
		x := centerX + cosf(angle)*distance
		z := centerZ + sinf(angle)*distance

		if x < -halfX+1 || x > halfX-1 || z < -halfZ+1 || z > halfZ-1 {
			continue
		}

		g.tryPlace(x, z, category)
	}
}

// tryPlace validates terrain, rolls scale/type, and rejects the item if it
// overlaps anything already placed. Overlap failure is silent; density is a
// soft target, not a guarantee.
func (g *Generator) tryPlace(x, z float32, category Category) bool {
	if !g.validLocation(x, z) {
		return false
	}

	y := g.height.SampleHeight(x, z)

	var scaleMin, scaleMax, baseRadius float32
	var typeCount int
	if category == CategoryRock {
		scaleMin, scaleMax, baseRadius = g.cfg.RockMinScale, g.cfg.RockMaxScale, g.cfg.RockRadius
		typeCount = 3
	} else {
		scaleMin, scaleMax, baseRadius = g.cfg.GrassMinScale, g.cfg.GrassMaxScale, g.cfg.GrassRadius
		typeCount = 9
	}

	scale := scaleMin + g.rng.Float32()*(scaleMax-scaleMin)
	radius := baseRadius * scale
	typeIndex := g.rng.Intn(typeCount)

	if g.grid.Overlaps(x, z, radius) {
		return false
	}

	item := Item{
		Position:  math.Vec3{X: x, Y: y, Z: z},
		Yaw:       g.rng.Float32() * 2 * gomath.Pi,
		Scale:     scale,
		TypeIndex: typeIndex,
		Category:  category,
		Radius:    radius,
	}

	if category == CategoryRock {
		g.rocks = append(g.rocks, item)
	} else {
		g.grass = append(g.grass, item)
	}
	g.grid.Insert(item)
	return true
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

func powf(base, exp float32) float32 {
	return float32(gomath.Pow(float64(base), float64(exp)))
}

func sinf(v float32) float32 {
	return float32(gomath.Sin(float64(v)))
}

func cosf(v float32) float32 {
	return float32(gomath.Cos(float64(v)))
}
