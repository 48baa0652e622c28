// Package world assembles the terrain, lake and vegetation into a walkable
// world and moves the player through it.
package world

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hollowpine/meadowfall/internal/config"
	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/lake"
	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/internal/engine/rocks"
	"github.com/hollowpine/meadowfall/internal/engine/terrain"
	"github.com/hollowpine/meadowfall/internal/engine/vegetation"
	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/math"
)

const (
	// collisionCellSize must exceed the largest collider radius plus the
	// player radius, or the 3x3 neighborhood query can miss contacts.
	collisionCellSize = 8.0

	// rockColliderScale maps an instance scale to its collision radius.
	rockColliderScale = 1.5

	// shoreMargin pulls the walkable edge back from the water line.
	shoreMargin = 0.5
)

// World holds the built terrain, water and vegetation fields.
type World struct {
	Terrain     *terrain.Heightfield
	TerrainMesh *mesh.Mesh
	Lake        *lake.Lake // nil when disabled
	Grass       *grass.Field
	Rocks       *rocks.Field

	seed      uint32
	collision *vegetation.SpatialHashGrid
}

// Build assembles a world from the config and the loaded grass groups and
// rock types. The same config, seed and heightmap produce the same world.
func Build(cfg *config.Config, groups []grass.Group, rockTypes []rocks.Type) (*World, error) {
	start := time.Now()

	hf, err := buildHeightfield(cfg.World)
	if err != nil {
		return nil, err
	}
	sizeX, sizeZ := hf.Size()

	var lk *lake.Lake
	if cfg.World.Lake.Enabled {
		lcfg := lake.DefaultConfig()
		lcfg.Center = math.Vec2{X: cfg.World.Lake.CenterX, Y: cfg.World.Lake.CenterZ}
		lcfg.Radius = cfg.World.Lake.Radius
		lk = lake.New(lcfg, hf)
	}

	vcfg, err := cfg.Vegetation.Resolve()
	if err != nil {
		logger.Warn("unknown vegetation preset, using custom tuning",
			zap.String("preset", cfg.Vegetation.Preset),
			zap.Error(err))
	}

	var gen vegetation.Generator
	gen.Generate(hf, vcfg, sizeX, sizeZ, cfg.Vegetation.Seed)

	grassInstances := ConvertGrass(gen.GrassItems(), groups, lk)
	rockInstances := ConvertRocks(gen.RockItems(), len(rockTypes), lk)

	w := &World{
		Terrain:     hf,
		TerrainMesh: terrain.BuildMesh(hf, cfg.World.Resolution),
		Lake:        lk,
		Grass:       grass.New(cfg.Graphics.GrassConfig(), groups, grassInstances, sizeX, sizeZ),
		Rocks:       rocks.New(cfg.Graphics.RocksConfig(), rockTypes, rockInstances, sizeX, sizeZ),
		seed:        gen.Seed(),
		collision:   buildCollision(rockInstances, sizeX, sizeZ),
	}

	logger.Info("world built",
		zap.Uint32("seed", w.seed),
		zap.Float32("size_x", sizeX),
		zap.Float32("size_z", sizeZ),
		zap.Int("grass", len(grassInstances)),
		zap.Int("rocks", len(rockInstances)),
		zap.Duration("elapsed", time.Since(start)))

	return w, nil
}

// buildHeightfield loads the heightmap file when configured, otherwise
// generates procedural samples from the terrain seed.
func buildHeightfield(cfg config.WorldConfig) (*terrain.Heightfield, error) {
	var (
		samples []float32
		w, h    int
	)

	if cfg.Heightmap != "" {
		var err error
		samples, w, h, err = terrain.LoadFile(cfg.Heightmap)
		if err != nil {
			return nil, fmt.Errorf("loading heightmap: %w", err)
		}
	} else {
		res := cfg.Resolution
		if res < 2 {
			res = 2
		}
		samples = terrain.Procedural(res, res, cfg.TerrainSeed)
		w, h = res, res
	}

	return terrain.New(samples, w, h, cfg.Size, cfg.Size, cfg.HeightScale)
}

// buildCollision indexes the placed rocks for player collision queries.
// Collision circles are scale times rockColliderScale, independent of the
// tighter placement radius.
func buildCollision(instances []rocks.Instance, sizeX, sizeZ float32) *vegetation.SpatialHashGrid {
	grid := vegetation.NewSpatialHashGrid(sizeX, sizeZ, collisionCellSize)
	for _, inst := range instances {
		grid.Insert(vegetation.Item{
			Position: inst.Position,
			Radius:   inst.Scale * rockColliderScale,
		})
	}
	return grid
}

// Seed returns the vegetation seed the world was generated with. When the
// config seed was zero this is the randomly drawn value.
func (w *World) Seed() uint32 {
	return w.seed
}

// Blocked reports whether a circle at (x, z) hits a rock or crosses the lake
// shore margin.
func (w *World) Blocked(x, z, radius float32) bool {
	if w.collision != nil && w.collision.Overlaps(x, z, radius) {
		return true
	}

	if w.Lake != nil {
		edge := w.Lake.Radius() - radius - shoreMargin
		if edge > 0 {
			d := math.Vec2{X: x, Y: z}.DistanceSq(w.Lake.Center())
			if d < edge*edge {
				return true
			}
		}
	}

	return false
}
