// Package config handles game configuration loading and management.
package config

import (
	"github.com/hollowpine/meadowfall/internal/engine/fog"
	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/rocks"
	"github.com/hollowpine/meadowfall/internal/engine/vegetation"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// Config holds all game settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Graphics   GraphicsConfig   `yaml:"graphics"`
	World      WorldConfig      `yaml:"world"`
	Vegetation VegetationConfig `yaml:"vegetation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// GraphicsConfig holds view distances, chunk sizes, LOD thresholds, wind and
// fog tuning.
type GraphicsConfig struct {
	GrassViewDistance float32 `yaml:"grass_view_distance"`
	GrassChunkSize    float32 `yaml:"grass_chunk_size"`
	RockViewDistance  float32 `yaml:"rock_view_distance"`
	RockChunkSize     float32 `yaml:"rock_chunk_size"`
	LODDistanceHigh   float32 `yaml:"lod_distance_high"`
	LODDistanceMedium float32 `yaml:"lod_distance_medium"`

	WindDirectionX float32 `yaml:"wind_direction_x"`
	WindDirectionZ float32 `yaml:"wind_direction_z"`
	WindStrength   float32 `yaml:"wind_strength"`
	WindSpeed      float32 `yaml:"wind_speed"`

	Fog FogConfig `yaml:"fog"`
}

// FogConfig holds the distance fog tuning. Fog color and ground level are
// fixed by the scene.
type FogConfig struct {
	Density       float32 `yaml:"density"`
	HeightFalloff float32 `yaml:"height_falloff"`
	MaxDistance   float32 `yaml:"max_distance"`
}

// WorldConfig holds terrain and lake settings.
type WorldConfig struct {
	// Size is the world extent on X and Z, centered on the origin.
	Size        float32 `yaml:"size"`
	HeightScale float32 `yaml:"height_scale"`
	// Heightmap is a PNG/RAW heightmap path; empty selects the procedural
	// terrain source seeded with TerrainSeed.
	Heightmap   string `yaml:"heightmap"`
	TerrainSeed int64  `yaml:"terrain_seed"`
	// Resolution is the procedural sample grid side and the terrain mesh
	// quad count per side.
	Resolution int `yaml:"resolution"`
	// GroundTexture is resolved relative to the asset directory, like
	// manifest entries.
	GroundTexture string     `yaml:"ground_texture"`
	Lake          LakeConfig `yaml:"lake"`
}

// LakeConfig holds the lake placement.
type LakeConfig struct {
	Enabled bool    `yaml:"enabled"`
	CenterX float32 `yaml:"center_x"`
	CenterZ float32 `yaml:"center_z"`
	Radius  float32 `yaml:"radius"`
}

// VegetationConfig holds the placement tuning. Preset selects one of the
// named tunings; "custom" (the default) uses the Custom block as-is, which is
// how the shipped meadow is expressed.
type VegetationConfig struct {
	Preset string `yaml:"preset"`
	// Seed 0 draws a random seed on every run.
	Seed     uint32            `yaml:"seed"`
	Manifest string            `yaml:"manifest"`
	Custom   vegetation.Config `yaml:"custom"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the settings the game ships with.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Meadowfall",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Graphics: GraphicsConfig{
			GrassViewDistance: 50,
			GrassChunkSize:    16,
			RockViewDistance:  100,
			RockChunkSize:     32,
			LODDistanceHigh:   25,
			LODDistanceMedium: 60,
			WindDirectionX:    1,
			WindDirectionZ:    0.5,
			WindStrength:      1.5,
			WindSpeed:         1,
			Fog: FogConfig{
				Density:       0.02,
				HeightFalloff: 0.06,
				MaxDistance:   150,
			},
		},
		World: WorldConfig{
			Size:          300,
			HeightScale:   40,
			Heightmap:     "",
			TerrainSeed:   42,
			Resolution:    256,
			GroundTexture: "textures/ground.png",
			Lake: LakeConfig{
				Enabled: true,
				CenterX: 30,
				CenterZ: 40,
				Radius:  25,
			},
		},
		Vegetation: VegetationConfig{
			Preset:   "custom",
			Seed:     42,
			Manifest: "assets/assets.yaml",
			Custom:   shippedVegetation(),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// shippedVegetation is the hand-tuned mixed meadow the game ships with.
func shippedVegetation() vegetation.Config {
	c := vegetation.DefaultConfig()
	c.Density = 1.0
	c.MinPointSpacing = 1.5
	c.RockProbability = 0.12
	c.NoiseInfluence = 0.5
	c.NoiseScale = 0.018

	c.GrassMinScale = 0.7
	c.GrassMaxScale = 1.4
	c.GrassRadius = 0.2
	c.GrassCluster = vegetation.ClusterConfig{
		Probability: 0.7,
		MinItems:    6,
		MaxItems:    18,
		Radius:      4.0,
		Falloff:     1.2,
	}

	c.RockMinScale = 0.4
	c.RockMaxScale = 2.8
	c.RockRadius = 1.2
	c.RockCluster = vegetation.ClusterConfig{
		Probability: 0.45,
		MinItems:    2,
		MaxItems:    7,
		Radius:      6.0,
		Falloff:     2.5,
	}

	c.MaxSlope = 40
	return c
}

// Resolve returns the placement config the preset selects. Preset "custom"
// (or empty) uses the Custom block; an unknown preset name falls back to the
// Custom block and reports the error.
func (v VegetationConfig) Resolve() (vegetation.Config, error) {
	if v.Preset == "" || v.Preset == "custom" {
		return v.Custom, nil
	}
	cfg, err := vegetation.Preset(v.Preset)
	if err != nil {
		return v.Custom, err
	}
	return cfg, nil
}

// GrassConfig converts the graphics section into the grass field tuning.
func (g GraphicsConfig) GrassConfig() grass.Config {
	return grass.Config{
		ViewDistance:  g.GrassViewDistance,
		ChunkSize:     g.GrassChunkSize,
		WindDirection: math.Vec2{X: g.WindDirectionX, Y: g.WindDirectionZ},
		WindStrength:  g.WindStrength,
		WindSpeed:     g.WindSpeed,
	}
}

// RocksConfig converts the graphics section into the rock field tuning.
func (g GraphicsConfig) RocksConfig() rocks.Config {
	return rocks.Config{
		ViewDistance:      g.RockViewDistance,
		ChunkSize:         g.RockChunkSize,
		LODDistanceHigh:   g.LODDistanceHigh,
		LODDistanceMedium: g.LODDistanceMedium,
	}
}

// FogParams converts the fog section into scene fog parameters, keeping the
// default color and ground level.
func (g GraphicsConfig) FogParams() fog.Params {
	p := fog.Default()
	p.Density = g.Fog.Density
	p.HeightFalloff = g.Fog.HeightFalloff
	p.MaxDistance = g.Fog.MaxDistance
	return p
}
