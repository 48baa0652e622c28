package vegetation

import "fmt"

// ClusterConfig controls how items of one category clump together.
type ClusterConfig struct {
	// Probability that an accepted spawn point seeds a cluster instead of a
	// single item.
	Probability float32 `yaml:"probability"`
	MinItems    int     `yaml:"min_items"`
	MaxItems    int     `yaml:"max_items"`
	// Radius is the maximum scatter distance from the cluster center.
	Radius float32 `yaml:"radius"`
	// Falloff shapes the radial distribution: >1 pushes items toward the
	// outer ring, <1 packs them near the center.
	Falloff float32 `yaml:"falloff"`
}

// Config holds every tunable of the placement algorithm.
type Config struct {
	// Density is the target items per square unit; the candidate grid
	// spacing is max(MinPointSpacing, 1/sqrt(Density)).
	Density         float32 `yaml:"density"`
	MinPointSpacing float32 `yaml:"min_point_spacing"`

	// RockProbability is the base chance an accepted point becomes a rock.
	RockProbability float32 `yaml:"rock_probability"`
	// NoiseInfluence scales how strongly the biome noise shifts the
	// rock/grass mix; 0 disables the noise entirely.
	NoiseInfluence float32 `yaml:"noise_influence"`
	NoiseScale     float32 `yaml:"noise_scale"`

	GrassMinScale float32 `yaml:"grass_min_scale"`
	GrassMaxScale float32 `yaml:"grass_max_scale"`
	GrassRadius   float32 `yaml:"grass_radius"`

	RockMinScale float32 `yaml:"rock_min_scale"`
	RockMaxScale float32 `yaml:"rock_max_scale"`
	RockRadius   float32 `yaml:"rock_radius"`

	// Slope limits in degrees, heights in world units.
	MinSlope  float32 `yaml:"min_slope"`
	MaxSlope  float32 `yaml:"max_slope"`
	MinHeight float32 `yaml:"min_height"`
	MaxHeight float32 `yaml:"max_height"`

	GrassCluster ClusterConfig `yaml:"grass_cluster"`
	RockCluster  ClusterConfig `yaml:"rock_cluster"`
}

// DefaultConfig returns a balanced mixed meadow.
func DefaultConfig() Config {
	return Config{
		Density:         0.5,
		MinPointSpacing: 2.0,

		RockProbability: 0.15,
		NoiseInfluence:  0.4,
		NoiseScale:      0.02,

		GrassMinScale: 0.8,
		GrassMaxScale: 1.2,
		GrassRadius:   0.3,

		RockMinScale: 0.5,
		RockMaxScale: 2.0,
		RockRadius:   1.0,

		MinSlope:  0,
		MaxSlope:  45,
		MinHeight: -1000,
		MaxHeight: 1000,

		GrassCluster: ClusterConfig{
			Probability: 0.6,
			MinItems:    5,
			MaxItems:    15,
			Radius:      3.0,
			Falloff:     1.5,
		},
		RockCluster: ClusterConfig{
			Probability: 0.4,
			MinItems:    2,
			MaxItems:    5,
			Radius:      4.0,
			Falloff:     2.0,
		},
	}
}

// Preset returns a named tuning of the default config. Unknown names return
// the default config along with an error.
func Preset(name string) (Config, error) {
	switch name {
	case "", "default":
		return DefaultConfig(), nil
	case "meadow":
		return presetMeadow(), nil
	case "rocky":
		return presetRocky(), nil
	case "forest":
		return presetForest(), nil
	case "desert":
		return presetDesert(), nil
	case "dense":
		return presetDense(), nil
	default:
		return DefaultConfig(), fmt.Errorf("unknown vegetation preset %q", name)
	}
}

// PresetNames lists the recognized preset names.
func PresetNames() []string {
	return []string{"default", "meadow", "rocky", "forest", "desert", "dense"}
}

// Lush meadow: high grass density, occasional rocks, weak biome noise.
func presetMeadow() Config {
	c := DefaultConfig()
	c.Density = 2.0
	c.MinPointSpacing = 1.0
	c.RockProbability = 0.05
	c.NoiseInfluence = 0.1

	c.GrassCluster.Probability = 0.7
	c.GrassCluster.MinItems = 8
	c.GrassCluster.MaxItems = 20
	c.GrassCluster.Radius = 4.0

	c.RockCluster.Probability = 0.2
	c.RockCluster.MinItems = 1
	c.RockCluster.MaxItems = 3
	return c
}

// Rocky: fewer overall items, more rocks, larger rock clusters.
func presetRocky() Config {
	c := DefaultConfig()
	c.Density = 0.5
	c.MinPointSpacing = 2.5
	c.RockProbability = 0.6
	c.NoiseInfluence = 0.3

	c.GrassCluster.Probability = 0.3
	c.GrassCluster.MinItems = 3
	c.GrassCluster.MaxItems = 8

	c.RockCluster.Probability = 0.5
	c.RockCluster.MinItems = 3
	c.RockCluster.MaxItems = 8
	c.RockCluster.Radius = 6.0

	c.RockMinScale = 0.8
	c.RockMaxScale = 3.0
	return c
}

// Forest floor: balanced mix, stronger noise for varied patches.
func presetForest() Config {
	c := DefaultConfig()
	c.Density = 1.0
	c.MinPointSpacing = 1.5
	c.RockProbability = 0.15
	c.NoiseInfluence = 0.5
	c.NoiseScale = 0.03

	c.GrassCluster.Probability = 0.5
	c.GrassCluster.MinItems = 5
	c.GrassCluster.MaxItems = 12

	c.RockCluster.Probability = 0.4
	c.RockCluster.MinItems = 2
	c.RockCluster.MaxItems = 5
	return c
}

// Desert: sparse, mostly rocks, smaller grass.
func presetDesert() Config {
	c := DefaultConfig()
	c.Density = 0.2
	c.MinPointSpacing = 4.0
	c.RockProbability = 0.7
	c.NoiseInfluence = 0.2

	c.GrassCluster.Probability = 0.2
	c.GrassCluster.MinItems = 2
	c.GrassCluster.MaxItems = 5
	c.GrassCluster.Radius = 2.0

	c.RockCluster.Probability = 0.3
	c.RockCluster.MinItems = 1
	c.RockCluster.MaxItems = 4

	c.GrassMinScale = 0.5
	c.GrassMaxScale = 0.8
	return c
}

// Dense: near full coverage, frequent grass clusters.
func presetDense() Config {
	c := DefaultConfig()
	c.Density = 3.0
	c.MinPointSpacing = 0.8
	c.RockProbability = 0.1
	c.NoiseInfluence = 0.3

	c.GrassCluster.Probability = 0.8
	c.GrassCluster.MinItems = 10
	c.GrassCluster.MaxItems = 25
	c.GrassCluster.Radius = 5.0

	c.RockCluster.Probability = 0.3
	c.RockCluster.MinItems = 2
	c.RockCluster.MaxItems = 4
	return c
}
