package assets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the models and textures the world is built from.
type Manifest struct {
	Rocks []RockEntry       `yaml:"rocks"`
	Grass []GrassGroupEntry `yaml:"grass"`
}

// RockEntry describes one rock model. The LOD chain is generated from the
// model at load time.
type RockEntry struct {
	Name    string `yaml:"name"`
	Model   string `yaml:"model"`
	Texture string `yaml:"texture"`
}

// GrassGroupEntry describes a weighted group of grass types, e.g. a meadow
// mix or a reed patch.
type GrassGroupEntry struct {
	Name   string           `yaml:"name"`
	Weight float32          `yaml:"weight"`
	Types  []GrassTypeEntry `yaml:"types"`
}

// GrassTypeEntry describes one grass model within a group.
type GrassTypeEntry struct {
	Name    string  `yaml:"name"`
	Model   string  `yaml:"model"`
	Texture string  `yaml:"texture"`
	Weight  float32 `yaml:"weight"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest YAML. A manifest with neither rocks nor
// grass is rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if len(m.Rocks) == 0 && len(m.Grass) == 0 {
		return nil, fmt.Errorf("manifest lists no rocks and no grass")
	}

	for _, r := range m.Rocks {
		if r.Model == "" {
			return nil, fmt.Errorf("rock entry %q has no model", r.Name)
		}
	}
	for _, g := range m.Grass {
		for _, t := range g.Types {
			if t.Model == "" {
				return nil, fmt.Errorf("grass type %q in group %q has no model", t.Name, g.Name)
			}
		}
	}

	return &m, nil
}
