package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Title != "Meadowfall" {
		t.Errorf("expected title 'Meadowfall', got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test graphics defaults
	if cfg.Graphics.GrassViewDistance != 50 {
		t.Errorf("expected grass view distance 50, got %f", cfg.Graphics.GrassViewDistance)
	}
	if cfg.Graphics.RockViewDistance != 100 {
		t.Errorf("expected rock view distance 100, got %f", cfg.Graphics.RockViewDistance)
	}
	if cfg.Graphics.LODDistanceHigh != 25 {
		t.Errorf("expected high LOD distance 25, got %f", cfg.Graphics.LODDistanceHigh)
	}
	if cfg.Graphics.LODDistanceMedium != 60 {
		t.Errorf("expected medium LOD distance 60, got %f", cfg.Graphics.LODDistanceMedium)
	}
	if cfg.Graphics.Fog.Density != 0.02 {
		t.Errorf("expected fog density 0.02, got %f", cfg.Graphics.Fog.Density)
	}

	// Test world defaults
	if cfg.World.Size != 300 {
		t.Errorf("expected world size 300, got %f", cfg.World.Size)
	}
	if cfg.World.HeightScale != 40 {
		t.Errorf("expected height scale 40, got %f", cfg.World.HeightScale)
	}
	if cfg.World.Heightmap != "" {
		t.Errorf("expected procedural terrain by default, got heightmap %s", cfg.World.Heightmap)
	}
	if !cfg.World.Lake.Enabled {
		t.Error("expected lake to be enabled by default")
	}
	if cfg.World.Lake.Radius != 25 {
		t.Errorf("expected lake radius 25, got %f", cfg.World.Lake.Radius)
	}

	// Test vegetation defaults
	if cfg.Vegetation.Preset != "custom" {
		t.Errorf("expected preset 'custom', got %s", cfg.Vegetation.Preset)
	}
	if cfg.Vegetation.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Vegetation.Seed)
	}
	if cfg.Vegetation.Custom.Density != 1.0 {
		t.Errorf("expected density 1.0, got %f", cfg.Vegetation.Custom.Density)
	}
	if cfg.Vegetation.Custom.RockProbability != 0.12 {
		t.Errorf("expected rock probability 0.12, got %f", cfg.Vegetation.Custom.RockProbability)
	}
	if cfg.Vegetation.Custom.GrassCluster.MaxItems != 18 {
		t.Errorf("expected grass cluster max 18, got %d", cfg.Vegetation.Custom.GrassCluster.MaxItems)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

graphics:
  grass_view_distance: 80
  rock_view_distance: 150
  wind_strength: 2.5
  fog:
    density: 0.01

world:
  size: 512
  heightmap: "maps/hills.png"
  lake:
    enabled: false

vegetation:
  seed: 1337
  custom:
    density: 0.25
    rock_probability: 0.3

logging:
  level: "debug"
  log_file: "game.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Graphics.GrassViewDistance != 80 {
		t.Errorf("expected grass view distance 80, got %f", cfg.Graphics.GrassViewDistance)
	}
	if cfg.Graphics.WindStrength != 2.5 {
		t.Errorf("expected wind strength 2.5, got %f", cfg.Graphics.WindStrength)
	}
	if cfg.Graphics.Fog.Density != 0.01 {
		t.Errorf("expected fog density 0.01, got %f", cfg.Graphics.Fog.Density)
	}
	// Fields absent from the file keep their defaults
	if cfg.Graphics.Fog.MaxDistance != 150 {
		t.Errorf("expected fog max distance 150 from defaults, got %f", cfg.Graphics.Fog.MaxDistance)
	}

	if cfg.World.Size != 512 {
		t.Errorf("expected world size 512, got %f", cfg.World.Size)
	}
	if cfg.World.Heightmap != "maps/hills.png" {
		t.Errorf("expected heightmap 'maps/hills.png', got %s", cfg.World.Heightmap)
	}
	if cfg.World.Lake.Enabled {
		t.Error("expected lake to be disabled")
	}

	if cfg.Vegetation.Seed != 1337 {
		t.Errorf("expected seed 1337, got %d", cfg.Vegetation.Seed)
	}
	if cfg.Vegetation.Custom.Density != 0.25 {
		t.Errorf("expected density 0.25, got %f", cfg.Vegetation.Custom.Density)
	}
	if cfg.Vegetation.Custom.RockProbability != 0.3 {
		t.Errorf("expected rock probability 0.3, got %f", cfg.Vegetation.Custom.RockProbability)
	}
	// Custom block merges over the shipped tuning
	if cfg.Vegetation.Custom.MinPointSpacing != 1.5 {
		t.Errorf("expected spacing 1.5 from defaults, got %f", cfg.Vegetation.Custom.MinPointSpacing)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "game.log" {
		t.Errorf("expected log file 'game.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestResolveVegetation(t *testing.T) {
	cfg := Default()

	// "custom" resolves to the custom block
	resolved, err := cfg.Vegetation.Resolve()
	if err != nil {
		t.Fatalf("failed to resolve custom preset: %v", err)
	}
	if resolved.Density != cfg.Vegetation.Custom.Density {
		t.Errorf("expected custom density %f, got %f", cfg.Vegetation.Custom.Density, resolved.Density)
	}

	// Empty preset behaves like "custom"
	cfg.Vegetation.Preset = ""
	resolved, err = cfg.Vegetation.Resolve()
	if err != nil {
		t.Fatalf("failed to resolve empty preset: %v", err)
	}
	if resolved.RockProbability != cfg.Vegetation.Custom.RockProbability {
		t.Errorf("expected custom rock probability, got %f", resolved.RockProbability)
	}

	// Named presets come from the vegetation package
	cfg.Vegetation.Preset = "rocky"
	resolved, err = cfg.Vegetation.Resolve()
	if err != nil {
		t.Fatalf("failed to resolve rocky preset: %v", err)
	}
	if resolved.RockProbability <= cfg.Vegetation.Custom.RockProbability {
		t.Errorf("expected rocky preset to place more rocks, got probability %f", resolved.RockProbability)
	}

	// Unknown presets report an error and fall back to custom
	cfg.Vegetation.Preset = "volcanic"
	resolved, err = cfg.Vegetation.Resolve()
	if err == nil {
		t.Error("expected error for unknown preset, got nil")
	}
	if resolved.Density != cfg.Vegetation.Custom.Density {
		t.Errorf("expected fallback to custom density, got %f", resolved.Density)
	}
}

func TestGraphicsConversions(t *testing.T) {
	cfg := Default()

	gc := cfg.Graphics.GrassConfig()
	if gc.ViewDistance != cfg.Graphics.GrassViewDistance {
		t.Errorf("expected grass view distance %f, got %f", cfg.Graphics.GrassViewDistance, gc.ViewDistance)
	}
	if gc.WindDirection.X != cfg.Graphics.WindDirectionX {
		t.Errorf("expected wind direction x %f, got %f", cfg.Graphics.WindDirectionX, gc.WindDirection.X)
	}

	rc := cfg.Graphics.RocksConfig()
	if rc.LODDistanceHigh != cfg.Graphics.LODDistanceHigh {
		t.Errorf("expected high LOD distance %f, got %f", cfg.Graphics.LODDistanceHigh, rc.LODDistanceHigh)
	}

	fp := cfg.Graphics.FogParams()
	if fp.Density != cfg.Graphics.Fog.Density {
		t.Errorf("expected fog density %f, got %f", cfg.Graphics.Fog.Density, fp.Density)
	}
	// Color and ground level stay at the scene defaults
	if fp.GroundLevel != -5 {
		t.Errorf("expected ground level -5, got %f", fp.GroundLevel)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) error {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
				return nil
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
				return nil
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) error {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
				return nil
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "seed flag",
			setup: func() {
				*flagSeed = 9001
			},
			verify: func(cfg *Config) error {
				if cfg.Vegetation.Seed != 9001 {
					t.Errorf("expected seed 9001, got %d", cfg.Vegetation.Seed)
				}
				return nil
			},
			teardown: func() {
				*flagSeed = 0
			},
		},
		{
			name: "preset flag",
			setup: func() {
				*flagPreset = "meadow"
			},
			verify: func(cfg *Config) error {
				if cfg.Vegetation.Preset != "meadow" {
					t.Errorf("expected preset 'meadow', got %s", cfg.Vegetation.Preset)
				}
				return nil
			},
			teardown: func() {
				*flagPreset = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "saved", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 1024
	cfg.Vegetation.Seed = 7
	cfg.Vegetation.Custom.Density = 0.5

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if loaded.Window.Width != 1024 {
		t.Errorf("expected width 1024 after round trip, got %d", loaded.Window.Width)
	}
	if loaded.Vegetation.Seed != 7 {
		t.Errorf("expected seed 7 after round trip, got %d", loaded.Vegetation.Seed)
	}
	if loaded.Vegetation.Custom.Density != 0.5 {
		t.Errorf("expected density 0.5 after round trip, got %f", loaded.Vegetation.Custom.Density)
	}
}
