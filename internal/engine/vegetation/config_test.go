package vegetation

import (
	"testing"
)

func TestDefaultConfig_Values(t *testing.T) {
	c := DefaultConfig()

	if c.Density != 0.5 {
		t.Errorf("Density = %f, want 0.5", c.Density)
	}
	if c.MaxSlope != 45 {
		t.Errorf("MaxSlope = %f, want 45", c.MaxSlope)
	}
	if c.GrassCluster.MaxItems != 15 {
		t.Errorf("GrassCluster.MaxItems = %d, want 15", c.GrassCluster.MaxItems)
	}
	if c.RockRadius != 1.0 {
		t.Errorf("RockRadius = %f, want 1.0", c.RockRadius)
	}
}

func TestPreset_KnownNames(t *testing.T) {
	for _, name := range PresetNames() {
		if _, err := Preset(name); err != nil {
			t.Errorf("Preset(%q) returned error: %v", name, err)
		}
	}
}

func TestPreset_Values(t *testing.T) {
	meadow, _ := Preset("meadow")
	if meadow.Density != 2.0 || meadow.RockProbability != 0.05 {
		t.Errorf("meadow: density %f rockProbability %f, want 2.0 / 0.05",
			meadow.Density, meadow.RockProbability)
	}

	rocky, _ := Preset("rocky")
	if rocky.RockProbability != 0.6 || rocky.RockMaxScale != 3.0 {
		t.Errorf("rocky: rockProbability %f rockMaxScale %f, want 0.6 / 3.0",
			rocky.RockProbability, rocky.RockMaxScale)
	}

	forest, _ := Preset("forest")
	if forest.NoiseScale != 0.03 || forest.NoiseInfluence != 0.5 {
		t.Errorf("forest: noiseScale %f noiseInfluence %f, want 0.03 / 0.5",
			forest.NoiseScale, forest.NoiseInfluence)
	}

	desert, _ := Preset("desert")
	if desert.GrassMaxScale != 0.8 || desert.Density != 0.2 {
		t.Errorf("desert: grassMaxScale %f density %f, want 0.8 / 0.2",
			desert.GrassMaxScale, desert.Density)
	}

	dense, _ := Preset("dense")
	if dense.GrassCluster.MaxItems != 25 || dense.MinPointSpacing != 0.8 {
		t.Errorf("dense: grassCluster.maxItems %d minPointSpacing %f, want 25 / 0.8",
			dense.GrassCluster.MaxItems, dense.MinPointSpacing)
	}
}

func TestPreset_UnknownFallsBackToDefault(t *testing.T) {
	got, err := Preset("swamp")
	if err == nil {
		t.Error("expected error for unknown preset name")
	}
	if got != DefaultConfig() {
		t.Error("unknown preset should return the default config")
	}
}

func TestPreset_EmptyNameIsDefault(t *testing.T) {
	got, err := Preset("")
	if err != nil {
		t.Errorf("Preset(\"\") returned error: %v", err)
	}
	if got != DefaultConfig() {
		t.Error("empty preset name should return the default config")
	}
}

func TestCategory_String(t *testing.T) {
	if CategoryGrass.String() != "grass" {
		t.Errorf("CategoryGrass.String() = %q", CategoryGrass.String())
	}
	if CategoryRock.String() != "rock" {
		t.Errorf("CategoryRock.String() = %q", CategoryRock.String())
	}
	if Category(99).String() != "unknown" {
		t.Errorf("Category(99).String() = %q", Category(99).String())
	}
}
