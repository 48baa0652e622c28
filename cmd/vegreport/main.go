// Package main reports vegetation generation and culling statistics
// without opening a window. It runs the same asset, generation and field
// pipeline as the game against the in-memory buffer allocator, so the
// numbers match what the client would render.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hollowpine/meadowfall/internal/assets"
	"github.com/hollowpine/meadowfall/internal/config"
	"github.com/hollowpine/meadowfall/internal/engine/device"
	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/rocks"
	"github.com/hollowpine/meadowfall/internal/game/world"
	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// Overrides on top of the shared config flags (-config, -preset, -seed).
// Zero means "use the config value".
var (
	flagWorld   = flag.Float64("world", 0, "World size override")
	flagDensity = flag.Float64("density", 0, "Vegetation density override")
	flagChunk   = flag.Float64("chunk", 0, "Chunk size override for both fields")
	flagView    = flag.Float64("view", 0, "View distance override for both fields")
	flagAt      = flag.String("at", "0,0", "Probe camera position as x,z")
)

// cullPasses smooths the culling timing over repeated runs.
const cullPasses = 100

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The report goes to stdout; keep the logger to warnings.
	if err := logger.Init("warn", cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := applyOverrides(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vegreport: %v\n", err)
		os.Exit(1)
	}

	probeX, probeZ, err := parseProbe(*flagAt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vegreport: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, probeX, probeZ); err != nil {
		fmt.Fprintf(os.Stderr, "vegreport: %v\n", err)
		os.Exit(1)
	}
}

// applyOverrides folds the vegreport flags into the loaded config. The
// density override resolves the preset first so it survives -preset.
func applyOverrides(cfg *config.Config) error {
	if *flagWorld > 0 {
		cfg.World.Size = float32(*flagWorld)
	}
	if *flagDensity > 0 {
		vcfg, err := cfg.Vegetation.Resolve()
		if err != nil {
			return fmt.Errorf("resolving preset: %w", err)
		}
		vcfg.Density = float32(*flagDensity)
		cfg.Vegetation.Preset = "custom"
		cfg.Vegetation.Custom = vcfg
	}
	if *flagChunk > 0 {
		cfg.Graphics.GrassChunkSize = float32(*flagChunk)
		cfg.Graphics.RockChunkSize = float32(*flagChunk)
	}
	if *flagView > 0 {
		cfg.Graphics.GrassViewDistance = float32(*flagView)
		cfg.Graphics.RockViewDistance = float32(*flagView)
	}
	return nil
}

// parseProbe splits an "x,z" pair.
func parseProbe(s string) (float32, float32, error) {
	var x, z float32
	if n, err := fmt.Sscanf(s, "%f,%f", &x, &z); n != 2 || err != nil {
		return 0, 0, fmt.Errorf("invalid -at value %q, want x,z", s)
	}
	return x, z, nil
}

func run(cfg *config.Config, probeX, probeZ float32) error {
	mgr := assets.NewManager(filepath.Dir(cfg.Vegetation.Manifest))

	man, err := assets.LoadManifest(cfg.Vegetation.Manifest)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}
	rockTypes, err := mgr.LoadRockTypes(man)
	if err != nil {
		return fmt.Errorf("loading rock models: %w", err)
	}
	groups, err := mgr.LoadGrassGroups(man)
	if err != nil {
		return fmt.Errorf("loading grass models: %w", err)
	}

	start := time.Now()
	w, err := world.Build(cfg, groups, rockTypes)
	if err != nil {
		return err
	}
	buildTime := time.Since(start)

	alloc := device.NewMemAllocator()
	w.Grass.CreateBuffers(alloc)
	w.Rocks.CreateBuffers(alloc)

	fmt.Printf("world %.0fx%.0f  seed %d  preset %s  built in %s\n",
		cfg.World.Size, cfg.World.Size, w.Seed(), presetName(cfg), buildTime.Round(time.Millisecond))
	fmt.Printf("upload buffers: %d (host memory)\n\n", alloc.Allocations())

	printGrass(w.Grass)
	printRocks(w.Rocks)
	printProbe(w, probeX, probeZ)
	return nil
}

func presetName(cfg *config.Config) string {
	if cfg.Vegetation.Preset == "" {
		return "custom"
	}
	return cfg.Vegetation.Preset
}

func printGrass(f *grass.Field) {
	s := f.Stats()
	groups := f.Groups()
	fmt.Printf("grass: %d instances, %d chunks (avg %.1f/chunk), %d draw buckets\n",
		s.Total, s.Chunks, avg(s.Total, s.Chunks), s.DrawCalls)
	for i, g := range s.Groups {
		fmt.Printf("  %-16s %-8d weight %.2f\n", g.Name, g.Count, groups[i].Weight)
		for j, t := range g.Types {
			fmt.Printf("    %-14s %-8d weight %.2f\n", t.Name, t.Count, groups[i].Types[j].Weight)
		}
	}
	fmt.Println()
}

func printRocks(f *rocks.Field) {
	s := f.Stats()
	fmt.Printf("rocks: %d instances, %d chunks (avg %.1f/chunk)\n",
		s.Total, s.Chunks, avg(s.Total, s.Chunks))
	for _, t := range s.Types {
		fmt.Printf("  %-16s %d\n", t.Name, t.Count)
	}
	fmt.Println()
}

// printProbe runs the per-frame culling work at a fixed camera position and
// reports what would be drawn there.
func printProbe(w *world.World, x, z float32) {
	pos := math.Vec3{X: x, Y: w.Terrain.SampleHeight(x, z) + world.EyeHeight, Z: z}

	start := time.Now()
	for i := 0; i < cullPasses; i++ {
		w.Rocks.UpdateLOD(pos)
		w.Rocks.Cull(pos)
		w.Grass.Cull(pos)
	}
	perPass := time.Since(start) / cullPasses

	fmt.Printf("probe (%.1f, %.1f, %.1f)  grass view %.0f  rock view %.0f\n",
		pos.X, pos.Y, pos.Z, w.Grass.Config().ViewDistance, w.Rocks.Config().ViewDistance)
	fmt.Printf("  grass: %d visible in %d/%d chunks\n",
		w.Grass.VisibleCount(), w.Grass.VisibleChunks(), w.Grass.ChunkCount())
	fmt.Printf("  rocks: %d visible in %d/%d chunks%s\n",
		w.Rocks.VisibleCount(), w.Rocks.VisibleChunks(), w.Rocks.ChunkCount(), lodSummary(w.Rocks))
	fmt.Printf("  cull+lod: %s per pass over %d passes\n", perPass, cullPasses)
}

// lodSummary aggregates visible rocks per detail level across all types.
func lodSummary(f *rocks.Field) string {
	types := f.Types()
	if len(types) == 0 {
		return ""
	}
	levels := 0
	for _, t := range types {
		if len(t.Levels) > levels {
			levels = len(t.Levels)
		}
	}
	out := "  lod"
	for l := 0; l < levels; l++ {
		n := 0
		for t := range types {
			if l < len(types[t].Levels) {
				n += f.VisibleLODCount(t, l)
			}
		}
		out += fmt.Sprintf(" L%d=%d", l, n)
	}
	return out
}

func avg(total, buckets int) float64 {
	if buckets == 0 {
		return 0
	}
	return float64(total) / float64(buckets)
}
