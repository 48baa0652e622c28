// Package game implements the main game loop: it wires the window,
// renderer, assets, world and scene together and runs the frame cycle.
package game

import (
	"fmt"
	"log/slog"
	gomath "math"
	"path/filepath"
	"time"

	"github.com/hollowpine/meadowfall/internal/assets"
	"github.com/hollowpine/meadowfall/internal/config"
	"github.com/hollowpine/meadowfall/internal/engine/fog"
	"github.com/hollowpine/meadowfall/internal/engine/input"
	"github.com/hollowpine/meadowfall/internal/engine/renderer"
	"github.com/hollowpine/meadowfall/internal/engine/scene"
	"github.com/hollowpine/meadowfall/internal/engine/sky"
	"github.com/hollowpine/meadowfall/internal/engine/texture"
	"github.com/hollowpine/meadowfall/internal/engine/window"
	"github.com/hollowpine/meadowfall/internal/game/world"
)

// Simulation advances on a fixed step; rendering runs as fast as the swap
// interval allows. A frame cap bounds catch-up work after a stall.
const (
	updateStep   = float32(1.0 / 60.0)
	maxFrameTime = float32(0.25)
)

// Fog density hotkeys step between these bounds.
const (
	fogDensityStep = 0.005
	fogDensityMin  = 0.001
	fogDensityMax  = 0.1
)

// Game is the main game instance.
type Game struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene
	world    *world.World
	player   *world.Player

	// Mouse motion waiting for the next simulation step. Kept across
	// frames so fast render rates do not drop look input.
	pendingDX float32
	pendingDY float32

	fog        fog.Params
	fogEnabled bool
}

// New creates a new game instance: window and GL context first, then
// renderer, assets, world and scene.
func New(cfg *config.Config) (*Game, error) {
	slog.Info("initializing game",
		"title", cfg.Window.Title,
		"width", cfg.Window.Width,
		"height", cfg.Window.Height,
	)

	g := &Game{cfg: cfg}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()

	if err := g.setup(); err != nil {
		g.Close()
		return nil, err
	}

	g.window.SetRelativeMouseMode(true)

	slog.Info("game initialized successfully")
	return g, nil
}

// setup loads the assets, builds the world and hands everything to the
// scene. Requires a live GL context.
func (g *Game) setup() error {
	mgr := assets.NewManager(filepath.Dir(g.cfg.Vegetation.Manifest))

	man, err := assets.LoadManifest(g.cfg.Vegetation.Manifest)
	if err != nil {
		return fmt.Errorf("failed to load asset manifest: %w", err)
	}
	rockTypes, err := mgr.LoadRockTypes(man)
	if err != nil {
		return fmt.Errorf("failed to load rock models: %w", err)
	}
	groups, err := mgr.LoadGrassGroups(man)
	if err != nil {
		return fmt.Errorf("failed to load grass models: %w", err)
	}

	g.world, err = world.Build(g.cfg, groups, rockTypes)
	if err != nil {
		return fmt.Errorf("failed to build world: %w", err)
	}
	g.player = world.NewPlayer(g.world)

	width, height := g.renderer.Size()
	g.scene, err = scene.New(scene.Config{
		Width:  int32(width),
		Height: int32(height),
	})
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	g.scene.SetSky(sky.DefaultParams())

	ground, err := mgr.LoadImage(g.cfg.World.GroundTexture)
	if err != nil {
		slog.Warn("ground texture missing, using placeholder",
			"path", g.cfg.World.GroundTexture, "error", err)
		ground = texture.Checkerboard()
	}
	g.scene.SetTerrain(g.world.TerrainMesh, ground, g.world.Terrain.Min(), g.world.Terrain.Max())

	// Instance buffers must exist before the renderers bind them.
	alloc := renderer.NewGLAllocator()
	g.world.Grass.CreateBuffers(alloc)
	g.world.Rocks.CreateBuffers(alloc)
	g.scene.SetGrassField(g.world.Grass)
	g.scene.SetRockField(g.world.Rocks)

	if g.world.Lake != nil {
		g.scene.SetLake(g.world.Lake)
	}

	g.fog = g.cfg.Graphics.FogParams()
	g.fogEnabled = true
	g.scene.SetFog(g.fog)

	g.world.Grass.LogStatistics()
	g.world.Rocks.LogStatistics()
	return nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	var accum float32
	frameCount := 0
	fpsTimer := time.Now()

	slog.Info("starting game loop")

	for g.running {
		// Calculate frame time
		now := time.Now()
		frame := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		if frame > maxFrameTime {
			frame = maxFrameTime
		}

		// 1. Process input
		if g.input.Update() {
			// Quit event received
			g.running = false
			break
		}
		g.handleEvents()

		dx, dy := g.input.MouseDelta()
		g.pendingDX += dx
		g.pendingDY += dy

		// 2. Fixed-step simulation
		accum += frame
		for accum >= updateStep {
			g.update(updateStep)
			accum -= updateStep
		}

		// 3. Camera-dependent work, once per frame
		g.cull()

		// 4. Render and present
		g.render()
		g.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			slog.Debug("fps", "count", frameCount, "frame", fmt.Sprintf("%.2fms", frame*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up game resources.
func (g *Game) Close() {
	slog.Info("closing game")

	if g.scene != nil {
		g.scene.Destroy()
	}
	if g.world != nil {
		if g.world.Grass != nil {
			g.world.Grass.Release()
		}
		if g.world.Rocks != nil {
			g.world.Rocks.Release()
		}
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// handleEvents drains the window events and runtime hotkeys.
func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			g.renderer.Resize(event.Width, event.Height)
			g.scene.Resize(int32(event.Width), int32(event.Height))

		case input.EventKeyDown:
			switch event.Key {
			case input.KeyEscape:
				g.running = false
			case input.KeyT:
				g.fogEnabled = !g.fogEnabled
				g.applyFog()
				slog.Info("fog toggled", "enabled", g.fogEnabled)
			case input.KeyG:
				g.adjustFogDensity(-fogDensityStep)
			case input.KeyH:
				g.adjustFogDensity(fogDensityStep)
			case input.KeyF12:
				g.screenshot()
			}
		}
	}
}

// update advances the simulation by one fixed step. The first step of a
// frame consumes the pending mouse motion.
func (g *Game) update(dt float32) {
	in := world.MoveInput{
		Forward:  g.input.IsKeyHeld(input.KeyW),
		Backward: g.input.IsKeyHeld(input.KeyS),
		Left:     g.input.IsKeyHeld(input.KeyA),
		Right:    g.input.IsKeyHeld(input.KeyD),
		Sprint:   g.input.IsKeyHeld(input.KeyLeftShift),
		MouseDX:  g.pendingDX,
		MouseDY:  g.pendingDY,
	}
	g.pendingDX, g.pendingDY = 0, 0
	g.player.Update(in, dt)

	g.world.Grass.Update(dt)
	g.scene.Update(dt)
}

// cull refreshes LOD selection and chunk visibility around the camera.
func (g *Game) cull() {
	camPos := g.player.Position()
	g.world.Rocks.UpdateLOD(camPos)
	g.world.Rocks.Cull(camPos)
	g.world.Grass.Cull(camPos)
}

// render draws the current frame.
func (g *Game) render() {
	g.renderer.Begin()
	g.scene.Render(g.player.Camera.ViewMatrix(), g.player.Position())
	g.renderer.End()
}

// applyFog pushes the current fog state to the scene. Disabled fog keeps
// the color but zeroes the falloff and pushes the hard cut out of range.
func (g *Game) applyFog() {
	if g.fogEnabled {
		g.scene.SetFog(g.fog)
		return
	}
	off := g.fog
	off.Density = 0
	off.HeightFalloff = 0
	off.MaxDistance = gomath.MaxFloat32
	g.scene.SetFog(off)
}

func (g *Game) adjustFogDensity(delta float32) {
	g.fog.Density += delta
	if g.fog.Density < fogDensityMin {
		g.fog.Density = fogDensityMin
	}
	if g.fog.Density > fogDensityMax {
		g.fog.Density = fogDensityMax
	}
	g.applyFog()
	slog.Info("fog density", "density", fmt.Sprintf("%.3f", g.fog.Density))
}

func (g *Game) screenshot() {
	path := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	if err := g.renderer.Screenshot(path); err != nil {
		slog.Error("screenshot failed", "path", path, "error", err)
		return
	}
	slog.Info("screenshot saved", "path", path)
}
