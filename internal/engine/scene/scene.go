// Package scene renders the world each frame: sky dome, terrain, instanced
// rocks and grass, and the lake with its planar reflection pass.
package scene

import (
	"fmt"
	"image"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/hollowpine/meadowfall/internal/engine/fog"
	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/lake"
	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/internal/engine/renderer"
	"github.com/hollowpine/meadowfall/internal/engine/rocks"
	"github.com/hollowpine/meadowfall/internal/engine/sky"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// Projection constants shared by the main view and the reflection pass.
const (
	fovDegrees = 60.0
	nearPlane  = 0.1
	farPlane   = 10000.0
)

// Config holds the scene output dimensions.
type Config struct {
	Width  int32
	Height int32
}

// Scene owns the per-system renderers and the draw order: sky first with
// depth writes off, then terrain, rocks and grass, and finally the water
// surface after the reflection pass has rendered sky and terrain into the
// half-resolution reflection target.
type Scene struct {
	config Config

	sky     *SkyRenderer
	terrain *TerrainRenderer
	grassR  *GrassRenderer
	rockR   *RockRenderer
	water   *WaterRenderer

	reflection *renderer.Target

	fog  fog.Params
	proj math.Mat4
}

// New creates a scene with all renderers compiled and the reflection target
// allocated at half the output resolution.
func New(cfg Config) (*Scene, error) {
	s := &Scene{
		config: cfg,
		fog:    fog.Default(),
	}
	s.updateProjection()

	var err error
	s.reflection, err = renderer.NewTarget(cfg.Width/2, cfg.Height/2)
	if err != nil {
		return nil, fmt.Errorf("creating reflection target: %w", err)
	}

	s.sky, err = NewSkyRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating sky renderer: %w", err)
	}

	s.terrain, err = NewTerrainRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating terrain renderer: %w", err)
	}

	s.grassR, err = NewGrassRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating grass renderer: %w", err)
	}

	s.rockR, err = NewRockRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating rock renderer: %w", err)
	}

	s.water, err = NewWaterRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating water renderer: %w", err)
	}

	return s, nil
}

func (s *Scene) updateProjection() {
	aspect := float32(s.config.Width) / float32(s.config.Height)
	s.proj = math.Perspective(fovDegrees*gomath.Pi/180, aspect, nearPlane, farPlane)
}

// SetSky rebuilds the sky dome.
func (s *Scene) SetSky(p sky.Params) {
	s.sky.SetParams(p)
}

// SetTerrain uploads the terrain mesh and ground texture.
func (s *Scene) SetTerrain(m *mesh.Mesh, img *image.RGBA, minHeight, maxHeight float32) {
	s.terrain.SetTerrain(m, img, minHeight, maxHeight)
}

// SetGrassField wires a grass field into the renderer. The field's buffers
// must already be created.
func (s *Scene) SetGrassField(f *grass.Field) {
	s.grassR.SetField(f)
}

// SetRockField wires a rock field into the renderer. The field's buffers
// must already be created.
func (s *Scene) SetRockField(f *rocks.Field) {
	s.rockR.SetField(f)
}

// SetLake wires the lake into the water renderer.
func (s *Scene) SetLake(l *lake.Lake) {
	s.water.SetLake(l)
}

// SetFog replaces the fog parameters applied to terrain, vegetation and
// water.
func (s *Scene) SetFog(p fog.Params) {
	s.fog = p
}

// Fog returns the active fog parameters.
func (s *Scene) Fog() fog.Params {
	return s.fog
}

// Projection returns the projection matrix for the current dimensions.
func (s *Scene) Projection() math.Mat4 {
	return s.proj
}

// Update advances the water animation clock.
func (s *Scene) Update(dt float32) {
	s.water.Update(dt)
}

// Render draws one frame. The caller has already culled the fields for this
// camera position.
func (s *Scene) Render(view math.Mat4, cameraPos math.Vec3) {
	viewProj := s.proj.Mul(view)

	s.sky.Render(viewProj, cameraPos)
	s.terrain.Render(viewProj, cameraPos, s.fog)
	s.rockR.Render(viewProj, cameraPos, s.fog)
	s.grassR.Render(viewProj, cameraPos, s.fog)

	if s.water.HasWater() {
		reflViewProj := s.renderReflection(view, cameraPos)
		s.water.Render(viewProj, reflViewProj, cameraPos, s.reflection.ColorTexture(), s.fog)
	}
}

// renderReflection draws the mirrored sky and terrain into the reflection
// target and returns the view-projection it used, which the water shader
// needs to locate each fragment's mirror image in the texture.
func (s *Scene) renderReflection(view math.Mat4, cameraPos math.Vec3) math.Mat4 {
	level := s.water.WaterLevel()

	restore := s.reflection.BindWithViewport()
	defer restore()
	s.reflection.Clear(0.5, 0.7, 0.9, 1.0)

	reflected := view.Mul(math.ReflectY(level))
	reflViewProj := s.proj.Mul(reflected)

	reflCam := cameraPos
	reflCam.Y = 2*level - cameraPos.Y

	// Mirroring flips triangle winding, so cull the other face.
	gl.CullFace(gl.FRONT)
	s.sky.Render(reflViewProj, reflCam)
	s.terrain.Render(reflViewProj, reflCam, s.fog)
	gl.CullFace(gl.BACK)

	return reflViewProj
}

// Resize updates the output dimensions, the projection and the reflection
// target.
func (s *Scene) Resize(width, height int32) {
	if width == s.config.Width && height == s.config.Height {
		return
	}
	s.config.Width = width
	s.config.Height = height
	s.updateProjection()
	s.reflection.Resize(width/2, height/2)
}

// Destroy releases all resources.
func (s *Scene) Destroy() {
	if s.sky != nil {
		s.sky.Destroy()
	}
	if s.terrain != nil {
		s.terrain.Destroy()
	}
	if s.grassR != nil {
		s.grassR.Destroy()
	}
	if s.rockR != nil {
		s.rockR.Destroy()
	}
	if s.water != nil {
		s.water.Destroy()
	}
	if s.reflection != nil {
		s.reflection.Destroy()
	}
}
