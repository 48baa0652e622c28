package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/hollowpine/meadowfall/internal/engine/fog"
	"github.com/hollowpine/meadowfall/internal/engine/lake"
	"github.com/hollowpine/meadowfall/internal/engine/renderer"
	"github.com/hollowpine/meadowfall/internal/engine/scene/shaders"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// WaterRenderer draws the lake surface: a disc mesh displaced by Gerstner
// waves in the vertex shader, blended between shallow and deep colors and
// mixed with the planar reflection texture.
type WaterRenderer struct {
	program uint32

	locViewProj     int32
	locReflViewProj int32
	locWaveParams   int32
	locReflTex      int32
	locShallowColor int32
	locDeepColor    int32
	locWaterParams  int32
	locSunDirection int32
	locSunColor     int32
	locCameraPos    int32
	locFogColor     int32
	locFogParams    int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	cfg        lake.Config
	waterLevel float32
	hasWater   bool
	waterTime  float32
}

// NewWaterRenderer creates a water renderer.
func NewWaterRenderer() (*WaterRenderer, error) {
	wr := &WaterRenderer{}

	program, err := renderer.CompileProgram(shaders.WaterVertexShader, shaders.WaterFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("water shader: %w", err)
	}
	wr.program = program

	wr.locViewProj = renderer.GetUniform(program, "uViewProj")
	wr.locReflViewProj = renderer.GetUniform(program, "uReflectionViewProj")
	wr.locWaveParams = renderer.GetUniform(program, "uWaveParams")
	wr.locReflTex = renderer.GetUniform(program, "uReflectionTex")
	wr.locShallowColor = renderer.GetUniform(program, "uShallowColor")
	wr.locDeepColor = renderer.GetUniform(program, "uDeepColor")
	wr.locWaterParams = renderer.GetUniform(program, "uWaterParams")
	wr.locSunDirection = renderer.GetUniform(program, "uSunDirection")
	wr.locSunColor = renderer.GetUniform(program, "uSunColor")
	wr.locCameraPos = renderer.GetUniform(program, "uCameraPos")
	wr.locFogColor = renderer.GetUniform(program, "uFogColor")
	wr.locFogParams = renderer.GetUniform(program, "uFogParams")

	return wr, nil
}

// SetLake uploads the lake's disc mesh and stores its appearance parameters.
func (wr *WaterRenderer) SetLake(l *lake.Lake) {
	wr.clearMesh()
	if l == nil {
		wr.hasWater = false
		return
	}

	wr.cfg = l.Config()
	wr.waterLevel = l.WaterLevel()
	wr.hasWater = true

	wr.vao, wr.vbo, wr.ebo, wr.indexCount = uploadMesh(l.BuildMesh())
	gl.BindVertexArray(0)
}

// HasWater reports whether a lake is set.
func (wr *WaterRenderer) HasWater() bool {
	return wr.hasWater
}

// WaterLevel returns the world height of the water surface.
func (wr *WaterRenderer) WaterLevel() float32 {
	return wr.waterLevel
}

// Update advances the wave animation clock.
func (wr *WaterRenderer) Update(dt float32) {
	wr.waterTime += dt
}

// Render draws the water surface. reflectionTex is the color texture of the
// reflection pass rendered through reflViewProj this frame.
func (wr *WaterRenderer) Render(viewProj, reflViewProj math.Mat4, cameraPos math.Vec3, reflectionTex uint32, fogP fog.Params) {
	if !wr.hasWater || wr.vao == 0 {
		return
	}

	gl.UseProgram(wr.program)
	gl.UniformMatrix4fv(wr.locViewProj, 1, false, &viewProj[0])
	gl.UniformMatrix4fv(wr.locReflViewProj, 1, false, &reflViewProj[0])
	gl.Uniform4f(wr.locWaveParams, wr.cfg.WaveSpeed, wr.cfg.WaveScale, wr.cfg.ReflectionDistortion, wr.waterTime)
	gl.Uniform3f(wr.locShallowColor, wr.cfg.ShallowColor.X, wr.cfg.ShallowColor.Y, wr.cfg.ShallowColor.Z)
	gl.Uniform3f(wr.locDeepColor, wr.cfg.DeepColor.X, wr.cfg.DeepColor.Y, wr.cfg.DeepColor.Z)
	gl.Uniform4f(wr.locWaterParams, wr.cfg.Transparency, 4.0, 0.02, wr.cfg.ReflectionStrength)
	gl.Uniform4f(wr.locSunDirection, 0.4, 0.7, -0.5, 256.0)
	gl.Uniform4f(wr.locSunColor, 1.0, 0.95, 0.8, 1.5)
	gl.Uniform3f(wr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)
	setFogUniforms(wr.locFogColor, wr.locFogParams, fogP)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, reflectionTex)
	gl.Uniform1i(wr.locReflTex, 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	// The surface is visible from below when swimming.
	gl.Disable(gl.CULL_FACE)

	gl.BindVertexArray(wr.vao)
	gl.DrawElements(gl.TRIANGLES, wr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.Enable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
}

func (wr *WaterRenderer) clearMesh() {
	deleteMesh(wr.vao, wr.vbo, wr.ebo)
	wr.vao, wr.vbo, wr.ebo = 0, 0, 0
}

// Destroy releases all resources.
func (wr *WaterRenderer) Destroy() {
	wr.clearMesh()
	if wr.program != 0 {
		gl.DeleteProgram(wr.program)
		wr.program = 0
	}
}
