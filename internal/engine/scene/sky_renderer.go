package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/hollowpine/meadowfall/internal/engine/renderer"
	"github.com/hollowpine/meadowfall/internal/engine/scene/shaders"
	"github.com/hollowpine/meadowfall/internal/engine/sky"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// SkyRenderer draws the gradient sky dome. The dome is camera-centered and
// drawn first each frame with depth writes off, so everything else paints
// over it.
type SkyRenderer struct {
	program uint32

	locViewProj  int32
	locCameraPos int32
	locZenith    int32
	locHorizon   int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	params sky.Params
}

// NewSkyRenderer creates the sky renderer with the default gradient.
func NewSkyRenderer() (*SkyRenderer, error) {
	sr := &SkyRenderer{params: sky.DefaultParams()}

	program, err := renderer.CompileProgram(shaders.SkyVertexShader, shaders.SkyFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sky shader: %w", err)
	}
	sr.program = program

	sr.locViewProj = renderer.GetUniform(program, "uViewProj")
	sr.locCameraPos = renderer.GetUniform(program, "uCameraPos")
	sr.locZenith = renderer.GetUniform(program, "uZenithColor")
	sr.locHorizon = renderer.GetUniform(program, "uHorizonColor")

	sr.SetParams(sr.params)
	return sr, nil
}

// SetParams rebuilds the dome mesh with new shape and gradient parameters.
func (sr *SkyRenderer) SetParams(p sky.Params) {
	sr.params = p
	deleteMesh(sr.vao, sr.vbo, sr.ebo)
	dome := sky.BuildDome(p)
	sr.vao, sr.vbo, sr.ebo, sr.indexCount = uploadMesh(dome)
	gl.BindVertexArray(0)
}

// Render draws the dome centered on the camera.
func (sr *SkyRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3) {
	if sr.vao == 0 {
		return
	}

	gl.UseProgram(sr.program)
	gl.UniformMatrix4fv(sr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(sr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)
	gl.Uniform3f(sr.locZenith, sr.params.ZenithColor.X, sr.params.ZenithColor.Y, sr.params.ZenithColor.Z)
	gl.Uniform3f(sr.locHorizon, sr.params.HorizonColor.X, sr.params.HorizonColor.Y, sr.params.HorizonColor.Z)

	// Seen from inside: no depth writes, no face culling.
	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)

	gl.BindVertexArray(sr.vao)
	gl.DrawElements(gl.TRIANGLES, sr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.Enable(gl.CULL_FACE)
	gl.DepthMask(true)
}

// Destroy releases all resources.
func (sr *SkyRenderer) Destroy() {
	deleteMesh(sr.vao, sr.vbo, sr.ebo)
	sr.vao, sr.vbo, sr.ebo = 0, 0, 0
	if sr.program != 0 {
		gl.DeleteProgram(sr.program)
		sr.program = 0
	}
}
