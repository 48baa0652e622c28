package scene

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/hollowpine/meadowfall/internal/engine/fog"
	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/internal/engine/renderer"
	"github.com/hollowpine/meadowfall/internal/engine/scene/shaders"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// TerrainRenderer draws the heightfield mesh with a tiled ground texture and
// an altitude-based color blend from valley green to summit gray.
type TerrainRenderer struct {
	program uint32

	locViewProj        int32
	locTexture         int32
	locLightDirAmbient int32
	locColorLow        int32
	locColorHigh       int32
	locHeightParams    int32
	locTiling          int32
	locCameraPos       int32
	locFogColor        int32
	locFogParams       int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	texture    uint32

	minHeight float32
	maxHeight float32
	tiling    float32
}

// NewTerrainRenderer creates a terrain renderer.
func NewTerrainRenderer() (*TerrainRenderer, error) {
	tr := &TerrainRenderer{tiling: 32}

	program, err := renderer.CompileProgram(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	tr.program = program

	tr.locViewProj = renderer.GetUniform(program, "uViewProj")
	tr.locTexture = renderer.GetUniform(program, "uTexture")
	tr.locLightDirAmbient = renderer.GetUniform(program, "uLightDirAmbient")
	tr.locColorLow = renderer.GetUniform(program, "uColorLow")
	tr.locColorHigh = renderer.GetUniform(program, "uColorHigh")
	tr.locHeightParams = renderer.GetUniform(program, "uHeightParams")
	tr.locTiling = renderer.GetUniform(program, "uTiling")
	tr.locCameraPos = renderer.GetUniform(program, "uCameraPos")
	tr.locFogColor = renderer.GetUniform(program, "uFogColor")
	tr.locFogParams = renderer.GetUniform(program, "uFogParams")

	return tr, nil
}

// SetTerrain uploads the terrain mesh and its ground texture. The height
// range drives the low/high color blend in the shader.
func (tr *TerrainRenderer) SetTerrain(m *mesh.Mesh, img *image.RGBA, minHeight, maxHeight float32) {
	tr.clear()

	tr.vao, tr.vbo, tr.ebo, tr.indexCount = uploadMesh(m)
	gl.BindVertexArray(0)

	tr.texture = uploadTexture(img)
	tr.minHeight = minHeight
	tr.maxHeight = maxHeight
}

// SetTiling sets how many times the ground texture repeats across the
// terrain.
func (tr *TerrainRenderer) SetTiling(tiling float32) {
	if tiling > 0 {
		tr.tiling = tiling
	}
}

// Render draws the terrain.
func (tr *TerrainRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3, fogP fog.Params) {
	if tr.vao == 0 {
		return
	}

	gl.UseProgram(tr.program)
	gl.UniformMatrix4fv(tr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform4f(tr.locLightDirAmbient, 0.3, 0.9, 0.2, 0.25)
	gl.Uniform3f(tr.locColorLow, 0.10, 0.35, 0.10)
	gl.Uniform3f(tr.locColorHigh, 0.45, 0.45, 0.45)
	gl.Uniform2f(tr.locHeightParams, tr.minHeight, tr.maxHeight)
	gl.Uniform1f(tr.locTiling, tr.tiling)
	gl.Uniform3f(tr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)
	setFogUniforms(tr.locFogColor, tr.locFogParams, fogP)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	gl.Uniform1i(tr.locTexture, 0)

	gl.BindVertexArray(tr.vao)
	gl.DrawElements(gl.TRIANGLES, tr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (tr *TerrainRenderer) clear() {
	deleteMesh(tr.vao, tr.vbo, tr.ebo)
	tr.vao, tr.vbo, tr.ebo = 0, 0, 0
	if tr.texture != 0 {
		gl.DeleteTextures(1, &tr.texture)
		tr.texture = 0
	}
}

// Destroy releases all resources.
func (tr *TerrainRenderer) Destroy() {
	tr.clear()
	if tr.program != 0 {
		gl.DeleteProgram(tr.program)
		tr.program = 0
	}
}
