package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/hollowpine/meadowfall/internal/engine/fog"
	"github.com/hollowpine/meadowfall/internal/engine/lod"
	"github.com/hollowpine/meadowfall/internal/engine/renderer"
	"github.com/hollowpine/meadowfall/internal/engine/rocks"
	"github.com/hollowpine/meadowfall/internal/engine/scene/shaders"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// rockBucket holds the GL state for one (type, LOD) pair.
type rockBucket struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// RockRenderer draws the rock field with one instanced draw call per
// non-empty (type, LOD) bucket. All LOD levels of a type share its texture.
type RockRenderer struct {
	program uint32

	locViewProj        int32
	locTexture         int32
	locLightDirAmbient int32
	locRockColor       int32
	locCameraPos       int32
	locFogColor        int32
	locFogParams       int32

	field    *rocks.Field
	buckets  [][lod.LevelCount]rockBucket
	textures []uint32
}

// NewRockRenderer creates a rock renderer.
func NewRockRenderer() (*RockRenderer, error) {
	rr := &RockRenderer{}

	program, err := renderer.CompileProgram(shaders.RockVertexShader, shaders.RockFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("rock shader: %w", err)
	}
	rr.program = program

	rr.locViewProj = renderer.GetUniform(program, "uViewProj")
	rr.locTexture = renderer.GetUniform(program, "uTexture")
	rr.locLightDirAmbient = renderer.GetUniform(program, "uLightDirAmbient")
	rr.locRockColor = renderer.GetUniform(program, "uRockColor")
	rr.locCameraPos = renderer.GetUniform(program, "uCameraPos")
	rr.locFogColor = renderer.GetUniform(program, "uFogColor")
	rr.locFogParams = renderer.GetUniform(program, "uFogParams")

	return rr, nil
}

// SetField builds the per-bucket GL state for a rock field. The field's GPU
// buffers must already be created.
func (rr *RockRenderer) SetField(f *rocks.Field) {
	rr.clearBuckets()
	rr.field = f
	if f == nil {
		return
	}

	types := f.Types()
	rr.buckets = make([][lod.LevelCount]rockBucket, len(types))
	rr.textures = make([]uint32, len(types))
	for t := range types {
		rr.textures[t] = uploadTexture(types[t].Image)

		for level := 0; level < lod.LevelCount; level++ {
			m := types[t].Levels[level]
			buf := f.Buffer(t, level)
			if m == nil || buf == nil || buf.Handle() == 0 {
				continue
			}

			b := &rr.buckets[t][level]
			b.vao, b.vbo, b.ebo, b.indexCount = uploadMesh(m)
			if b.vao == 0 {
				continue
			}

			gl.BindBuffer(gl.ARRAY_BUFFER, buf.Handle())
			gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, rocks.InstanceStride, 0)
			gl.EnableVertexAttribArray(3)
			gl.VertexAttribDivisor(3, 1)
			gl.VertexAttribPointerWithOffset(4, 2, gl.FLOAT, false, rocks.InstanceStride, 12)
			gl.EnableVertexAttribArray(4)
			gl.VertexAttribDivisor(4, 1)
			gl.BindVertexArray(0)
		}
	}
}

// Render draws every non-empty visible bucket. UpdateLOD and Cull must have
// run for this frame.
func (rr *RockRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3, fogP fog.Params) {
	if rr.field == nil || len(rr.buckets) == 0 {
		return
	}

	gl.UseProgram(rr.program)
	gl.UniformMatrix4fv(rr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform4f(rr.locLightDirAmbient, 0.5, 1.0, -0.5, 0.2)
	gl.Uniform3f(rr.locRockColor, 0.75, 0.72, 0.68)
	gl.Uniform3f(rr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)
	setFogUniforms(rr.locFogColor, rr.locFogParams, fogP)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(rr.locTexture, 0)

	for t := range rr.buckets {
		gl.BindTexture(gl.TEXTURE_2D, rr.textures[t])
		for level := 0; level < lod.LevelCount; level++ {
			b := &rr.buckets[t][level]
			count := rr.field.VisibleLODCount(t, level)
			if b.vao == 0 || count == 0 {
				continue
			}
			gl.BindVertexArray(b.vao)
			gl.DrawElementsInstanced(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, nil, int32(count))
		}
	}

	gl.BindVertexArray(0)
}

func (rr *RockRenderer) clearBuckets() {
	for t := range rr.buckets {
		for level := range rr.buckets[t] {
			b := &rr.buckets[t][level]
			deleteMesh(b.vao, b.vbo, b.ebo)
		}
	}
	for _, tex := range rr.textures {
		if tex != 0 {
			gl.DeleteTextures(1, &tex)
		}
	}
	rr.buckets = nil
	rr.textures = nil
}

// Destroy releases all resources.
func (rr *RockRenderer) Destroy() {
	rr.clearBuckets()
	rr.field = nil
	if rr.program != 0 {
		gl.DeleteProgram(rr.program)
		rr.program = 0
	}
}
