package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/hollowpine/meadowfall/internal/engine/fog"
	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/renderer"
	"github.com/hollowpine/meadowfall/internal/engine/scene/shaders"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// grassBucket holds the GL state for one (group, type) pair: the type's mesh
// buffers, its texture, and a VAO that also sources per-instance attributes
// from the field's upload buffer.
type grassBucket struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	texture    uint32
}

// GrassRenderer draws the grass field with one instanced draw call per
// non-empty (group, type) bucket.
type GrassRenderer struct {
	program uint32

	locViewProj        int32
	locWindParams      int32
	locTexture         int32
	locLightDirAmbient int32
	locColorTop        int32
	locColorBottom     int32
	locCameraPos       int32
	locFogColor        int32
	locFogParams       int32

	field   *grass.Field
	buckets [][]grassBucket
}

// NewGrassRenderer creates a grass renderer.
func NewGrassRenderer() (*GrassRenderer, error) {
	gr := &GrassRenderer{}

	program, err := renderer.CompileProgram(shaders.GrassVertexShader, shaders.GrassFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("grass shader: %w", err)
	}
	gr.program = program

	gr.locViewProj = renderer.GetUniform(program, "uViewProj")
	gr.locWindParams = renderer.GetUniform(program, "uWindParams")
	gr.locTexture = renderer.GetUniform(program, "uTexture")
	gr.locLightDirAmbient = renderer.GetUniform(program, "uLightDirAmbient")
	gr.locColorTop = renderer.GetUniform(program, "uColorTop")
	gr.locColorBottom = renderer.GetUniform(program, "uColorBottom")
	gr.locCameraPos = renderer.GetUniform(program, "uCameraPos")
	gr.locFogColor = renderer.GetUniform(program, "uFogColor")
	gr.locFogParams = renderer.GetUniform(program, "uFogParams")

	return gr, nil
}

// SetField builds the per-bucket GL state for a grass field. The field's
// GPU buffers must already be created; buckets whose buffer allocation
// failed, or whose type has no mesh, are never drawn.
func (gr *GrassRenderer) SetField(f *grass.Field) {
	gr.clearBuckets()
	gr.field = f
	if f == nil {
		return
	}

	groups := f.Groups()
	gr.buckets = make([][]grassBucket, len(groups))
	for g := range groups {
		gr.buckets[g] = make([]grassBucket, len(groups[g].Types))
		for t := range groups[g].Types {
			typ := &groups[g].Types[t]
			buf := f.Buffer(g, t)
			if typ.Mesh == nil || buf == nil || buf.Handle() == 0 {
				continue
			}

			b := &gr.buckets[g][t]
			b.vao, b.vbo, b.ebo, b.indexCount = uploadMesh(typ.Mesh)
			if b.vao == 0 {
				continue
			}

			// Instance attributes come from the field's upload buffer:
			// position, then yaw/scale/wind phase.
			gl.BindBuffer(gl.ARRAY_BUFFER, buf.Handle())
			gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, grass.InstanceStride, 0)
			gl.EnableVertexAttribArray(3)
			gl.VertexAttribDivisor(3, 1)
			gl.VertexAttribPointerWithOffset(4, 3, gl.FLOAT, false, grass.InstanceStride, 12)
			gl.EnableVertexAttribArray(4)
			gl.VertexAttribDivisor(4, 1)
			gl.BindVertexArray(0)

			b.texture = uploadTexture(typ.Image)
		}
	}
}

// Render draws every non-empty visible bucket. Cull must have run for this
// frame so the instance buffers hold current data.
func (gr *GrassRenderer) Render(viewProj math.Mat4, cameraPos math.Vec3, fogP fog.Params) {
	if gr.field == nil || len(gr.buckets) == 0 {
		return
	}

	cfg := gr.field.Config()

	gl.UseProgram(gr.program)
	gl.UniformMatrix4fv(gr.locViewProj, 1, false, &viewProj[0])
	gl.Uniform4f(gr.locWindParams, cfg.WindDirection.X, cfg.WindDirection.Y, cfg.WindStrength, gr.field.WindTime())
	gl.Uniform4f(gr.locLightDirAmbient, 0.5, 1.0, -0.5, 0.3)
	gl.Uniform3f(gr.locColorTop, 100.0/225.0, 125.0/225.0, 31.0/225.0)
	gl.Uniform3f(gr.locColorBottom, 100.0/225.0, 125.0/225.0, 31.0/225.0)
	gl.Uniform3f(gr.locCameraPos, cameraPos.X, cameraPos.Y, cameraPos.Z)
	setFogUniforms(gr.locFogColor, gr.locFogParams, fogP)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(gr.locTexture, 0)

	// Blades are double sided.
	gl.Disable(gl.CULL_FACE)

	for g := range gr.buckets {
		for t := range gr.buckets[g] {
			b := &gr.buckets[g][t]
			count := gr.field.VisibleTypeCount(g, t)
			if b.vao == 0 || count == 0 {
				continue
			}
			gl.BindTexture(gl.TEXTURE_2D, b.texture)
			gl.BindVertexArray(b.vao)
			gl.DrawElementsInstanced(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, nil, int32(count))
		}
	}

	gl.BindVertexArray(0)
	gl.Enable(gl.CULL_FACE)
}

func (gr *GrassRenderer) clearBuckets() {
	for g := range gr.buckets {
		for t := range gr.buckets[g] {
			b := &gr.buckets[g][t]
			deleteMesh(b.vao, b.vbo, b.ebo)
			if b.texture != 0 {
				gl.DeleteTextures(1, &b.texture)
			}
		}
	}
	gr.buckets = nil
}

// Destroy releases all resources. The field's own buffers are left to the
// field.
func (gr *GrassRenderer) Destroy() {
	gr.clearBuckets()
	gr.field = nil
	if gr.program != 0 {
		gl.DeleteProgram(gr.program)
		gr.program = 0
	}
}
