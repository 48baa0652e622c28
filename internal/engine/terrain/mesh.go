package terrain

import (
	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// BuildMesh tessellates the heightfield into a grid of resolution x
// resolution quads with per-vertex normals, tangents and UVs. UVs span
// [0, 1] across the terrain; the renderer applies texture tiling.
func BuildMesh(hf *Heightfield, resolution int) *mesh.Mesh {
	if resolution < 1 {
		resolution = 1
	}
	sizeX, sizeZ := hf.Size()
	verts := resolution + 1

	m := &mesh.Mesh{
		Positions: make([]math.Vec3, 0, verts*verts),
		Normals:   make([]math.Vec3, 0, verts*verts),
		Tangents:  make([]math.Vec3, 0, verts*verts),
		UVs:       make([]math.Vec2, 0, verts*verts),
		Indices:   make([]uint32, 0, resolution*resolution*6),
	}

	for zi := 0; zi < verts; zi++ {
		for xi := 0; xi < verts; xi++ {
			u := float32(xi) / float32(resolution)
			v := float32(zi) / float32(resolution)
			x := u*sizeX - sizeX/2
			z := v*sizeZ - sizeZ/2

			m.Positions = append(m.Positions, math.Vec3{X: x, Y: hf.SampleHeight(x, z), Z: z})
			m.Normals = append(m.Normals, hf.Normal(x, z))
			m.Tangents = append(m.Tangents, tangentAt(hf, x, z))
			m.UVs = append(m.UVs, math.Vec2{X: u, Y: v})
		}
	}

	for zi := 0; zi < resolution; zi++ {
		for xi := 0; xi < resolution; xi++ {
			a := uint32(zi*verts + xi)
			b := a + uint32(verts)
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

// tangentAt is the normalized +X surface direction, for shaders that want a
// tangent basis.
func tangentAt(hf *Heightfield, x, z float32) math.Vec3 {
	hl := hf.SampleHeight(x-0.5, z)
	hr := hf.SampleHeight(x+0.5, z)
	return math.Vec3{X: 1, Y: hr - hl, Z: 0}.Normalize()
}
