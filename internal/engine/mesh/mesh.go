// Package mesh provides the CPU-side triangle mesh representation shared by
// the terrain, vegetation and LOD systems.
package mesh

import (
	"github.com/hollowpine/meadowfall/pkg/formats"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// Mesh is an indexed triangle mesh. Positions and Indices are always
// populated; Normals, UVs and Tangents may be nil depending on the source.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Tangents  []math.Vec3
	UVs       []math.Vec2
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box. A mesh with no vertices
// returns two zero vectors.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	if len(m.Positions) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		min.X = minf(min.X, p.X)
		min.Y = minf(min.Y, p.Y)
		min.Z = minf(min.Z, p.Z)
		max.X = maxf(max.X, p.X)
		max.Y = maxf(max.Y, p.Y)
		max.Z = maxf(max.Z, p.Z)
	}
	return min, max
}

// Centroid returns the mean of all vertex positions.
func (m *Mesh) Centroid() math.Vec3 {
	if len(m.Positions) == 0 {
		return math.Vec3{}
	}
	var c math.Vec3
	for _, p := range m.Positions {
		c = c.Add(p)
	}
	return c.Scale(1 / float32(len(m.Positions)))
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{}
	if m.Positions != nil {
		out.Positions = append([]math.Vec3(nil), m.Positions...)
	}
	if m.Normals != nil {
		out.Normals = append([]math.Vec3(nil), m.Normals...)
	}
	if m.Tangents != nil {
		out.Tangents = append([]math.Vec3(nil), m.Tangents...)
	}
	if m.UVs != nil {
		out.UVs = append([]math.Vec2(nil), m.UVs...)
	}
	if m.Indices != nil {
		out.Indices = append([]uint32(nil), m.Indices...)
	}
	return out
}

// RecomputeNormals rebuilds per-vertex normals by accumulating area-weighted
// face normals. Degenerate triangles contribute nothing.
func (m *Mesh) RecomputeNormals() {
	m.Normals = make([]math.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		a := m.Positions[i0]
		e1 := m.Positions[i1].Sub(a)
		e2 := m.Positions[i2].Sub(a)
		// Cross product length is twice the triangle area, which gives the
		// area weighting for free.
		n := e1.Cross(e2)
		m.Normals[i0] = m.Normals[i0].Add(n)
		m.Normals[i1] = m.Normals[i1].Add(n)
		m.Normals[i2] = m.Normals[i2].Add(n)
	}
	for i := range m.Normals {
		if m.Normals[i].Length() > 1e-8 {
			m.Normals[i] = m.Normals[i].Normalize()
		} else {
			m.Normals[i] = math.Vec3{Y: 1}
		}
	}
}

// InterleavedStride is the float count per vertex in Interleaved output:
// position (3), normal (3), UV (2).
const InterleavedStride = 8

// Interleaved packs vertices as position/normal/UV float32 triplets for GL
// upload. Missing normals default to +Y, missing UVs to zero.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Positions)*InterleavedStride)
	for i, p := range m.Positions {
		out = append(out, p.X, p.Y, p.Z)
		if i < len(m.Normals) {
			n := m.Normals[i]
			out = append(out, n.X, n.Y, n.Z)
		} else {
			out = append(out, 0, 1, 0)
		}
		if i < len(m.UVs) {
			uv := m.UVs[i]
			out = append(out, uv.X, uv.Y)
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

// FromOBJ converts parsed OBJ data into a renderable mesh. OBJ faces index
// positions, UVs and normals independently; each distinct combination
// becomes one mesh vertex. Normals are recomputed when any face lacks them.
func FromOBJ(obj *formats.OBJ) *Mesh {
	m := &Mesh{}
	type key struct{ p, t, n int }
	seen := make(map[key]uint32)
	allNormals := true
	anyUV := false

	for _, f := range obj.Faces {
		for c := 0; c < 3; c++ {
			k := key{f.Position[c], f.UV[c], f.Normal[c]}
			idx, ok := seen[k]
			if !ok {
				idx = uint32(len(m.Positions))
				seen[k] = idx
				p := obj.Positions[k.p]
				m.Positions = append(m.Positions, math.Vec3{X: p[0], Y: p[1], Z: p[2]})
				var n math.Vec3
				if k.n >= 0 {
					src := obj.Normals[k.n]
					n = math.Vec3{X: src[0], Y: src[1], Z: src[2]}
				} else {
					allNormals = false
				}
				m.Normals = append(m.Normals, n)
				var uv math.Vec2
				if k.t >= 0 {
					src := obj.UVs[k.t]
					uv = math.Vec2{X: src[0], Y: src[1]}
					anyUV = true
				}
				m.UVs = append(m.UVs, uv)
			}
			m.Indices = append(m.Indices, idx)
		}
	}

	if !allNormals {
		m.RecomputeNormals()
	}
	if !anyUV {
		m.UVs = nil
	}
	return m
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
