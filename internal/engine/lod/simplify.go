// Package lod generates reduced-detail mesh levels and classifies instances
// into detail levels by camera distance.
package lod

import (
	gomath "math"

	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// Detail levels, ordered near to far.
const (
	LevelHigh   = 0
	LevelMedium = 1
	LevelLow    = 2
	LevelCount  = 3
)

// LevelRatios are the triangle-count targets per level relative to the
// source mesh.
var LevelRatios = [LevelCount]float32{1.0, 0.4, 0.1}

// Classify returns the detail level for a camera distance. Boundaries are
// exclusive: an instance exactly at highDist already renders medium.
func Classify(dist, highDist, mediumDist float32) int {
	switch {
	case dist < highDist:
		return LevelHigh
	case dist < mediumDist:
		return LevelMedium
	default:
		return LevelLow
	}
}

// GenerateLevels produces the three detail levels for a mesh. A level that
// simplifies down to zero triangles falls back to the high mesh, so every
// returned level is renderable for any valid non-empty input.
func GenerateLevels(m *mesh.Mesh) [LevelCount]*mesh.Mesh {
	var levels [LevelCount]*mesh.Mesh
	levels[LevelHigh] = m.Clone()
	for i := LevelMedium; i < LevelCount; i++ {
		simplified := Simplify(m, LevelRatios[i])
		if simplified.TriangleCount() == 0 {
			simplified = levels[LevelHigh]
		}
		levels[i] = simplified
	}
	return levels
}

// Simplify reduces a mesh to approximately ratio x its triangle count
// (never below a 4-triangle target) by clustering vertices on a uniform 3D
// grid and keeping the most important vertex of each cell. Empty meshes and
// targets at or above the current count return an unmodified copy.
func Simplify(m *mesh.Mesh, ratio float32) *mesh.Mesh {
	tris := m.TriangleCount()
	if m.VertexCount() == 0 || tris == 0 || ratio >= 1 {
		return m.Clone()
	}

	target := int(float32(tris) * ratio)
	if target < 4 {
		target = 4
	}
	if tris <= target {
		return m.Clone()
	}

	importance := vertexImportance(m)

	// Grid resolution scales with how aggressively we need to merge.
	divisor := target / 3
	if divisor < 1 {
		divisor = 1
	}
	cells := int(gomath.Cbrt(float64(m.VertexCount())/float64(divisor))) + 1
	if cells < 2 {
		cells = 2
	}
	if cells > 100 {
		cells = 100
	}

	min, max := m.Bounds()
	size := max.Sub(min)
	cellOf := func(p math.Vec3) int {
		cx := gridCoord(p.X, min.X, size.X, cells)
		cy := gridCoord(p.Y, min.Y, size.Y, cells)
		cz := gridCoord(p.Z, min.Z, size.Z, cells)
		return cx + cy*cells + cz*cells*cells
	}

	// Pick the highest-importance vertex of each occupied cell as its
	// representative. Iteration over vertex order keeps ties deterministic.
	best := make(map[int]uint32)
	for v := range m.Positions {
		key := cellOf(m.Positions[v])
		cur, ok := best[key]
		if !ok || importance[v] > importance[cur] {
			best[key] = uint32(v)
		}
	}

	repr := make([]uint32, len(m.Positions))
	for v := range m.Positions {
		repr[v] = best[cellOf(m.Positions[v])]
	}

	out := &mesh.Mesh{}
	remap := make(map[uint32]uint32)
	emit := func(src uint32) uint32 {
		if idx, ok := remap[src]; ok {
			return idx
		}
		idx := uint32(len(out.Positions))
		remap[src] = idx
		out.Positions = append(out.Positions, m.Positions[src])
		if int(src) < len(m.UVs) {
			out.UVs = append(out.UVs, m.UVs[src])
		}
		return idx
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := repr[m.Indices[i]]
		b := repr[m.Indices[i+1]]
		c := repr[m.Indices[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		out.Indices = append(out.Indices, emit(a), emit(b), emit(c))
	}

	if out.TriangleCount() > 0 {
		out.RecomputeNormals()
	}
	return out
}

// vertexImportance scores each vertex in [0, 1]:
// 0.3 topology (adjacent triangle count, saturating at 6) +
// 0.4 curvature (mean deviation of adjacent face normals) +
// 0.3 silhouette (normalized distance from the centroid).
func vertexImportance(m *mesh.Mesh) []float32 {
	n := len(m.Positions)
	adjCount := make([]int, n)
	normalSum := make([]math.Vec3, n)

	triCount := len(m.Indices) / 3
	faceNormals := make([]math.Vec3, triCount)
	for t := 0; t < triCount; t++ {
		i0 := m.Indices[t*3]
		i1 := m.Indices[t*3+1]
		i2 := m.Indices[t*3+2]
		e1 := m.Positions[i1].Sub(m.Positions[i0])
		e2 := m.Positions[i2].Sub(m.Positions[i0])
		fn := e1.Cross(e2)
		if fn.Length() > 1e-8 {
			fn = fn.Normalize()
		}
		faceNormals[t] = fn
		for _, vi := range []uint32{i0, i1, i2} {
			adjCount[vi]++
			normalSum[vi] = normalSum[vi].Add(fn)
		}
	}

	// Second pass: deviation of each adjacent face from the mean normal.
	devSum := make([]float32, n)
	mean := make([]math.Vec3, n)
	for v := 0; v < n; v++ {
		if normalSum[v].Length() > 1e-8 {
			mean[v] = normalSum[v].Normalize()
		}
	}
	for t := 0; t < triCount; t++ {
		for c := 0; c < 3; c++ {
			vi := m.Indices[t*3+c]
			devSum[vi] += (1 - faceNormals[t].Dot(mean[vi])) * 0.5
		}
	}

	centroid := m.Centroid()
	var maxDist float32
	for _, p := range m.Positions {
		if d := p.Sub(centroid).Length(); d > maxDist {
			maxDist = d
		}
	}
	if maxDist < 1e-8 {
		maxDist = 1
	}

	importance := make([]float32, n)
	for v := 0; v < n; v++ {
		topology := float32(adjCount[v]) / 6
		if topology > 1 {
			topology = 1
		}
		var curvature float32
		if adjCount[v] > 0 {
			curvature = devSum[v] / float32(adjCount[v])
		}
		silhouette := m.Positions[v].Sub(centroid).Length() / maxDist
		importance[v] = 0.3*topology + 0.4*curvature + 0.3*silhouette
	}
	return importance
}

// gridCoord maps a coordinate into [0, cells-1] along one axis.
func gridCoord(v, min, size float32, cells int) int {
	if size < 1e-8 {
		return 0
	}
	c := int((v - min) / size * float32(cells))
	if c < 0 {
		c = 0
	}
	if c >= cells {
		c = cells - 1
	}
	return c
}
