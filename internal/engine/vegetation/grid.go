package vegetation

import (
	gomath "math"
)

// SpatialHashGrid buckets placed items by XZ cell so overlap queries only
// touch the 3x3 neighborhood around a point. The grid covers a rectangle
// centered on the world origin; its lifetime is one Generate call.
//
// Cell size must be comfortably larger than the biggest item radius, or
// overlaps spanning non-adjacent cells can be missed. The generator sizes
// cells at four times the largest base radius.
type SpatialHashGrid struct {
	cellSize float32
	offsetX  float32
	offsetZ  float32
	width    int
	height   int
	cells    [][]Item
	count    int
}

// NewSpatialHashGrid allocates buckets covering worldSizeX by worldSizeZ,
// spanning [-size/2, +size/2] on both axes.
func NewSpatialHashGrid(worldSizeX, worldSizeZ, cellSize float32) *SpatialHashGrid {
	width := int(gomath.Ceil(float64(worldSizeX/cellSize))) + 1
	height := int(gomath.Ceil(float64(worldSizeZ/cellSize))) + 1

	return &SpatialHashGrid{
		cellSize: cellSize,
		offsetX:  worldSizeX * 0.5,
		offsetZ:  worldSizeZ * 0.5,
		width:    width,
		height:   height,
		cells:    make([][]Item, width*height),
	}
}

// Insert stores the item in its cell. Positions outside the managed area
// are silently dropped.
func (g *SpatialHashGrid) Insert(item Item) {
	idx := g.cellIndex(item.Position.X, item.Position.Z)
	if idx < 0 {
		return
	}
	g.cells[idx] = append(g.cells[idx], item)
	g.count++
}

// Overlaps reports whether any stored item's circle intersects the circle
// at (x, z) with the given radius. Scans the 3x3 block of cells around the
// query point.
func (g *SpatialHashGrid) Overlaps(x, z, radius float32) bool {
	cx := int((x + g.offsetX) / g.cellSize)
	cz := int((z + g.offsetZ) / g.cellSize)

	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			nx := cx + dx
			nz := cz + dz
			if nx < 0 || nx >= g.width || nz < 0 || nz >= g.height {
				continue
			}

			for _, it := range g.cells[nz*g.width+nx] {
				ddx := it.Position.X - x
				ddz := it.Position.Z - z
				minDist := it.Radius + radius
				if ddx*ddx+ddz*ddz < minDist*minDist {
					return true
				}
			}
		}
	}

	return false
}

// Len returns the number of stored items.
func (g *SpatialHashGrid) Len() int {
	return g.count
}

// cellIndex converts world XZ to a linear cell index, -1 if out of bounds.
func (g *SpatialHashGrid) cellIndex(x, z float32) int {
	cx := int((x + g.offsetX) / g.cellSize)
	cz := int((z + g.offsetZ) / g.cellSize)

	if cx < 0 || cx >= g.width || cz < 0 || cz >= g.height {
		return -1
	}
	return cz*g.width + cx
}
