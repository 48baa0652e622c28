package vegetation

import (
	"github.com/hollowpine/meadowfall/pkg/math"
)

// Category is the top-level vegetation kind. Each category selects its own
// meshes, scale range and cluster behavior.
type Category int

const (
	CategoryGrass Category = iota
	CategoryRock
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategoryGrass:
		return "grass"
	case CategoryRock:
		return "rock"
	default:
		return "unknown"
	}
}

// Item is one placed vegetation object. Items are created by the generator
// and never mutated afterward; runtime instance lists copy the fields they
// need.
type Item struct {
	Position math.Vec3
	// Yaw is the rotation around the vertical axis, in radians.
	Yaw   float32
	Scale float32
	// TypeIndex selects a mesh/texture within the category.
	TypeIndex int
	Category  Category
	// Radius is the placement footprint (category base radius times scale),
	// used only for overlap tests during generation.
	Radius float32
}
