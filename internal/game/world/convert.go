package world

import (
	gomath "math"
	"math/rand"

	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/lake"
	"github.com/hollowpine/meadowfall/internal/engine/rocks"
	"github.com/hollowpine/meadowfall/internal/engine/vegetation"
	"github.com/hollowpine/meadowfall/pkg/math"
)

const (
	// lakeMargin extends the vegetation keep-out past the water edge, so
	// the shoreline strip stays bare.
	lakeMargin = 2.0

	// spawnClearRadius is the rock-free zone around the world origin where
	// the player starts.
	spawnClearRadius = 5.0

	// windPhaseSeed fixes the wind phase stream independently of the world
	// seed, so phases never shift placement results between presets.
	windPhaseSeed = 12345
)

// ConvertGrass maps placement items onto the loaded grass groups. Items in
// the lake margin are dropped. The generator's type roll spreads across
// groups first and over the types within the chosen group second, both by
// modulo. Wind phases are drawn from a fixed-seed stream, one per kept
// item, so the same item list always converts to the same instances.
func ConvertGrass(items []vegetation.Item, groups []grass.Group, lk *lake.Lake) []grass.Instance {
	if len(groups) == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(windPhaseSeed))
	instances := make([]grass.Instance, 0, len(items))
	for _, item := range items {
		if inLakeMargin(lk, item.Position.X, item.Position.Z) {
			continue
		}

		gi := item.TypeIndex % len(groups)
		n := len(groups[gi].Types)
		if n == 0 {
			continue
		}
		ti := (item.TypeIndex / len(groups)) % n

		instances = append(instances, grass.Instance{
			Position:   item.Position,
			Yaw:        item.Yaw,
			Scale:      item.Scale,
			WindPhase:  rng.Float32() * 2 * gomath.Pi,
			GroupIndex: gi,
			TypeIndex:  ti,
		})
	}
	return instances
}

// ConvertRocks maps placement items onto the loaded rock types, spreading
// the generator's type roll over the available models by modulo. Items in
// the lake margin or the spawn clearing are dropped.
func ConvertRocks(items []vegetation.Item, typeCount int, lk *lake.Lake) []rocks.Instance {
	if typeCount <= 0 {
		return nil
	}

	instances := make([]rocks.Instance, 0, len(items))
	for _, item := range items {
		if inLakeMargin(lk, item.Position.X, item.Position.Z) {
			continue
		}
		if item.Position.XZ().LengthSq() < spawnClearRadius*spawnClearRadius {
			continue
		}

		instances = append(instances, rocks.Instance{
			Position:  item.Position,
			Yaw:       item.Yaw,
			Scale:     item.Scale,
			TypeIndex: item.TypeIndex % typeCount,
		})
	}
	return instances
}

// inLakeMargin reports whether (x, z) falls inside the lake keep-out.
func inLakeMargin(lk *lake.Lake, x, z float32) bool {
	if lk == nil {
		return false
	}
	keep := lk.Radius() + lakeMargin
	return math.Vec2{X: x, Y: z}.DistanceSq(lk.Center()) < keep*keep
}
