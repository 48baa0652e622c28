package world

import (
	gomath "math"
	"testing"

	"github.com/hollowpine/meadowfall/internal/engine/grass"
	"github.com/hollowpine/meadowfall/internal/engine/lake"
	"github.com/hollowpine/meadowfall/internal/engine/vegetation"
	"github.com/hollowpine/meadowfall/pkg/math"
)

func grassItem(x, z float32) vegetation.Item {
	return vegetation.Item{
		Position: math.Vec3{X: x, Z: z},
		Yaw:      1.2,
		Scale:    0.9,
		Category: vegetation.CategoryGrass,
	}
}

func TestConvertGrassCopiesPlacement(t *testing.T) {
	items := []vegetation.Item{grassItem(3, -4)}
	groups := testGroups()

	instances := ConvertGrass(items, groups, nil)
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}

	inst := instances[0]
	if inst.Position != items[0].Position {
		t.Errorf("expected position %+v, got %+v", items[0].Position, inst.Position)
	}
	if inst.Yaw != 1.2 || inst.Scale != 0.9 {
		t.Errorf("expected yaw/scale copied, got %f/%f", inst.Yaw, inst.Scale)
	}
	if inst.GroupIndex != 0 || inst.TypeIndex != 0 {
		t.Errorf("expected group/type 0 for single-entry table, got %d/%d", inst.GroupIndex, inst.TypeIndex)
	}
	if inst.WindPhase < 0 || inst.WindPhase >= 2*gomath.Pi {
		t.Errorf("expected wind phase in [0, 2pi), got %f", inst.WindPhase)
	}
}

func TestConvertGrassIndexMapping(t *testing.T) {
	// Two groups of different sizes: the roll alternates groups, then
	// walks the types within each group.
	groups := []grass.Group{
		{Name: "meadow", Weight: 1, Types: []grass.Type{
			{Name: "a", Weight: 1, Mesh: triMesh()},
			{Name: "b", Weight: 1, Mesh: triMesh()},
			{Name: "c", Weight: 1, Mesh: triMesh()},
		}},
		{Name: "reeds", Weight: 1, Types: []grass.Type{
			{Name: "d", Weight: 1, Mesh: triMesh()},
			{Name: "e", Weight: 1, Mesh: triMesh()},
		}},
	}

	cases := []struct {
		roll      int
		group, ty int
	}{
		{0, 0, 0},
		{1, 1, 0},
		{2, 0, 1},
		{3, 1, 1},
		{4, 0, 2},
		{5, 1, 0}, // (5/2)%2 wraps the two-type group
		{6, 0, 0}, // (6/2)%3 wraps the three-type group
		{7, 1, 1},
		{13, 1, 0},
	}

	items := make([]vegetation.Item, len(cases))
	for i, c := range cases {
		items[i] = grassItem(float32(i), 0)
		items[i].TypeIndex = c.roll
	}

	instances := ConvertGrass(items, groups, nil)
	if len(instances) != len(cases) {
		t.Fatalf("expected %d instances, got %d", len(cases), len(instances))
	}
	for i, c := range cases {
		if instances[i].GroupIndex != c.group || instances[i].TypeIndex != c.ty {
			t.Errorf("roll %d: expected group/type %d/%d, got %d/%d",
				c.roll, c.group, c.ty, instances[i].GroupIndex, instances[i].TypeIndex)
		}
	}
}

func TestConvertGrassDeterministic(t *testing.T) {
	groups := testGroups()
	items := make([]vegetation.Item, 64)
	for i := range items {
		items[i] = grassItem(float32(i%8)*3, float32(i/8)*3)
		items[i].TypeIndex = i
	}

	first := ConvertGrass(items, groups, nil)
	second := ConvertGrass(items, groups, nil)
	if len(first) != len(second) {
		t.Fatalf("conversion counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("instance %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestConvertGrassLakeMargin(t *testing.T) {
	hf := flatField(t, 60)
	lcfg := lake.DefaultConfig()
	lcfg.Center = math.Vec2{}
	lcfg.Radius = 5
	lk := lake.New(lcfg, hf)

	// Keep-out reaches radius + lakeMargin = 7
	items := []vegetation.Item{
		grassItem(6.5, 0), // inside the margin
		grassItem(8, 0),   // past it
	}

	instances := ConvertGrass(items, testGroups(), lk)
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}
	if instances[0].Position.X != 8 {
		t.Errorf("expected the shoreline item to be dropped, kept %+v", instances[0].Position)
	}
}

func TestConvertGrassNoGroups(t *testing.T) {
	if got := ConvertGrass([]vegetation.Item{grassItem(1, 1)}, nil, nil); got != nil {
		t.Errorf("expected nil for empty group table, got %d instances", len(got))
	}
}

func TestConvertRocks(t *testing.T) {
	items := []vegetation.Item{
		{Position: math.Vec3{X: 20, Z: 0}, Yaw: 0.3, Scale: 2, TypeIndex: 4, Category: vegetation.CategoryRock},
		{Position: math.Vec3{X: 1, Z: 1}, Scale: 1, TypeIndex: 0, Category: vegetation.CategoryRock}, // spawn clearing
		{Position: math.Vec3{X: 0, Z: 25}, Scale: 1, TypeIndex: 7, Category: vegetation.CategoryRock},
	}

	instances := ConvertRocks(items, 3, nil)
	if len(instances) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(instances))
	}

	// Raw type rolls wrap around the available models
	if instances[0].TypeIndex != 1 {
		t.Errorf("expected type 4 mod 3 = 1, got %d", instances[0].TypeIndex)
	}
	if instances[1].TypeIndex != 1 {
		t.Errorf("expected type 7 mod 3 = 1, got %d", instances[1].TypeIndex)
	}
	if instances[0].Yaw != 0.3 || instances[0].Scale != 2 {
		t.Errorf("expected yaw/scale copied, got %f/%f", instances[0].Yaw, instances[0].Scale)
	}
}

func TestConvertRocksLakeMargin(t *testing.T) {
	hf := flatField(t, 60)
	lcfg := lake.DefaultConfig()
	lcfg.Center = math.Vec2{X: 15, Y: 0}
	lcfg.Radius = 5
	lk := lake.New(lcfg, hf)

	items := []vegetation.Item{
		{Position: math.Vec3{X: 15, Z: 0}, Scale: 1, Category: vegetation.CategoryRock},  // in the lake
		{Position: math.Vec3{X: 15, Z: 10}, Scale: 1, Category: vegetation.CategoryRock}, // on land
	}

	instances := ConvertRocks(items, 1, lk)
	if len(instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(instances))
	}
	if instances[0].Position.Z != 10 {
		t.Errorf("expected the lake item to be dropped, kept %+v", instances[0].Position)
	}
}

func TestConvertRocksNoTypes(t *testing.T) {
	items := []vegetation.Item{{Position: math.Vec3{X: 20}, Scale: 1, Category: vegetation.CategoryRock}}
	if got := ConvertRocks(items, 0, nil); got != nil {
		t.Errorf("expected nil for zero rock types, got %d instances", len(got))
	}
}
