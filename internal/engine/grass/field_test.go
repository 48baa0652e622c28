package grass

import (
	"encoding/binary"
	gomath "math"
	"os"
	"testing"

	"github.com/hollowpine/meadowfall/internal/engine/device"
	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/math"
)

func TestMain(m *testing.M) {
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testGroups builds two groups with three types total. Meshes and images
// stay nil; the field never dereferences them.
func testGroups() []Group {
	return []Group{
		{Name: "meadow", Weight: 2, Types: []Type{
			{Name: "short", Weight: 3},
			{Name: "tall", Weight: 1},
		}},
		{Name: "flowers", Weight: 1, Types: []Type{
			{Name: "daisy", Weight: 1},
		}},
	}
}

// inst tags every instance with a serial wind phase so tests can track
// identity through chunking and culling.
func inst(x, z float32, group, typ int, id int) Instance {
	return Instance{
		Position:   math.Vec3{X: x, Y: 1, Z: z},
		Yaw:        0.5,
		Scale:      1,
		WindPhase:  float32(id),
		GroupIndex: group,
		TypeIndex:  typ,
	}
}

func TestNewWrapsIndices(t *testing.T) {
	instances := []Instance{
		inst(0, 0, 5, 0, 0),  // group 5 % 2 = 1
		inst(0, 0, -3, 0, 1), // negative remainder clamps to 0
		inst(0, 0, 0, 7, 2),  // type 7 % 2 = 1 within group 0
		inst(0, 0, 1, -2, 3), // negative type clamps to 0
		inst(0, 0, 1, 0, 4),  // already valid, untouched
	}

	f := New(DefaultConfig(), testGroups(), instances, 100, 100)

	want := [][2]int{{1, 0}, {0, 0}, {0, 1}, {1, 0}, {1, 0}}
	for i, w := range want {
		got := f.all[i]
		if got.GroupIndex != w[0] || got.TypeIndex != w[1] {
			t.Errorf("instance %d: wrapped to group %d type %d, want group %d type %d",
				i, got.GroupIndex, got.TypeIndex, w[0], w[1])
		}
	}

	// The caller's slice must stay untouched.
	if instances[0].GroupIndex != 5 {
		t.Error("New modified the input slice")
	}
}

func TestChunkCoverage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 16

	// 100/16 rounds up to 7 chunks per axis.
	instances := []Instance{
		inst(0, 0, 0, 0, 0),
		inst(-50, -50, 0, 0, 1), // exact corner, clamps into chunk (0, 0)
		inst(50, 50, 0, 0, 2),   // opposite corner, clamps into chunk (6, 6)
		inst(-50, 50, 0, 0, 3),
		inst(50, -50, 0, 0, 4),
		inst(-12.7, 31.9, 0, 0, 5),
		inst(7.5, -44.2, 1, 0, 6),
		inst(49.99, 0, 0, 1, 7),
		inst(-0.01, 0.01, 0, 1, 8),
	}

	f := New(cfg, testGroups(), instances, 100, 100)

	if len(f.chunks) != 7*7 {
		t.Fatalf("chunk count = %d, want %d", len(f.chunks), 7*7)
	}

	seen := map[int]int{}
	for _, c := range f.chunks {
		for _, in := range c.instances {
			seen[int(in.WindPhase)]++
		}
	}
	if len(seen) != len(instances) {
		t.Errorf("chunks hold %d distinct instances, want %d", len(seen), len(instances))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("instance %d appears in %d chunks, want exactly 1", id, n)
		}
	}
}

func TestChunkCentersWorldAligned(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 16

	f := New(cfg, testGroups(), nil, 100, 100)

	// First chunk starts at the negative world edge.
	first := f.chunks[0].center
	if first.X != -50+8 || first.Y != -50+8 {
		t.Errorf("first chunk center = (%g, %g), want (-42, -42)", first.X, first.Y)
	}
	last := f.chunks[len(f.chunks)-1].center
	if last.X != -50+6*16+8 || last.Y != -50+6*16+8 {
		t.Errorf("last chunk center = (%g, %g), want (54, 54)", last.X, last.Y)
	}
}

// TestCullSoundness checks the coarse visibility contract: every chunk
// whose center lies within ViewDistance contributes all of its instances,
// and no chunk beyond ViewDistance + ChunkSize/2 contributes any.
func TestCullSoundness(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ViewDistance = 50
	cfg.ChunkSize = 16

	var instances []Instance
	id := 0
	for x := float32(-96); x <= 96; x += 16 {
		for z := float32(-96); z <= 96; z += 16 {
			instances = append(instances, inst(x, z, 0, 0, id))
			id++
		}
	}

	f := New(cfg, testGroups(), instances, 200, 200)
	camera := math.Vec3{X: 0, Y: 5, Z: 0}
	f.Cull(camera)

	visible := map[int]bool{}
	for g := range f.visible {
		for typ := range f.visible[g] {
			for _, in := range f.visible[g][typ] {
				visible[int(in.WindPhase)] = true
			}
		}
	}

	margin := cfg.ViewDistance + cfg.ChunkSize/2
	for _, c := range f.chunks {
		dx := float64(c.center.X - camera.X)
		dz := float64(c.center.Y - camera.Z)
		dist := gomath.Sqrt(dx*dx + dz*dz)

		for _, in := range c.instances {
			isVisible := visible[int(in.WindPhase)]
			if dist <= float64(cfg.ViewDistance) && !isVisible {
				t.Errorf("instance %d in chunk at distance %.1f culled inside view distance",
					int(in.WindPhase), dist)
			}
			if dist > float64(margin) && isVisible {
				t.Errorf("instance %d in chunk at distance %.1f visible beyond margin %.1f",
					int(in.WindPhase), dist, margin)
			}
		}
	}

	if f.VisibleCount() != len(visible) {
		t.Errorf("VisibleCount() = %d, want %d", f.VisibleCount(), len(visible))
	}
	if f.VisibleCount() == 0 {
		t.Fatal("nothing visible with camera at world center")
	}
}

func TestCullExactBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ViewDistance = 50
	cfg.ChunkSize = 16

	// One instance in a single chunk; world 16x16 has its chunk center at
	// the origin. Margin is exactly 58.
	f := New(cfg, testGroups(), []Instance{inst(0, 0, 0, 0, 0)}, 16, 16)

	f.Cull(math.Vec3{X: 58, Z: 0})
	if f.VisibleCount() != 1 {
		t.Errorf("chunk center exactly at margin: VisibleCount() = %d, want 1", f.VisibleCount())
	}

	f.Cull(math.Vec3{X: 58.5, Z: 0})
	if f.VisibleCount() != 0 {
		t.Errorf("chunk center past margin: VisibleCount() = %d, want 0", f.VisibleCount())
	}
}

func TestCullRebuildIsFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ViewDistance = 20
	cfg.ChunkSize = 16

	instances := []Instance{
		inst(-90, -90, 0, 0, 0),
		inst(90, 90, 0, 0, 1),
	}
	f := New(cfg, testGroups(), instances, 200, 200)

	f.Cull(math.Vec3{X: -90, Z: -90})
	if f.VisibleCount() != 1 {
		t.Fatalf("first cull: VisibleCount() = %d, want 1", f.VisibleCount())
	}

	// Moving the camera across the world must not leak the old bucket.
	f.Cull(math.Vec3{X: 90, Z: 90})
	if f.VisibleCount() != 1 {
		t.Fatalf("second cull: VisibleCount() = %d, want 1", f.VisibleCount())
	}
	if got := f.visible[0][0][0]; int(got.WindPhase) != 1 {
		t.Errorf("second cull kept instance %d, want 1", int(got.WindPhase))
	}
}

func readRecord(data []byte, i int) [6]float32 {
	var rec [6]float32
	for j := range rec {
		bits := binary.LittleEndian.Uint32(data[i*InstanceStride+j*4:])
		rec[j] = gomath.Float32frombits(bits)
	}
	return rec
}

func TestCullUploadsPackedRecords(t *testing.T) {
	cfg := DefaultConfig()
	groups := []Group{
		{Name: "meadow", Weight: 1, Types: []Type{
			{Name: "short", Weight: 1},
			{Name: "tall", Weight: 1},
		}},
	}
	instances := []Instance{
		{Position: math.Vec3{X: 1, Y: 2, Z: 3}, Yaw: 0.25, Scale: 1.5, WindPhase: 4.5, GroupIndex: 0, TypeIndex: 0},
		{Position: math.Vec3{X: -2, Y: 0, Z: 5}, Yaw: 1.25, Scale: 0.8, WindPhase: 0.1, GroupIndex: 0, TypeIndex: 1},
		{Position: math.Vec3{X: 4, Y: 1, Z: -6}, Yaw: 2, Scale: 1.1, WindPhase: 2.2, GroupIndex: 0, TypeIndex: 0},
	}

	// World 16x16 keeps everything in one chunk, so bucket order is input
	// order.
	f := New(cfg, groups, instances, 16, 16)
	alloc := device.NewMemAllocator()
	f.CreateBuffers(alloc)
	f.Cull(math.Vec3{})

	if got := f.VisibleTypeCount(0, 0); got != 2 {
		t.Fatalf("VisibleTypeCount(0, 0) = %d, want 2", got)
	}
	if got := f.VisibleTypeCount(0, 1); got != 1 {
		t.Fatalf("VisibleTypeCount(0, 1) = %d, want 1", got)
	}

	data := device.MemBytes(f.Buffer(0, 0))
	if data == nil {
		t.Fatal("type 0 buffer has no backing memory")
	}
	want := [][6]float32{
		{1, 2, 3, 0.25, 1.5, 4.5},
		{4, 1, -6, 2, 1.1, 2.2},
	}
	for i, w := range want {
		if got := readRecord(data, i); got != w {
			t.Errorf("record %d = %v, want %v", i, got, w)
		}
	}

	data = device.MemBytes(f.Buffer(0, 1))
	if got, w := readRecord(data, 0), ([6]float32{-2, 0, 5, 1.25, 0.8, 0.1}); got != w {
		t.Errorf("type 1 record = %v, want %v", got, w)
	}
}

func TestCreateBuffersSizedToGroupTotal(t *testing.T) {
	cfg := DefaultConfig()
	instances := []Instance{
		inst(0, 0, 0, 0, 0),
		inst(1, 0, 0, 0, 1),
		inst(2, 0, 0, 0, 2),
		inst(3, 0, 0, 1, 3),
		inst(4, 0, 0, 1, 4),
	}

	f := New(cfg, testGroups(), instances, 100, 100)
	f.CreateBuffers(device.NewMemAllocator())

	// Both meadow buffers hold the whole group (5 instances).
	for typ := 0; typ < 2; typ++ {
		if got := f.Buffer(0, typ).Size(); got != 5*InstanceStride {
			t.Errorf("meadow type %d buffer size = %d, want %d", typ, got, 5*InstanceStride)
		}
	}

	// The empty flowers group still gets a usable buffer.
	if got := f.Buffer(1, 0).Size(); got != 1000*InstanceStride {
		t.Errorf("empty group buffer size = %d, want %d", got, 1000*InstanceStride)
	}
}

func TestCullSkipsNilBuffers(t *testing.T) {
	cfg := DefaultConfig()
	instances := []Instance{inst(0, 0, 0, 0, 0), inst(1, 1, 0, 1, 1)}

	f := New(cfg, testGroups(), instances, 16, 16)
	alloc := device.NewMemAllocator()
	alloc.FailAfter = 0
	f.CreateBuffers(alloc)

	if f.Buffer(0, 0) != nil {
		t.Fatal("expected nil buffer after failed allocation")
	}

	// Culling must still work without any upload targets.
	f.Cull(math.Vec3{})
	if f.VisibleCount() != 2 {
		t.Errorf("VisibleCount() = %d, want 2", f.VisibleCount())
	}
}

func TestStats(t *testing.T) {
	cfg := DefaultConfig()
	instances := []Instance{
		inst(0, 0, 0, 0, 0),
		inst(1, 0, 0, 0, 1),
		inst(2, 0, 0, 1, 2),
		inst(3, 0, 1, 0, 3),
	}

	f := New(cfg, testGroups(), instances, 100, 100)
	s := f.Stats()

	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.DrawCalls != 3 {
		t.Errorf("DrawCalls = %d, want 3", s.DrawCalls)
	}
	if s.Groups[0].Count != 3 || s.Groups[1].Count != 1 {
		t.Errorf("group counts = %d/%d, want 3/1", s.Groups[0].Count, s.Groups[1].Count)
	}
	if s.Groups[0].Types[0].Count != 2 || s.Groups[0].Types[1].Count != 1 {
		t.Errorf("meadow type counts = %d/%d, want 2/1",
			s.Groups[0].Types[0].Count, s.Groups[0].Types[1].Count)
	}

	// Exercises the log path; the quiet test logger swallows the output.
	f.LogStatistics()
}

func TestAccessorsOutOfRange(t *testing.T) {
	f := New(DefaultConfig(), testGroups(), nil, 100, 100)

	if f.Buffer(-1, 0) != nil || f.Buffer(0, 9) != nil || f.Buffer(9, 0) != nil {
		t.Error("Buffer must return nil out of range")
	}
	if f.VisibleTypeCount(-1, 0) != 0 || f.VisibleTypeCount(0, 9) != 0 {
		t.Error("VisibleTypeCount must return 0 out of range")
	}
}

func TestUpdateAdvancesWindClock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindSpeed = 2

	f := New(cfg, testGroups(), nil, 16, 16)
	f.Update(0.5)
	f.Update(0.25)

	if got := f.WindTime(); gomath.Abs(float64(got-1.5)) > 1e-6 {
		t.Errorf("WindTime() = %g, want 1.5", got)
	}
}

func TestNewWithoutGroups(t *testing.T) {
	f := New(DefaultConfig(), nil, []Instance{inst(0, 0, 0, 0, 0)}, 100, 100)

	if f.InstanceCount() != 0 {
		t.Errorf("InstanceCount() = %d, want 0 without groups", f.InstanceCount())
	}
	f.Cull(math.Vec3{})
	if f.VisibleCount() != 0 {
		t.Errorf("VisibleCount() = %d, want 0", f.VisibleCount())
	}
}

func TestReleaseDropsBuffers(t *testing.T) {
	f := New(DefaultConfig(), testGroups(), []Instance{inst(0, 0, 0, 0, 0)}, 16, 16)
	f.CreateBuffers(device.NewMemAllocator())

	if f.Buffer(0, 0) == nil {
		t.Fatal("buffer missing before release")
	}
	f.Release()
	if f.Buffer(0, 0) != nil {
		t.Error("buffer still present after release")
	}
}
