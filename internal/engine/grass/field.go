// Package grass maintains the runtime grass field: weighted groups of
// renderable types, a chunk index over all placed instances, per-frame
// distance culling, and packed instance uploads into GPU buffers.
package grass

import (
	"encoding/binary"
	"image"
	gomath "math"

	"go.uber.org/zap"

	"github.com/hollowpine/meadowfall/internal/engine/device"
	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// InstanceStride is the byte size of one packed GPU instance record:
// position xyz, yaw, scale, wind phase as consecutive float32s.
const InstanceStride = 24

// Type is one renderable grass variant: a mesh plus its texture image and a
// selection weight within its group.
type Type struct {
	Name   string
	Weight float32
	Mesh   *mesh.Mesh
	Image  *image.RGBA
}

// Group bundles related grass types under one distribution weight.
type Group struct {
	Name   string
	Weight float32
	Types  []Type
}

// Instance is one placed grass object. GroupIndex and TypeIndex address the
// field's group table; they are wrapped into range once when the field is
// built and trusted afterwards.
type Instance struct {
	Position   math.Vec3
	Yaw        float32
	Scale      float32
	WindPhase  float32
	GroupIndex int
	TypeIndex  int
}

// Config controls culling and wind animation.
type Config struct {
	ViewDistance  float32
	ChunkSize     float32
	WindDirection math.Vec2
	WindStrength  float32
	WindSpeed     float32
}

// DefaultConfig returns the grass tuning used when the config file does not
// override it.
func DefaultConfig() Config {
	return Config{
		ViewDistance:  50,
		ChunkSize:     16,
		WindDirection: math.Vec2{X: 1, Y: 0.5},
		WindStrength:  1.5,
		WindSpeed:     1,
	}
}

// chunk is one cell of the spatial index. The center is precomputed so the
// per-frame visibility test is a single squared-distance compare.
type chunk struct {
	center    math.Vec2
	instances []Instance
}

// Field owns the grass instances, their chunk index and the per-type GPU
// upload buffers. It is not safe for concurrent use; Cull runs once per
// frame on the render goroutine.
type Field struct {
	cfg    Config
	groups []Group

	all    []Instance
	chunks []chunk

	// totals[g][t] is the static instance count per bucket, fixed at build
	// time and used for buffer sizing and statistics.
	totals [][]int

	// visible[g][t] is cleared and rebuilt by every Cull call.
	visible [][][]Instance
	buffers [][]device.Buffer

	windTime      float32
	visibleChunks int
}

// New builds a field over pre-generated instances. Instance group/type
// indices are wrapped into the valid range here, once. GPU buffers are not
// allocated until CreateBuffers; a field without buffers still culls and
// reports statistics, which is all the headless tools need.
func New(cfg Config, groups []Group, instances []Instance, worldSizeX, worldSizeZ float32) *Field {
	f := &Field{cfg: cfg, groups: groups}

	if len(groups) == 0 {
		logger.Warn("grass field created with no groups, nothing will render")
		return f
	}

	NormalizeWeights(groups)

	f.all = make([]Instance, len(instances))
	copy(f.all, instances)
	for i := range f.all {
		wrapIndices(&f.all[i], groups)
	}

	f.totals = make([][]int, len(groups))
	f.visible = make([][][]Instance, len(groups))
	f.buffers = make([][]device.Buffer, len(groups))
	for g := range groups {
		n := len(groups[g].Types)
		f.totals[g] = make([]int, n)
		f.visible[g] = make([][]Instance, n)
		f.buffers[g] = make([]device.Buffer, n)
	}
	for _, inst := range f.all {
		if inst.TypeIndex >= 0 && inst.TypeIndex < len(f.totals[inst.GroupIndex]) {
			f.totals[inst.GroupIndex][inst.TypeIndex]++
		}
	}

	f.organizeIntoChunks(worldSizeX, worldSizeZ)

	logger.Info("grass field built",
		zap.Int("instances", len(f.all)),
		zap.Int("groups", len(groups)),
		zap.Int("chunks", len(f.chunks)),
	)
	return f
}

// wrapIndices folds out-of-range group/type indices back into range. A
// negative remainder clamps to zero.
func wrapIndices(inst *Instance, groups []Group) {
	if inst.GroupIndex < 0 || inst.GroupIndex >= len(groups) {
		inst.GroupIndex %= len(groups)
		if inst.GroupIndex < 0 {
			inst.GroupIndex = 0
		}
	}
	if n := len(groups[inst.GroupIndex].Types); n > 0 && (inst.TypeIndex < 0 || inst.TypeIndex >= n) {
		inst.TypeIndex %= n
		if inst.TypeIndex < 0 {
			inst.TypeIndex = 0
		}
	}
}

// organizeIntoChunks lays a ceil(sizeX/chunk) x ceil(sizeZ/chunk) grid over
// the world, centered on the origin, and assigns every instance to exactly
// one chunk. Edge instances clamp into the edge chunks, never drop.
func (f *Field) organizeIntoChunks(worldSizeX, worldSizeZ float32) {
	halfX := worldSizeX * 0.5
	halfZ := worldSizeZ * 0.5

	numX := int(gomath.Ceil(float64(worldSizeX / f.cfg.ChunkSize)))
	numZ := int(gomath.Ceil(float64(worldSizeZ / f.cfg.ChunkSize)))
	if numX < 1 {
		numX = 1
	}
	if numZ < 1 {
		numZ = 1
	}

	f.chunks = make([]chunk, numX*numZ)
	for cz := 0; cz < numZ; cz++ {
		for cx := 0; cx < numX; cx++ {
			minX := float32(cx)*f.cfg.ChunkSize - halfX
			minZ := float32(cz)*f.cfg.ChunkSize - halfZ
			f.chunks[cz*numX+cx].center = math.Vec2{
				X: minX + f.cfg.ChunkSize*0.5,
				Y: minZ + f.cfg.ChunkSize*0.5,
			}
		}
	}

	for _, inst := range f.all {
		cx := clampIndex(int((inst.Position.X+halfX)/f.cfg.ChunkSize), numX)
		cz := clampIndex(int((inst.Position.Z+halfZ)/f.cfg.ChunkSize), numZ)
		c := &f.chunks[cz*numX+cx]
		c.instances = append(c.instances, inst)
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// CreateBuffers allocates one upload buffer per (group, type) pair. Each
// buffer holds the group's entire instance count, so any single bucket can
// absorb the whole group; buffers are never resized afterwards. A failed
// allocation leaves a nil buffer and that bucket stays skipped for the
// lifetime of the field.
func (f *Field) CreateBuffers(alloc device.Allocator) {
	for g := range f.groups {
		groupTotal := 0
		for _, n := range f.totals[g] {
			groupTotal += n
		}

		slots := groupTotal
		if slots == 0 {
			slots = 1000
		}

		for t := range f.groups[g].Types {
			buf, err := alloc.CreateUploadBuffer(slots * InstanceStride)
			if err != nil {
				logger.Error("grass instance buffer allocation failed",
					zap.String("group", f.groups[g].Name),
					zap.Int("type", t),
					zap.Error(err),
				)
				continue
			}
			f.buffers[g][t] = buf
		}
	}
}

// Cull rebuilds the visible buckets for the given camera position and
// uploads every non-empty bucket to its GPU buffer. Visibility is a coarse
// XZ distance test against chunk centers, so instances slightly beyond
// ViewDistance can survive, but nothing within it is ever dropped.
func (f *Field) Cull(cameraPos math.Vec3) {
	for g := range f.visible {
		for t := range f.visible[g] {
			f.visible[g][t] = f.visible[g][t][:0]
		}
	}
	f.visibleChunks = 0

	maxDist := f.cfg.ViewDistance + f.cfg.ChunkSize*0.5
	maxDistSq := maxDist * maxDist

	for i := range f.chunks {
		c := &f.chunks[i]
		dx := c.center.X - cameraPos.X
		dz := c.center.Y - cameraPos.Z
		if dx*dx+dz*dz > maxDistSq {
			continue
		}
		f.visibleChunks++

		for _, inst := range c.instances {
			if inst.GroupIndex < 0 || inst.GroupIndex >= len(f.visible) {
				continue
			}
			byType := f.visible[inst.GroupIndex]
			if inst.TypeIndex < 0 || inst.TypeIndex >= len(byType) {
				continue
			}
			byType[inst.TypeIndex] = append(byType[inst.TypeIndex], inst)
		}
	}

	f.upload()
}

// upload packs each visible bucket into its buffer with map/copy/unmap.
// Empty buckets and nil buffers are skipped.
func (f *Field) upload() {
	for g := range f.visible {
		for t := range f.visible[g] {
			bucket := f.visible[g][t]
			buf := f.buffers[g][t]
			if len(bucket) == 0 || buf == nil {
				continue
			}

			data := buf.Map()
			if data == nil {
				continue
			}
			for i := range bucket {
				packInstance(data[i*InstanceStride:], &bucket[i])
			}
			_ = buf.Unmap()
		}
	}
}

// packInstance writes one GPU record: position xyz, yaw, scale, wind phase
// as little-endian float32s.
func packInstance(dst []byte, inst *Instance) {
	le := binary.LittleEndian
	le.PutUint32(dst[0:], gomath.Float32bits(inst.Position.X))
	le.PutUint32(dst[4:], gomath.Float32bits(inst.Position.Y))
	le.PutUint32(dst[8:], gomath.Float32bits(inst.Position.Z))
	le.PutUint32(dst[12:], gomath.Float32bits(inst.Yaw))
	le.PutUint32(dst[16:], gomath.Float32bits(inst.Scale))
	le.PutUint32(dst[20:], gomath.Float32bits(inst.WindPhase))
}

// Update advances the wind animation clock.
func (f *Field) Update(dt float32) {
	f.windTime += dt * f.cfg.WindSpeed
}

// WindTime returns the wind animation clock, fed to the grass shader.
func (f *Field) WindTime() float32 { return f.windTime }

// Config returns the field configuration.
func (f *Field) Config() Config { return f.cfg }

// Groups returns the group table. Callers must not modify it.
func (f *Field) Groups() []Group { return f.groups }

// Instances returns every instance in the field. Callers must not modify
// the slice.
func (f *Field) Instances() []Instance { return f.all }

// InstanceCount returns the total number of instances in the field.
func (f *Field) InstanceCount() int { return len(f.all) }

// ChunkCount returns the size of the chunk index.
func (f *Field) ChunkCount() int { return len(f.chunks) }

// VisibleChunks returns how many chunks passed the last Cull.
func (f *Field) VisibleChunks() int { return f.visibleChunks }

// VisibleCount returns the total instances that survived the last Cull.
func (f *Field) VisibleCount() int {
	total := 0
	for g := range f.visible {
		for t := range f.visible[g] {
			total += len(f.visible[g][t])
		}
	}
	return total
}

// VisibleTypeCount returns the size of one visible bucket, 0 for indices
// out of range.
func (f *Field) VisibleTypeCount(group, typ int) int {
	if group < 0 || group >= len(f.visible) {
		return 0
	}
	if typ < 0 || typ >= len(f.visible[group]) {
		return 0
	}
	return len(f.visible[group][typ])
}

// Buffer returns the upload buffer for one bucket, nil for indices out of
// range or failed allocations.
func (f *Field) Buffer(group, typ int) device.Buffer {
	if group < 0 || group >= len(f.buffers) {
		return nil
	}
	if typ < 0 || typ >= len(f.buffers[group]) {
		return nil
	}
	return f.buffers[group][typ]
}

// Release frees all GPU buffers.
func (f *Field) Release() {
	for g := range f.buffers {
		for t := range f.buffers[g] {
			if f.buffers[g][t] != nil {
				f.buffers[g][t].Release()
				f.buffers[g][t] = nil
			}
		}
	}
}

// TypeStats is the static instance count of one type.
type TypeStats struct {
	Name  string
	Count int
}

// GroupStats aggregates one group's types.
type GroupStats struct {
	Name  string
	Count int
	Types []TypeStats
}

// Stats summarizes the static instance distribution.
type Stats struct {
	Total     int
	Chunks    int
	DrawCalls int
	Groups    []GroupStats
}

// Stats returns the static distribution of instances across groups and
// types. DrawCalls counts (group, type) pairs, the per-frame worst case.
func (f *Field) Stats() Stats {
	s := Stats{Total: len(f.all), Chunks: len(f.chunks)}
	for g := range f.groups {
		gs := GroupStats{Name: f.groups[g].Name}
		for t := range f.groups[g].Types {
			n := f.totals[g][t]
			gs.Types = append(gs.Types, TypeStats{Name: f.groups[g].Types[t].Name, Count: n})
			gs.Count += n
			s.DrawCalls++
		}
		s.Groups = append(s.Groups, gs)
	}
	return s
}

// LogStatistics writes the instance distribution to the log.
func (f *Field) LogStatistics() {
	s := f.Stats()
	logger.Info("grass field statistics",
		zap.Int("instances", s.Total),
		zap.Int("chunks", s.Chunks),
		zap.Int("draw_calls", s.DrawCalls),
	)
	for _, g := range s.Groups {
		fields := []zap.Field{
			zap.String("group", g.Name),
			zap.Int("count", g.Count),
		}
		for _, t := range g.Types {
			fields = append(fields, zap.Int(t.Name, t.Count))
		}
		logger.Info("grass group", fields...)
	}
}
