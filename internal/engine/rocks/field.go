// Package rocks maintains the runtime rock field: types with three detail
// meshes each, a chunk index over all placed instances, per-frame LOD
// classification and distance culling, and packed instance uploads into GPU
// buffers keyed by (type, LOD).
package rocks

import (
	"encoding/binary"
	"image"
	gomath "math"

	"go.uber.org/zap"

	"github.com/hollowpine/meadowfall/internal/engine/device"
	"github.com/hollowpine/meadowfall/internal/engine/lod"
	"github.com/hollowpine/meadowfall/internal/engine/mesh"
	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/math"
)

// InstanceStride is the byte size of one packed GPU instance record:
// position xyz, yaw, scale as consecutive float32s.
const InstanceStride = 20

// Type is one renderable rock variant with its three detail meshes.
type Type struct {
	Name   string
	Levels [lod.LevelCount]*mesh.Mesh
	Image  *image.RGBA
}

// Instance is one placed rock. Distance and LOD are refreshed by UpdateLOD
// and persist until the next call.
type Instance struct {
	Position  math.Vec3
	Yaw       float32
	Scale     float32
	TypeIndex int
	Distance  float32
	LOD       int
}

// Config controls culling and detail selection.
type Config struct {
	ViewDistance      float32
	ChunkSize         float32
	LODDistanceHigh   float32
	LODDistanceMedium float32
}

// DefaultConfig returns the rock tuning used when the config file does not
// override it.
func DefaultConfig() Config {
	return Config{
		ViewDistance:      100,
		ChunkSize:         32,
		LODDistanceHigh:   20,
		LODDistanceMedium: 50,
	}
}

type chunk struct {
	center    math.Vec2
	instances []Instance
}

// Field owns the rock instances, their chunk index and the per-(type, LOD)
// GPU upload buffers. Not safe for concurrent use; UpdateLOD and Cull run
// once per frame on the render goroutine.
type Field struct {
	cfg   Config
	types []Type

	all    []Instance
	chunks []chunk

	// visible[t][l] is cleared and rebuilt by every Cull call.
	visible [][lod.LevelCount][]Instance
	buffers [][lod.LevelCount]device.Buffer

	visibleChunks int
}

// New builds a field over pre-generated instances. Type indices are
// wrapped into range here, once. Instances start classified at the lowest
// detail until the first UpdateLOD. Buffers are not allocated until
// CreateBuffers.
func New(cfg Config, types []Type, instances []Instance, worldSizeX, worldSizeZ float32) *Field {
	f := &Field{cfg: cfg, types: types}

	if len(types) == 0 {
		logger.Warn("rock field created with no types, nothing will render")
		return f
	}

	f.all = make([]Instance, len(instances))
	copy(f.all, instances)
	for i := range f.all {
		in := &f.all[i]
		if in.TypeIndex < 0 || in.TypeIndex >= len(types) {
			in.TypeIndex %= len(types)
			if in.TypeIndex < 0 {
				in.TypeIndex = 0
			}
		}
		in.Distance = 0
		in.LOD = lod.LevelLow
	}

	f.visible = make([][lod.LevelCount][]Instance, len(types))
	f.buffers = make([][lod.LevelCount]device.Buffer, len(types))

	f.organizeIntoChunks(worldSizeX, worldSizeZ)

	logger.Info("rock field built",
		zap.Int("instances", len(f.all)),
		zap.Int("types", len(types)),
		zap.Int("chunks", len(f.chunks)),
	)
	return f
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

// CreateBuffers allocates one upload buffer per (type, LOD) pair. Every
// buffer holds the type's entire instance count, because instances migrate
// between LOD levels at runtime and any single level can end up with all of
// them. A type with no instances keeps nil buffers; a failed allocation
// leaves that one bucket nil and skipped for the lifetime of the field.
func (f *Field) CreateBuffers(alloc device.Allocator) {
	totals := make([]int, len(f.types))
	for _, inst := range f.all {
		totals[inst.TypeIndex]++
	}

	for t := range f.types {
		if totals[t] == 0 {
			continue
		}
		for l := 0; l < lod.LevelCount; l++ {
			buf, err := alloc.CreateUploadBuffer(totals[t] * InstanceStride)
			if err != nil {
				logger.Error("rock instance buffer allocation failed",
					zap.String("type", f.types[t].Name),
					zap.Int("lod", l),
					zap.Error(err),
				)
				continue
			}
			f.buffers[t][l] = buf
		}
	}
}

// UpdateLOD recomputes the camera distance of every instance in every chunk
// and reclassifies its detail level. The full sweep runs every frame.
func (f *Field) UpdateLOD(cameraPos math.Vec3) {
	for i := range f.chunks {
		insts := f.chunks[i].instances
		for j := range insts {
			in := &insts[j]
			dx := in.Position.X - cameraPos.X
			dz := in.Position.Z - cameraPos.Z
			in.Distance = float32(gomath.Sqrt(float64(dx*dx + dz*dz)))
			in.LOD = lod.Classify(in.Distance, f.cfg.LODDistanceHigh, f.cfg.LODDistanceMedium)
		}
	}
}

// Cull rebuilds the visible buckets for the given camera position and
// uploads every non-empty bucket to its GPU buffer. Visibility is a coarse
// XZ distance test against chunk centers, so instances slightly beyond
// ViewDistance can survive, but nothing within it is ever dropped.
func (f *Field) Cull(cameraPos math.Vec3) {
	for t := range f.visible {
		for l := range f.visible[t] {
			f.visible[t][l] = f.visible[t][l][:0]
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
			if inst.TypeIndex < 0 || inst.TypeIndex >= len(f.visible) {
				continue
			}
			if inst.LOD < 0 || inst.LOD >= lod.LevelCount {
				continue
			}
			f.visible[inst.TypeIndex][inst.LOD] = append(f.visible[inst.TypeIndex][inst.LOD], inst)
		}
	}

	f.upload()
}

func (f *Field) upload() {
	for t := range f.visible {
		for l := range f.visible[t] {
			bucket := f.visible[t][l]
			buf := f.buffers[t][l]
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

// packInstance writes one GPU record: position xyz, yaw, scale as
// little-endian float32s. Distance and LOD stay CPU-side.
func packInstance(dst []byte, inst *Instance) {
	le := binary.LittleEndian
	le.PutUint32(dst[0:], gomath.Float32bits(inst.Position.X))
	le.PutUint32(dst[4:], gomath.Float32bits(inst.Position.Y))
	le.PutUint32(dst[8:], gomath.Float32bits(inst.Position.Z))
	le.PutUint32(dst[12:], gomath.Float32bits(inst.Yaw))
	le.PutUint32(dst[16:], gomath.Float32bits(inst.Scale))
}

// Config returns the field configuration.
func (f *Field) Config() Config { return f.cfg }

// Types returns the type table. Callers must not modify it.
func (f *Field) Types() []Type { return f.types }

// Instances returns every instance in the field. Callers must not modify
// the slice; LOD and distance values reflect field construction, not the
// per-chunk state UpdateLOD maintains.
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
	for t := range f.visible {
		for l := range f.visible[t] {
			total += len(f.visible[t][l])
		}
	}
	return total
}

// VisibleLODCount returns the size of one visible bucket, 0 for indices
// out of range.
func (f *Field) VisibleLODCount(typ, level int) int {
	if typ < 0 || typ >= len(f.visible) {
		return 0
	}
	if level < 0 || level >= lod.LevelCount {
		return 0
	}
	return len(f.visible[typ][level])
}

// Buffer returns the upload buffer for one bucket, nil for indices out of
// range or failed allocations.
func (f *Field) Buffer(typ, level int) device.Buffer {
	if typ < 0 || typ >= len(f.buffers) {
		return nil
	}
	if level < 0 || level >= lod.LevelCount {
		return nil
	}
	return f.buffers[typ][level]
}

// Release frees all GPU buffers.
func (f *Field) Release() {
	for t := range f.buffers {
		for l := range f.buffers[t] {
			if f.buffers[t][l] != nil {
				f.buffers[t][l].Release()
				f.buffers[t][l] = nil
			}
		}
	}
}

// TypeStats is the static instance count of one type.
type TypeStats struct {
	Name  string
	Count int
}

// Stats summarizes the static instance distribution.
type Stats struct {
	Total  int
	Chunks int
	Types  []TypeStats
}

// Stats returns the static distribution of instances across types.
func (f *Field) Stats() Stats {
	s := Stats{Total: len(f.all), Chunks: len(f.chunks)}
	counts := make([]int, len(f.types))
	for _, inst := range f.all {
		counts[inst.TypeIndex]++
	}
	for t := range f.types {
		s.Types = append(s.Types, TypeStats{Name: f.types[t].Name, Count: counts[t]})
	}
	return s
}

// LogStatistics writes the instance distribution to the log.
func (f *Field) LogStatistics() {
	s := f.Stats()
	fields := []zap.Field{
		zap.Int("instances", s.Total),
		zap.Int("chunks", s.Chunks),
	}
	for _, ts := range s.Types {
		fields = append(fields, zap.Int(ts.Name, ts.Count))
	}
	logger.Info("rock field statistics", fields...)
}
