package renderer

import (
	"fmt"
	"unsafe"

	"github.com/hollowpine/meadowfall/internal/engine/device"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLAllocator creates GL buffer objects that satisfy device.Allocator. The
// vegetation fields stream per-frame instance data through these with
// map/copy/unmap.
type GLAllocator struct{}

// NewGLAllocator returns an allocator backed by the current GL context.
func NewGLAllocator() *GLAllocator {
	return &GLAllocator{}
}

// CreateUploadBuffer allocates a dynamic-draw GL buffer of the given size.
func (a *GLAllocator) CreateUploadBuffer(size int) (device.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid buffer size %d", size)
	}

	var name uint32
	gl.GenBuffers(1, &name)
	if name == 0 {
		return nil, fmt.Errorf("glGenBuffers failed")
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, name)
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteBuffers(1, &name)
		return nil, fmt.Errorf("glBufferData failed: 0x%x", errCode)
	}

	return &glBuffer{name: name, size: size}, nil
}

// glBuffer is a GL buffer object with map/copy/unmap upload semantics.
type glBuffer struct {
	name uint32
	size int
}

// Map binds the buffer and exposes its full range for writing. The previous
// contents are discarded; callers overwrite a prefix and Unmap.
func (b *glBuffer) Map() []byte {
	if b.name == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.name)
	ptr := gl.MapBufferRange(gl.ARRAY_BUFFER, 0, b.size,
		gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	if ptr == nil {
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
		return nil
	}
	return unsafe.Slice((*byte)(ptr), b.size)
}

// Unmap publishes the written range.
func (b *glBuffer) Unmap() error {
	if b.name == 0 {
		return fmt.Errorf("unmap of released buffer")
	}
	ok := gl.UnmapBuffer(gl.ARRAY_BUFFER)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if !ok {
		return fmt.Errorf("glUnmapBuffer reported data loss for buffer %d", b.name)
	}
	return nil
}

// Size returns the capacity in bytes.
func (b *glBuffer) Size() int { return b.size }

// Handle returns the GL buffer object name for vertex attribute binding.
func (b *glBuffer) Handle() uint32 { return b.name }

// Release deletes the buffer object.
func (b *glBuffer) Release() {
	if b.name != 0 {
		gl.DeleteBuffers(1, &b.name)
		b.name = 0
	}
}
