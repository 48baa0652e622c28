// Package device abstracts GPU upload buffers behind small interfaces so
// the vegetation fields can feed instance data without knowing whether a GL
// context exists. The renderer provides the GL-backed implementation; this
// package ships an in-memory one for tests and headless tools.
package device

import "fmt"

// Buffer is a fixed-capacity upload buffer written with map/copy/unmap
// semantics. Map returns the full backing range; the caller copies packed
// instance records into a prefix of it and calls Unmap.
type Buffer interface {
	// Map exposes the buffer storage for writing. Returns nil if the
	// buffer cannot be mapped.
	Map() []byte
	// Unmap publishes the written data.
	Unmap() error
	// Size returns the capacity in bytes.
	Size() int
	// Handle returns the underlying GPU object name, 0 for host memory.
	Handle() uint32
	// Release frees the buffer.
	Release()
}

// Allocator creates upload buffers.
type Allocator interface {
	CreateUploadBuffer(size int) (Buffer, error)
}

// MemAllocator is a host-memory Allocator for tests and headless runs.
// FailAfter, when non-negative, makes allocation n fail (0 = first call),
// which exercises the nil-buffer skip path in the fields.
type MemAllocator struct {
	FailAfter int
	allocs    int
}

// NewMemAllocator returns a MemAllocator that never fails.
func NewMemAllocator() *MemAllocator {
	return &MemAllocator{FailAfter: -1}
}

// CreateUploadBuffer allocates a host-memory buffer.
func (a *MemAllocator) CreateUploadBuffer(size int) (Buffer, error) {
	defer func() { a.allocs++ }()
	if a.FailAfter >= 0 && a.allocs >= a.FailAfter {
		return nil, fmt.Errorf("upload buffer %d denied (capacity %d)", a.allocs, size)
	}
	if size < 0 {
		return nil, fmt.Errorf("negative buffer size %d", size)
	}
	return &memBuffer{data: make([]byte, size)}, nil
}

// Allocations returns how many buffers were requested, including denied ones.
func (a *MemAllocator) Allocations() int {
	return a.allocs
}

type memBuffer struct {
	data     []byte
	released bool
}

func (b *memBuffer) Map() []byte {
	if b.released {
		return nil
	}
	return b.data
}

func (b *memBuffer) Unmap() error { return nil }

func (b *memBuffer) Size() int { return len(b.data) }

func (b *memBuffer) Handle() uint32 { return 0 }

func (b *memBuffer) Release() { b.released = true }

// MemBytes returns the contents of a MemAllocator-backed buffer, or nil for
// other implementations. Test helper.
func MemBytes(buf Buffer) []byte {
	if mb, ok := buf.(*memBuffer); ok {
		return mb.data
	}
	return nil
}
