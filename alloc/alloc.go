// Package alloc provides the raw block allocators a vec.Vec is built on.
//
// An Allocator hands out untyped blocks described by a Layout. Three
// implementations are provided:
//
//   - Heap: memory typed for the garbage collector; accepts any element type.
//   - Arena: chunked bump allocation; grows the newest block in place.
//   - Mmap: anonymous off-heap mappings, resized with mremap on Linux.
//
// Arena and Mmap hand out memory the garbage collector does not scan, so they
// reject layouts whose element type holds Go pointers.
package alloc

import (
	"errors"
	"unsafe"
)

var (
	// ErrZeroSized is returned for layouts over a type that occupies no bytes.
	ErrZeroSized = errors.New("alloc: zero-sized element type")
	// ErrNegativeCount is returned for layouts with a negative element count.
	ErrNegativeCount = errors.New("alloc: negative element count")
	// ErrSizeOverflow is returned when a layout's byte size exceeds MaxSize.
	ErrSizeOverflow = errors.New("alloc: size overflows address space")
	// ErrEmptyLayout is returned when asked for a block of zero bytes.
	ErrEmptyLayout = errors.New("alloc: empty layout")
	// ErrPointerElem is returned by allocators whose memory the GC does not scan.
	ErrPointerElem = errors.New("alloc: element type holds pointers")
	// ErrLayoutMismatch is returned when a block is resized or freed with a
	// layout other than the one it was allocated with.
	ErrLayoutMismatch = errors.New("alloc: layout does not match block")
	// ErrOutOfMemory is returned when the backing store cannot supply a block.
	ErrOutOfMemory = errors.New("alloc: out of memory")
	// ErrReleased is returned after an allocator has been released or closed.
	ErrReleased = errors.New("alloc: allocator released")
	// ErrUnsupported is returned on platforms without the required primitives.
	ErrUnsupported = errors.New("alloc: unsupported on this platform")
)

// Allocator hands out raw blocks sized and aligned by a Layout.
//
// Realloc returns a block of new.Size bytes whose first min(old.Size, new.Size)
// bytes equal the old block's, copied verbatim. The result may or may not be
// the same address as p. On error the old block is left intact.
//
// Free must be given the Layout of the Alloc or Realloc that produced p.
type Allocator interface {
	Alloc(l Layout) (unsafe.Pointer, error)
	Realloc(p unsafe.Pointer, old, new Layout) (unsafe.Pointer, error)
	Free(p unsafe.Pointer, l Layout) error
}

// Default is the allocator used when none is configured.
var Default Allocator = Heap{}

// checkRaw validates a layout for allocators backed by unscanned memory.
func checkRaw(l Layout) error {
	if l.Size == 0 {
		return ErrEmptyLayout
	}
	if l.HasPointers() {
		return ErrPointerElem
	}
	return nil
}

// bytesAt views n bytes at p.
func bytesAt(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}
