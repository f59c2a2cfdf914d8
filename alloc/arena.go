package alloc

import (
	"fmt"
	"unsafe"
)

// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
const DefaultChunkSize = 1 << 16

// chunk represents a single memory chunk within an arena.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
	last   uintptr // offset of the newest block, valid when offset > 0
}

// Arena is a chunked bump allocator. Blocks are carved sequentially out of
// chunks; a block is only ever grown in place or rolled back when it is the
// newest one in the current chunk. Not goroutine-safe.
type Arena struct {
	chunks    []chunk
	chunkSize int
	current   *chunk
	inPlace   uint64
	moved     uint64
}

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	a.grow(chunkSize)
	return a
}

// Alloc carves a block for l out of the current chunk, opening a new chunk
// when it does not fit.
func (a *Arena) Alloc(l Layout) (unsafe.Pointer, error) {
	if err := a.check(l); err != nil {
		return nil, err
	}
	return a.bump(l), nil
}

// Realloc extends p in place when it is the newest block of the current chunk
// and the chunk has room; otherwise it bump-allocates and copies the bytes.
// The abandoned block is reclaimed by Reset.
func (a *Arena) Realloc(p unsafe.Pointer, old, new Layout) (unsafe.Pointer, error) {
	if err := a.check(new); err != nil {
		return nil, err
	}
	if err := sameElem(old, new); err != nil {
		return nil, err
	}
	if c := a.current; a.isNewest(c, p, old) {
		if c.last+new.Size <= uintptr(len(c.buf)) {
			c.offset = c.last + new.Size
			a.inPlace++
			return p, nil
		}
	}
	q := a.bump(new)
	copy(bytesAt(q, new.Size), bytesAt(p, min(old.Size, new.Size)))
	a.moved++
	return q, nil
}

// Free rolls the current chunk back when p is its newest block. Any other
// block stays reserved until Reset.
func (a *Arena) Free(p unsafe.Pointer, l Layout) error {
	if a.chunks == nil {
		return ErrReleased
	}
	if p == nil {
		return fmt.Errorf("%w: nil block for %s", ErrLayoutMismatch, l)
	}
	if c := a.current; a.isNewest(c, p, l) {
		c.offset = c.last
	}
	return nil
}

// Reset resets allocation offsets to zero but keeps allocated chunks for reuse.
// Every block handed out before Reset becomes invalid.
func (a *Arena) Reset() {
	a.panicIfReleased()
	for i := range a.chunks {
		a.chunks[i].offset = 0
		a.chunks[i].last = 0
	}
	a.current = &a.chunks[0]
}

// Release drops all chunks and makes the arena unusable.
// Any subsequent Reset panics; allocations return ErrReleased.
func (a *Arena) Release() {
	a.chunks = nil
	a.current = nil
}

func (a *Arena) check(l Layout) error {
	if a.chunks == nil {
		return ErrReleased
	}
	if err := checkRaw(l); err != nil {
		return err
	}
	if l.Size > MaxSize-l.Align {
		return fmt.Errorf("%w: %s", ErrSizeOverflow, l)
	}
	return nil
}

// isNewest reports whether p with layout l ends exactly at c's offset.
func (a *Arena) isNewest(c *chunk, p unsafe.Pointer, l Layout) bool {
	if c == nil || c.offset == 0 || p == nil {
		return false
	}
	base := unsafe.Pointer(unsafe.SliceData(c.buf))
	return unsafe.Add(base, c.last) == p && c.last+l.Size == c.offset
}

// bump reserves l.Size bytes aligned to l.Align, opening a chunk if needed.
func (a *Arena) bump(l Layout) unsafe.Pointer {
	c := a.current
	off := alignUp(c, c.offset, l.Align)
	if off+l.Size > uintptr(len(c.buf)) {
		// Worst case padding so the block fits after aligning in a fresh chunk.
		a.grow(int(l.Size + l.Align))
		c = a.current
		off = alignUp(c, 0, l.Align)
	}
	c.last = off
	c.offset = off + l.Size
	return unsafe.Pointer(&c.buf[off])
}

// grow appends a new chunk of at least min bytes.
func (a *Arena) grow(min int) {
	size := a.chunkSize
	if min > size {
		size = min
	}
	buf := make([]byte, size)
	a.chunks = append(a.chunks, chunk{buf: buf})
	a.current = &a.chunks[len(a.chunks)-1]
}

// panicIfReleased panics if the arena has been released.
func (a *Arena) panicIfReleased() {
	if a.chunks == nil {
		panic("alloc: arena use after Release()")
	}
}

// alignUp returns the smallest offset >= off whose address in c is a multiple
// of align.
func alignUp(c *chunk, off, align uintptr) uintptr {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	mask := align - 1
	return ((base + off + mask) &^ mask) - base
}
