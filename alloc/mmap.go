//go:build unix

package alloc

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// region is one live anonymous mapping.
type region struct {
	data []byte  // exactly as returned by mmap, page rounded
	size uintptr // Layout.Size the block was handed out for
}

// Mmap hands out each block as its own anonymous private mapping, outside the
// Go heap. Blocks are page rounded and zeroed by the kernel. The mapping table
// is guarded by a mutex, so one Mmap may back several vectors.
type Mmap struct {
	mu       sync.Mutex
	pageSize uintptr
	live     map[uintptr]region
	closed   bool
	remapped uint64
}

// NewMmap returns an Mmap allocator.
func NewMmap() (*Mmap, error) {
	return &Mmap{
		pageSize: uintptr(unix.Getpagesize()),
		live:     make(map[uintptr]region),
	}, nil
}

// Alloc maps a fresh region for l.
func (m *Mmap) Alloc(l Layout) (unsafe.Pointer, error) {
	if err := checkRaw(l); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrReleased
	}
	return m.mapLocked(l.Size)
}

// Realloc resizes the region holding p. Growth that stays within the mapped
// pages is free; otherwise the region is remapped, which may move it.
func (m *Mmap) Realloc(p unsafe.Pointer, old, new Layout) (unsafe.Pointer, error) {
	if err := checkRaw(new); err != nil {
		return nil, err
	}
	if err := sameElem(old, new); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrReleased
	}
	r, err := m.lookupLocked(p, old)
	if err != nil {
		return nil, err
	}
	length, err := m.roundPages(new.Size)
	if err != nil {
		return nil, err
	}
	if length == len(r.data) {
		m.live[uintptr(p)] = region{data: r.data, size: new.Size}
		return p, nil
	}
	data, err := remap(r.data, length)
	if err != nil {
		return nil, fmt.Errorf("%w: remap %d bytes: %w", ErrOutOfMemory, length, err)
	}
	delete(m.live, uintptr(p))
	q := unsafe.Pointer(unsafe.SliceData(data))
	m.live[uintptr(q)] = region{data: data, size: new.Size}
	m.remapped++
	return q, nil
}

// Free unmaps the region holding p. The layout must be the one the block was
// last allocated or resized with.
func (m *Mmap) Free(p unsafe.Pointer, l Layout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrReleased
	}
	r, err := m.lookupLocked(p, l)
	if err != nil {
		return err
	}
	delete(m.live, uintptr(p))
	return unix.Munmap(r.data)
}

// Live returns the number of blocks currently mapped.
func (m *Mmap) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// MappedBytes returns the total page-rounded size of all live blocks.
func (m *Mmap) MappedBytes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.live {
		n += len(r.data)
	}
	return n
}

// Remaps returns the number of Reallocs that went to the kernel.
func (m *Mmap) Remaps() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remapped
}

// Close unmaps every block still live. Blocks handed out earlier must not be
// used afterwards. Close is idempotent.
func (m *Mmap) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	var errs []error
	for p, r := range m.live {
		if err := unix.Munmap(r.data); err != nil {
			errs = append(errs, err)
		}
		delete(m.live, p)
	}
	return errors.Join(errs...)
}

func (m *Mmap) mapLocked(size uintptr) (unsafe.Pointer, error) {
	length, err := m.roundPages(size)
	if err != nil {
		return nil, err
	}
	data, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %d bytes: %w", ErrOutOfMemory, length, err)
	}
	p := unsafe.Pointer(unsafe.SliceData(data))
	m.live[uintptr(p)] = region{data: data, size: size}
	return p, nil
}

func (m *Mmap) lookupLocked(p unsafe.Pointer, l Layout) (region, error) {
	r, ok := m.live[uintptr(p)]
	if !ok {
		return region{}, fmt.Errorf("%w: %p is not a live mapping", ErrLayoutMismatch, p)
	}
	if r.size != l.Size {
		return region{}, fmt.Errorf("%w: block of %d bytes given as %s", ErrLayoutMismatch, r.size, l)
	}
	return r, nil
}

func (m *Mmap) roundPages(size uintptr) (int, error) {
	if size > MaxSize-m.pageSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrSizeOverflow, size)
	}
	mask := m.pageSize - 1
	return int((size + mask) &^ mask), nil
}
