//go:build !unix

package alloc

import "unsafe"

// Mmap is unavailable on this platform.
type Mmap struct{}

// NewMmap returns ErrUnsupported.
func NewMmap() (*Mmap, error) {
	return nil, ErrUnsupported
}

func (*Mmap) Alloc(Layout) (unsafe.Pointer, error) { return nil, ErrUnsupported }

func (*Mmap) Realloc(unsafe.Pointer, Layout, Layout) (unsafe.Pointer, error) {
	return nil, ErrUnsupported
}

func (*Mmap) Free(unsafe.Pointer, Layout) error { return ErrUnsupported }

func (*Mmap) Live() int { return 0 }

func (*Mmap) MappedBytes() int { return 0 }

func (*Mmap) Remaps() uint64 { return 0 }

func (*Mmap) Close() error { return nil }
