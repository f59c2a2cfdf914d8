package alloc

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Heap allocates blocks from the Go heap, typed as [Count]Elem so the garbage
// collector scans any pointers stored in them. New blocks are zeroed.
//
// A Heap block stays alive for as long as a pointer into it is held; Free only
// validates its arguments and leaves reclamation to the collector.
type Heap struct{}

// Alloc returns a zeroed block for l.
func (Heap) Alloc(l Layout) (unsafe.Pointer, error) {
	if l.Size == 0 {
		return nil, ErrEmptyLayout
	}
	return reflect.New(reflect.ArrayOf(l.Count, l.Elem)).UnsafePointer(), nil
}

// Realloc always relocates: a typed Go allocation cannot be extended.
// The copy is a typed memmove, so write barriers for pointer elements are
// honored but no per-element code runs.
func (h Heap) Realloc(p unsafe.Pointer, old, new Layout) (unsafe.Pointer, error) {
	if err := sameElem(old, new); err != nil {
		return nil, err
	}
	q, err := h.Alloc(new)
	if err != nil {
		return nil, err
	}
	if p != nil && old.Count > 0 {
		src := reflect.NewAt(reflect.ArrayOf(old.Count, old.Elem), p).Elem()
		dst := reflect.NewAt(reflect.ArrayOf(new.Count, new.Elem), q).Elem()
		reflect.Copy(dst, src)
	}
	return q, nil
}

// Free releases nothing; the block becomes garbage once unreferenced.
func (Heap) Free(p unsafe.Pointer, l Layout) error {
	if p == nil {
		return fmt.Errorf("%w: nil block for %s", ErrLayoutMismatch, l)
	}
	return nil
}
