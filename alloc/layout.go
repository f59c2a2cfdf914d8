package alloc

import (
	"fmt"
	"math"
	"math/bits"
	"reflect"
)

// MaxSize is the largest block, in bytes, any allocator will hand out.
// Offsets into a block must stay representable as a non-negative int.
const MaxSize = math.MaxInt

// Layout describes a block holding Count contiguous elements of Elem.
type Layout struct {
	Elem  reflect.Type
	Count int
	Size  uintptr // Count * Elem.Size(), never above MaxSize
	Align uintptr
}

// Array returns the Layout for n elements of T.
func Array[T any](n int) (Layout, error) {
	return ArrayOf(reflect.TypeFor[T](), n)
}

// ArrayOf returns the Layout for n elements of elem.
func ArrayOf(elem reflect.Type, n int) (Layout, error) {
	if elem.Size() == 0 {
		return Layout{}, fmt.Errorf("%w: %s", ErrZeroSized, elem)
	}
	if n < 0 {
		return Layout{}, fmt.Errorf("%w: %d", ErrNegativeCount, n)
	}
	size, ok := MulSize(elem.Size(), uintptr(n))
	if !ok {
		return Layout{}, fmt.Errorf("%w: %d x %d bytes", ErrSizeOverflow, n, elem.Size())
	}
	return Layout{
		Elem:  elem,
		Count: n,
		Size:  size,
		Align: uintptr(elem.Align()),
	}, nil
}

// WithCount returns the Layout for n elements of the same type.
func (l Layout) WithCount(n int) (Layout, error) {
	return ArrayOf(l.Elem, n)
}

// HasPointers reports whether the element type holds Go pointers.
// Such elements may only live in memory the garbage collector scans.
func (l Layout) HasPointers() bool {
	return hasPointers(l.Elem)
}

func (l Layout) String() string {
	return fmt.Sprintf("[%d]%s (%d bytes, align %d)", l.Count, l.Elem, l.Size, l.Align)
}

// MulSize multiplies a and b, reporting false when the product exceeds MaxSize.
func MulSize(a, b uintptr) (uintptr, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > MaxSize {
		return 0, false
	}
	return uintptr(lo), true
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Slice, reflect.String, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

func sameElem(old, new Layout) error {
	if old.Elem != new.Elem {
		return fmt.Errorf("%w: element %s resized as %s", ErrLayoutMismatch, old.Elem, new.Elem)
	}
	return nil
}
