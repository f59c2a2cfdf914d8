// Package vec implements a growable, contiguous vector over raw allocator
// blocks.
//
// # Overview
//
// A Vec[T] owns a single block from an alloc.Allocator, large enough for its
// capacity of T values laid out back to back. Elements are written straight
// into the block's slots; when the block is full the next Push asks the
// allocator to resize it, which moves the existing bytes verbatim and may
// relocate the block.
//
//   - Push: amortized O(1)
//   - Get, Ref: O(1), bounds-checked
//   - Release: O(n) element drops, then a single Free
//
// # Basic Usage
//
//	v := vec.New[int]()
//	defer v.Release()
//
//	for i := 1; i <= 5; i++ {
//		v.Push(i)
//	}
//	x, ok := v.Get(3) // 4, true
//	_, ok = v.Get(5)  // 0, false
//	fmt.Println(v.Len(), v.Cap()) // 5 8
//
// # Growth
//
// The first Push allocates InitialCapacity (4) slots. Every Push onto a full
// vector multiplies the capacity by GrowthFactor (2), so after n pushes the
// capacity is the smallest 4*2^k that is >= n. The vector never shrinks.
//
// # Allocators
//
// The default allocator is the Go heap, which accepts any element type. The
// alloc package also provides an arena that grows the newest block in place
// and an off-heap mmap allocator; both refuse element types containing Go
// pointers, as the garbage collector does not scan their memory.
//
//	a := alloc.NewArena(0)
//	defer a.Release()
//	v := vec.New[float64](vec.WithAllocator(a))
//
// # Fatal Errors
//
// Zero-sized element types, capacity or offset overflow, allocator failure
// and use after Release are programming or environment errors. Vec panics
// with an error that wraps ErrZeroSized, ErrCapacityOverflow, ErrAllocFailed
// or ErrReleased, and the vector is left exactly as it was. An index out of
// range is not an error: Get reports false and Ref returns nil.
//
// # Release
//
// Release runs Drop, for element types implementing Dropper, on each live
// element in index order, then frees the block with the layout it was
// allocated with. A vector dropped without Release is reclaimed by a runtime
// cleanup, which logs a warning.
//
// # Thread Safety
//
// Vec is not thread-safe, and a pointer from Ref is invalidated by the next
// Push. For concurrent access, use SafeVec.
package vec
