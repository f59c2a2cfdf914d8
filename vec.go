package vec

import (
	"log/slog"
	"math"
	"runtime"
	"unsafe"

	"github.com/pavanmanishd/vec/alloc"
)

const (
	// InitialCapacity is the capacity of the first block a vector allocates.
	InitialCapacity = 4
	// GrowthFactor multiplies the capacity of a full vector on the next Push.
	GrowthFactor = 2
)

// Dropper is implemented by element types that need cleanup when the vector
// holding them is released. Drop may be declared on T or on *T; it runs
// exactly once per live element, in index order.
type Dropper interface {
	Drop()
}

// Vec is a growable contiguous sequence of T over a raw allocator block.
//
// The zero value is an empty vector on the heap allocator. A Vec must not be
// copied after first use and is not safe for concurrent use; see SafeVec.
type Vec[T any] struct {
	st      *state[T]
	cleanup runtime.Cleanup
	tracked bool
}

// state is everything a vector owns. It is kept apart from Vec so a runtime
// cleanup can release it once the Vec itself is unreachable.
type state[T any] struct {
	ptr         unsafe.Pointer // nil while cap == 0
	len         int
	cap         int
	size        uintptr      // unsafe.Sizeof(T)
	layout      alloc.Layout // layout of the live block, cap elements
	alloc       alloc.Allocator
	log         *slog.Logger
	grows       uint64
	relocations uint64
	released    bool
}

// New returns an empty vector. No memory is allocated until the first Push.
// New panics with ErrZeroSized if T occupies no bytes.
//
// A vector that becomes unreachable without Release is released by a runtime
// cleanup at some point after the next garbage collection.
func New[T any](opts ...Option) *Vec[T] {
	if elemSize[T]() == 0 {
		fatalf("vec: new: %w", ErrZeroSized)
	}
	v := &Vec[T]{st: newState[T](applyOptions(opts))}
	v.cleanup = runtime.AddCleanup(v, (*state[T]).reclaim, v.st)
	v.tracked = true
	return v
}

func newState[T any](o options) *state[T] {
	return &state[T]{
		size:  elemSize[T](),
		alloc: o.allocator,
		log:   o.logger,
	}
}

// Len returns the number of elements in the vector.
func (v *Vec[T]) Len() int {
	if v.st == nil {
		return 0
	}
	return v.st.len
}

// Cap returns the number of element slots the vector has allocated.
func (v *Vec[T]) Cap() int {
	if v.st == nil {
		return 0
	}
	return v.st.cap
}

// Push appends item as the last element, allocating or growing the backing
// block as needed. Growth doubles the capacity and may move the block, which
// invalidates every pointer obtained from Ref.
//
// Push panics if T is zero-sized, if the new capacity overflows the address
// space, if the allocator fails, or after Release.
func (v *Vec[T]) Push(item T) {
	s := v.live()
	if s.size == 0 {
		fatalf("vec: push: %w", ErrZeroSized)
	}
	switch {
	case s.cap == 0:
		s.allocate(item)
	case s.len < s.cap:
		off, ok := alloc.MulSize(uintptr(s.len), s.size)
		if !ok {
			fatalf("vec: offset of slot %d: %w", s.len, ErrCapacityOverflow)
		}
		*(*T)(unsafe.Add(s.ptr, off)) = item
		s.len++
	default:
		s.grow(item)
	}
}

// Get returns a copy of the element at index i. It reports false when i is
// outside [0, Len()).
func (v *Vec[T]) Get(i int) (T, bool) {
	if p := v.Ref(i); p != nil {
		x := *p
		runtime.KeepAlive(v)
		return x, true
	}
	var zero T
	return zero, false
}

// Ref returns a pointer to the element at index i, or nil when i is outside
// [0, Len()). The pointer is valid until the next Push or Release, and only
// while v is kept reachable; see runtime.KeepAlive.
func (v *Vec[T]) Ref(i int) *T {
	s := v.st
	if s == nil || i < 0 || i >= s.len {
		return nil
	}
	return s.slot(i)
}

// Release drops every element in index order, then frees the backing block
// with the layout it was allocated with. Release is idempotent; any Push
// afterwards panics with ErrReleased.
func (v *Vec[T]) Release() {
	if v.st == nil {
		v.st = newState[T](applyOptions(nil))
	}
	if v.st.released {
		return
	}
	if v.tracked {
		v.cleanup.Stop()
		v.tracked = false
	}
	if err := v.st.release(); err != nil {
		fatalf("vec: release: %w: %w", ErrAllocFailed, err)
	}
}

// live returns the vector state, creating it for a zero Vec.
func (v *Vec[T]) live() *state[T] {
	if v.st == nil {
		v.st = newState[T](applyOptions(nil))
	}
	if v.st.released {
		fatal(ErrReleased)
	}
	return v.st
}

func (s *state[T]) slot(i int) *T {
	return (*T)(unsafe.Add(s.ptr, uintptr(i)*s.size))
}

// allocate places item in a fresh block of InitialCapacity slots.
func (s *state[T]) allocate(item T) {
	l, err := alloc.Array[T](InitialCapacity)
	if err != nil {
		fatalf("vec: layout for %d elements: %w: %w", InitialCapacity, ErrCapacityOverflow, err)
	}
	p, err := s.alloc.Alloc(l)
	if err != nil {
		fatalf("vec: allocate %s: %w: %w", l, ErrAllocFailed, err)
	}
	if p == nil {
		fatalf("vec: allocate %s: %w", l, ErrAllocFailed)
	}
	*(*T)(p) = item
	s.ptr, s.layout = p, l
	s.len, s.cap = 1, InitialCapacity
	s.log.Debug("vec: allocated", "capacity", s.cap, "bytes", l.Size)
}

// grow doubles a full block and places item in the first new slot.
// Nothing is modified until the allocator has succeeded.
func (s *state[T]) grow(item T) {
	newCap, ok := mulInt(s.cap, GrowthFactor)
	if !ok {
		fatalf("vec: grow from %d elements: %w", s.cap, ErrCapacityOverflow)
	}
	l, err := s.layout.WithCount(newCap)
	if err != nil {
		fatalf("vec: grow to %d elements: %w: %w", newCap, ErrCapacityOverflow, err)
	}
	p, err := s.alloc.Realloc(s.ptr, s.layout, l)
	if err != nil {
		fatalf("vec: grow to %s: %w: %w", l, ErrAllocFailed, err)
	}
	if p == nil {
		fatalf("vec: grow to %s: %w", l, ErrAllocFailed)
	}
	// len < newCap and l.Size fits, so the offset cannot overflow.
	*(*T)(unsafe.Add(p, uintptr(s.len)*s.size)) = item

	relocated := p != s.ptr
	from := s.cap
	s.ptr, s.layout = p, l
	s.len++
	s.cap = newCap
	s.grows++
	if relocated {
		s.relocations++
	}
	s.log.Debug("vec: grew", "from", from, "to", newCap, "relocated", relocated, "bytes", l.Size)
}

func (s *state[T]) release() error {
	s.released = true
	if s.cap == 0 {
		return nil
	}
	for i := range s.len {
		drop(s.slot(i))
	}
	clear(unsafe.Slice((*T)(s.ptr), s.len))
	err := s.alloc.Free(s.ptr, s.layout)
	s.ptr, s.len, s.cap = nil, 0, 0
	return err
}

// reclaim runs from the runtime cleanup of an unreachable, unreleased Vec.
func (s *state[T]) reclaim() {
	if s.released {
		return
	}
	s.log.Warn("vec: reclaimed without Release", "len", s.len, "capacity", s.cap)
	if err := s.release(); err != nil {
		s.log.Error("vec: free failed", "error", err)
	}
}

func drop[T any](p *T) {
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
		return
	}
	if d, ok := any(*p).(Dropper); ok {
		d.Drop()
	}
}

func elemSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

func mulInt(a, b int) (int, bool) {
	if a < 0 || b <= 0 || a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}
