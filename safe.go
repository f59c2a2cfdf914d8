package vec

import "sync"

// SafeVec is a mutex-protected wrapper around Vec for concurrent access.
// All operations are thread-safe but come with the overhead of mutex locking.
// References into the vector are only handed out inside View, under the lock.
type SafeVec[T any] struct {
	mu sync.Mutex
	v  *Vec[T]
}

// NewSafe creates a new thread-safe vector. It panics like New.
func NewSafe[T any](opts ...Option) *SafeVec[T] {
	return &SafeVec[T]{v: New[T](opts...)}
}

// Push thread-safely appends item.
func (s *SafeVec[T]) Push(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Push(item)
}

// Get thread-safely returns a copy of the element at index i.
func (s *SafeVec[T]) Get(i int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Get(i)
}

// View calls fn with a reference to the element at index i while holding the
// lock. fn must not retain the pointer or call back into s. View reports
// false, without calling fn, when i is out of range.
func (s *SafeVec[T]) View(i int, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.v.Ref(i)
	if p == nil {
		return false
	}
	fn(p)
	return true
}

// Len thread-safely returns the number of elements.
func (s *SafeVec[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Len()
}

// Cap thread-safely returns the allocated capacity.
func (s *SafeVec[T]) Cap() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Cap()
}

// Release thread-safely drops all elements and frees the backing block.
func (s *SafeVec[T]) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Release()
}

// Metrics thread-safely returns a snapshot of vector statistics.
func (s *SafeVec[T]) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.Metrics()
}
