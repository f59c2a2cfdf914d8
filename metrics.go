package vec

// BytesAllocated returns the size in bytes of the backing block.
func (v *Vec[T]) BytesAllocated() int {
	if v.st == nil || v.st.cap == 0 {
		return 0
	}
	return int(v.st.layout.Size)
}

// BytesInUse returns the number of bytes held by live elements.
func (v *Vec[T]) BytesInUse() int {
	if v.st == nil {
		return 0
	}
	return v.st.len * int(v.st.size)
}

// Utilization returns the ratio of length to capacity (0.0 to 1.0).
// Returns 0.0 if the vector has no capacity.
func (v *Vec[T]) Utilization() float64 {
	if v.Cap() == 0 {
		return 0
	}
	return float64(v.Len()) / float64(v.Cap())
}

// Metrics returns a snapshot of vector statistics.
func (v *Vec[T]) Metrics() Metrics {
	m := Metrics{
		Len:            v.Len(),
		Cap:            v.Cap(),
		ElemSize:       int(elemSize[T]()),
		BytesAllocated: v.BytesAllocated(),
		BytesInUse:     v.BytesInUse(),
		Utilization:    v.Utilization(),
	}
	if v.st != nil {
		m.Grows = v.st.grows
		m.Relocations = v.st.relocations
	}
	return m
}

// Metrics contains statistical information about a vector.
type Metrics struct {
	Len            int     // Live elements
	Cap            int     // Allocated element slots
	ElemSize       int     // Bytes per element
	BytesAllocated int     // Size of the backing block
	BytesInUse     int     // Bytes held by live elements
	Utilization    float64 // Ratio of Len to Cap (0.0-1.0)
	Grows          uint64  // Reallocations performed
	Relocations    uint64  // Reallocations that moved the block
}
