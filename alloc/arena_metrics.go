package alloc

// SizeInUse returns the total number of bytes currently allocated in the arena.
// This includes internal fragmentation due to alignment and blocks abandoned
// by relocating Reallocs.
func (a *Arena) SizeInUse() int {
	if a.chunks == nil {
		return 0
	}
	sum := 0
	for _, c := range a.chunks {
		sum += int(c.offset)
	}
	return sum
}

// NumChunks returns the number of chunks currently allocated by the arena.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// Capacity returns the total capacity (in bytes) of all chunks in the arena.
func (a *Arena) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:      a.SizeInUse(),
		Capacity:       a.Capacity(),
		NumChunks:      a.NumChunks(),
		ChunkSize:      a.ChunkSize(),
		Utilization:    a.Utilization(),
		InPlaceGrows:   a.inPlace,
		RelocatedGrows: a.moved,
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse      int     // Bytes currently allocated
	Capacity       int     // Total capacity in bytes
	NumChunks      int     // Number of chunks
	ChunkSize      int     // Default chunk size
	Utilization    float64 // Ratio of used to total capacity (0.0-1.0)
	InPlaceGrows   uint64  // Reallocs that extended the newest block
	RelocatedGrows uint64  // Reallocs that copied to a new block
}
