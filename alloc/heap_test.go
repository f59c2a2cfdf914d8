package alloc

import (
	"fmt"
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapAlloc(t *testing.T) {
	var h Heap
	l, err := Array[int64](4)
	require.NoError(t, err)

	p, err := h.Alloc(l)
	require.NoError(t, err)
	require.NotNil(t, p)

	s := unsafe.Slice((*int64)(p), 4)
	assert.Equal(t, []int64{0, 0, 0, 0}, s, "heap blocks are zeroed")
	assert.Zero(t, uintptr(p)%l.Align)
	assert.NoError(t, h.Free(p, l))

	_, err = h.Alloc(Layout{})
	assert.ErrorIs(t, err, ErrEmptyLayout)
}

func TestHeapRealloc(t *testing.T) {
	var h Heap
	old, err := Array[string](4)
	require.NoError(t, err)
	p, err := h.Alloc(old)
	require.NoError(t, err)

	s := unsafe.Slice((*string)(p), 4)
	for i := range s {
		s[i] = fmt.Sprintf("s%d", i)
	}

	grown, err := old.WithCount(8)
	require.NoError(t, err)
	q, err := h.Realloc(p, old, grown)
	require.NoError(t, err)
	assert.NotEqual(t, p, q)

	runtime.GC()
	moved := unsafe.Slice((*string)(q), 8)
	assert.Equal(t, []string{"s0", "s1", "s2", "s3", "", "", "", ""}, moved)
}

func TestHeapReallocMismatch(t *testing.T) {
	var h Heap
	old, err := Array[int32](4)
	require.NoError(t, err)
	p, err := h.Alloc(old)
	require.NoError(t, err)

	other, err := Array[int64](8)
	require.NoError(t, err)
	_, err = h.Realloc(p, old, other)
	assert.ErrorIs(t, err, ErrLayoutMismatch)

	assert.ErrorIs(t, h.Free(nil, old), ErrLayoutMismatch)
}
