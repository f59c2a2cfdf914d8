package alloc

import (
	"math"
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArray(t *testing.T) {
	l, err := Array[int64](4)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[int64](), l.Elem)
	assert.Equal(t, 4, l.Count)
	assert.Equal(t, uintptr(32), l.Size)
	assert.Equal(t, unsafe.Alignof(int64(0)), l.Align)

	l, err = l.WithCount(8)
	require.NoError(t, err)
	assert.Equal(t, uintptr(64), l.Size)

	type padded struct {
		a int64
		b byte
	}
	l, err = Array[padded](3)
	require.NoError(t, err)
	assert.Equal(t, 3*unsafe.Sizeof(padded{}), l.Size)
}

func TestArrayErrors(t *testing.T) {
	_, err := Array[struct{}](4)
	assert.ErrorIs(t, err, ErrZeroSized)

	_, err = Array[[0]int64](4)
	assert.ErrorIs(t, err, ErrZeroSized)

	_, err = Array[int](-1)
	assert.ErrorIs(t, err, ErrNegativeCount)

	_, err = Array[int64](math.MaxInt/8 + 1)
	assert.ErrorIs(t, err, ErrSizeOverflow)

	_, err = Array[[1 << 20]byte](math.MaxInt)
	assert.ErrorIs(t, err, ErrSizeOverflow)
}

func TestMulSize(t *testing.T) {
	tests := []struct {
		a, b uintptr
		want uintptr
		ok   bool
	}{
		{0, 0, 0, true},
		{8, 4, 32, true},
		{1, math.MaxInt, math.MaxInt, true},
		{2, math.MaxInt/2 + 1, 0, false},
		{math.MaxUint32, math.MaxUint32, 0, false},
	}

	for _, tt := range tests {
		got, ok := MulSize(tt.a, tt.b)
		assert.Equal(t, tt.ok, ok, "MulSize(%d, %d)", tt.a, tt.b)
		assert.Equal(t, tt.want, got, "MulSize(%d, %d)", tt.a, tt.b)
	}
}

func TestHasPointers(t *testing.T) {
	type flat struct {
		a int32
		b [4]float64
	}
	type nested struct {
		f flat
		s string
	}

	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"int", reflect.TypeFor[int](), false},
		{"flat struct", reflect.TypeFor[flat](), false},
		{"byte array", reflect.TypeFor[[16]byte](), false},
		{"empty pointer array", reflect.TypeFor[[0]*int](), false},
		{"pointer", reflect.TypeFor[*int](), true},
		{"string", reflect.TypeFor[string](), true},
		{"slice", reflect.TypeFor[[]int](), true},
		{"map", reflect.TypeFor[map[int]int](), true},
		{"interface", reflect.TypeFor[any](), true},
		{"func", reflect.TypeFor[func()](), true},
		{"chan", reflect.TypeFor[chan int](), true},
		{"unsafe pointer", reflect.TypeFor[unsafe.Pointer](), true},
		{"nested string", reflect.TypeFor[nested](), true},
		{"pointer array", reflect.TypeFor[[2]*int](), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Layout{Elem: tt.typ}
			assert.Equal(t, tt.want, l.HasPointers())
		})
	}
}
