package vec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pavanmanishd/vec/alloc"
)

// BenchmarkPush fills a vector from empty on each backend, against append on
// a builtin slice.
func BenchmarkPush(b *testing.B) {
	sizes := []int{16, 1024, 65536}

	for _, n := range sizes {
		b.Run(fmt.Sprintf("Heap_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				v := New[int64]()
				for j := 0; j < n; j++ {
					v.Push(int64(j))
				}
				v.Release()
			}
		})

		b.Run(fmt.Sprintf("Arena_%d", n), func(b *testing.B) {
			a := alloc.NewArena(1 << 20)
			defer a.Release()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				v := New[int64](WithAllocator(a))
				for j := 0; j < n; j++ {
					v.Push(int64(j))
				}
				v.Release()
				a.Reset()
			}
		})

		b.Run(fmt.Sprintf("Mmap_%d", n), func(b *testing.B) {
			m, err := alloc.NewMmap()
			if errors.Is(err, alloc.ErrUnsupported) {
				b.Skip("mmap allocator unsupported on this platform")
			}
			if err != nil {
				b.Fatal(err)
			}
			defer m.Close()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				v := New[int64](WithAllocator(m))
				for j := 0; j < n; j++ {
					v.Push(int64(j))
				}
				v.Release()
			}
		})

		b.Run(fmt.Sprintf("Builtin_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var s []int64
				for j := 0; j < n; j++ {
					s = append(s, int64(j))
				}
				_ = s
			}
		})
	}
}

func BenchmarkGet(b *testing.B) {
	v := New[int64]()
	defer v.Release()
	for j := 0; j < 1024; j++ {
		v.Push(int64(j))
	}

	b.ResetTimer()
	var sum int64
	for i := 0; i < b.N; i++ {
		x, _ := v.Get(i & 1023)
		sum += x
	}
	_ = sum
}
