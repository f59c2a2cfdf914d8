package vec

import (
	"errors"
	"fmt"

	"github.com/pavanmanishd/vec/alloc"
)

// Every error below is fatal: Vec raises it with panic, wrapped with context,
// and leaves its state as it was before the failing call. Recover and test
// with errors.Is when a caller needs to tell them apart.
var (
	// ErrZeroSized reports an element type that occupies no bytes.
	ErrZeroSized = alloc.ErrZeroSized
	// ErrCapacityOverflow reports a capacity or byte offset that no longer
	// fits the address space.
	ErrCapacityOverflow = errors.New("vec: capacity overflow")
	// ErrAllocFailed reports that the allocator could not supply or resize
	// the backing block.
	ErrAllocFailed = errors.New("vec: allocation failed")
	// ErrReleased reports use of a vector after Release.
	ErrReleased = errors.New("vec: use after Release()")
)

func fatal(err error) {
	panic(err)
}

func fatalf(format string, args ...any) {
	panic(fmt.Errorf(format, args...))
}
