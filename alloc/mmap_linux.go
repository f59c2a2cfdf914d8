package alloc

import "golang.org/x/sys/unix"

// remap grows or shrinks a mapping with mremap, letting the kernel move it.
func remap(data []byte, length int) ([]byte, error) {
	return unix.Mremap(data, length, unix.MREMAP_MAYMOVE)
}
