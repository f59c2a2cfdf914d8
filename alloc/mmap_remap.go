//go:build unix && !linux

package alloc

import "golang.org/x/sys/unix"

// remap maps a new region, copies the old bytes and unmaps the old region.
func remap(data []byte, length int) ([]byte, error) {
	fresh, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	copy(fresh, data)
	if err := unix.Munmap(data); err != nil {
		_ = unix.Munmap(fresh)
		return nil, err
	}
	return fresh, nil
}
