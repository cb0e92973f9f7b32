//go:build linux

package pool

import "golang.org/x/sys/unix"

// reserve maps an anonymous, private region of size bytes with no swap
// reservation, matching the original Rust implementation's
// MAP_PRIVATE|MAP_ANONYMOUS|MAP_NORESERVE mmap call. The kernel commits
// pages lazily as Push touches them, so reserving the full 2^35 bytes up
// front costs no physical memory.
func reserve(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE,
	)
}

func release(b []byte) error {
	return unix.Munmap(b)
}
