//go:build !linux

package pool

import "golang.org/x/sys/unix"

// reserve is the non-Linux fallback: MAP_NORESERVE is a Linux-specific
// overcommit hint, so other unix targets just take the private anonymous
// mapping and let the OS's normal demand-paging commit pages on touch.
func reserve(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
}

func release(b []byte) error {
	return unix.Munmap(b)
}
