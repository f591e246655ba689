//go:build unix

package nd

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps the whole file shared, so writes reach the file.
func mmapFile(f *os.File, size int64, writable bool) ([]byte, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	return unix.Mmap(
		int(f.Fd()), //nolint:gosec // G115: file descriptor fits in int
		0,
		int(size), //nolint:gosec // G115: file size checked by caller
		prot,
		unix.MAP_SHARED,
	)
}

func munmapFile(data []byte) error {
	return unix.Munmap(data)
}
