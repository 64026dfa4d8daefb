//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// reserve asks the filesystem for size bytes of blocks behind dst without
// changing its length. Only ENOSPC is returned, so a copy that cannot fit
// fails before writing; filesystems without fallocate are not an error.
func reserve(dst *os.File, size int64) error {
	if size <= 0 {
		return nil
	}
	//nolint:gosec // G115: descriptors fit in int
	err := unix.Fallocate(int(dst.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size)
	if errors.Is(err, unix.ENOSPC) {
		return err
	}
	return nil
}
