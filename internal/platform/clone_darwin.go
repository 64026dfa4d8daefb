//go:build darwin

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// clonePath creates dst as a copy-on-write clone of src (APFS). The clone
// shares data blocks until modified.
func clonePath(src, dst string) (CopyResult, error) {
	if err := unix.Clonefile(src, dst, unix.CLONE_NOFOLLOW); err != nil {
		return CopyResult{}, err
	}
	info, err := os.Stat(dst)
	if err != nil {
		return CopyResult{}, err
	}
	return CopyResult{BytesWritten: info.Size(), Method: Clonefile}, nil
}

func isFallbackCloneErr(err error) bool {
	switch err {
	case unix.ENOTSUP, unix.EXDEV, unix.EEXIST, unix.ENOSYS:
		return true
	}
	return false
}
