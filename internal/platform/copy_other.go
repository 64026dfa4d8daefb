//go:build !linux

package platform

import "os"

// copyContents moves size bytes from src to dst. Whole-file clones on macOS
// are attempted earlier by CopyPath, before dst exists.
func copyContents(src, dst *os.File, size int64) (CopyResult, error) {
	if err := reserve(dst, size); err != nil {
		return CopyResult{}, err
	}
	return copyReadWrite(src, dst, size)
}
