//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

type kernelCopy func(src, dst *os.File, size int64) (CopyResult, error)

// copyContents reserves space in dst and moves size bytes from src into
// it, preferring in-kernel methods. A method that fails before writing anything with an error the
// filesystem uses to refuse it hands over to the next one.
func copyContents(src, dst *os.File, size int64) (CopyResult, error) {
	if err := reserve(dst, size); err != nil {
		return CopyResult{}, err
	}

	for _, method := range []kernelCopy{copyFileRange, copySendfile} {
		res, err := method(src, dst, size)
		if err == nil || res.BytesWritten > 0 || !isFallbackErr(err) {
			return res, err
		}
	}
	return copyReadWrite(src, dst, size)
}

func copyFileRange(src, dst *os.File, size int64) (CopyResult, error) {
	res := CopyResult{Method: CopyFileRange}
	var roff, woff int64
	for res.BytesWritten < size {
		n, err := unix.CopyFileRange(int(src.Fd()), &roff, int(dst.Fd()), &woff, int(size-res.BytesWritten), 0)
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}
		res.BytesWritten += int64(n)
	}
	return res, nil
}

func copySendfile(src, dst *os.File, size int64) (CopyResult, error) {
	res := CopyResult{Method: Sendfile}
	var off int64
	for res.BytesWritten < size {
		n, err := unix.Sendfile(int(dst.Fd()), int(src.Fd()), &off, int(size-res.BytesWritten))
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}
		res.BytesWritten += int64(n)
	}
	return res, nil
}
