package platform

import (
	"errors"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

const bufferSize = 1 << 20

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite moves size bytes from the start of src to the start of dst
// with positioned reads and writes. A source that turns out shorter than
// size ends the copy early without error.
func copyReadWrite(src, dst *os.File, size int64) (CopyResult, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)

	res := CopyResult{Method: ReadWrite}
	rfd, wfd := int(src.Fd()), int(dst.Fd())

	for res.BytesWritten < size {
		chunk := (*bufp)[:min(int64(bufferSize), size-res.BytesWritten)]
		n, err := unix.Pread(rfd, chunk, res.BytesWritten)
		if err != nil {
			return res, err
		}
		if n == 0 {
			break
		}
		for done := 0; done < n; {
			w, err := unix.Pwrite(wfd, chunk[done:n], res.BytesWritten+int64(done))
			if err != nil {
				res.BytesWritten += int64(done)
				return res, err
			}
			done += w
		}
		res.BytesWritten += int64(n)
	}
	return res, nil
}

// isFallbackErr reports whether a kernel copy method was refused outright
// and the next method should be tried.
func isFallbackErr(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	switch err {
	case unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP:
		return true
	}
	return false
}
