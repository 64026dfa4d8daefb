package platform

import (
	"fmt"
	"io"
	"os"
)

// CopyPath copies the content of src into a newly created dst. dst must not
// exist. No metadata other than the initial permission bits is carried over;
// callers reconcile mode and timestamps afterwards.
//
// Character and block devices have no meaningful size, so their content is
// streamed until EOF into a regular file.
func CopyPath(src, dst string, perm os.FileMode) (CopyResult, error) {
	info, err := os.Stat(src)
	if err != nil {
		return CopyResult{}, err
	}
	regular := info.Mode().IsRegular()

	if regular {
		if res, err := clonePath(src, dst); err == nil {
			return res, nil
		} else if !isFallbackCloneErr(err) {
			return CopyResult{}, err
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return CopyResult{}, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm.Perm())
	if err != nil {
		return CopyResult{}, err
	}

	var res CopyResult
	if regular {
		res, err = copyContents(in, out, info.Size())
	} else {
		res, err = copyStream(in, out)
	}
	if err != nil {
		out.Close()
		_ = os.Remove(dst)
		return res, fmt.Errorf("copy data: %w", err)
	}

	if err := out.Close(); err != nil {
		return res, fmt.Errorf("close %s: %w", dst, err)
	}
	return res, nil
}

func copyStream(src, dst *os.File) (CopyResult, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)

	n, err := io.CopyBuffer(onlyWriter{dst}, onlyReader{src}, *bufp)
	return CopyResult{BytesWritten: n, Method: Stream}, err
}

// onlyReader and onlyWriter hide ReaderFrom/WriterTo so io.CopyBuffer
// always goes through the pooled buffer.
type onlyReader struct{ io.Reader }

type onlyWriter struct{ io.Writer }
