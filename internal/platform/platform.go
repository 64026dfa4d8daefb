// Package platform holds the OS-specific pieces of a copy: moving file
// content between descriptors and setting timestamps.
package platform

import "strconv"

// CopyMethod names the mechanism that moved a file's content.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota // pread/pwrite through a pooled buffer
	CopyFileRange                   // copy_file_range(2), Linux
	Sendfile                        // sendfile(2), Linux
	Clonefile                       // clonefile(2), macOS
	Stream                          // read until EOF, for devices
)

var methodNames = [...]string{
	ReadWrite:     "read_write",
	CopyFileRange: "copy_file_range",
	Sendfile:      "sendfile",
	Clonefile:     "clonefile",
	Stream:        "stream",
}

func (m CopyMethod) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// CopyResult reports how much content was moved and how.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// Is32Bit reports whether the process runs on a 32-bit architecture, where
// sub-second timestamps may not survive the round trip through the kernel.
func Is32Bit() bool {
	return strconv.IntSize == 32
}
