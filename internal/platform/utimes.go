package platform

import (
	"time"

	"golang.org/x/sys/unix"
)

// UtimesMillis sets atime and mtime on path, truncated to millisecond
// precision. Sub-millisecond parts do not round-trip on every filesystem,
// so they are dropped on purpose.
func UtimesMillis(path string, atime, mtime time.Time) error {
	times := []unix.Timespec{
		unix.NsecToTimespec(atime.Truncate(time.Millisecond).UnixNano()),
		unix.NsecToTimespec(mtime.Truncate(time.Millisecond).UnixNano()),
	}
	return unix.UtimesNano(path, times)
}
