//go:build darwin

package engine

import (
	"syscall"
	"time"
)

// atimeFromStat returns the access time from a syscall.Stat_t.
func atimeFromStat(stat *syscall.Stat_t) time.Time {
	return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
}

// devInoFromStat returns the device and inode numbers from a syscall.Stat_t.
func devInoFromStat(stat *syscall.Stat_t) DevIno {
	return DevIno{
		Dev: uint64(stat.Dev), //nolint:gosec // G115: dev_t is int32 on darwin, always non-negative
		Ino: stat.Ino,
	}
}
