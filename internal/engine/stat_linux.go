//go:build linux

package engine

import (
	"syscall"
	"time"
)

// atimeFromStat returns the access time from a syscall.Stat_t.
func atimeFromStat(stat *syscall.Stat_t) time.Time {
	return time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec)) //nolint:unconvert // int32 on 32-bit
}

// devInoFromStat returns the device and inode numbers from a syscall.Stat_t.
func devInoFromStat(stat *syscall.Stat_t) DevIno {
	return DevIno{Dev: uint64(stat.Dev), Ino: uint64(stat.Ino)} //nolint:unconvert // narrower on some arches
}
