package engine

import (
	"os"
	"time"
)

// Kind identifies the kind of filesystem entry.
type Kind int

const (
	Unknown Kind = iota
	File
	Dir
	Symlink
	CharDevice
	BlockDevice
	Socket
	FIFO

	numKinds // sentinel; keep last
)

var kindNames = [...]string{
	Unknown:     "unknown",
	File:        "file",
	Dir:         "directory",
	Symlink:     "symlink",
	CharDevice:  "char device",
	BlockDevice: "block device",
	Socket:      "socket",
	FIFO:        "fifo",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// kindOf maps file mode type bits to a Kind.
func kindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return File
	case mode.IsDir():
		return Dir
	case mode&os.ModeSymlink != 0:
		return Symlink
	case mode&os.ModeNamedPipe != 0:
		return FIFO
	case mode&os.ModeSocket != 0:
		return Socket
	case mode&os.ModeDevice != 0 && mode&os.ModeCharDevice != 0:
		return CharDevice
	case mode&os.ModeDevice != 0:
		return BlockDevice
	default:
		return Unknown
	}
}

// DevIno uniquely identifies an inode.
type DevIno struct {
	Dev uint64
	Ino uint64
}

// EntryStat is the classified view of a single path. A nil *EntryStat
// means the path is absent.
type EntryStat struct {
	Atime  time.Time
	Mtime  time.Time
	DevIno DevIno
	Mode   os.FileMode
	Kind   Kind
}

// IsDir reports whether the entry is a directory.
func (s *EntryStat) IsDir() bool {
	return s != nil && s.Kind == Dir
}

// sameInode reports whether both stats describe the same inode.
func (s *EntryStat) sameInode(o *EntryStat) bool {
	if s == nil || o == nil || s.DevIno.Ino == 0 {
		return false
	}
	return s.DevIno == o.DevIno
}

// copyTask is the unit of work for one entry. Never retained past the copy.
type copyTask struct {
	src      string
	dst      string
	srcStat  *EntryStat
	destStat *EntryStat
}
