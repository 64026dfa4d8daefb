package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Classify stats path and returns its classification. When follow is true
// symlinks are resolved to their target (stat), otherwise the link itself is
// described (lstat). A missing path returns (nil, nil).
func Classify(path string, follow bool) (*EntryStat, error) {
	statFn := os.Lstat
	if follow {
		statFn = os.Stat
	}

	info, err := statFn(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	return statFromInfo(path, info)
}

func statFromInfo(path string, info os.FileInfo) (*EntryStat, error) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("unsupported stat type for %s", path)
	}

	return &EntryStat{
		Kind:   kindOf(info.Mode()),
		Mode:   info.Mode(),
		Atime:  atimeFromStat(stat),
		Mtime:  info.ModTime(),
		DevIno: devInoFromStat(stat),
	}, nil
}

// exists reports whether anything is at path. Errors other than not-exist
// count as existing so the caller surfaces them on the next real operation.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
