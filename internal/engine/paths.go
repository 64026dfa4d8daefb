package engine

import (
	"fmt"
	"os"
	"path/filepath"
)

// splitPath splits an absolute, cleaned form of p into its segments.
// "/a/b/" and "/a/b" both yield [a b].
func splitPath(p string) []string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	} else {
		p = filepath.Clean(p)
	}

	var segs []string
	start := 0
	for i := 0; i < len(p); i++ {
		if os.IsPathSeparator(p[i]) {
			if i > start {
				segs = append(segs, p[start:i])
			}
			start = i + 1
		}
	}
	if start < len(p) {
		segs = append(segs, p[start:])
	}
	return segs
}

// isSubdir reports whether child equals parent or lies beneath it. The
// comparison is purely lexical over absolute paths.
func isSubdir(parent, child string) bool {
	p := splitPath(parent)
	c := splitPath(child)
	if len(p) > len(c) {
		return false
	}
	for i := range p {
		if !segmentEqual(p[i], c[i]) {
			return false
		}
	}
	return true
}

// validatePair classifies src and dst and rejects pairs for which a copy is
// ill-defined. It never mutates the filesystem.
func validatePair(src, dst string, cfg *settings) (srcStat, destStat *EntryStat, err error) {
	srcStat, err = Classify(src, cfg.dereference)
	if err != nil {
		return nil, nil, &PathError{Op: "stat", Src: src, Err: err}
	}
	if srcStat == nil {
		return nil, nil, &PathError{Op: "stat", Src: src, Err: os.ErrNotExist}
	}

	destStat, err = Classify(dst, cfg.dereference)
	if err != nil {
		return nil, nil, &PathError{Op: "stat", Dst: dst, Err: err}
	}

	if destStat != nil {
		if srcStat.sameInode(destStat) {
			return nil, nil, &PathError{Op: "copy", Src: src, Dst: dst, Err: ErrSameFile}
		}
		if srcStat.IsDir() && !destStat.IsDir() {
			return nil, nil, &PathError{
				Op:  "copy",
				Src: src,
				Dst: dst,
				Err: fmt.Errorf("%w: non-directory %q with directory %q", ErrTypeMismatch, dst, src),
			}
		}
		if !srcStat.IsDir() && destStat.IsDir() {
			return nil, nil, &PathError{
				Op:  "copy",
				Src: src,
				Dst: dst,
				Err: fmt.Errorf("%w: directory %q with non-directory %q", ErrTypeMismatch, dst, src),
			}
		}
	}

	if srcStat.IsDir() && isSubdir(src, dst) {
		return nil, nil, circularCopy(src, dst)
	}

	return srcStat, destStat, nil
}

// checkParentPaths walks dst's ancestors up to src's parent (or the root)
// and fails if one of them is src itself, reached through another path.
func checkParentPaths(src string, srcStat *EntryStat, dst string) error {
	srcParent, err := filepath.Abs(filepath.Dir(src))
	if err != nil {
		return &PathError{Op: "abs", Src: src, Err: err}
	}
	destParent, err := filepath.Abs(filepath.Dir(dst))
	if err != nil {
		return &PathError{Op: "abs", Dst: dst, Err: err}
	}

	for {
		if destParent == srcParent || destParent == filepath.Dir(destParent) {
			return nil
		}

		parentStat, err := Classify(destParent, true)
		if err != nil {
			return &PathError{Op: "stat", Dst: destParent, Err: err}
		}
		if parentStat == nil {
			return nil
		}
		if srcStat.sameInode(parentStat) {
			return circularCopy(src, dst)
		}

		destParent = filepath.Dir(destParent)
	}
}
