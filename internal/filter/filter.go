// Package filter decides which entries of a source tree take part in a
// copy: ordered include/exclude globs plus optional size bounds.
package filter

import (
	"os"
	"path/filepath"
)

type rule struct {
	pat     *compiledPattern
	include bool
}

// Chain is an ordered rule list. The first rule whose pattern matches an
// entry decides; an entry no rule matches is included. Size bounds are
// checked before any rule and apply to non-directories only.
type Chain struct {
	rules []rule

	// zero means unbounded
	minSize, maxSize int64
}

func NewChain() *Chain {
	return &Chain{}
}

func (c *Chain) AddExclude(pattern string) error { return c.add(pattern, false) }
func (c *Chain) AddInclude(pattern string) error { return c.add(pattern, true) }

func (c *Chain) add(pattern string, include bool) error {
	pat, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	c.rules = append(c.rules, rule{pat: pat, include: include})
	return nil
}

func (c *Chain) SetMinSize(n int64) { c.minSize = n }
func (c *Chain) SetMaxSize(n int64) { c.maxSize = n }

// Empty reports whether the chain would include everything.
func (c *Chain) Empty() bool {
	return len(c.rules) == 0 && c.minSize == 0 && c.maxSize == 0
}

func (c *Chain) sizeOK(size int64) bool {
	return (c.minSize == 0 || size >= c.minSize) && (c.maxSize == 0 || size <= c.maxSize)
}

// Match reports whether the entry at relPath, slash-separated and relative
// to the copy root, is included.
func (c *Chain) Match(relPath string, isDir bool, size int64) bool {
	if !isDir && !c.sizeOK(size) {
		return false
	}
	for _, r := range c.rules {
		if r.pat.match(relPath, isDir) {
			return r.include
		}
	}
	return true
}

// Predicate adapts the chain to a copy filter over source paths beneath
// srcRoot, or returns nil when the chain is empty. The root itself is
// always included. Entries are inspected with lstat, so a symlink is
// matched as a link and never as the directory it may point to. An entry
// that cannot be inspected is included and left for the copy to report.
func (c *Chain) Predicate(srcRoot string) func(src, dst string) bool {
	if c == nil || c.Empty() {
		return nil
	}
	return func(src, _ string) bool {
		rel, err := filepath.Rel(srcRoot, src)
		if err != nil || rel == "." {
			return true
		}
		info, err := os.Lstat(src)
		if err != nil {
			return true
		}
		return c.Match(filepath.ToSlash(rel), info.IsDir(), info.Size())
	}
}
