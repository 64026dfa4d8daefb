package engine

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

// Reasons reported in a Difference.
const (
	DiffMissing = "missing"
	DiffExtra   = "extra"
	DiffKind    = "kind"
	DiffMode    = "mode"
	DiffContent = "content"
	DiffTarget  = "target"
	DiffMtime   = "mtime"
)

// Difference is one way in which the destination tree departs from the
// source. Path is relative to both roots.
type Difference struct {
	Path   string
	Reason string
	Detail string
}

func (d Difference) String() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Path, d.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Path, d.Reason, d.Detail)
}

// DiffOptions mirror the copy options that change what a faithful copy
// looks like.
type DiffOptions struct {
	// Dereference follows symlinks in the source, as a dereferencing copy
	// does.
	Dereference bool
	// CompareTimes also requires file mtimes to agree to the millisecond.
	CompareTimes bool
	// Filter excludes source entries the copy skipped.
	Filter FilterFunc
	// ExistingDirs marks directories, relative to the destination root,
	// that existed before the copy. A copy leaves their mode as found, so
	// it is not compared.
	ExistingDirs map[string]bool
	Workers      int
}

// Diff compares the trees at srcRoot and dstRoot and returns their
// differences sorted by path. Devices in the source are expected to appear
// as regular files in the destination and are not compared by content.
func Diff(ctx context.Context, srcRoot, dstRoot string, opts DiffOptions) ([]Difference, error) {
	diffs, _, err := diffTrees(ctx, srcRoot, dstRoot, opts)
	return diffs, err
}

// VerifyConfig controls the post-copy verification pass.
type VerifyConfig struct {
	SrcRoot string
	DstRoot string
	Options DiffOptions
	Events  chan<- event.Event
	Stats   *stats.Collector
}

// VerifyResult holds the outcome of a verification pass.
type VerifyResult struct {
	Verified    int64
	Failed      int64
	Differences []Difference
	Err         error
}

// Verify diffs the two trees and records the outcome in cfg.Stats and on
// cfg.Events. Verified counts regular files whose content matched.
func Verify(ctx context.Context, cfg VerifyConfig) VerifyResult {
	event.Emit(cfg.Events, event.Event{Type: event.VerifyStarted, Path: cfg.DstRoot})

	diffs, compared, err := diffTrees(ctx, cfg.SrcRoot, cfg.DstRoot, cfg.Options)
	if err != nil {
		return VerifyResult{Err: err}
	}

	mismatched := 0
	for _, d := range diffs {
		if d.Reason == DiffContent {
			mismatched++
		}
		event.Emit(cfg.Events, event.Event{
			Type:    event.VerifyFailed,
			Path:    d.Path,
			Message: d.String(),
		})
	}

	result := VerifyResult{
		Verified:    int64(compared - mismatched),
		Failed:      int64(len(diffs)),
		Differences: diffs,
	}
	if cfg.Stats != nil {
		cfg.Stats.AddFilesVerified(result.Verified)
		cfg.Stats.AddFilesVerifyFailed(result.Failed)
	}
	if len(diffs) == 0 {
		event.Emit(cfg.Events, event.Event{Type: event.VerifyOK, Path: cfg.DstRoot, Size: result.Verified})
	}
	return result
}

// diffTrees returns the differences and the number of files compared by
// content.
func diffTrees(ctx context.Context, srcRoot, dstRoot string, opts DiffOptions) ([]Difference, int, error) {
	srcTree, err := walkTree(ctx, srcRoot, dstRoot, opts.Dereference, opts.Filter)
	if err != nil {
		return nil, 0, err
	}
	dstTree, err := walkTree(ctx, dstRoot, "", false, nil)
	if err != nil {
		return nil, 0, err
	}

	var (
		mu    sync.Mutex
		diffs []Difference
	)
	add := func(d Difference) {
		mu.Lock()
		diffs = append(diffs, d)
		mu.Unlock()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	compared := 0
	for rel, s := range srcTree {
		d, ok := dstTree[rel]
		if !ok {
			add(Difference{Path: rel, Reason: DiffMissing})
			continue
		}
		want := s.Kind
		if want == CharDevice || want == BlockDevice {
			want = File
		}
		if want != d.Kind {
			add(Difference{Path: rel, Reason: DiffKind, Detail: fmt.Sprintf("%s != %s", want, d.Kind)})
			continue
		}

		keepMode := s.Kind == Symlink || (s.IsDir() && opts.ExistingDirs[rel])
		if !keepMode && s.Mode&modeBits != d.Mode&modeBits {
			add(Difference{Path: rel, Reason: DiffMode, Detail: fmt.Sprintf("%v != %v", s.Mode&modeBits, d.Mode&modeBits)})
		}

		switch s.Kind {
		case Symlink:
			g.Go(func() error {
				srcPath, dstPath := filepath.Join(srcRoot, rel), filepath.Join(dstRoot, rel)
				srcTarget, err := os.Readlink(srcPath)
				if err != nil {
					return &PathError{Op: "readlink", Src: srcPath, Err: err}
				}
				dstTarget, err := os.Readlink(dstPath)
				if err != nil {
					return &PathError{Op: "readlink", Dst: dstPath, Err: err}
				}
				if srcTarget != dstTarget {
					add(Difference{Path: rel, Reason: DiffTarget, Detail: fmt.Sprintf("%s != %s", srcTarget, dstTarget)})
				}
				return nil
			})
		case File:
			if opts.CompareTimes && s.Mtime.UnixMilli() != d.Mtime.UnixMilli() {
				add(Difference{Path: rel, Reason: DiffMtime, Detail: fmt.Sprintf("%v != %v", s.Mtime, d.Mtime)})
			}
			compared++
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				srcSum, err := contentDigest(filepath.Join(srcRoot, rel))
				if err != nil {
					return err
				}
				dstSum, err := contentDigest(filepath.Join(dstRoot, rel))
				if err != nil {
					return err
				}
				if srcSum != dstSum {
					add(Difference{Path: rel, Reason: DiffContent, Detail: fmt.Sprintf("%.16s != %.16s", srcSum, dstSum)})
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	for rel := range dstTree {
		if _, ok := srcTree[rel]; !ok {
			diffs = append(diffs, Difference{Path: rel, Reason: DiffExtra})
		}
	}

	slices.SortFunc(diffs, func(a, b Difference) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Reason, b.Reason))
	})
	return diffs, compared, nil
}

// walkTree classifies every entry under root, keyed by path relative to
// root. The root itself is keyed ".". A missing root yields an empty tree.
// filter, when set, is called with the entry's path and its counterpart
// under dstRoot; rejected directories are not descended into.
func walkTree(ctx context.Context, root, dstRoot string, follow bool, filter FilterFunc) (map[string]*EntryStat, error) {
	tree := make(map[string]*EntryStat)
	var walk func(rel string, ancestors []DevIno) error
	walk = func(rel string, ancestors []DevIno) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(root, rel)
		if filter != nil && !filter(path, filepath.Join(dstRoot, rel)) {
			return nil
		}
		st, err := Classify(path, follow)
		if err != nil {
			return &PathError{Op: "stat", Src: path, Err: err}
		}
		if st == nil {
			return nil
		}
		tree[rel] = st
		if !st.IsDir() || slices.Contains(ancestors, st.DevIno) {
			return nil
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return &PathError{Op: "readdir", Src: path, Err: err}
		}
		ancestors = append(ancestors, st.DevIno)
		for _, e := range entries {
			if err := walk(filepath.Join(rel, e.Name()), ancestors); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(".", nil); err != nil {
		return nil, err
	}
	return tree, nil
}
