package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bamsammich/treecopy/internal/event"
)

// CopySync copies src to dst one entry at a time. Directory children are
// processed in lexicographic order and the first failure stops the copy.
// Entries already copied stay in place.
func CopySync(src, dst string, opts Options) error {
	return copyTree(context.Background(), src, dst, opts.normalize(), sequential{})
}

// Copy copies src to dst, processing the children of each directory
// concurrently. At most opts.Workers non-directory entries are copied at
// the same time. Copy returns once every started entry has settled; the
// error is the first failure observed. Cancelling ctx stops new entries
// from starting but does not interrupt one already in progress.
func Copy(ctx context.Context, src, dst string, opts Options) error {
	cfg := opts.normalize()
	return copyTree(ctx, src, dst, cfg, newConcurrent(cfg.workers))
}

func copyTree(ctx context.Context, src, dst string, cfg *settings, sched scheduler) error {
	cfg.logger.InfoContext(ctx, "copy started",
		"src", src,
		"dst", dst,
		"dereference", cfg.dereference,
		"overwrite", cfg.overwrite,
	)
	event.Emit(cfg.events, event.Event{Type: event.CopyStarted, Path: src})

	srcStat, destStat, err := validatePair(src, dst, cfg)
	if err != nil {
		return err
	}
	if err := checkParentPaths(src, srcStat, dst); err != nil {
		return err
	}
	if !cfg.include(src, dst) {
		return nil
	}

	if parent := filepath.Dir(dst); !exists(parent) {
		if err := os.MkdirAll(parent, 0o777); err != nil {
			return &PathError{Op: "mkdir", Dst: parent, Err: err}
		}
	}

	c := &copier{cfg: cfg, sched: sched}
	err = c.entry(ctx, copyTask{src: src, dst: dst, srcStat: srcStat, destStat: destStat})

	snap := cfg.stats.Snapshot()
	if err != nil {
		cfg.logger.ErrorContext(ctx, "copy failed", "error", err, "stats", snap)
		return err
	}
	cfg.logger.InfoContext(ctx, "copy finished", "stats", snap)
	return nil
}
