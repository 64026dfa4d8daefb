package engine

import (
	"context"

	"github.com/bamsammich/treecopy/internal/stats"
)

// Config describes a copy operation as requested from the command line.
type Config struct {
	Src     string
	Dst     string
	Options Options

	// Sequential selects CopySync semantics: ordered, stop at first error.
	Sequential bool
	// Verify diffs the trees after a successful copy.
	Verify bool
}

// Result is the outcome of a copy operation.
type Result struct {
	Stats       stats.Snapshot
	Differences []Difference
	Err         error
}

// Run executes a copy operation, blocking until complete. Statistics are
// collected into cfg.Options.Stats when set.
func Run(ctx context.Context, cfg Config) Result {
	opts := cfg.Options
	if opts.Stats == nil {
		opts.Stats = stats.NewCollector()
	}

	s := opts.normalize()
	if cfg.Verify {
		s.merged = &dirSet{}
	}
	var sched scheduler = sequential{}
	if !cfg.Sequential {
		sched = newConcurrent(s.workers)
	}
	if err := copyTree(ctx, cfg.Src, cfg.Dst, s, sched); err != nil {
		return Result{Stats: opts.Stats.Snapshot(), Err: err}
	}

	var diffs []Difference
	if cfg.Verify {
		vr := Verify(ctx, VerifyConfig{
			SrcRoot: cfg.Src,
			DstRoot: cfg.Dst,
			Options: DiffOptions{
				Dereference:  opts.Dereference,
				CompareTimes: opts.PreserveTimestamps,
				Filter:       opts.Filter,
				ExistingDirs: s.merged.relativeTo(cfg.Dst),
				Workers:      opts.Workers,
			},
			Events: opts.Events,
			Stats:  opts.Stats,
		})
		if vr.Err != nil {
			return Result{Stats: opts.Stats.Snapshot(), Err: vr.Err}
		}
		diffs = vr.Differences
	}

	return Result{Stats: opts.Stats.Snapshot(), Differences: diffs}
}
