package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bamsammich/treecopy/internal/event"
)

// copyDir merges the children of t.src into t.dst. An existing destination
// directory is never removed or re-moded; a freshly created one receives
// the source mode once all children are in place.
func (c *copier) copyDir(ctx context.Context, t copyTask) error {
	created, names, err := c.openDir(ctx, t)
	if err != nil {
		return err
	}

	err = c.sched.forEach(names, func(name string) error {
		return c.child(ctx, filepath.Join(t.src, name), filepath.Join(t.dst, name))
	})
	if err != nil {
		return err
	}

	if created {
		if err := os.Chmod(t.dst, t.srcStat.Mode&modeBits); err != nil {
			err = &PathError{Op: "chmod", Dst: t.dst, Err: err}
			c.cfg.failed(ctx, t.dst, err)
			return err
		}
	}
	return nil
}

// openDir creates t.dst if absent and lists t.src in name order. It holds
// a scheduler token only while it has descriptors open, never while the
// children run. Failures other than cancellation are reported here.
func (c *copier) openDir(ctx context.Context, t copyTask) (created bool, names []string, err error) {
	release, err := c.sched.acquire(ctx)
	if err != nil {
		return false, nil, err
	}
	defer release()

	if t.destStat == nil {
		if err := os.Mkdir(t.dst, 0o777); err != nil {
			err = &PathError{Op: "mkdir", Dst: t.dst, Err: err}
			c.cfg.failed(ctx, t.dst, err)
			return false, nil, err
		}
		created = true
		c.cfg.stats.AddDirsCreated(1)
		c.cfg.logger.DebugContext(ctx, "created dir", "dst", t.dst)
		event.Emit(c.cfg.events, event.Event{Type: event.DirCreated, Path: t.dst})
	} else {
		c.cfg.merged.add(t.dst)
	}

	entries, err := os.ReadDir(t.src)
	if err != nil {
		err = &PathError{Op: "readdir", Src: t.src, Err: err}
		c.cfg.failed(ctx, t.dst, err)
		return created, nil, err
	}
	names = make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return created, names, nil
}

// child filters, validates and copies a single directory child.
func (c *copier) child(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.cfg.include(src, dst) {
		return nil
	}

	srcStat, destStat, err := validatePair(src, dst, c.cfg)
	if err != nil {
		c.cfg.failed(ctx, dst, err)
		return err
	}

	return c.entry(ctx, copyTask{src: src, dst: dst, srcStat: srcStat, destStat: destStat})
}
