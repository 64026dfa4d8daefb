package engine

import (
	"context"
)

// copier carries the per-operation settings and scheduler through the
// recursive traversal. It holds no mutable state of its own.
type copier struct {
	cfg   *settings
	sched scheduler
}

// entry copies one classified entry. Non-directories hold a scheduler
// token for the duration of their filesystem work; directories take one
// in openDir.
func (c *copier) entry(ctx context.Context, t copyTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.srcStat.Kind == Dir {
		return c.dispatch(ctx, t)
	}

	release, err := c.sched.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := c.dispatch(ctx, t); err != nil {
		c.cfg.failed(ctx, t.dst, err)
		return err
	}
	return nil
}

// dispatch routes an entry to the copier for its kind. The source stat was
// taken with lstat unless dereferencing, so symlinks are seen here only
// when they are to be copied as links.
func (c *copier) dispatch(ctx context.Context, t copyTask) error {
	switch t.srcStat.Kind {
	case Dir:
		return c.copyDir(ctx, t)
	case File, CharDevice, BlockDevice:
		return c.copyFile(ctx, t)
	case Symlink:
		return c.copyLink(ctx, t)
	case Socket, FIFO, Unknown:
		return unsupportedKind(t.src, t.srcStat.Kind)
	default:
		return unsupportedKind(t.src, Unknown)
	}
}
