package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/bamsammich/treecopy/internal/event"
)

// copyLink recreates the symlink t.src at t.dst.
func (c *copier) copyLink(ctx context.Context, t copyTask) error {
	target, err := os.Readlink(t.src)
	if err != nil {
		return &PathError{Op: "readlink", Src: t.src, Err: err}
	}
	srcTarget, err := c.resolveTarget(target)
	if err != nil {
		return &PathError{Op: "abs", Src: t.src, Err: err}
	}

	if t.destStat == nil {
		return c.symlink(ctx, srcTarget, t.dst)
	}

	existing, err := os.Readlink(t.dst)
	if err != nil {
		// Not a link. Creating over it fails with EEXIST, which is the
		// error the caller should see.
		if errors.Is(err, unix.EINVAL) {
			return c.symlink(ctx, srcTarget, t.dst)
		}
		return &PathError{Op: "readlink", Dst: t.dst, Err: err}
	}
	destTarget, err := c.resolveTarget(existing)
	if err != nil {
		return &PathError{Op: "abs", Dst: t.dst, Err: err}
	}

	// Containment includes equality, so a destination link already pointing
	// at the same target is refused as circular.
	if isSubdir(destTarget, srcTarget) {
		return circularCopy(srcTarget, destTarget)
	}
	if isSubdir(srcTarget, destTarget) {
		return unsafeOverwrite(destTarget, srcTarget)
	}

	if err := os.Remove(t.dst); err != nil {
		return &PathError{Op: "remove", Dst: t.dst, Err: err}
	}
	return c.symlink(ctx, target, t.dst)
}

// resolveTarget returns target as stored, or absolute against the working
// directory when dereferencing.
func (c *copier) resolveTarget(target string) (string, error) {
	if !c.cfg.dereference {
		return target, nil
	}
	return filepath.Abs(target)
}

func (c *copier) symlink(ctx context.Context, target, dst string) error {
	if err := os.Symlink(target, dst); err != nil {
		return &PathError{Op: "symlink", Dst: dst, Err: err}
	}
	c.cfg.stats.AddLinksCreated(1)
	c.cfg.logger.DebugContext(ctx, "created link", "dst", dst, "target", target)
	event.Emit(c.cfg.events, event.Event{Type: event.LinkCreated, Path: dst})
	return nil
}
