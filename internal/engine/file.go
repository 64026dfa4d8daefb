package engine

import (
	"context"
	"os"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/platform"
)

// modeBits is the part of a mode that chmod can set.
const modeBits = os.ModePerm | os.ModeSetuid | os.ModeSetgid | os.ModeSticky

func (c *copier) copyFile(ctx context.Context, t copyTask) error {
	if t.destStat != nil {
		if !c.cfg.overwrite {
			if c.cfg.errorOnExist {
				return destinationExists(t.dst)
			}
			c.cfg.stats.AddEntriesSkipped(1)
			c.cfg.logger.DebugContext(ctx, "skipped existing", "dst", t.dst)
			event.Emit(c.cfg.events, event.Event{Type: event.EntrySkipped, Path: t.dst})
			return nil
		}
		if err := os.Remove(t.dst); err != nil {
			return &PathError{Op: "remove", Dst: t.dst, Err: err}
		}
	}

	result, err := platform.CopyPath(t.src, t.dst, t.srcStat.Mode)
	if err != nil {
		return &PathError{Op: "copy", Src: t.src, Dst: t.dst, Err: err}
	}

	if c.cfg.preserveTime {
		if err := c.copyTimestamps(t); err != nil {
			return err
		}
	}

	// Always last: also drops the write bit added for read-only sources.
	if err := os.Chmod(t.dst, t.srcStat.Mode&modeBits); err != nil {
		return &PathError{Op: "chmod", Dst: t.dst, Err: err}
	}

	c.cfg.stats.AddFilesCopied(1)
	c.cfg.stats.AddBytesCopied(result.BytesWritten)
	c.cfg.logger.DebugContext(ctx, "copied file",
		"src", t.src,
		"dst", t.dst,
		"bytes", result.BytesWritten,
		"method", result.Method.String(),
	)
	event.Emit(c.cfg.events, event.Event{Type: event.FileCopied, Path: t.dst, Size: result.BytesWritten})
	return nil
}

// copyTimestamps applies the source's atime and mtime to the destination.
// Some platforms refuse utimes on read-only files, so the destination is
// made owner-writable first when the source is not.
func (c *copier) copyTimestamps(t copyTask) error {
	if t.srcStat.Mode&0o200 == 0 {
		if err := os.Chmod(t.dst, (t.srcStat.Mode|0o200)&modeBits); err != nil {
			return &PathError{Op: "chmod", Dst: t.dst, Err: err}
		}
	}

	// Reading the content moved the source's atime; stat it again.
	current, err := Classify(t.src, true)
	if err != nil {
		return &PathError{Op: "stat", Src: t.src, Err: err}
	}
	if current == nil {
		return &PathError{Op: "stat", Src: t.src, Err: os.ErrNotExist}
	}

	if err := platform.UtimesMillis(t.dst, current.Atime, current.Mtime); err != nil {
		return &PathError{Op: "utimes", Dst: t.dst, Err: err}
	}
	return nil
}
