// Package stats counts what a copy did. Counters are updated from many
// goroutines and read at any time through Snapshot.
package stats

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Collector accumulates copy and verify counts. The zero value is usable;
// NewCollector also starts the elapsed-time clock.
type Collector struct {
	filesCopied       atomic.Int64
	bytesCopied       atomic.Int64
	dirsCreated       atomic.Int64
	linksCreated      atomic.Int64
	entriesSkipped    atomic.Int64
	entriesFiltered   atomic.Int64
	entriesFailed     atomic.Int64
	filesVerified     atomic.Int64
	filesVerifyFailed atomic.Int64
	start             time.Time
}

func NewCollector() *Collector {
	return &Collector{start: time.Now()}
}

// Snapshot holds the counters as read at one moment.
type Snapshot struct {
	FilesCopied       int64
	BytesCopied       int64
	DirsCreated       int64
	LinksCreated      int64
	EntriesSkipped    int64
	EntriesFiltered   int64
	EntriesFailed     int64
	FilesVerified     int64
	FilesVerifyFailed int64
	Elapsed           time.Duration
}

func (c *Collector) AddFilesCopied(n int64)       { c.filesCopied.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)       { c.dirsCreated.Add(n) }
func (c *Collector) AddLinksCreated(n int64)      { c.linksCreated.Add(n) }
func (c *Collector) AddEntriesSkipped(n int64)    { c.entriesSkipped.Add(n) }
func (c *Collector) AddEntriesFiltered(n int64)   { c.entriesFiltered.Add(n) }
func (c *Collector) AddEntriesFailed(n int64)     { c.entriesFailed.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.filesVerified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.filesVerifyFailed.Add(n) }

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesCopied:       c.filesCopied.Load(),
		BytesCopied:       c.bytesCopied.Load(),
		DirsCreated:       c.dirsCreated.Load(),
		LinksCreated:      c.linksCreated.Load(),
		EntriesSkipped:    c.entriesSkipped.Load(),
		EntriesFiltered:   c.entriesFiltered.Load(),
		EntriesFailed:     c.entriesFailed.Load(),
		FilesVerified:     c.filesVerified.Load(),
		FilesVerifyFailed: c.filesVerifyFailed.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Elapsed is zero for a Collector not created by NewCollector.
func (c *Collector) Elapsed() time.Duration {
	if c.start.IsZero() {
		return 0
	}
	return time.Since(c.start)
}

// Copied is the number of entries the copy created or replaced.
func (s Snapshot) Copied() int64 {
	return s.FilesCopied + s.DirsCreated + s.LinksCreated
}

// LogValue renders the snapshot as a log group. Verify counts appear only
// when verification ran.
func (s Snapshot) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("files", s.FilesCopied),
		slog.Int64("bytes", s.BytesCopied),
		slog.Int64("dirs", s.DirsCreated),
		slog.Int64("links", s.LinksCreated),
		slog.Int64("skipped", s.EntriesSkipped),
		slog.Int64("filtered", s.EntriesFiltered),
		slog.Int64("failed", s.EntriesFailed),
		slog.Duration("elapsed", s.Elapsed),
	}
	if s.FilesVerified > 0 || s.FilesVerifyFailed > 0 {
		attrs = append(attrs,
			slog.Int64("verified", s.FilesVerified),
			slog.Int64("verify_failed", s.FilesVerifyFailed),
		)
	}
	return slog.GroupValue(attrs...)
}
