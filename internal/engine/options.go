package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/platform"
	"github.com/bamsammich/treecopy/internal/stats"
)

// FilterFunc decides whether the entry at src (copied to dst) is included.
// Returning false skips the entry and everything beneath it.
type FilterFunc func(src, dst string) bool

// Options control a single copy operation.
type Options struct {
	// Overwrite replaces existing destination files. nil means true.
	Overwrite *bool
	// ErrorOnExist fails on an existing destination file when Overwrite
	// is false. Otherwise such files are skipped.
	ErrorOnExist bool
	// PreserveTimestamps copies atime and mtime (millisecond precision).
	PreserveTimestamps bool
	// Dereference copies what symlinks point to instead of the links.
	Dereference bool
	Filter      FilterFunc

	// Workers bounds in-flight entries for Copy. Ignored by CopySync.
	Workers int

	Logger *slog.Logger
	Events chan<- event.Event
	Stats  *stats.Collector
}

// Bool returns a pointer to v, for Options.Overwrite.
func Bool(v bool) *bool {
	return &v
}

// DefaultWorkers is the concurrency bound used when Options.Workers is unset.
func DefaultWorkers() int {
	return min(runtime.NumCPU()*2, 32)
}

// settings is the normalized form of Options. It is computed once per copy
// and shared read-only by every entry of the traversal.
type settings struct {
	filter       FilterFunc
	logger       *slog.Logger
	events       chan<- event.Event
	stats        *stats.Collector
	workers      int
	overwrite    bool
	errorOnExist bool
	preserveTime bool
	dereference  bool

	// merged, when set, records destination directories that already
	// existed and were merged into.
	merged *dirSet
}

func (o Options) normalize() *settings {
	cfg := &settings{
		overwrite:    o.Overwrite == nil || *o.Overwrite,
		errorOnExist: o.ErrorOnExist,
		preserveTime: o.PreserveTimestamps,
		dereference:  o.Dereference,
		filter:       o.Filter,
		workers:      o.Workers,
		logger:       o.Logger,
		events:       o.Events,
		stats:        o.Stats,
	}
	if cfg.workers <= 0 {
		cfg.workers = DefaultWorkers()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.stats == nil {
		cfg.stats = &stats.Collector{}
	}
	cfg.logger = cfg.logger.With("op", uuid.New().String()[:8])

	if cfg.preserveTime && platform.Is32Bit() {
		msg := "preserving timestamps on a 32-bit platform may lose sub-second precision"
		cfg.logger.Warn(msg)
		event.Emit(cfg.events, event.Event{Type: event.Warning, Message: msg})
	}

	return cfg
}

// include runs the filter, if any, on a src/dst pair.
func (s *settings) include(src, dst string) bool {
	if s.filter == nil || s.filter(src, dst) {
		return true
	}
	s.stats.AddEntriesFiltered(1)
	s.logger.Debug("filtered", "src", src)
	event.Emit(s.events, event.Event{Type: event.EntryFiltered, Path: src})
	return false
}

func (s *settings) failed(ctx context.Context, dst string, err error) {
	s.stats.AddEntriesFailed(1)
	s.logger.DebugContext(ctx, "entry failed", "dst", dst, "error", err)
	event.Emit(s.events, event.Event{Type: event.EntryFailed, Path: dst, Error: err})
}

// dirSet collects paths from concurrent traversal goroutines.
type dirSet struct {
	mu    sync.Mutex
	paths []string
}

func (d *dirSet) add(path string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.paths = append(d.paths, path)
	d.mu.Unlock()
}

// relativeTo returns the recorded paths keyed relative to root. The root
// itself is keyed ".".
func (d *dirSet) relativeTo(root string) map[string]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]bool, len(d.paths))
	for _, p := range d.paths {
		if rel, err := filepath.Rel(root, p); err == nil {
			out[rel] = true
		}
	}
	return out
}
