package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/stats"
)

const progressInterval = 5 * time.Second

// plainPresenter writes failures and verify mismatches to w, every entry
// as well when verbose, and periodic progress to errW. On a terminal the
// progress line is redrawn in place.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	dstRoot string
	tty     bool
	verbose bool

	drawn bool
}

func (p *plainPresenter) Run(events <-chan Event) error {
	interval := progressInterval
	if p.tty {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearProgress()
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	path := StripRoot(p.dstRoot, ev.Path)
	switch ev.Type {
	case event.EntryFailed:
		p.clearProgress()
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s  failed  %s\n", path, errMsg)
	case event.Warning:
		p.clearProgress()
		fmt.Fprintf(p.w, "warning: %s\n", ev.Message)
	case event.VerifyStarted:
		fmt.Fprintln(p.w, "verifying...")
	case event.VerifyFailed:
		p.clearProgress()
		fmt.Fprintf(p.w, "MISMATCH: %s\n", ev.Message)
	case event.FileCopied:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  %s\n", path, FormatBytes(ev.Size))
		}
	case event.EntrySkipped:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  skipped\n", path)
		}
	case event.EntryFiltered:
		if p.verbose {
			fmt.Fprintf(p.w, "%s  filtered\n", ev.Path)
		}
	case event.DirCreated, event.LinkCreated, event.CopyStarted, event.VerifyOK:
		// counted by the collector
	}
}

func (p *plainPresenter) printProgress() {
	if p.stats == nil || p.errW == nil {
		return
	}
	snap := p.stats.Snapshot()
	speed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		speed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}
	line := fmt.Sprintf("progress: %s files %s %s",
		FormatCount(snap.FilesCopied),
		FormatBytes(snap.BytesCopied),
		FormatRate(speed),
	)
	if p.tty {
		fmt.Fprintf(p.errW, "\r\033[K%s", line)
		p.drawn = true
		return
	}
	fmt.Fprintln(p.errW, line)
}

// clearProgress erases a progress line drawn in place so regular output
// does not land behind it.
func (p *plainPresenter) clearProgress() {
	if !p.drawn {
		return
	}
	fmt.Fprint(p.errW, "\r\033[K")
	p.drawn = false
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
