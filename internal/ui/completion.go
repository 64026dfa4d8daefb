package ui

import (
	"fmt"

	"github.com/bamsammich/treecopy/internal/stats"
)

// CompletionSummary builds a final summary line from a snapshot.
// Format: done ✓  files 48,917  size 2.1 GiB  dirs 1,204  links 12  time 3m 17s  errors 0
func CompletionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.EntriesFailed > 0 || snap.FilesVerifyFailed > 0 {
		icon = "✗"
	}

	base := fmt.Sprintf("done %s  files %s  size %s  dirs %s  links %s  time %s",
		icon,
		FormatCount(snap.FilesCopied),
		FormatBytes(snap.BytesCopied),
		FormatCount(snap.DirsCreated),
		FormatCount(snap.LinksCreated),
		FormatDuration(snap.Elapsed),
	)

	if snap.EntriesSkipped > 0 {
		base += fmt.Sprintf("  skipped %s", FormatCount(snap.EntriesSkipped))
	}
	if snap.EntriesFiltered > 0 {
		base += fmt.Sprintf("  filtered %s", FormatCount(snap.EntriesFiltered))
	}
	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		base += fmt.Sprintf("  verified %s", FormatCount(snap.FilesVerified))
	}

	base += fmt.Sprintf("  errors %d", snap.EntriesFailed+snap.FilesVerifyFailed)

	return base
}
