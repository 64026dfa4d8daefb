//go:build darwin || windows

package engine

import "strings"

// segmentEqual compares path segments case-insensitively, matching the
// default behavior of APFS/HFS+ and NTFS.
func segmentEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}
