//go:build !darwin && !windows

package engine

func segmentEqual(a, b string) bool {
	return a == b
}
