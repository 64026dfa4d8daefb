package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// scaled divides v by 1024 until it drops below 1024 and returns the
// result together with the index of the unit reached.
func scaled(v float64, units int) (float64, int) {
	i := 0
	for v >= 1024 && i < units-1 {
		v /= 1024
		i++
	}
	return v, i
}

// FormatBytes renders a byte count with binary units: "512 B", "1.5 KiB".
func FormatBytes(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}
	units := [...]string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	v, i := scaled(float64(n), len(units))
	return fmt.Sprintf("%.1f %s", v, units[i])
}

// FormatRate renders bytes per second with three significant digits.
func FormatRate(perSec float64) string {
	if perSec <= 0 {
		return "0 B/s"
	}
	units := [...]string{"B/s", "KiB/s", "MiB/s", "GiB/s", "TiB/s", "PiB/s"}
	v, i := scaled(perSec, len(units))
	prec := 0
	switch {
	case v < 10:
		prec = 2
	case v < 100:
		prec = 1
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + " " + units[i]
}

// FormatCount groups the digits of n in threes: 14302 becomes "14,302".
func FormatCount(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// FormatDuration rounds d to the second: "42s", "3m 07s", "1h 02m 03s".
func FormatDuration(d time.Duration) string {
	total := int64(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// StripRoot returns path relative to root. Paths outside root, and root
// itself, are returned unchanged.
func StripRoot(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
