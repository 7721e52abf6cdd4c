package tui

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// FormatCount formats n with a k/M suffix above a thousand.
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

// FormatBytes formats a size as "X B", "X.X KB" or "X.X MB".
func FormatBytes(n int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case n >= MB:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(KB))
	}
	return fmt.Sprintf("%d B", n)
}

// FormatPercentage formats a ratio (0-1) as a percentage.
func FormatPercentage(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// Fit truncates s to width terminal cells and pads it to exactly width.
// Wide (CJK) characters count as two cells.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
