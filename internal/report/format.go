package report

import "fmt"

// =============================================================================
// Formatting Helper Functions (exported for reuse)
// =============================================================================

// FormatMs formats a millisecond value with one decimal.
func FormatMs(ms float64) string {
	return fmt.Sprintf("%.1fms", ms)
}

// FormatSeconds formats an elapsed-time value the way uv prints it.
func FormatSeconds(s float64) string {
	return fmt.Sprintf("%.3fs", s)
}

// FormatMiB formats a size in MiB with one decimal.
func FormatMiB(mib float64) string {
	return fmt.Sprintf("%.1f MiB", mib)
}

// FormatMbps formats a throughput value in megabits per second.
func FormatMbps(mbps float64) string {
	return fmt.Sprintf("%.1f Mbps", mbps)
}

// Truncate shortens a trigger line for single-line display.
func Truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
