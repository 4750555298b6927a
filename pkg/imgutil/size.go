package imgutil

import "fmt"

// FormatSize renders a byte count as B, KB or MB with one decimal.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// FormatReduction renders a signed reduction percentage the way the
// result list shows it: "-12.3%" for savings, "+4.0%" for growth.
func FormatReduction(percent float64) string {
	if percent >= 0 {
		return fmt.Sprintf("-%.1f%%", percent)
	}
	return fmt.Sprintf("+%.1f%%", -percent)
}
