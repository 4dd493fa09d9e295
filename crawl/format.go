package crawl

import "fmt"

// FormatBytes formats a byte count with a binary unit, e.g. "1.5 KB".
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// FormatResult summarizes a crawl for the terminal.
func FormatResult(r *Result) string {
	return fmt.Sprintf("Indexed %d pages (%s of text), skipped %d, failed %d",
		r.Indexed, FormatBytes(r.Bytes), r.Skipped, r.Failed)
}
