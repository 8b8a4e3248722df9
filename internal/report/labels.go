package report

import (
	"strings"

	"secevents/internal/models"
)

// OtherLabel collects the tail of the distribution in share charts.
const OtherLabel = "Other"

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ShortLabel keeps the first word and up to 20 runes of the second.
// Single-word signatures are cut to 30 runes and always get an ellipsis.
func ShortLabel(signature string) string {
	parts := strings.Fields(signature)
	if len(parts) > 1 {
		return parts[0] + " " + truncate(parts[1], 20)
	}
	return truncate(signature, 30) + "..."
}

// CompactLabel shortens signatures longer than 25 runes to their first two
// words, at most 25 runes, followed by an ellipsis.
func CompactLabel(signature string) string {
	if len([]rune(signature)) <= 25 {
		return signature
	}
	parts := strings.Fields(signature)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return truncate(strings.Join(parts, " "), 25) + "..."
}

// TopWithOther keeps the first n entries and folds the rest into a single
// OtherLabel entry.
func TopWithOther(entries []models.SignatureCount, n int) []models.SignatureCount {
	if n <= 0 || len(entries) <= n {
		return append([]models.SignatureCount(nil), entries...)
	}

	out := append([]models.SignatureCount(nil), entries[:n]...)
	other := models.SignatureCount{Signature: OtherLabel}
	for _, e := range entries[n:] {
		other.Count += e.Count
	}
	return append(out, other)
}

// Percentages returns each entry's share of total in percent.
func Percentages(entries []models.SignatureCount, total int) []float64 {
	out := make([]float64, len(entries))
	if total == 0 {
		return out
	}
	for i, e := range entries {
		out[i] = float64(e.Count) / float64(total) * 100
	}
	return out
}

// DenseHours expands a sparse histogram to all 24 hours.
func DenseHours(h models.HourlyHistogram) [24]int {
	var out [24]int
	for hour, n := range h {
		if hour >= 0 && hour < 24 {
			out[hour] = n
		}
	}
	return out
}

// bar scales value against peak into at most width cells.
func bar(value, peak, width int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := value * width / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func peakHour(h models.HourlyHistogram) int {
	peak := 0
	for _, n := range h {
		if n > peak {
			peak = n
		}
	}
	return peak
}
