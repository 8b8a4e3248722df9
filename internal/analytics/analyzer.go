package analytics

import (
	"math"
	"sort"

	"secevents/internal/models"
)

// Aggregate counts events per signature. Entries are ordered by count
// descending; equal counts keep first-seen order.
func Aggregate(records []models.EventRecord) models.FrequencyTable {
	index := make(map[string]int)
	entries := make([]models.SignatureCount, 0)

	for _, rec := range records {
		i, ok := index[rec.Signature]
		if !ok {
			i = len(entries)
			index[rec.Signature] = i
			entries = append(entries, models.SignatureCount{Signature: rec.Signature})
		}
		entries[i].Count++
	}

	// Стабильная сортировка сохраняет порядок первого появления
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Count > entries[b].Count
	})

	return models.FrequencyTable{
		Entries: entries,
		Summary: summarize(entries, len(records)),
	}
}

func summarize(entries []models.SignatureCount, total int) models.Summary {
	summary := models.Summary{
		TotalEvents:      total,
		UniqueSignatures: len(entries),
	}
	if len(entries) == 0 {
		return summary
	}

	counts := make([]int, len(entries))
	for i, e := range entries {
		counts[i] = e.Count
	}

	mean := Mean(counts)
	median := Median(counts)
	stdDev := StdDev(counts)
	top := entries[0]

	summary.Mean = &mean
	summary.Median = &median
	summary.StdDev = &stdDev
	summary.MostFrequent = &top
	return summary
}

// HourlyHistogram buckets events by the hour of their own timestamp.
func HourlyHistogram(records []models.EventRecord) models.HourlyHistogram {
	hist := make(models.HourlyHistogram)
	for _, rec := range records {
		hist[rec.Timestamp.Hour()]++
	}
	return hist
}

// TimeRange returns the earliest and latest timestamps.
func TimeRange(records []models.EventRecord) models.Period {
	if len(records) == 0 {
		return models.Period{}
	}

	from, to := records[0].Timestamp, records[0].Timestamp
	for _, rec := range records[1:] {
		if rec.Timestamp.Before(from) {
			from = rec.Timestamp
		}
		if rec.Timestamp.After(to) {
			to = rec.Timestamp
		}
	}
	return models.Period{From: &from, To: &to}
}

// Analyze recomputes every derived view from scratch.
func Analyze(records []models.EventRecord) (models.FrequencyTable, models.HourlyHistogram, models.Period) {
	return Aggregate(records), HourlyHistogram(records), TimeRange(records)
}

func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += float64(v)
	}

	return sum / float64(len(values))
}

func Median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// StdDev is the sample standard deviation (n-1). A single value has zero
// deviation.
func StdDev(values []int) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := Mean(values)

	// Вычисляем стандартное отклонение
	var variance float64
	for _, v := range values {
		diff := float64(v) - mean
		variance += diff * diff
	}

	return math.Sqrt(variance / float64(len(values)-1))
}
