package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"secevents/internal/models"
)

// Artifact names written by Charts.
const (
	DistributionChart = "security_events_distribution.txt"
	ShareChart        = "security_events_pie_chart.txt"
	TimelineChart     = "security_events_timeline.txt"
	CountplotChart    = "security_events_countplot.txt"
)

const chartWidth = 50

// Charts renders text charts into Dir. Empty reports produce no files.
type Charts struct {
	Dir  string
	TopN int

	written []string
}

func NewCharts(dir string, topN int) *Charts {
	return &Charts{Dir: dir, TopN: topN}
}

// Written lists the artifact paths of the last Write.
func (c *Charts) Written() []string {
	return c.written
}

func (c *Charts) Write(_ context.Context, r *models.Report) error {
	c.written = nil

	artifacts := c.Render(r)
	if len(artifacts) == 0 {
		return nil
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create chart dir: %w", err)
	}

	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(c.Dir, name)
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return fmt.Errorf("failed to write chart %s: %w", name, err)
		}
		c.written = append(c.written, path)
	}
	return nil
}

// Render builds every chart in memory, keyed by artifact name.
func (c *Charts) Render(r *models.Report) map[string][]byte {
	if r.Empty() {
		return nil
	}

	return map[string][]byte{
		DistributionChart: distribution(r.Signatures),
		ShareChart:        share(r.Signatures, c.TopN),
		TimelineChart:     timeline(r.Hourly),
		CountplotChart:    countplot(r.Signatures),
	}
}

func distribution(t models.FrequencyTable) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "Security events by signature")
	fmt.Fprintln(&buf)

	peak := t.Entries[0].Count
	for _, e := range t.Entries {
		fmt.Fprintf(&buf, "%-34s | %-*s %d\n", ShortLabel(e.Signature), chartWidth, bar(e.Count, peak, chartWidth), e.Count)
	}
	return buf.Bytes()
}

func share(t models.FrequencyTable, topN int) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "Share of events by signature")
	fmt.Fprintln(&buf)

	slices := TopWithOther(t.Entries, topN)
	shares := Percentages(slices, t.Summary.TotalEvents)
	for i, e := range slices {
		fmt.Fprintf(&buf, "%-60s %5.1f%% %s\n", truncate(e.Signature, 60), shares[i], bar(int(shares[i]*10), 1000, chartWidth))
	}
	return buf.Bytes()
}

func timeline(h models.HourlyHistogram) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "Events by hour of day")
	fmt.Fprintln(&buf)

	dense := DenseHours(h)
	peak := peakHour(h)
	for hour, n := range dense {
		fmt.Fprintf(&buf, "%02d | %-*s %d\n", hour, chartWidth, bar(n, peak, chartWidth), n)
	}
	return buf.Bytes()
}

func countplot(t models.FrequencyTable) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "Security event types")
	fmt.Fprintln(&buf)

	// Сокращённые подписи могут совпасть, поэтому пересчитываем
	counts := make(map[string]int)
	order := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		label := CompactLabel(e.Signature)
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label] += e.Count
	}
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})

	peak := counts[order[0]]
	for _, label := range order {
		fmt.Fprintf(&buf, "%-28s | %-*s %d\n", label, chartWidth, bar(counts[label], peak, chartWidth), counts[label])
	}
	return buf.Bytes()
}
