package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"secevents/internal/models"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	accentColor = color.New(color.FgGreen, color.Bold)
	warnColor   = color.New(color.FgYellow)
)

const rule = "============================================================"

// Console prints a report in a human readable or machine readable form.
type Console struct {
	Out    io.Writer
	Format string
}

func NewConsole(out io.Writer, format string) *Console {
	return &Console{Out: out, Format: format}
}

func (c *Console) Write(_ context.Context, r *models.Report) error {
	switch c.Format {
	case "json":
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(c.Out)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()
	case "", "text":
		return c.writeText(r)
	default:
		return fmt.Errorf("unknown report format %q", c.Format)
	}
}

func (c *Console) writeText(r *models.Report) error {
	w := &errWriter{w: c.Out}

	headerColor.Fprintln(w, rule)
	headerColor.Fprintln(w, "SECURITY EVENTS ANALYSIS")
	headerColor.Fprintln(w, rule)
	fmt.Fprintf(w, "Source: %s\n", r.Source)

	if r.Empty() {
		warnColor.Fprintln(w, "No events to analyze.")
		return w.err
	}

	table := r.Signatures
	summary := table.Summary

	fmt.Fprintf(w, "Total events: %d\n", summary.TotalEvents)
	if r.Period.From != nil && r.Period.To != nil {
		fmt.Fprintf(w, "Period: %s - %s\n", formatTime(*r.Period.From), formatTime(*r.Period.To))
	}
	fmt.Fprintf(w, "Unique signatures: %d\n", summary.UniqueSignatures)

	accentColor.Fprintln(w, "\nDistribution:")
	shares := Percentages(table.Entries, summary.TotalEvents)
	for i, e := range table.Entries {
		fmt.Fprintf(w, "  %2d. %-60s : %3d events (%.1f%%)\n", i+1, truncate(e.Signature, 60), e.Count, shares[i])
	}

	accentColor.Fprintln(w, "\nStatistics:")
	if top := summary.MostFrequent; top != nil {
		fmt.Fprintf(w, "  • Most frequent: '%s' (%d events)\n", top.Signature, top.Count)
	}
	fmt.Fprintf(w, "  • Mean events per signature: %s\n", formatStat(summary.Mean))
	fmt.Fprintf(w, "  • Median: %s\n", formatStat(summary.Median))
	fmt.Fprintf(w, "  • Standard deviation: %s\n", formatStat(summary.StdDev))

	accentColor.Fprintln(w, "\nHourly activity:")
	peak := peakHour(r.Hourly)
	for _, hour := range r.Hourly.Hours() {
		n := r.Hourly[hour]
		fmt.Fprintf(w, "  %02d | %-40s %d\n", hour, bar(n, peak, 40), n)
	}

	return w.err
}

func formatStat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

// errWriter remembers the first write error so text rendering can stay
// linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
