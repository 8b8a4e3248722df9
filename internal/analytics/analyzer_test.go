package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secevents/internal/models"
)

func rec(ts string, sig string) models.EventRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return models.EventRecord{Timestamp: t, Signature: sig}
}

func sampleRecords() []models.EventRecord {
	return []models.EventRecord{
		rec("2024-01-01T10:00:00Z", "A"),
		rec("2024-01-01T11:00:00Z", "B"),
		rec("2024-01-01T12:30:00Z", "A"),
	}
}

func TestAggregateSample(t *testing.T) {
	table := Aggregate(sampleRecords())

	assert.Equal(t, []models.SignatureCount{{Signature: "A", Count: 2}, {Signature: "B", Count: 1}}, table.Entries)
	require.NotNil(t, table.Summary.MostFrequent)
	assert.Equal(t, "A", table.Summary.MostFrequent.Signature)
	assert.Equal(t, 3, table.Summary.TotalEvents)
	assert.Equal(t, 2, table.Summary.UniqueSignatures)
	assert.InDelta(t, 1.5, *table.Summary.Mean, 1e-9)
	assert.InDelta(t, 1.5, *table.Summary.Median, 1e-9)
	assert.InDelta(t, 0.7071067811865476, *table.Summary.StdDev, 1e-9)
}

func TestAggregateCountsSumToInput(t *testing.T) {
	sigs := []string{"x", "y", "z", "x", "w", "x", "y", "q", "z", "z", "z"}
	records := make([]models.EventRecord, len(sigs))
	for i, s := range sigs {
		records[i] = models.EventRecord{Signature: s}
	}

	table := Aggregate(records)
	assert.Equal(t, len(records), table.Total())
	assert.Equal(t, len(records), table.Summary.TotalEvents)

	for i := 1; i < len(table.Entries); i++ {
		assert.GreaterOrEqual(t, table.Entries[i-1].Count, table.Entries[i].Count)
	}
}

func TestAggregateTiesKeepFirstSeenOrder(t *testing.T) {
	sigs := []string{"delta", "alpha", "charlie", "alpha", "bravo", "delta", "charlie", "bravo", "echo"}
	records := make([]models.EventRecord, len(sigs))
	for i, s := range sigs {
		records[i] = models.EventRecord{Signature: s}
	}

	table := Aggregate(records)

	got := make([]string, len(table.Entries))
	for i, e := range table.Entries {
		got[i] = e.Signature
	}
	assert.Equal(t, []string{"delta", "alpha", "charlie", "bravo", "echo"}, got)
}

func TestAggregateEmpty(t *testing.T) {
	for name, records := range map[string][]models.EventRecord{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			table := Aggregate(records)

			assert.Empty(t, table.Entries)
			assert.Equal(t, 0, table.Summary.TotalEvents)
			assert.Equal(t, 0, table.Summary.UniqueSignatures)
			assert.Nil(t, table.Summary.Mean)
			assert.Nil(t, table.Summary.Median)
			assert.Nil(t, table.Summary.StdDev)
			assert.Nil(t, table.Summary.MostFrequent)
		})
	}
}

func TestAggregateSingleSignature(t *testing.T) {
	table := Aggregate([]models.EventRecord{{Signature: "only"}, {Signature: "only"}})

	require.NotNil(t, table.Summary.StdDev)
	assert.Equal(t, 0.0, *table.Summary.StdDev)
	assert.Equal(t, 2.0, *table.Summary.Mean)
}

func TestAggregateUniformDistribution(t *testing.T) {
	records := make([]models.EventRecord, 1000)
	for i := range records {
		records[i] = models.EventRecord{Signature: fmt.Sprintf("sig-%d", i%5)}
	}

	table := Aggregate(records)

	assert.Len(t, table.Entries, 5)
	assert.InDelta(t, 200, *table.Summary.Mean, 1e-9)
	assert.InDelta(t, 0, *table.Summary.StdDev, 1e-9)
	assert.Equal(t, "sig-0", table.Summary.MostFrequent.Signature)
}

func TestHourlyHistogram(t *testing.T) {
	hist := HourlyHistogram(sampleRecords())

	assert.Equal(t, models.HourlyHistogram{10: 1, 11: 1, 12: 1}, hist)
	assert.NotContains(t, hist, 0)
}

func TestHourlyHistogramUsesTimestampOffset(t *testing.T) {
	records := []models.EventRecord{
		rec("2024-01-01T23:10:00+05:00", "A"),
		rec("2024-01-01T23:50:00Z", "B"),
		rec("2024-01-02T00:05:00Z", "C"),
	}

	assert.Equal(t, models.HourlyHistogram{23: 2, 0: 1}, HourlyHistogram(records))
}

func TestHourlyHistogramEmpty(t *testing.T) {
	hist := HourlyHistogram(nil)
	assert.NotNil(t, hist)
	assert.Empty(t, hist)
}

func TestTimeRange(t *testing.T) {
	records := []models.EventRecord{
		rec("2024-01-02T10:00:00Z", "A"),
		rec("2024-01-01T09:00:00Z", "B"),
		rec("2024-01-03T08:00:00Z", "C"),
	}

	period := TimeRange(records)
	require.NotNil(t, period.From)
	require.NotNil(t, period.To)
	assert.Equal(t, records[1].Timestamp, *period.From)
	assert.Equal(t, records[2].Timestamp, *period.To)

	empty := TimeRange(nil)
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.To)
}

func TestStatistics(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		mean   float64
		median float64
		stdDev float64
	}{
		{name: "single", values: []int{7}, mean: 7, median: 7, stdDev: 0},
		{name: "odd", values: []int{5, 1, 3}, mean: 3, median: 3, stdDev: 2},
		{name: "even", values: []int{4, 1, 2, 3}, mean: 2.5, median: 2.5, stdDev: 1.2909944487358056},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.mean, Mean(tt.values), 1e-9)
			assert.InDelta(t, tt.median, Median(tt.values), 1e-9)
			assert.InDelta(t, tt.stdDev, StdDev(tt.values), 1e-9)
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []int{3, 1, 2}
	Median(values)
	assert.Equal(t, []int{3, 1, 2}, values)
}
