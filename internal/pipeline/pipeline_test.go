package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"secevents/internal/loader"
	"secevents/internal/metrics"
	"secevents/internal/models"
	"secevents/internal/source"
)

type recordingSink struct {
	reports []*models.Report
	err     error
}

func (s *recordingSink) Write(_ context.Context, r *models.Report) error {
	s.reports = append(s.reports, r)
	return s.err
}

func writeDoc(t *testing.T, content string) source.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return source.File{Path: path}
}

const sampleDoc = `{"events":[
	{"timestamp":"2024-01-01T10:00:00Z","signature":"A"},
	{"timestamp":"2024-01-01T11:00:00Z","signature":"B"},
	{"timestamp":"2024-01-01T12:30:00Z","signature":"A"}
]}`

func TestRunEndToEnd(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	first, second := &recordingSink{}, &recordingSink{}
	p := New(m, zap.NewNop(), first, second)

	src := writeDoc(t, sampleDoc)
	report, err := p.Run(context.Background(), src)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, src.Path, report.Source)
	assert.Equal(t, []models.SignatureCount{{Signature: "A", Count: 2}, {Signature: "B", Count: 1}}, report.Signatures.Entries)
	assert.Equal(t, models.HourlyHistogram{10: 1, 11: 1, 12: 1}, report.Hourly)
	require.NotNil(t, report.Period.From)
	assert.Equal(t, 10, report.Period.From.Hour())

	require.Len(t, first.reports, 1)
	require.Len(t, second.reports, 1)
	assert.Same(t, report, first.reports[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsLoaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UniqueSignatures))
}

func TestRunFreshRunIDs(t *testing.T) {
	p := New(nil, nil)
	src := writeDoc(t, sampleDoc)

	a, err := p.Run(context.Background(), src)
	require.NoError(t, err)
	b, err := p.Run(context.Background(), src)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Signatures, b.Signatures)
}

func TestRunEmptyDocument(t *testing.T) {
	sink := &recordingSink{}
	p := New(nil, zap.NewNop(), sink)

	report, err := p.Run(context.Background(), writeDoc(t, `{"events":[]}`))
	require.NoError(t, err)

	assert.True(t, report.Empty())
	assert.Nil(t, report.Signatures.Summary.Mean)
	assert.Nil(t, report.Period.From)
	assert.Len(t, sink.reports, 1)
}

func TestRunLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  source.Source
		kind string
		is   func(error) bool
	}{
		{name: "missing", src: source.File{Path: "/nonexistent/events.json"}, kind: "not_found", is: loader.IsNotFound},
		{name: "not json", src: nil, kind: "parse", is: loader.IsParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src
			if src == nil {
				src = writeDoc(t, "not json")
			}

			m := metrics.New(prometheus.NewRegistry())
			sink := &recordingSink{}
			p := New(m, zap.NewNop(), sink)

			report, err := p.Run(context.Background(), src)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, tt.is(err))
			assert.Empty(t, sink.reports)

			assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadErrors.WithLabelValues(tt.kind)))
		})
	}
}

func TestRunSinkErrorStopsChain(t *testing.T) {
	failing := &recordingSink{err: errors.New("disk full")}
	after := &recordingSink{}
	m := metrics.New(prometheus.NewRegistry())
	p := New(m, zap.NewNop(), failing, after)

	_, err := p.Run(context.Background(), writeDoc(t, sampleDoc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, after.reports)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")))
}
