package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secevents/internal/analytics"
	"secevents/internal/loader"
	"secevents/internal/logging"
	"secevents/internal/metrics"
	"secevents/internal/models"
	"secevents/internal/source"
)

// Sink consumes a finished report. Sinks must treat it as read-only.
type Sink interface {
	Write(ctx context.Context, r *models.Report) error
}

type LoadFunc func(ctx context.Context, src source.Source) ([]models.EventRecord, error)

type Pipeline struct {
	load    LoadFunc
	sinks   []Sink
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func New(m *metrics.Metrics, logger *zap.Logger, sinks ...Sink) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		load:    loader.Load,
		sinks:   sinks,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Run loads src, recomputes every derived view and hands the report to each
// sink in order. The first failing step aborts the run.
func (p *Pipeline) Run(ctx context.Context, src source.Source) (*models.Report, error) {
	start := p.now()
	runID := uuid.NewString()
	log := p.logger.With(zap.String(logging.FieldRunID, runID), zap.String(logging.FieldSource, src.String()))

	records, err := p.load(ctx, src)
	if err != nil {
		kind := errorKind(err)
		p.observeFailure(kind, start)
		log.Error("Failed to load events", zap.String(logging.FieldKind, kind), zap.Error(err))
		return nil, err
	}

	table, hourly, period := analytics.Analyze(records)
	report := &models.Report{
		RunID:       runID,
		Source:      src.String(),
		GeneratedAt: p.now().UTC(),
		Period:      period,
		Signatures:  table,
		Hourly:      hourly,
	}

	if report.Empty() {
		log.Warn("No events to analyze")
	} else {
		log.Info("Events analyzed",
			zap.Int("events", table.Summary.TotalEvents),
			zap.Int("unique_signatures", table.Summary.UniqueSignatures))
	}

	for _, sink := range p.sinks {
		if err := sink.Write(ctx, report); err != nil {
			p.observeFailure("sink", start)
			log.Error("Failed to write report", zap.String("sink", fmt.Sprintf("%T", sink)), zap.Error(err))
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	if p.metrics != nil {
		p.metrics.RunsTotal.WithLabelValues("success").Inc()
		p.metrics.EventsLoaded.Add(float64(len(records)))
		p.metrics.UniqueSignatures.Set(float64(table.Summary.UniqueSignatures))
		p.metrics.RunDuration.Observe(p.now().Sub(start).Seconds())
	}

	return report, nil
}

func (p *Pipeline) observeFailure(kind string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.RunsTotal.WithLabelValues("error").Inc()
	if kind != "sink" {
		p.metrics.LoadErrors.WithLabelValues(kind).Inc()
	}
	p.metrics.RunDuration.Observe(p.now().Sub(start).Seconds())
}

func errorKind(err error) string {
	switch {
	case loader.IsNotFound(err):
		return "not_found"
	case loader.IsParse(err):
		return "parse"
	default:
		return "other"
	}
}
