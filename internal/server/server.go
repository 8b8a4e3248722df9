package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"secevents/internal/loader"
	"secevents/internal/metrics"
	"secevents/internal/models"
	"secevents/internal/pipeline"
	"secevents/internal/source"
)

const version = "1.0.0"

// Server re-runs the analysis on every request; nothing is cached between
// requests.
type Server struct {
	router   *mux.Router
	pipeline *pipeline.Pipeline
	source   source.Source
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

func NewServer(src source.Source, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:   mux.NewRouter(),
		pipeline: pipeline.New(m, logger),
		source:   src,
		metrics:  m,
		gatherer: gatherer,
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")
	s.router.HandleFunc("/analytics/report", s.reportHandler).Methods("GET")
	s.router.HandleFunc("/analytics/signatures", s.signaturesHandler).Methods("GET")
	s.router.HandleFunc("/analytics/hourly", s.hourlyHandler).Methods("GET")
	s.router.Handle("/metrics/prometheus", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version,
		"source":    s.source.String(),
	}

	s.writeJSON(w, r, start, http.StatusOK, health)
}

func (s *Server) reportHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, ok := s.run(w, r, start)
	if !ok {
		return
	}

	s.writeJSON(w, r, start, http.StatusOK, report)
}

func (s *Server) signaturesHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	top := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, r, start, http.StatusBadRequest, fmt.Errorf("top must be a positive integer"))
			return
		}
		top = n
	}

	report, ok := s.run(w, r, start)
	if !ok {
		return
	}

	table := report.Signatures
	if top > 0 && len(table.Entries) > top {
		table.Entries = table.Entries[:top]
	}

	s.writeJSON(w, r, start, http.StatusOK, table)
}

func (s *Server) hourlyHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, ok := s.run(w, r, start)
	if !ok {
		return
	}

	s.writeJSON(w, r, start, http.StatusOK, report.Hourly)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, start time.Time) (*models.Report, bool) {
	report, err := s.pipeline.Run(r.Context(), s.source)
	if err != nil {
		s.writeError(w, r, start, statusFor(err), err)
		return nil, false
	}
	return report, true
}

func statusFor(err error) int {
	switch {
	case loader.IsNotFound(err):
		return http.StatusNotFound
	case loader.IsParse(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, start time.Time, status int, err error) {
	s.writeJSON(w, r, start, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, start time.Time, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}

	if s.metrics != nil {
		duration := time.Since(start).Seconds()
		s.metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
		s.metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(status)).Inc()
	}
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		s.logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("Could not gracefully shutdown the server", zap.Error(err))
		}
		close(done)
	}()

	s.logger.Info("Server is ready to handle requests", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not listen on %s: %w", addr, err)
	}

	<-done
	s.logger.Info("Server stopped")
	return nil
}
