// Package observability exposes the health, readiness, metrics, and
// status endpoints plus the Prometheus instruments used across the
// monitor.
package observability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// StatusSnapshot is the payload served on /status: enough to see when
// the loop last completed and what it produced.
type StatusSnapshot struct {
	LastCycleAt  time.Time      `json:"last_cycle_at"`
	CycleCount   int            `json:"cycle_count"`
	TierCounts   map[string]int `json:"tier_counts"`
	Discarded    int            `json:"discarded"`
	Deduplicated int            `json:"deduplicated"`
	WindowSize   int            `json:"window_size"`
}

// StatusFunc supplies the current snapshot for /status.
type StatusFunc func() StatusSnapshot

// ReadyFunc reports readiness; a nil ReadyFunc means always ready.
type ReadyFunc func(ctx context.Context) error

// Server serves /healthz, /readyz, /metrics, and /status.
type Server struct {
	port   int
	status StatusFunc
	ready  ReadyFunc
	logger *zerolog.Logger
}

// NewServer builds the health server. status and ready may be nil.
func NewServer(port int, status StatusFunc, ready ReadyFunc, logger *zerolog.Logger) *Server {
	return &Server{port: port, status: status, ready: ready, logger: logger}
}

// Start runs the server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.ready != nil {
			if err := s.ready(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = fmt.Fprintf(w, "not ready: %v", err)

				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		if s.status == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(s.status()); err != nil {
			s.logger.Error().Err(err).Msg("encode status snapshot")
		}
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		//nolint:contextcheck // shutdown on signal is best-effort with a fresh context
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("health server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}
