package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// BuildState records the outcome of the most recent build for /health.
type BuildState struct {
	mu        sync.Mutex
	unit      string
	lastErr   error
	lastBuild time.Time
}

func (s *BuildState) Record(unit string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unit = unit
	s.lastErr = err
	s.lastBuild = time.Now().UTC()
}

func (s *BuildState) Check() HealthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	switch {
	case s.lastBuild.IsZero():
		status.Status = "starting"
		status.Components["build"] = "pending"
	case s.lastErr != nil:
		status.Status = "degraded"
		status.Components["build"] = s.lastErr.Error()
	default:
		status.Components["build"] = "ok (" + s.unit + " at " + s.lastBuild.Format(time.RFC3339) + ")"
	}
	return status
}

// Server exposes /metrics and /health.
type Server struct {
	addr   string
	state  *BuildState
	server *http.Server
}

func NewServer(addr string, state *BuildState) *Server {
	return &Server{addr: addr, state: state}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := s.state.Check()
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
	return mux
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
