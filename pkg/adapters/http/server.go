// Package http serves the bounce workflow over a JSON API. One handler
// wraps an engine and a report store; runs are serialized because the
// workflow mutates shared host state.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// Engine is the workflow surface the handler drives.
type Engine interface {
	Run(ctx context.Context, pass domain.RenderPass) (*domain.Report, error)
	Preflight(ctx context.Context, pass domain.RenderPass) error
}

// Server routes API requests to an engine and a report store.
type Server struct {
	engine Engine
	store  ports.ReportStore
	logger *slog.Logger

	// The workflow drives one shared host; concurrent runs would
	// interleave bypass and restore on the same FX chain.
	mu sync.Mutex
}

// Option configures the handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) { c.logger = logger }
}

// WithMetrics mounts a Prometheus /metrics endpoint for the gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(c *handlerConfig) { c.gatherer = g }
}

// NewHandler builds the HTTP handler. store may be nil, in which case
// run reports are returned but not retrievable later.
func NewHandler(engine Engine, store ports.ReportStore, opts ...Option) http.Handler {
	cfg := handlerConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{engine: engine, store: store, logger: cfg.logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Post("/runs", s.createRun)
	r.Post("/runs/preflight", s.preflight)
	r.Get("/runs", s.listRuns)
	r.Get("/runs/{id}", s.getRun)
	if cfg.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type runRequest struct {
	Pass string `json:"pass"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// createRun handles POST /runs.
func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	pass, ok := s.decodePass(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	report, err := s.engine.Run(r.Context(), pass)
	s.mu.Unlock()

	if report != nil && s.store != nil {
		if saveErr := s.store.Save(r.Context(), report); saveErr != nil {
			s.logger.Error("failed to store run report", "err", saveErr, "run_id", report.RunID)
		}
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report)
	case report != nil && report.Status == domain.RunAborted:
		s.logger.Warn("run aborted", "run_id", report.RunID, "stage", report.AbortStage, "reason", report.AbortReason)
		writeJSON(w, http.StatusUnprocessableEntity, report)
	case report != nil:
		s.logger.Error("run failed", "err", err, "run_id", report.RunID)
		writeJSON(w, http.StatusBadGateway, report)
	default:
		s.logger.Error("run failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// preflight handles POST /runs/preflight: the guard stages only, no
// mutation.
func (s *Server) preflight(w http.ResponseWriter, r *http.Request) {
	pass, ok := s.decodePass(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	err := s.engine.Preflight(r.Context(), pass)
	s.mu.Unlock()

	if err != nil {
		var abort *domain.AbortError
		if errors.As(err, &abort) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"stage":  string(abort.Stage),
				"reason": abort.Reason.Error(),
			})
			return
		}
		s.logger.Error("preflight failed", "err", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getRun handles GET /runs/{id}.
func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no report store configured"})
		return
	}
	id := chi.URLParam(r, "id")
	report, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("run %q not found", id)})
			return
		}
		s.logger.Error("failed to load run report", "err", err, "run_id", id)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// listRuns handles GET /runs.
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, map[string][]string{"runs": {}})
		return
	}
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list run reports", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodePass(w http.ResponseWriter, r *http.Request) (domain.RenderPass, bool) {
	var body runRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.logger.Warn("invalid request body", "err", err)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return "", false
		}
	}
	pass, err := domain.ParsePass(body.Pass)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return "", false
	}
	return pass, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
