// Package mockserver is a local stand-in for the narrative-risk analyzer. It
// speaks the same HTTP contract and derives reports from the input alone, so
// the client can be demonstrated and tested offline.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/logging"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
	requestTimeout  = 60 * time.Second
)

// Options configures a Server.
type Options struct {
	// Latency delays every analysis, imitating the real service.
	Latency time.Duration
	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool
	Logger  *logging.Logger
}

// Server serves the analyzer API.
type Server struct {
	router  chi.Router
	opts    Options
	logger  *logging.Logger
	metrics *metrics
}

// New creates a server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		opts:    opts,
		logger:  logger.WithComponent("mockserver"),
		metrics: newMetrics(),
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if s.opts.Metrics {
		r.Use(s.metrics.middleware)
	}

	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler)

	r.Get("/", s.handleRoot)
	r.Post("/analyze", s.handleAnalyze)
	if s.opts.Metrics {
		r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", requestID(r),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// requestID prefers the caller's X-Request-ID over the one chi generated.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return middleware.GetReqID(r.Context())
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Real-Time Narrative Risk Detection System API",
		"status":  "running",
	})
}

// validationIssue is one entry of a request validation failure.
type validationIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input *json.RawMessage `json:"input"`
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "Could not read request body.")
		return
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []validationIssue{
			{Loc: []any{"body"}, Msg: "invalid JSON body", Type: "value_error.jsondecode"},
		}})
		return
	}
	if body.Input == nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []validationIssue{
			{Loc: []any{"body", "input"}, Msg: "field required", Type: "value_error.missing"},
		}})
		return
	}
	var input string
	if err := json.Unmarshal(*body.Input, &input); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []validationIssue{
			{Loc: []any{"body", "input"}, Msg: "str type expected", Type: "type_error.str"},
		}})
		return
	}

	if err := s.wait(r.Context()); err != nil {
		return
	}

	report, err := Analyze(input)
	if err != nil {
		var domErr *core.DomainError
		if errors.As(err, &domErr) {
			respondDetail(w, statusFor(domErr), domErr.Message)
			return
		}
		s.logger.Error("analysis failed", "error", err, "request_id", requestID(r))
		respondDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	s.metrics.observeReport(report.RiskLevel)
	s.logger.Debug("analysis complete",
		"request_id", requestID(r),
		"input_type", report.InputType,
		"risk_level", report.RiskLevel,
		"claims", report.CrossCheck.ClaimsChecked,
	)
	respondJSON(w, http.StatusOK, report)
}

// wait sleeps for the configured latency or until the request is abandoned.
func (s *Server) wait(ctx context.Context) error {
	if s.opts.Latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.opts.Latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func statusFor(err *core.DomainError) int {
	switch {
	case err.Category == core.ErrCatValidation && err.Code == core.CodeEmptyInput:
		return http.StatusBadRequest
	case err.Category == core.ErrCatValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("mock analyzer listening", "addr", ln.Addr().String(), "metrics", s.opts.Metrics)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down mock analyzer")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
