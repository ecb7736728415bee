// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input decoding, engine invocation, output serialization.
// The API NEVER performs CVP math.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"breakeven/core/determinism"
	"breakeven/core/engine"
)

// RequestIDHeader carries the per-request identifier
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// Server is the API server
type Server struct {
	handler *Handler
	router  chi.Router
	metrics *Metrics
	version string
	logger  *zap.Logger
}

// Options tune the server
type Options struct {
	// MaxProducts caps the multi-product list; zero means no cap
	MaxProducts int

	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64
}

// NewServer creates a new API server
func NewServer(version string, eng *engine.Engine, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	s := &Server{
		handler: NewHandler(eng, opts),
		router:  chi.NewRouter(),
		metrics: NewMetrics(),
		version: version,
		logger:  logger,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(s.requestID)
	s.router.Use(s.logRequests)
	s.router.Use(s.metrics.Instrument)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.serve(s.handler.Analyze))
		r.Post("/break-even", s.serve(s.handler.BreakEven))
		r.Post("/chart", s.serve(s.handler.Chart))
		r.Post("/multi-product", s.serve(s.handler.MultiProduct))
		r.Post("/sensitivity", s.serve(s.handler.Sensitivity))
	})
}

// endpoint decodes a body and returns a result. The decoded input is hashed
// into the response metadata as a fingerprint.
type endpoint func(r *http.Request) (input interface{}, result interface{}, err error)

func (s *Server) serve(fn endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := RequestID(r.Context())

		input, result, err := fn(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.writeJSON(w, Response{
			Result: result,
			Metadata: &ResponseMetadata{
				RequestID:     requestID,
				InputHash:     computeInputHash(input),
				EngineVersion: s.version,
				DurationMs:    time.Since(start).Milliseconds(),
			},
		}, http.StatusOK)
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": s.version,
	}, http.StatusOK)
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// RequestID returns the request identifier stored in ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body, status := errorBody(err)
	body.RequestID = RequestID(r.Context())
	s.metrics.RecordError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", body.RequestID), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("request_id", body.RequestID), zap.Error(err))
	}
	s.writeJSON(w, ErrorResponse{Error: body}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server and stops it when ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func computeInputHash(input interface{}) string {
	hash, err := determinism.Fingerprint(input)
	if err != nil {
		return ""
	}
	return hash.Hex()
}
