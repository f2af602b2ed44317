// Package api serves question detection, parsing and answer application
// over HTTP for page snapshots posted by a browser extension or script.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"quizpilot/internal/audit"
	"quizpilot/internal/platform"
)

// HistoryReader lists recorded attempts.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]audit.Row, error)
}

// Config wires dependencies for the HTTP handler.
type Config struct {
	Registry       *platform.Registry
	History        HistoryReader
	Logger         *zap.Logger
	AllowedOrigins []string
	Timeout        time.Duration
}

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// NewHandler builds the router.
func NewHandler(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	h := &handler{registry: cfg.Registry, history: cfg.History, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(cfg.Logger), middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", h.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/detect", h.handleDetect)
		r.Post("/parse", h.handleParse)
		r.Post("/apply", h.handleApply)
		r.Get("/history", h.handleHistory)
	})
	return r
}

type handler struct {
	registry *platform.Registry
	history  HistoryReader
	logger   *zap.Logger
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(started)))
		})
	}
}
