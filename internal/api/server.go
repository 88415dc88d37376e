package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/site-relations-crawler/internal/config"
	"github.com/JakeFAU/site-relations-crawler/internal/crawler"
	"github.com/JakeFAU/site-relations-crawler/internal/logging"
	"github.com/JakeFAU/site-relations-crawler/internal/metrics"
)

// ActivityIDHeader correlates a scan request with its log lines.
const ActivityIDHeader = "activity-id"

// ScanPath is the route serving scans.
const ScanPath = "/web-crawler/v1/scan"

// Scanner runs one site scan.
type Scanner interface {
	Scan(ctx context.Context, rawURL string) ([]crawler.PageRecord, error)
}

// Server wires HTTP handlers to the scanner.
type Server struct {
	router    chi.Router
	scanner   Scanner
	publisher crawler.Publisher
	idGen     crawler.IDGenerator
	clock     crawler.Clock
	cfg       config.Config
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes. publisher may be
// nil, in which case no completion events are emitted.
func NewServer(
	scanner Scanner,
	publisher crawler.Publisher,
	idGen crawler.IDGenerator,
	clock crawler.Clock,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		scanner:   scanner,
		publisher: publisher,
		idGen:     idGen,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
		}
		r.Get(ScanPath, s.scan)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// scan handles GET /web-crawler/v1/scan?url=. It answers 200 with the page
// records, 400 when the url parameter is absent, 422 when the seed is rejected
// and 500 otherwise. The activity-id header is echoed, or generated when the
// caller sends none.
func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	start := s.clock.Now()

	activityID := r.Header.Get(ActivityIDHeader)
	if activityID == "" {
		id, err := s.idGen.NewID()
		if err != nil {
			s.logger.Error("generate activity id", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		activityID = id
	}
	w.Header().Set(ActivityIDHeader, activityID)
	logger := s.logger.With(zap.String("activity_id", activityID))

	values, ok := r.URL.Query()["url"]
	if !ok || len(values) == 0 {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}
	rawURL := values[0]

	ctx := logging.WithLogger(r.Context(), logger)
	records, err := s.scanner.Scan(ctx, rawURL)
	elapsed := s.clock.Now().Sub(start)
	if err != nil {
		var cerr *crawler.CrawlError
		if errors.As(err, &cerr) {
			logger.Error("invalid crawl request", zap.String("url", rawURL), zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error("scan failed", zap.String("url", rawURL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	logger.Info("scan completed",
		zap.String("url", rawURL),
		zap.Int("pages", len(records)),
		zap.Float64("elapsed_seconds", elapsed.Seconds()),
	)
	s.publishCompletion(ctx, logger, crawler.ScanCompleted{
		ActivityID:  activityID,
		Seed:        rawURL,
		Pages:       len(records),
		DurationMs:  elapsed.Milliseconds(),
		CompletedAt: s.clock.Now().UTC().Format(time.RFC3339),
	})

	if records == nil {
		records = []crawler.PageRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) publishCompletion(ctx context.Context, logger *zap.Logger, event crawler.ScanCompleted) {
	topic := s.cfg.PubSub.TopicName
	if s.publisher == nil || topic == "" {
		return
	}
	id, err := s.publisher.Publish(ctx, topic, event)
	if err != nil {
		logger.Warn("publish scan completion failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	logger.Debug("scan completion published", zap.String("topic", topic), zap.String("message_id", id))
}

type requestIDKey struct{}

// RequestID returns the request ID assigned by the server middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("request_id", RequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.String("request_id", RequestID(r.Context())),
						zap.Any("error", rec),
					)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		conn, buf, err := h.Hijack()
		if err != nil {
			return nil, nil, fmt.Errorf("hijack connection: %w", err)
		}
		return conn, buf, nil
	}
	return nil, nil, errors.New("hijacker not supported")
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				writeError(w, http.StatusForbidden, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
