// Package http exposes the analysis engine as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendsense/internal/cache"
	applog "spendsense/internal/log"
	"spendsense/internal/services"
	"spendsense/internal/storage"
)

const (
	defaultRecentLimit = 20
	reportCacheSize    = 256
	reportCacheTTL     = 30 * time.Second
)

type Server struct {
	http.Server
	service     *services.AnalysisService
	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Recent-report lookups are cached per account and invalidated when a
	// new report lands for that account.
	reportCache *cache.LRU[[]storage.StoredReport]

	cacheCancel  context.CancelFunc
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, service *services.AnalysisService, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	cacheCtx, cacheCancel := context.WithCancel(context.Background())

	s := &Server{
		service:     service,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		reportCache: cache.New[[]storage.StoredReport](reportCacheSize, reportCacheTTL),
		cacheCancel: cacheCancel,
	}

	go s.reportCache.Janitor(cacheCtx, 10*time.Minute)

	mux.HandleFunc("POST /analyze", s.limited(s.handleAnalyze))
	mux.HandleFunc("POST /accounts/{id}/analyze", s.limited(s.handleAnalyzeAccount))
	mux.HandleFunc("GET /reports/recent", s.handleRecentReports)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	handler := applog.Middleware(logger)(
		applog.AccessLog(logger)(
			securityHeaders(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheCancel()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// securityHeaders sets the usual response hardening headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// limited applies per-client rate limiting to mutating endpoints.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientAddr(r)
		if !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "rate limit exceeded",
				applog.FieldPath, r.URL.Path, applog.FieldClientIP, clientIP)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		next(w, r)
	}
}

func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
