// Package http provides the FarmPilot HTTP server: server-rendered pages,
// JSON record endpoints, and the financial export endpoint.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"farmpilot/internal/cache"
	"farmpilot/internal/core"
	"farmpilot/internal/export"
	"farmpilot/internal/log"
	"farmpilot/internal/middleware/ratelimit"
	"farmpilot/internal/middleware/security"
	"farmpilot/internal/middleware/trace"
	"farmpilot/internal/store"
	appweb "farmpilot/web"
)

// appMetrics tracks application-level counters exposed on /metrics.
type appMetrics struct {
	uptime            time.Time
	totalTransactions int64
	totalExports      int64
	cacheHits         int64
	cacheMisses       int64
}

type Server struct {
	http.Server
	templates *template.Template
	records   store.RecordStore
	exporter  *export.Service
	logger    *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityHeaders  *security.HeadersMiddleware
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware

	// List reads are cached; every write to the entity invalidates its key.
	transactionsCache *cache.LRUCache[[]core.Transaction]
	farmsCache        *cache.LRUCache[[]core.Farm]
	cacheManager      *cache.Manager

	metrics      appMetrics
	shutdownOnce sync.Once
}

const (
	listCacheKey = "all"
	listCacheTTL = 5 * time.Minute
)

// NewServer configures routes, middleware, and templates, returning a
// ready-to-run server.
func NewServer(addr string, records store.RecordStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		records:  records,
		exporter: export.NewService(),
		logger:   logger.WithComponent(log.ComponentHTTP),

		rateLimiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		securityHeaders:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		securityDetector: security.NewDetector(),
		traceMiddleware:  trace.NewMiddleware(nil),

		transactionsCache: cache.NewLRUCache[[]core.Transaction](16, listCacheTTL),
		farmsCache:        cache.NewLRUCache[[]core.Farm](16, listCacheTTL),
		cacheManager:      cache.NewManager(),
	}
	s.metrics.uptime = time.Now()
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP)

	s.cacheManager.Register(s.transactionsCache)
	s.cacheManager.Register(s.farmsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	// Pages
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/transactions", s.handleTransactionsPage)
	mux.HandleFunc("/export", s.handleExport)

	// Partials
	mux.HandleFunc("/ui/financial-summary", s.handleFinancialSummary)

	// Record endpoints
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/farms", s.handleFarms)
	mux.HandleFunc("/api/farms/", s.handleFarmByID)
	mux.HandleFunc("/api/crops", s.handleCrops)
	mux.HandleFunc("/api/crops/", s.handleCropByID)
	mux.HandleFunc("/api/equipment", s.handleEquipment)
	mux.HandleFunc("/api/equipment/", s.handleEquipmentByID)
	mux.HandleFunc("/api/activities", s.handleActivities)
	mux.HandleFunc("/api/activities/", s.handleActivityByID)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/tasks/", s.handleTaskByID)
	mux.HandleFunc("/api/weather", s.handleWeather)
	mux.HandleFunc("/api/weather/forecast", s.handleWeatherForecast)

	// Operational endpoints
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	// Middleware chain: trace (outermost) -> security headers -> rate limit.
	handler := s.withRateLimit(mux)
	handler = s.securityHeaders.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	return s
}

// withRateLimit applies per-client rate limiting to mutating requests and
// flags suspicious ones.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := s.securityDetector.ExtractClientIP(r)

		if s.securityDetector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request detected",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.Allow(clientIP) {
				s.logger.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// getTransactions returns the full transaction list, served from cache when
// fresh.
func (s *Server) getTransactions(ctx context.Context) ([]core.Transaction, error) {
	if items, found := s.transactionsCache.Get(listCacheKey); found {
		s.recordCacheHit()
		result := make([]core.Transaction, len(items))
		copy(result, items)
		return result, nil
	}
	s.recordCacheMiss()

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.records.ListTransactions(cctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	s.transactionsCache.Set(listCacheKey, items)
	return items, nil
}

// getFarms returns the full farm list, served from cache when fresh.
func (s *Server) getFarms(ctx context.Context) ([]core.Farm, error) {
	if items, found := s.farmsCache.Get(listCacheKey); found {
		s.recordCacheHit()
		result := make([]core.Farm, len(items))
		copy(result, items)
		return result, nil
	}
	s.recordCacheMiss()

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.records.ListFarms(cctx)
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}

	s.farmsCache.Set(listCacheKey, items)
	return items, nil
}

func (s *Server) invalidateTransactions() {
	s.transactionsCache.Delete(listCacheKey)
}

func (s *Server) invalidateFarms() {
	s.farmsCache.Delete(listCacheKey)
}
