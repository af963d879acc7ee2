package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cashflow/internal/aggregate"
	"cashflow/internal/cache"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/log"
	"cashflow/internal/middleware/ratelimit"
	"cashflow/internal/middleware/security"
	"cashflow/internal/middleware/trace"
)

// Server is the JSON API over a Tracker.
type Server struct {
	http.Server

	tracker    *ledger.Tracker
	dashboards *cache.LRUCache[aggregate.Dashboard]
	limiter    *ratelimit.Limiter
	detector   *security.Detector
	tracer     *trace.Middleware
	logger     *log.Logger
	structured *log.StructuredLogger
	now        func() time.Time
	started    time.Time

	shutdownOnce sync.Once
}

type options struct {
	logger    *log.Logger
	perMinute int
	now       func() time.Time
	caches    *cache.Manager
}

type Option func(*options)

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRateLimit caps mutating requests per client per minute.
func WithRateLimit(perMinute int) Option {
	return func(o *options) { o.perMinute = perMinute }
}

// WithClock replaces time.Now for default periods and the limiter.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCacheManager registers the dashboard cache for periodic cleanup.
func WithCacheManager(m *cache.Manager) Option {
	return func(o *options) { o.caches = m }
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, tracker *ledger.Tracker, opts ...Option) *Server {
	o := options{logger: log.Discard(), perMinute: 60, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.WithComponent(log.ComponentHTTP)
	s := &Server{
		tracker:    tracker,
		dashboards: cache.NewLRUCache[aggregate.Dashboard](100, 5*time.Minute),
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: o.perMinute, Now: o.now}),
		detector:   security.NewDetector(),
		logger:     logger,
		structured: log.NewStructuredLogger(logger),
		now:        o.now,
		started:    o.now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, s.structured)
	if o.caches != nil {
		o.caches.Register(s.dashboards)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/comparison", s.handleComparison)
	mux.HandleFunc("GET /api/performance", s.handlePerformance)
	mux.HandleFunc("GET /api/chart/budget-vs-actual", s.handleBudgetVsActual)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleGetBudgets)
	mux.HandleFunc("PUT /api/budgets", s.handleUpdateBudgets)

	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("POST /api/clear", s.handleClear)

	limit := s.limiter.Middleware(s.detector.ExtractClientIP, isMutating, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
	})
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = limit(handler)
	handler = s.detector.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func isMutating(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// Shutdown gracefully shuts down the server and its background loops.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// dashboard returns the cached dashboard for p at the current revision.
// A mutation bumps the revision, so stale entries are never read again and
// age out of the LRU.
func (s *Server) dashboard(p core.Period) aggregate.Dashboard {
	key := fmt.Sprintf("%s:%d", p, s.tracker.Revision())
	return s.dashboards.GetOrCompute(key, func() aggregate.Dashboard {
		return s.tracker.Engine().Dashboard(p)
	})
}
