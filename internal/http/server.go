// Package http serves the dashboard queries as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"presupuestos/internal/cache"
	"presupuestos/internal/log"
	"presupuestos/internal/services"
)

// ReadyCheck reports whether a dependency can serve requests.
type ReadyCheck func(ctx context.Context) error

type Options struct {
	Logger *log.Logger
	// CacheSize and CacheTTL bound the memoized query responses.
	CacheSize int
	CacheTTL  time.Duration
	// RateLimit caps mutating requests per client per minute.
	RateLimit   int
	ReadyChecks map[string]ReadyCheck
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(log.DefaultConfig())
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 200
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 60
	}
	return o
}

type Server struct {
	http.Server
	dash      *services.Dashboard
	responses *cache.LRUCache[cachedResponse]
	sweeper   *cache.Manager
	limiter   *rateLimiter
	metrics   *securityMetrics
	ready     map[string]ReadyCheck
	logger    *log.Logger
	now       func() time.Time
}

// NewServer configures the routes over dash and returns a ready-to-run
// server. Call StartBackground to sweep caches and rate-limit state.
func NewServer(addr string, dash *services.Dashboard, opts Options) *Server {
	opts = opts.withDefaults()
	s := &Server{
		dash:      dash,
		responses: cache.NewLRUCache[cachedResponse](opts.CacheSize, opts.CacheTTL),
		limiter:   newRateLimiter(opts.RateLimit, time.Minute),
		metrics:   &securityMetrics{},
		ready:     opts.ReadyChecks,
		logger:    opts.Logger,
		now:       time.Now,
	}
	s.sweeper = cache.NewManager(s.responses)
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.securityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limitMutations)

		r.Get("/filters", s.handleGetFilters)
		r.Post("/filters", s.handleApplyFilter)
		r.Delete("/filters", s.handleResetFilter)

		r.Group(func(r chi.Router) {
			r.Use(s.cached)
			r.Get("/kpis", s.handleKPIs)
			r.Get("/departments", s.handleDepartments)
			r.Get("/maintenance-types", s.handleMaintenanceTypes)
			r.Get("/machines/top", s.handleTopMachines)
			r.Get("/machines/{name}", s.handleMachine)
			r.Get("/series/monthly", s.handleMonthlySeries)
			r.Get("/series/weekly", s.handleWeeklySeries)
			r.Get("/hierarchy", s.handleHierarchy)
			r.Get("/periods/{year}/{month}", s.handlePeriod)
			r.Get("/records", s.handleRecords)
			r.Get("/groups/{field}", s.handleGroups)
			r.Get("/values/{field}", s.handleValues)
		})

		r.Get("/production-lines", s.handleGetLines)
		r.Put("/production-lines", s.handleSaveLines)
		r.Get("/production-lines/hierarchy", s.handleLinesHierarchy)
		r.Get("/production-lines/summary", s.handleLinesSummary)

		r.Post("/import", s.handleImport)
		r.Get("/export", s.handleExport)
	})
	return r
}

// StartBackground sweeps expired cache entries and stale rate-limit windows
// until ctx ends.
func (s *Server) StartBackground(ctx context.Context) {
	go s.sweeper.Run(ctx, time.Minute)
	go s.limiter.run(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	failed := map[string]string{}
	for name, check := range s.ready {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "checks", failed)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	_, total := s.dash.Counts()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "records": total})
}
