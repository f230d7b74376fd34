package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Router http.ServeMux plus the request middleware.
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
	logger  *zap.Logger
	metrics *Metrics
}

// NewRouter metrics may be nil.
func NewRouter(logger *zap.Logger, metrics *Metrics) *Router {
	mux := http.NewServeMux()
	return &Router{
		mux:     mux,
		handler: withRequestLog(mux, logger, metrics),
		logger:  logger,
		metrics: metrics,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// RegisterCaseRoutes /cases, /cases/{id}, /cases/{id}/graph[.svg], /cases/draft, /cases/export.xlsx.
func (r *Router) RegisterCaseRoutes(h *CasesHandler) {
	r.HandleHandler("/cases", h)
	r.HandleHandler("/cases/", h)
}

// HealthCheck named readiness probe, e.g. a database ping.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RegisterHealthRoutes GET /healthz: 200 when every check passes, 503 otherwise.
func (r *Router) RegisterHealthRoutes(checks ...HealthCheck) {
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := map[string]string{}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				r.logger.Warn("health check failed", zap.String("check", c.Name), zap.Error(err))
				results[c.Name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[c.Name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(results) > 0 {
			body["checks"] = results
		}
		writeJSON(w, status, body)
	})
}

// RegisterMetricsRoute GET /metrics. No-op without metrics.
func (r *Router) RegisterMetricsRoute() {
	if r.metrics == nil {
		return
	}
	r.HandleHandler("/metrics", r.metrics.Handler())
}
