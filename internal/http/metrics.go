package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics HTTP and case counters on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	casesCreated prometheus.Counter
	casesDeleted prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainpath",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rainpath",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		casesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainpath",
			Name:      "cases_created_total",
			Help:      "Cases created through the API.",
		}),
		casesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainpath",
			Name:      "cases_deleted_total",
			Help:      "Cases deleted through the API.",
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.casesCreated,
		m.casesDeleted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	route := routeLabel(path)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) caseCreated() {
	if m != nil {
		m.casesCreated.Inc()
	}
}

func (m *Metrics) caseDeleted() {
	if m != nil {
		m.casesDeleted.Inc()
	}
}

// routeOther label for any path outside the registered routes.
const routeOther = "other"

var knownRoutes = map[string]bool{
	"/cases":               true,
	"/cases/:id":           true,
	"/cases/:id/graph":     true,
	"/cases/:id/graph.svg": true,
	"/cases/draft":         true,
	"/cases/export.xlsx":   true,
	"/healthz":             true,
	"/metrics":             true,
}

// routeLabel maps a request path onto its route template; integer segments become ":id"
// and anything unregistered collapses into "other".
func routeLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if _, ok := parseID(p); ok {
			parts[i] = ":id"
		}
	}
	route := "/" + strings.Join(parts, "/")
	if knownRoutes[route] {
		return route
	}
	return routeOther
}
