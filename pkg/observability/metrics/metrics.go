// Package metrics implements the observability hooks with Prometheus
// collectors.
//
// A [Metrics] value satisfies [observability.PipelineHooks],
// [observability.CacheHooks] and [observability.HTTPHooks], and owns its own
// registry so tests and multiple servers never collide on the global one:
//
//	m := metrics.New(metrics.Config{Namespace: "smilesdraw"})
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//	observability.SetHTTPHooks(m)
//	router.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/smilesdraw/pkg/observability"
)

// Config controls collector naming and the runtime collectors.
type Config struct {
	Namespace            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

// Metrics holds the collectors for every hook event.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec // stage
	stageErrors   *prometheus.CounterVec   // stage
	atoms         prometheus.Histogram
	rings         prometheus.Histogram
	renders       *prometheus.CounterVec // format

	cacheEvents *prometheus.CounterVec // key_type, result
	cacheBytes  *prometheus.CounterVec // key_type

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec   // method, route, code
	httpDuration *prometheus.HistogramVec // method, route
	httpErrors   *prometheus.CounterVec   // method, route
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors and registers them with a fresh registry.
// An empty namespace defaults to "smilesdraw".
func New(cfg Config) *Metrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "smilesdraw"
	}
	ns := cfg.Namespace
	reg := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: ns}))
	}
	if cfg.EnableGoMetrics {
		reg.MustRegister(prometheus.NewGoCollector())
	}

	m := &Metrics{
		registry: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "pipeline", Name: "stage_duration_seconds",
			Help:    "Duration of pipeline stages.",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "pipeline", Name: "stage_errors_total",
			Help: "Failed pipeline stages.",
		}, []string{"stage"}),
		atoms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "pipeline", Name: "molecule_atoms",
			Help:    "Atoms per parsed molecule.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		rings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "pipeline", Name: "molecule_rings",
			Help:    "Rings per laid out molecule.",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12, 16},
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "pipeline", Name: "renders_total",
			Help: "Rendered artifacts by format.",
		}, []string{"format"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "cache", Name: "events_total",
			Help: "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: "http", Name: "requests_in_flight",
			Help: "Requests currently being served.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "http", Name: "requests_total",
			Help: "Served requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "http", Name: "errors_total",
			Help: "Handler errors reported to clients.",
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.stageDuration, m.stageErrors, m.atoms, m.rings, m.renders,
		m.cacheEvents, m.cacheBytes,
		m.httpInFlight, m.httpRequests, m.httpDuration, m.httpErrors,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

// =============================================================================
// Pipeline hooks
// =============================================================================

func (m *Metrics) OnParseStart(context.Context, string) {}

func (m *Metrics) OnParseComplete(_ context.Context, _ string, atoms int, d time.Duration, err error) {
	m.stage("parse", d, err)
	if err == nil {
		m.atoms.Observe(float64(atoms))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, int, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _, rings int, d time.Duration, err error) {
	m.stage("layout", d, err)
	if err == nil {
		m.rings.Observe(float64(rings))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	m.stage("render", d, err)
	if err != nil {
		return
	}
	for _, f := range formats {
		m.renders.WithLabelValues(f).Inc()
	}
}

// =============================================================================
// Cache hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnCacheError(_ context.Context, keyType string, _ error) {
	m.cacheEvents.WithLabelValues(keyType, "error").Inc()
}

// =============================================================================
// HTTP hooks
// =============================================================================

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.httpInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpInFlight.Dec()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.httpErrors.WithLabelValues(method, route).Inc()
}
