package metric

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/mouse-go/internal/infra/buildinfo"
)

const namespace = "mouse"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Lifecycle metrics
	ShutdownSignals  *prometheus.CounterVec
	TeardownDuration *prometheus.HistogramVec
	TeardownFailures *prometheus.CounterVec

	// Cache metrics
	CacheLookups *prometheus.CounterVec

	buildInfo *prometheus.GaugeVec
}

// NewRegistry creates a registry with lifecycle and runtime collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		ShutdownSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "signals_received_total",
			Help:      "Lifecycle signals that triggered shutdown, by signal name",
		}, []string{"signal"}),
		TeardownDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "teardown_hook_duration_seconds",
			Help:      "Time spent in each shutdown hook",
			Buckets:   []float64{.001, .01, .1, .5, 1, 5, 15, 30},
		}, []string{"hook"}),
		TeardownFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "teardown_hook_failures_total",
			Help:      "Shutdown hooks that returned an error",
		}, []string{"hook"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Record lookups by cache result (hit, lost, fault)",
		}, []string{"result"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information of the running node; value is always 1",
		}, []string{"version", "commit", "go_version", "run_id"}),
	}

	r.registry.MustRegister(
		r.ShutdownSignals,
		r.TeardownDuration,
		r.TeardownFailures,
		r.CacheLookups,
		r.buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Registerer returns the underlying registerer for components that own
// their collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveSignal counts a lifecycle signal.
func (r *Registry) ObserveSignal(sig os.Signal) {
	r.ShutdownSignals.WithLabelValues(sig.String()).Inc()
}

// ObserveHook records the outcome of a shutdown hook.
func (r *Registry) ObserveHook(name string, elapsed time.Duration, err error) {
	r.TeardownDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		r.TeardownFailures.WithLabelValues(name).Inc()
	}
}

// ObserveLookup counts a cache lookup by its result name.
func (r *Registry) ObserveLookup(result string) {
	r.CacheLookups.WithLabelValues(result).Inc()
}

// WatchShutdownState exports requested as mouse_lifecycle_shutdown_requested.
func (r *Registry) WatchShutdownState(requested func() bool) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "lifecycle",
		Name:      "shutdown_requested",
		Help:      "1 once shutdown has been requested, 0 while running",
	}, func() float64 {
		if requested() {
			return 1
		}
		return 0
	}))
}

// WatchCache exports cache usage against its soft limit.
func (r *Registry) WatchCache(usage func() uint64, softLimit int64) {
	r.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "usage_bytes",
			Help:      "Approximate bytes held by the cache",
		}, func() float64 {
			return float64(usage())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "size_soft_limit_bytes",
			Help:      "Cache byte soft limit",
		}, func() float64 {
			return float64(softLimit)
		}),
	)
}

// SetBuildInfo publishes the build information of this run.
func (r *Registry) SetBuildInfo(info buildinfo.Info, runID string) {
	r.buildInfo.Reset()
	r.buildInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion, runID).Set(1)
}
