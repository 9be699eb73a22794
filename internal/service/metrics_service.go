package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scheduler.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	schedulerRuns   *prometheus.CounterVec
	scheduled       *prometheus.CounterVec
	deferred        *prometheus.CounterVec
	iterations      prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	schedulerRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total scheduling passes by strategy",
	}, []string{"strategy"})

	scheduled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_matchups_scheduled_total",
		Help: "MatchUps that received a scheduled time",
	}, []string{"strategy"})

	deferred := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_matchups_deferred_total",
		Help: "MatchUps left unplaced after a scheduling pass",
	}, []string{"strategy"})

	iterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_iterations",
		Help:    "Iterations used per scheduling pass",
		Buckets: []float64{1, 2, 3, 5, 8, 10},
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, schedulerRuns, scheduled, deferred, iterations, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		schedulerRuns:   schedulerRuns,
		scheduled:       scheduled,
		deferred:        deferred,
		iterations:      iterations,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSchedulerRun records the outcome of one scheduling pass.
func (m *MetricsService) ObserveSchedulerRun(strategy string, scheduled, deferred, iterations int) {
	if m == nil {
		return
	}
	m.schedulerRuns.WithLabelValues(strategy).Inc()
	m.scheduled.WithLabelValues(strategy).Add(float64(scheduled))
	m.deferred.WithLabelValues(strategy).Add(float64(deferred))
	m.iterations.Observe(float64(iterations))
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
