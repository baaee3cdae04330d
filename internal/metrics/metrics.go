// Package metrics provides the centralized Prometheus registry for the
// telemetry backend.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status",
	}, []string{"route", "status"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits by tier",
	}, []string{"tier"})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses",
	})
	StampedeWaitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "cache_stampede_waits_total",
		Help:      "Total number of requests coalesced onto an in-flight cache fill",
	})
	SyntheticResponsesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "synthetic_responses_total",
		Help:      "Total number of responses served from the fallback synthesizer",
	})
	AssistantRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitwall",
		Name:      "assistant_requests_total",
		Help:      "Total number of assistant requests by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	LiveSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitwall",
		Name:      "live_subscribers",
		Help:      "Number of currently connected live-timing subscribers",
	})
	LiveRooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitwall",
		Name:      "live_rooms",
		Help:      "Number of active session rooms",
	})
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pitwall",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	AssistantLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pitwall",
		Name:      "assistant_latency_seconds",
		Help:      "Latency of assistant completions in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RequestsTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(StampedeWaitsTotal)
		registry.MustRegister(SyntheticResponsesTotal)
		registry.MustRegister(AssistantRequestsTotal)

		registry.MustRegister(LiveSubscribers)
		registry.MustRegister(LiveRooms)

		registry.MustRegister(RequestDuration)
		registry.MustRegister(AssistantLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRequest records one served HTTP request.
func RecordRequest(route, status string, durationSeconds float64) {
	RequestsTotal.WithLabelValues(route, status).Inc()
	RequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordSyntheticResponse records a response filled by the synthesizer.
func RecordSyntheticResponse() {
	SyntheticResponsesTotal.Inc()
}

// RecordAssistantRequest records an assistant call outcome
// ("ok", "timeout", "error", "degraded").
func RecordAssistantRequest(outcome string, durationSeconds float64) {
	AssistantRequestsTotal.WithLabelValues(outcome).Inc()
	AssistantLatency.Observe(durationSeconds)
}

// CacheRecorder adapts the registry to the cache manager's Recorder
// interface.
type CacheRecorder struct{}

func (CacheRecorder) CacheHit(tier string) {
	CacheHitsTotal.WithLabelValues(tier).Inc()
}

func (CacheRecorder) CacheMiss() {
	CacheMissesTotal.Inc()
}

func (CacheRecorder) StampedeWait() {
	StampedeWaitsTotal.Inc()
}
