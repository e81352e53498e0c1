// Package metrics holds the Prometheus collectors for the audio pipeline.
//
// A nil *Metrics is valid and records nothing, so services and tests can
// run without a registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sercha_audio"

// Metrics contains all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	// Transcription metrics
	ChunksTranscribed     prometheus.Counter
	TranscriptionDuration *prometheus.HistogramVec

	// Chat metrics
	RouterDecisions *prometheus.CounterVec
	IndexCacheHits  prometheus.Counter
	IndexCacheMiss  prometheus.Counter
	IndexBuilds     prometheus.Counter

	// Embedding cache metrics
	EmbeddingCacheHits prometheus.Counter
	EmbeddingCacheMiss prometheus.Counter

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates all metrics on a private registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ChunksTranscribed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_transcribed_total",
			Help:      "Total number of audio chunks sent to the speech-to-text model",
		}),
		TranscriptionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Duration of upload transcription including normalisation",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4 minutes
		}, []string{"result"}),

		RouterDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "router_decisions_total",
			Help:      "Total number of routed questions by chosen tool",
		}, []string{"tool"}),
		IndexCacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_cache_hits_total",
			Help:      "Total number of chat requests served from cached indices",
		}),
		IndexCacheMiss: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_cache_misses_total",
			Help:      "Total number of chat requests that needed an index build",
		}),
		IndexBuilds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_total",
			Help:      "Total number of summary and vector index builds",
		}),

		EmbeddingCacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_hits_total",
			Help:      "Total number of node embeddings read from the persistent cache",
		}),
		EmbeddingCacheMiss: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_misses_total",
			Help:      "Total number of node embeddings computed by the provider",
		}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordChunkTranscribed increments the transcribed chunk counter.
func (m *Metrics) RecordChunkTranscribed() {
	if m == nil {
		return
	}
	m.ChunksTranscribed.Inc()
}

// RecordTranscription observes an upload transcription.
func (m *Metrics) RecordTranscription(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.TranscriptionDuration.WithLabelValues(result).Observe(d.Seconds())
}

// RecordRouterDecision counts a routed question by tool name.
func (m *Metrics) RecordRouterDecision(tool string) {
	if m == nil {
		return
	}
	m.RouterDecisions.WithLabelValues(tool).Inc()
}

// RecordIndexCache records an index cache lookup.
func (m *Metrics) RecordIndexCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.IndexCacheHits.Inc()
		return
	}
	m.IndexCacheMiss.Inc()
}

// RecordIndexBuild increments the index build counter.
func (m *Metrics) RecordIndexBuild() {
	if m == nil {
		return
	}
	m.IndexBuilds.Inc()
}

// RecordEmbeddingCache adds embedding cache hits and misses.
func (m *Metrics) RecordEmbeddingCache(hits, misses int) {
	if m == nil {
		return
	}
	m.EmbeddingCacheHits.Add(float64(hits))
	m.EmbeddingCacheMiss.Add(float64(misses))
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
