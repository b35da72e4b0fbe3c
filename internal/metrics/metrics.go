package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	SearchesTotal     *prometheus.CounterVec
	SearchDuration    *prometheus.HistogramVec
	SearchesInFlight  prometheus.Gauge

	PlatformRequestsTotal   *prometheus.CounterVec
	PlatformRequestDuration *prometheus.HistogramVec

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration prometheus.Histogram

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	RateLimitHitsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricehunt_searches_total",
				Help: "Total number of product searches",
			},
			[]string{"mode", "status"},
		),
		SearchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricehunt_search_duration_seconds",
				Help:    "End-to-end search duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"mode"},
		),
		SearchesInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pricehunt_searches_in_flight",
				Help: "Number of searches currently running",
			},
		),

		PlatformRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricehunt_platform_requests_total",
				Help: "Per-platform worker invocations",
			},
			[]string{"platform", "status"},
		),
		PlatformRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pricehunt_platform_request_duration_seconds",
				Help:    "Per-platform worker duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120},
			},
			[]string{"platform"},
		),

		LLMRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricehunt_llm_requests_total",
				Help: "Extraction LLM API requests",
			},
			[]string{"status"},
		),
		LLMRequestDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pricehunt_llm_request_duration_seconds",
				Help:    "Extraction LLM request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pricehunt_cache_hits_total",
				Help: "Search result cache hits",
			},
		),
		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pricehunt_cache_misses_total",
				Help: "Search result cache misses",
			},
		),

		RateLimitHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pricehunt_rate_limit_hits_total",
				Help: "Messages rejected by the per-chat rate limiter",
			},
			[]string{"chat_id"},
		),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordSearch(mode, status string, duration time.Duration) {
	m.SearchesTotal.WithLabelValues(mode, status).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) RecordPlatformRequest(platform, status string, duration time.Duration) {
	m.PlatformRequestsTotal.WithLabelValues(platform, status).Inc()
	m.PlatformRequestDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(status).Inc()
	m.LLMRequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheHit()  { m.CacheHitsTotal.Inc() }
func (m *Metrics) RecordCacheMiss() { m.CacheMissesTotal.Inc() }

func (m *Metrics) RecordRateLimitHit(chatID string) {
	m.RateLimitHitsTotal.WithLabelValues(chatID).Inc()
}

func (m *Metrics) IncSearchesInFlight() { m.SearchesInFlight.Inc() }
func (m *Metrics) DecSearchesInFlight() { m.SearchesInFlight.Dec() }
