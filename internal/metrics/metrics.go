// Package metrics provides the centralized Prometheus metrics registry for the chart service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bayesbet"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of chart API requests by route and status",
	}, []string{"route", "method", "status"})
	SyncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of prediction syncs by outcome",
	}, []string{"outcome"})
	ScoreUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "score_updates_total",
		Help:      "Total number of final scores recorded",
	})
	SocialPostsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "social_posts_total",
		Help:      "Total number of social card posts by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chart_cache_hit_ratio",
		Help:      "Hit ratio of the chart payload cache",
	})
	CacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chart_cache_items",
		Help:      "Number of cached chart payloads",
	})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Number of connected live score subscribers",
	})
	LatestPredictionTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "latest_prediction_date_seconds",
		Help:      "Unix time of the most recently synced prediction date",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of chart API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	ChartBuildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chart_build_duration_seconds",
		Help:      "Duration of chart payload builds in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"chart"})
	SyncDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Duration of prediction syncs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(SyncRunsTotal)
		registry.MustRegister(ScoreUpdatesTotal)
		registry.MustRegister(SocialPostsTotal)

		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheItems)
		registry.MustRegister(WebsocketClients)
		registry.MustRegister(LatestPredictionTimestamp)

		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(ChartBuildDuration)
		registry.MustRegister(SyncDuration)

		registry.MustRegister(collectors.NewGoCollector())
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served API request.
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordChartBuild records how long a chart payload took to build.
func RecordChartBuild(chart string, duration time.Duration) {
	ChartBuildDuration.WithLabelValues(chart).Observe(duration.Seconds())
}

// RecordSync records a sync outcome ("stored", "scores", "unchanged", "missing", "failed").
func RecordSync(outcome string, duration time.Duration) {
	SyncRunsTotal.WithLabelValues(outcome).Inc()
	SyncDuration.Observe(duration.Seconds())
}

// RecordScoreUpdates records newly final scores.
func RecordScoreUpdates(count int) {
	ScoreUpdatesTotal.Add(float64(count))
}

// RecordSocialPost records a social publishing outcome ("published", "skipped", "failed").
func RecordSocialPost(outcome string) {
	SocialPostsTotal.WithLabelValues(outcome).Inc()
}

// UpdateCacheStats updates the cache gauges.
func UpdateCacheStats(ratio float64, items int) {
	CacheHitRatio.Set(ratio)
	CacheItems.Set(float64(items))
}

// UpdateWebsocketClients sets the live subscriber gauge.
func UpdateWebsocketClients(count int) {
	WebsocketClients.Set(float64(count))
}

// UpdateLatestPrediction sets the latest synced prediction date.
func UpdateLatestPrediction(date time.Time) {
	LatestPredictionTimestamp.Set(float64(date.Unix()))
}
