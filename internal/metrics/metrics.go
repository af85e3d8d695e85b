package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the profile analytics service.

var (
	// Upstream rate limiting (process-wide, fed from response metadata)
	UpstreamRateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upstream_rate_limit_remaining",
		Help: "Remaining upstream API requests in the current window",
	})

	UpstreamRateLimited = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "upstream_rate_limited",
		Help: "Whether the upstream rate limit gate is active (0=open, 1=limited)",
	})

	UpstreamRateLimitEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "upstream_rate_limit_events_total",
		Help: "Times the upstream reported a rate limit error",
	})

	// Upstream API latency
	UpstreamAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_api_request_duration_seconds",
		Help:    "Upstream API request latency",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint", "status_code"})

	// Cache metrics
	CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_operations_total",
		Help: "Cache operations by operation type and result",
	}, []string{"operation", "result"}) // operation: get|set, result: fresh|stale|miss|ok|error

	// Profile lookup outcomes as seen by callers
	ProfileLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_lookups_total",
		Help: "Profile lookups by outcome",
	}, []string{"outcome"}) // outcome: fresh|cache_fresh|cache_stale|not_found|rate_limited|upstream_error

	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method, path, and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path, and status",
	}, []string{"method", "path", "status"})
)
