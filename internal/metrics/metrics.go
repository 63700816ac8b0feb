// Package metrics defines the process's Prometheus collectors: HTTP
// request latency, database pool saturation, cache hit/miss, solver runs,
// and broadcaster queue depth, scraped from the /metrics Echo route.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shiftsync_http_requests_total",
			Help: "Total HTTP requests by method, route, and status class.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shiftsync_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DBPoolInUse = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shiftsync_db_pool_in_use_connections",
			Help: "Database connections currently checked out of the pool.",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shiftsync_cache_hits_total",
			Help: "Cache lookups that found a value, by backend.",
		},
		[]string{"backend"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shiftsync_cache_misses_total",
			Help: "Cache lookups that found nothing, by backend.",
		},
		[]string{"backend"},
	)

	SolverRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shiftsync_solver_runs_total",
			Help: "Completed solver invocations by terminal status.",
		},
		[]string{"status"},
	)

	SolverDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shiftsync_solver_duration_seconds",
			Help:    "Wall-clock time of solver invocations.",
			Buckets: []float64{.1, .5, 1, 2, 5, 10, 20, 30},
		},
	)

	BroadcastQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shiftsync_broadcast_queue_depth",
			Help: "Buffered events per topic awaiting delivery.",
		},
		[]string{"topic"},
	)

	JobsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shiftsync_jobs_enqueued_total",
			Help: "Asynq tasks enqueued by task type.",
		},
		[]string{"task"},
	)
)

// Register adds every collector to the default registry; called once at
// process startup from cmd/server and cmd/worker.
func Register() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		DBPoolInUse,
		CacheHits,
		CacheMisses,
		SolverRunsTotal,
		SolverDuration,
		BroadcastQueueDepth,
		JobsEnqueuedTotal,
	)
}
