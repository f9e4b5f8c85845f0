package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rankings service

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_api_calls_total",
			Help: "Total number of CollegeFootballData API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfbpoll_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfbpoll_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbpoll_db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbpoll_db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Cache metrics, labelled by cache layer
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"layer"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"layer"},
	)

	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_cache_evictions_total",
			Help: "Total number of cache entries evicted",
		},
		[]string{"layer", "reason"},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfbpoll_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"layer", "operation"},
	)

	// Rankings metrics
	RankingsGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cfbpoll_rankings_generated_total",
			Help: "Total number of rankings computed",
		},
	)

	RankingsGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cfbpoll_rankings_generation_duration_seconds",
			Help:    "Duration of full rankings computations in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	RankedTeams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbpoll_ranked_teams",
			Help: "Number of teams in the most recent computed ranking",
		},
	)

	// Snapshot lifecycle metrics
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_calculations_total",
			Help: "Total number of admin calculate requests by outcome",
		},
		[]string{"result"},
	)

	SnapshotOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_snapshot_operations_total",
			Help: "Total number of snapshot lifecycle operations",
		},
		[]string{"operation", "result"},
	)

	// Scheduled job metrics
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cfbpoll_job_duration_seconds",
			Help:    "Duration of scheduled jobs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job"},
	)

	LastSuccessfulJob = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cfbpoll_last_successful_job_timestamp",
			Help: "Timestamp of last successful run per job",
		},
		[]string{"job"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cfbpoll_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cfbpoll_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit(layer string) {
	CacheHitsTotal.WithLabelValues(layer).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(layer string) {
	CacheMissesTotal.WithLabelValues(layer).Inc()
}

// RecordCacheEviction records an evicted entry
func RecordCacheEviction(layer, reason string) {
	CacheEvictionsTotal.WithLabelValues(layer, reason).Inc()
}

// RecordCacheSweep records entries reclaimed by a sweep
func RecordCacheSweep(layer string, removed int64) {
	CacheEvictionsTotal.WithLabelValues(layer, "sweep").Add(float64(removed))
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(layer, operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(layer, operation).Observe(duration)
}

// RecordRankingsGenerated records a completed rankings computation
func RecordRankingsGenerated(teams int, duration float64) {
	RankingsGeneratedTotal.Inc()
	RankingsGenerationDuration.Observe(duration)
	RankedTeams.Set(float64(teams))
}

// RecordCalculation records the outcome of an admin calculate request
func RecordCalculation(result string) {
	CalculationsTotal.WithLabelValues(result).Inc()
}

// RecordSnapshotOperation records a snapshot lifecycle operation
func RecordSnapshotOperation(operation, result string) {
	SnapshotOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordJob records a scheduled job run
func RecordJob(job, status string, duration float64) {
	JobRunsTotal.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(duration)

	if status == "success" {
		LastSuccessfulJob.WithLabelValues(job).SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(active, idle int32) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
