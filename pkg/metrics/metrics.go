package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Client search
	SearchRequests *prometheus.CounterVec

	// API keys
	APIKeyValidations *prometheus.CounterVec

	// Page cache
	CacheLookups       *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics on the default registry
func NewMetrics(namespace, subsystem string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, namespace, subsystem)
}

// NewWithRegistry registers the metrics on reg.
func NewWithRegistry(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "client_search_total",
			Help:      "Client searches by the tier that produced the result",
		}, []string{"tier"}),

		APIKeyValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "api_key_validations_total",
			Help:      "API key validations by outcome",
		}, []string{"result"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "page_cache_lookups_total",
			Help:      "Page cache lookups by outcome",
		}, []string{"result"}),
		CacheInvalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "page_cache_invalidations_total",
			Help:      "Page cache invalidations by origin",
		}, []string{"source"}),

		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		RedisOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "redis_operations_total",
			Help:      "Total number of Redis operations",
		}, []string{"operation", "status"}),
	}
}

// ObserveDB records a database operation. Safe on a nil receiver.
func (m *Metrics) ObserveDB(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DatabaseOperations.WithLabelValues(operation, status).Inc()
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// SearchTier records which tier answered a client search. Safe on a nil receiver.
func (m *Metrics) SearchTier(tier string) {
	if m == nil {
		return
	}
	m.SearchRequests.WithLabelValues(tier).Inc()
}

// APIKeyResult records an API key validation outcome. Safe on a nil receiver.
func (m *Metrics) APIKeyResult(result string) {
	if m == nil {
		return
	}
	m.APIKeyValidations.WithLabelValues(result).Inc()
}

// CacheLookup records a page cache hit or miss. Safe on a nil receiver.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// CacheInvalidation records a page cache invalidation. Safe on a nil receiver.
func (m *Metrics) CacheInvalidation(source string) {
	if m == nil {
		return
	}
	m.CacheInvalidations.WithLabelValues(source).Inc()
}

// RedisOperation records a Redis call. Safe on a nil receiver.
func (m *Metrics) RedisOperation(operation string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RedisOperations.WithLabelValues(operation, status).Inc()
}
