package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the catalog backend.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Repository metrics
	DBOperations *prometheus.CounterVec
	DBDuration   *prometheus.HistogramVec
	BatchItems   *prometheus.CounterVec
	ScanPages    prometheus.Counter

	// Sync metrics
	SyncEvents *prometheus.CounterVec
	SyncRuns   *prometheus.CounterVec
}

// NewMetrics creates a metrics set registered under namespace.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DBOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_operations_total",
				Help:      "Total number of database operations",
			},
			[]string{"operation", "table", "status"},
		),
		DBDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_operation_duration_seconds",
				Help:      "Database operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		BatchItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_items_total",
				Help:      "Items written through batch writes, by outcome",
			},
			[]string{"table", "outcome"},
		),
		ScanPages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_scan_pages_total",
				Help:      "Scan pages read by keyword search",
			},
		),
		SyncEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_records_total",
				Help:      "Records processed by the catalog sync, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		SyncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_cities_total",
				Help:      "Cities processed by the catalog sync, by status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.DBOperations,
		m.DBDuration,
		m.BatchItems,
		m.ScanPages,
		m.SyncEvents,
		m.SyncRuns,
	)

	return m
}

// ObserveDB records one DynamoDB call. A nil receiver is a no-op.
func (m *Metrics) ObserveDB(operation, table string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DBOperations.WithLabelValues(operation, table, status).Inc()
	m.DBDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// AddBatchItems records batch write outcomes.
func (m *Metrics) AddBatchItems(table string, saved, failed int) {
	if m == nil {
		return
	}
	m.BatchItems.WithLabelValues(table, "saved").Add(float64(saved))
	m.BatchItems.WithLabelValues(table, "failed").Add(float64(failed))
}

// IncScanPages counts one search scan page.
func (m *Metrics) IncScanPages() {
	if m == nil {
		return
	}
	m.ScanPages.Inc()
}

// AddSyncRecords records sync outcomes for a record kind (events, venues).
func (m *Metrics) AddSyncRecords(kind string, saved, failed, rejected int) {
	if m == nil {
		return
	}
	m.SyncEvents.WithLabelValues(kind, "saved").Add(float64(saved))
	m.SyncEvents.WithLabelValues(kind, "failed").Add(float64(failed))
	m.SyncEvents.WithLabelValues(kind, "rejected").Add(float64(rejected))
}

// IncSyncCity counts one processed city.
func (m *Metrics) IncSyncCity(status string) {
	if m == nil {
		return
	}
	m.SyncRuns.WithLabelValues(status).Inc()
}

// Registry returns the Prometheus registry for this metrics set
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
