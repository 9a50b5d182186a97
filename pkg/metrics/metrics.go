package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Audit recorder metrics
	AuditEventsRecorded prometheus.Counter
	AuditEventsDropped  prometheus.Counter
	AuditWriteFailures  prometheus.Counter
	AuditQueueSize      prometheus.Gauge

	// Outbox related metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
}

// New creates and registers all application metrics under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		AuditEventsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_recorded_total",
			Help:      "Total number of audit events persisted",
		}),
		AuditEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Total number of audit events dropped because the queue was full",
		}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Total number of audit events that failed to persist",
		}),
		AuditQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audit_queue_size",
			Help:      "Current number of audit events waiting to be persisted",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
	}
}

// NewForTesting builds metrics backed by a private registry so tests can
// construct services without fighting the default registerer.
func NewForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		AuditEventsRecorded: factory.NewCounter(prometheus.CounterOpts{Name: "audit_events_recorded_total"}),
		AuditEventsDropped:  factory.NewCounter(prometheus.CounterOpts{Name: "audit_events_dropped_total"}),
		AuditWriteFailures:  factory.NewCounter(prometheus.CounterOpts{Name: "audit_write_failures_total"}),
		AuditQueueSize:      factory.NewGauge(prometheus.GaugeOpts{Name: "audit_queue_size"}),
		OutboxEventsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_events_processed_total",
		}),
		OutboxEventsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_events_failed_total",
		}),
		OutboxProcessingLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "outbox_processing_duration_seconds",
		}),
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "database_operations_total",
		}, []string{"operation", "status"}),
	}
}
