package mount

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label values for lookup metrics.
const (
	LabelOperation = "operation"
	LabelResult    = "result"

	OperationFind            = "find"
	OperationFindIn          = "find_in"
	OperationFindByStorageID = "find_by_storage_id"
	OperationFindByNumericID = "find_by_numeric_id"

	OperationAdd    = "add"
	OperationRemove = "remove"
	OperationMove   = "move"
	OperationClear  = "clear"

	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Metrics provides Prometheus metrics for the mount table and resolver.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookupsTotal   *prometheus.CounterVec
	mutationsTotal *prometheus.CounterVec
	mounts         prometheus.Gauge

	registered bool
}

// NewMetrics creates mount metrics and registers them with registry.
// If registry is nil, metrics are created but not registered (useful for testing).
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vfsmount",
				Subsystem: "resolver",
				Name:      "lookups_total",
				Help:      "Total number of mount lookups by operation and result",
			},
			[]string{LabelOperation, LabelResult},
		),

		mutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vfsmount",
				Subsystem: "table",
				Name:      "mutations_total",
				Help:      "Total number of mount table mutations by operation",
			},
			[]string{LabelOperation},
		),

		mounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "vfsmount",
				Subsystem: "table",
				Name:      "mounts",
				Help:      "Number of mounts currently in the table",
			},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.lookupsTotal,
			m.mutationsTotal,
			m.mounts,
		)
		m.registered = true
	}

	return m
}

// ObserveLookup records a resolution query.
func (m *Metrics) ObserveLookup(operation, result string) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveMutation records a table mutation and the resulting table size.
func (m *Metrics) ObserveMutation(operation string, size int) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(operation).Inc()
	m.mounts.Set(float64(size))
}

// IsRegistered reports whether the metrics were registered with a registry.
func (m *Metrics) IsRegistered() bool {
	return m != nil && m.registered
}
