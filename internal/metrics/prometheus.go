package metrics

import (
	"strconv"
	"sync"

	"github.com/arloliu/crewsched/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so constructing
// a collector that is never exercised leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Board metrics
	drops          *prometheus.CounterVec
	conflicts      prometheus.Counter
	cellUpdates    *prometheus.CounterVec
	assignedCells  prometheus.Gauge
	changesDropped prometheus.Counter

	// Mirror metrics
	mirrorOps     *prometheus.CounterVec
	mirrorLatency *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "crewsched" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "crewsched"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.drops = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "board",
			Name:      "drops_total",
			Help:      "Total drops by payload kind and outcome (accepted=true|false).",
		}, []string{"kind", "accepted"})

		p.conflicts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "board",
			Name:      "conflicts_total",
			Help:      "Total conflict signals raised by overwriting a different project.",
		})

		p.cellUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "board",
			Name:      "cell_updates_total",
			Help:      "Total applied single-cell mutations by reason.",
		}, []string{"reason"})

		p.assignedCells = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "board",
			Name:      "assigned_cells",
			Help:      "Current number of cells holding a project.",
		})

		p.changesDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "board",
			Name:      "change_events_dropped_total",
			Help:      "Change events discarded because a subscriber buffer was full.",
		})

		p.mirrorOps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "mirror",
			Name:      "operations_total",
			Help:      "Total KV mirror operations by operation and result (success|failure).",
		}, []string{"operation", "result"})

		p.mirrorLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "mirror",
			Name:      "operation_seconds",
			Help:      "Latency of KV mirror operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms .. ~0.5s
		}, []string{"operation"})

		p.reg.MustRegister(p.drops)
		p.reg.MustRegister(p.conflicts)
		p.reg.MustRegister(p.cellUpdates)
		p.reg.MustRegister(p.assignedCells)
		p.reg.MustRegister(p.changesDropped)
		p.reg.MustRegister(p.mirrorOps)
		p.reg.MustRegister(p.mirrorLatency)
	})
}

// RecordDrop increments the drop counter for kind and outcome.
func (p *PrometheusCollector) RecordDrop(kind string, accepted bool) {
	p.ensureRegistered()
	p.drops.WithLabelValues(kind, strconv.FormatBool(accepted)).Inc()
}

// RecordConflict increments the conflict counter.
func (p *PrometheusCollector) RecordConflict() {
	p.ensureRegistered()
	p.conflicts.Inc()
}

// RecordCellUpdate increments the cell update counter for reason.
func (p *PrometheusCollector) RecordCellUpdate(reason string) {
	p.ensureRegistered()
	p.cellUpdates.WithLabelValues(reason).Inc()
}

// RecordAssignedCells sets the assigned cell gauge.
func (p *PrometheusCollector) RecordAssignedCells(count int) {
	p.ensureRegistered()
	p.assignedCells.Set(float64(count))
}

// RecordChangeDropped increments the dropped change event counter.
func (p *PrometheusCollector) RecordChangeDropped() {
	p.ensureRegistered()
	p.changesDropped.Inc()
}

// RecordMirrorOperation records outcome and latency of a mirror KV operation.
func (p *PrometheusCollector) RecordMirrorOperation(operation string, success bool, duration float64) {
	p.ensureRegistered()
	result := "success"
	if !success {
		result = "failure"
	}
	p.mirrorOps.WithLabelValues(operation, result).Inc()
	p.mirrorLatency.WithLabelValues(operation).Observe(duration)
}
