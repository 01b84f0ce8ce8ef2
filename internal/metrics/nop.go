// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/arloliu/crewsched/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Example:
//
//	board, err := crewsched.NewBoard(ctx, &cfg, src, crewsched.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// BoardMetrics implementation

// RecordDrop discards the drop outcome metric.
func (n *NopMetrics) RecordDrop(_ /* kind */ string, _ /* accepted */ bool) {
	// No-op
}

// RecordConflict discards the conflict metric.
func (n *NopMetrics) RecordConflict() {
	// No-op
}

// RecordCellUpdate discards the cell update metric.
func (n *NopMetrics) RecordCellUpdate(_ /* reason */ string) {
	// No-op
}

// RecordAssignedCells discards the assigned cell gauge.
func (n *NopMetrics) RecordAssignedCells(_ /* count */ int) {
	// No-op
}

// RecordChangeDropped discards the dropped change event metric.
func (n *NopMetrics) RecordChangeDropped() {
	// No-op
}

// MirrorMetrics implementation

// RecordMirrorOperation discards the mirror operation metric.
func (n *NopMetrics) RecordMirrorOperation(_ /* operation */ string, _ /* success */ bool, _ /* duration */ float64) {
	// No-op
}
