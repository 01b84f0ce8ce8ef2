package metrics

import (
	"testing"

	"github.com/arloliu/crewsched/types"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_AllMethods(t *testing.T) {
	var metrics types.MetricsCollector = NewNop()

	require.NotPanics(t, func() {
		metrics.RecordDrop("palette", true)
		metrics.RecordDrop("unknown", false)
		metrics.RecordConflict()
		metrics.RecordCellUpdate("move-in")
		metrics.RecordAssignedCells(-1)
		metrics.RecordChangeDropped()
		metrics.RecordMirrorOperation("put", false, -1.0)
	})
}

func BenchmarkNopMetrics(b *testing.B) {
	metrics := NewNop()

	for b.Loop() {
		metrics.RecordDrop("cell", true)
		metrics.RecordCellUpdate("assign")
	}
}
