package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from several goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	BoardMetrics
	MirrorMetrics
}

// BoardMetrics defines metrics for drag-and-drop and grid operations.
type BoardMetrics interface {
	// RecordDrop records a drop outcome.
	//
	// Parameters:
	//   - kind: Payload variant ("cell", "palette", "clear", "unknown")
	//   - accepted: true if the drop was applied, false if it was rejected
	RecordDrop(kind string, accepted bool)

	// RecordConflict records a conflict signal raised on an overwrite.
	RecordConflict()

	// RecordCellUpdate records an applied single-cell mutation.
	//
	// Parameters:
	//   - reason: Change reason ("assign", "move-out", "move-in", "clear", "direct")
	RecordCellUpdate(reason string)

	// RecordAssignedCells sets the number of non-empty cells (gauge metric).
	RecordAssignedCells(count int)

	// RecordChangeDropped records a change event discarded because a subscriber was full.
	RecordChangeDropped()
}

// MirrorMetrics defines metrics for the KV change mirror.
type MirrorMetrics interface {
	// RecordMirrorOperation records a KV operation against the mirror bucket.
	//
	// Parameters:
	//   - operation: Operation type ("put", "delete", "sync", "reset")
	//   - success: true if the operation succeeded
	//   - duration: Time taken in seconds
	RecordMirrorOperation(operation string, success bool, duration float64)
}
