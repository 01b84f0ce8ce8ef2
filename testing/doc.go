// Package testing provides test utilities for the crewsched library.
//
// It follows Go's convention of shipping testing helpers in a dedicated
// package (similar to net/http/httptest).
//
// Key utilities:
//   - NewTestLogger: types.Logger that writes through t.Logf
//   - StartEmbeddedNATS: Single in-process NATS server with JetStream
//   - NewJetStream: JetStream handle for a test connection
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//
// Example usage:
//
//	import (
//	    "testing"
//	    crewtest "github.com/arloliu/crewsched/testing"
//	)
//
//	func TestMirror(t *testing.T) {
//	    _, nc := crewtest.StartEmbeddedNATS(t)
//	    js := crewtest.NewJetStream(t, nc)
//	    // Use js for your tests
//	}
package testing
