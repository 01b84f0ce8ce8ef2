// Package notify fans cell change events out to subscribers.
package notify

import (
	"sync"
	"sync/atomic"

	"github.com/arloliu/crewsched/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// Broadcaster delivers CellChange events to any number of subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// event and the drop is recorded. Subscribers that need every change should
// drain promptly or resynchronise from a snapshot.
type Broadcaster struct {
	buffer  int
	metrics types.BoardMetrics

	subscribers *xsync.Map[uint64, *subscriber]
	nextID      atomic.Uint64
	closed      atomic.Bool
}

// New creates a broadcaster.
//
// Parameters:
//   - buffer: Channel capacity per subscriber (values below 1 are raised to 1)
//   - metrics: Collector notified of dropped events
//
// Returns:
//   - *Broadcaster: Broadcaster with no subscribers
func New(buffer int, metrics types.BoardMetrics) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}

	return &Broadcaster{
		buffer:      buffer,
		metrics:     metrics,
		subscribers: xsync.NewMap[uint64, *subscriber](),
	}
}

// Subscribe returns a channel of change events and a function that ends the
// subscription and closes the channel.
//
// Subscribing to a closed broadcaster returns an already closed channel.
//
// Example:
//
//	ch, unsubscribe := b.Subscribe()
//	defer unsubscribe()
//	for change := range ch {
//	    fmt.Println(change.Cell, change.Current)
//	}
func (b *Broadcaster) Subscribe() (<-chan types.CellChange, func()) {
	sub := &subscriber{ch: make(chan types.CellChange, b.buffer)}
	if b.closed.Load() {
		sub.close()
		return sub.ch, func() {}
	}

	id := b.nextID.Add(1)
	b.subscribers.Store(id, sub)

	// Close may have raced with the Store above.
	if b.closed.Load() {
		b.remove(id)
	}

	return sub.ch, func() { b.remove(id) }
}

// Publish delivers change to every subscriber without blocking.
func (b *Broadcaster) Publish(change types.CellChange) {
	if b.closed.Load() {
		return
	}

	b.subscribers.Range(func(_ uint64, sub *subscriber) bool {
		if !sub.trySend(change) {
			b.metrics.RecordChangeDropped()
		}

		return true
	})
}

// Len returns the number of active subscribers.
func (b *Broadcaster) Len() int {
	return b.subscribers.Size()
}

// Close ends every subscription. Further publishes are ignored.
func (b *Broadcaster) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}

	b.subscribers.Range(func(id uint64, _ *subscriber) bool {
		b.remove(id)
		return true
	})
}

func (b *Broadcaster) remove(id uint64) {
	if sub, ok := b.subscribers.LoadAndDelete(id); ok {
		sub.close()
	}
}

// subscriber guards one channel against send-after-close.
type subscriber struct {
	ch     chan types.CellChange
	mu     sync.Mutex
	closed bool
}

// trySend reports false when the buffer is full. A closed subscriber
// silently accepts the event.
func (s *subscriber) trySend(change types.CellChange) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}

	select {
	case s.ch <- change:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
