// Package conflict tracks transient "overwrite" signals on grid cells.
package conflict

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/crewsched/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// Tracker holds the set of flagged cells.
//
// Each flag removes itself after the window elapses. Flagging an already
// flagged cell restarts its window: every flag carries a generation number
// and an expiry only removes the entry it created, so an earlier timer can
// never cut a later signal short.
type Tracker struct {
	window time.Duration
	logger types.Logger

	flags   *xsync.Map[types.CellKey, uint64]
	nextGen atomic.Uint64

	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
	closed   atomic.Bool
}

// New creates a tracker whose flags expire after window.
//
// Parameters:
//   - window: Lifetime of a single flag (must be positive)
//   - logger: Logger for expiry events
//
// Returns:
//   - *Tracker: Tracker with no flagged cells
func New(window time.Duration, logger types.Logger) *Tracker {
	return &Tracker{
		window: window,
		logger: logger,
		flags:  xsync.NewMap[types.CellKey, uint64](),
		stopCh: make(chan struct{}),
	}
}

// Window returns the flag lifetime.
func (t *Tracker) Window() time.Duration {
	return t.window
}

// Flag marks key as conflicted for one window, restarting any pending window.
//
// Flag never blocks on the expiry and is a no-op after Close.
func (t *Tracker) Flag(key types.CellKey) {
	if t.closed.Load() {
		return
	}

	gen := t.nextGen.Add(1)
	t.flags.Store(key, gen)

	t.wg.Go(func() {
		timer := time.NewTimer(t.window)
		defer timer.Stop()

		select {
		case <-timer.C:
			t.expire(key, gen)
		case <-t.stopCh:
		}
	})
}

// expire removes key only if it still carries gen.
func (t *Tracker) expire(key types.CellKey, gen uint64) {
	removed := false
	t.flags.Compute(key, func(current uint64, loaded bool) (uint64, xsync.ComputeOp) {
		if !loaded || current != gen {
			return current, xsync.CancelOp
		}
		removed = true

		return 0, xsync.DeleteOp
	})

	if removed {
		t.logger.Debug("conflict flag expired", "cell", key.String())
	}
}

// IsFlagged reports whether key is currently flagged.
func (t *Tracker) IsFlagged(key types.CellKey) bool {
	_, ok := t.flags.Load(key)
	return ok
}

// Flagged returns the currently flagged cells sorted by crew then weekday.
func (t *Tracker) Flagged() []types.CellKey {
	keys := make([]types.CellKey, 0, t.flags.Size())
	t.flags.Range(func(key types.CellKey, _ uint64) bool {
		keys = append(keys, key)
		return true
	})

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CrewID != keys[j].CrewID {
			return keys[i].CrewID < keys[j].CrewID
		}

		return keys[i].Day < keys[j].Day
	})

	return keys
}

// Close cancels every pending expiry, waits for the timer goroutines to exit
// and clears the flag set. Safe to call more than once.
func (t *Tracker) Close() {
	t.stopOnce.Do(func() {
		t.closed.Store(true)
		close(t.stopCh)
	})
	t.wg.Wait()
	t.flags.Clear()
}
