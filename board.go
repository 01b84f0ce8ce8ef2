package crewsched

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/crewsched/internal/conflict"
	"github.com/arloliu/crewsched/internal/grid"
	"github.com/arloliu/crewsched/internal/hooks"
	"github.com/arloliu/crewsched/internal/logging"
	"github.com/arloliu/crewsched/internal/metrics"
	"github.com/arloliu/crewsched/internal/notify"
	"github.com/arloliu/crewsched/internal/weekly"
	"github.com/arloliu/crewsched/payload"
	"github.com/arloliu/crewsched/roster"
	"github.com/arloliu/crewsched/types"
)

// kindUnknown labels drops whose payload could not be decoded.
const kindUnknown = "unknown"

// DropResult reports the outcome of one drop.
type DropResult struct {
	// Accepted is true when the drop was applied to the grid.
	Accepted bool

	// Kind is the decoded payload variant, empty if decoding failed.
	Kind payload.Kind

	// Conflict is true when the drop overwrote a different project.
	Conflict bool

	// Snapshot is the grid after the drop (unchanged if rejected).
	Snapshot Snapshot

	// Err explains a rejection. Nil when Accepted is true.
	Err error
}

// Board is the crew scheduling engine: the weekly assignment grid plus the
// drag-and-drop interaction rules applied to it.
//
// All methods are safe for concurrent use. Mutations are serialised so a
// move (clear source, then set target) is never interleaved with another
// mutation; readers see either the grid before or after a whole drop step.
type Board struct {
	cfg     Config
	crews   []Crew
	palette Palette

	store    *grid.Store
	tracker  *conflict.Tracker
	notifier *notify.Broadcaster

	hooks   Hooks
	metrics MetricsCollector
	logger  Logger

	// mu serialises mutations and guards closed.
	mu     sync.Mutex
	closed bool

	dragMu   sync.Mutex
	dragOver *CellKey

	// Lifecycle context handed to hooks, cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
	hookWg sync.WaitGroup
}

// NewBoard creates a board for the roster returned by src, seeded from cfg.
//
// The roster is read once. Seed rows for crews that are not in the roster are
// skipped with a warning.
//
// Parameters:
//   - ctx: Context for reading the roster
//   - cfg: Configuration (defaults are applied in place)
//   - src: Roster source
//   - opts: Optional logger, metrics and hooks
//
// Returns:
//   - *Board: Ready board
//   - error: ErrInvalidConfig, ErrRosterSourceRequired, roster errors
//
// Example:
//
//	cfg := crewsched.DefaultConfig()
//	board, err := crewsched.NewBoard(ctx, &cfg, roster.NewDefault())
//	if err != nil { /* handle */ }
//	defer board.Close()
func NewBoard(ctx context.Context, cfg *Config, src RosterSource, opts ...Option) (*Board, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if src == nil {
		return nil, ErrRosterSourceRequired
	}

	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &boardOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	crews, err := src.ListCrews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list crews: %w", err)
	}
	if err := roster.Validate(crews); err != nil {
		return nil, err
	}

	store, err := grid.New(roster.IDs(crews), cfg.Palette)
	if err != nil {
		return nil, err
	}

	palette := make(Palette, len(cfg.Palette))
	copy(palette, cfg.Palette)

	b := &Board{
		cfg:      *cfg,
		crews:    crews,
		palette:  palette,
		store:    store,
		tracker:  conflict.New(cfg.ConflictWindow, loggerInstance),
		notifier: notify.New(cfg.SubscriberBuffer, metricsCollector),
		hooks:    hooks.Fill(options.hooks),
		metrics:  metricsCollector,
		logger:   loggerInstance,
	}
	b.ctx, b.cancel = context.WithCancel(context.Background())

	if err := b.applySeed(cfg.Seed); err != nil {
		b.cancel()
		b.tracker.Close()

		return nil, err
	}

	snap := store.Snapshot()
	occupied := weekly.Occupied(snap)
	b.metrics.RecordAssignedCells(occupied)
	b.logger.Info("board ready",
		"crews", len(crews),
		"projects", len(palette),
		"assigned_cells", occupied,
		"conflict_window", cfg.ConflictWindow,
	)

	return b, nil
}

// applySeed writes the initial schedule. Seeding emits no change events.
func (b *Board) applySeed(seed SeedSchedule) error {
	for crewID := range seed {
		if _, ok := b.crew(crewID); !ok {
			b.logger.Warn("seed row ignored, crew not in roster", "crew", crewID)
		}
	}

	for _, c := range b.crews {
		days, ok := seed[c.ID]
		if !ok {
			continue
		}
		for _, d := range types.Weekdays {
			project := days[d.String()]
			if project.IsNone() {
				continue
			}
			if _, _, err := b.store.Set(types.Key(c.ID, d), project); err != nil {
				return fmt.Errorf("failed to apply seed: %w", err)
			}
		}
	}

	return nil
}

func (b *Board) crew(id string) (Crew, bool) {
	for _, c := range b.crews {
		if c.ID == id {
			return c, true
		}
	}

	return Crew{}, false
}

// Drop decodes raw drag data and applies it to the target cell.
//
// Malformed payloads, unknown projects and cells outside the grid are
// rejected without any side effect on the grid or the conflict set; the
// rejection is reported in the result, never as a panic or error return.
//
// Parameters:
//   - crewID: Target row
//   - day: Target weekday
//   - raw: JSON payload read from the drag-transfer channel
//
// Returns:
//   - DropResult: Outcome and resulting grid
//
// Example:
//
//	raw := []byte(`{"type":"palette","projectId":"hope"}`)
//	res := board.Drop("tile", crewsched.Monday, raw)
//	if res.Conflict { /* flash the cell */ }
func (b *Board) Drop(crewID string, day Weekday, raw []byte) DropResult {
	p, err := payload.Decode(raw)

	return b.drop(types.Key(crewID, day), p, err)
}

// DropPayload applies an already decoded payload to the target cell.
func (b *Board) DropPayload(crewID string, day Weekday, p Payload) DropResult {
	var err error
	if p.Kind() == "" {
		err = fmt.Errorf("%w: zero payload", payload.ErrMalformed)
	}

	return b.drop(types.Key(crewID, day), p, err)
}

func (b *Board) drop(target CellKey, p Payload, decodeErr error) DropResult {
	// A drop always ends hovering, whether or not it is applied.
	b.DragEnd()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return DropResult{Kind: p.Kind(), Snapshot: b.store.Snapshot(), Err: ErrBoardClosed}
	}

	if decodeErr != nil {
		return b.rejectLocked(target, p, decodeErr)
	}
	if err := b.validateDropLocked(target, p); err != nil {
		return b.rejectLocked(target, p, err)
	}

	result := DropResult{Accepted: true, Kind: p.Kind()}

	existing := b.store.Get(target)
	if !existing.IsNone() && p.CarriesProject() && existing != p.Project() {
		result.Conflict = true
		b.tracker.Flag(target)
		b.metrics.RecordConflict()
		b.logger.Debug("conflict on drop",
			"cell", target.String(),
			"previous", string(existing),
			"incoming", string(p.Project()),
		)
		b.runHook("OnConflict", func(ctx context.Context) error {
			return b.hooks.OnConflict(ctx, target, existing, p.Project())
		})
	}

	var err error
	switch p.Kind() {
	case payload.KindCell:
		source, _ := p.Source()
		if source != target {
			if _, err = b.setLocked(source, types.NoProject, types.ReasonMoveOut); err != nil {
				break
			}
		}
		result.Snapshot, err = b.setLocked(target, p.Project(), types.ReasonMoveIn)
	case payload.KindPalette:
		result.Snapshot, err = b.setLocked(target, p.Project(), types.ReasonAssign)
	case payload.KindClear:
		result.Snapshot, err = b.setLocked(target, types.NoProject, types.ReasonClear)
	}

	if err != nil {
		// Unreachable after validation; surfaced rather than swallowed.
		b.logger.Error("drop failed after validation", "cell", target.String(), "payload", p.String(), "error", err)
		b.metrics.RecordDrop(string(p.Kind()), false)

		return DropResult{Kind: p.Kind(), Snapshot: b.store.Snapshot(), Err: err}
	}

	b.metrics.RecordDrop(string(p.Kind()), true)
	b.metrics.RecordAssignedCells(weekly.Occupied(result.Snapshot))
	b.logger.Debug("drop applied", "cell", target.String(), "payload", p.String(), "version", result.Snapshot.Version())

	return result
}

// validateDropLocked checks the target cell, the carried project and, for a
// move, the source cell.
func (b *Board) validateDropLocked(target CellKey, p Payload) error {
	if err := b.store.Validate(target, types.NoProject); err != nil {
		return err
	}
	if p.Kind() == payload.KindClear {
		return nil
	}
	if !b.palette.Contains(p.Project()) {
		return fmt.Errorf("%w: %q", ErrUnknownProject, string(p.Project()))
	}
	if source, ok := p.Source(); ok {
		if err := b.store.Validate(source, types.NoProject); err != nil {
			return fmt.Errorf("invalid drag source: %w", err)
		}
	}

	return nil
}

func (b *Board) rejectLocked(target CellKey, p Payload, err error) DropResult {
	kind := string(p.Kind())
	if kind == "" {
		kind = kindUnknown
	}

	b.metrics.RecordDrop(kind, false)
	b.logger.Debug("drop rejected", "cell", target.String(), "kind", kind, "error", err)
	b.runHook("OnDropRejected", func(ctx context.Context) error {
		return b.hooks.OnDropRejected(ctx, target, err)
	})

	return DropResult{Kind: p.Kind(), Snapshot: b.store.Snapshot(), Err: err}
}

// setLocked applies one cell mutation and announces it if the value changed.
func (b *Board) setLocked(key CellKey, project ProjectID, reason ChangeReason) (Snapshot, error) {
	snap, previous, err := b.store.Set(key, project)
	if err != nil {
		return snap, err
	}
	if previous == project {
		return snap, nil
	}

	change := CellChange{
		Version:  snap.Version(),
		Cell:     key,
		Previous: previous,
		Current:  project,
		Reason:   reason,
		At:       time.Now(),
	}

	b.metrics.RecordCellUpdate(string(reason))
	b.notifier.Publish(change)
	b.runHook("OnCellChanged", func(ctx context.Context) error {
		return b.hooks.OnCellChanged(ctx, change)
	})

	return snap, nil
}

// runHook calls fn in a tracked goroutine. Must be called with mu held and
// the board open so Close can wait for every started hook.
func (b *Board) runHook(name string, fn func(ctx context.Context) error) {
	b.hookWg.Go(func() {
		if err := fn(b.ctx); err != nil && !errors.Is(err, context.Canceled) {
			b.logger.Warn("hook returned error", "hook", name, "error", err)
		}
	})
}

// ConflictWindow returns how long a conflict flag lasts, for hosts that
// animate the signal.
func (b *Board) ConflictWindow() time.Duration {
	return b.cfg.ConflictWindow
}

// DragSource builds the payload for dragging the project out of a cell.
//
// Returns:
//   - Payload: Cell payload carrying the cell's project
//   - error: ErrEmptyCell for an empty cell, ErrUnknownCrew or ErrInvalidWeekday
//     for a cell outside the grid
func (b *Board) DragSource(crewID string, day Weekday) (Payload, error) {
	key := types.Key(crewID, day)
	if err := b.store.Validate(key, types.NoProject); err != nil {
		return Payload{}, err
	}

	project := b.store.Get(key)
	if project.IsNone() {
		return Payload{}, fmt.Errorf("%w: %s", ErrEmptyCell, key)
	}

	return payload.Cell(crewID, day, project), nil
}

// DragOver records key as the cell currently hovered by a drag.
func (b *Board) DragOver(key CellKey) {
	b.dragMu.Lock()
	defer b.dragMu.Unlock()

	b.dragOver = &key
}

// DragLeave clears the hovered cell when the pointer really left key.
//
// Leave events also fire when the pointer moves onto a child element of the
// cell; the host passes relatedInside=true in that case and the hover state
// is kept. A leave for a cell other than the hovered one is ignored.
func (b *Board) DragLeave(key CellKey, relatedInside bool) {
	if relatedInside {
		return
	}

	b.dragMu.Lock()
	defer b.dragMu.Unlock()

	if b.dragOver != nil && *b.dragOver == key {
		b.dragOver = nil
	}
}

// DragEnd clears the hovered cell.
func (b *Board) DragEnd() {
	b.dragMu.Lock()
	defer b.dragMu.Unlock()

	b.dragOver = nil
}

// DragOverKey returns the hovered cell, if any.
func (b *Board) DragOverKey() (CellKey, bool) {
	b.dragMu.Lock()
	defer b.dragMu.Unlock()

	if b.dragOver == nil {
		return CellKey{}, false
	}

	return *b.dragOver, true
}

// UpdateScheduleCell sets one cell directly, outside any drag.
//
// It never raises a conflict signal. Invalid input leaves the grid unchanged.
//
// Parameters:
//   - crewID: Row to update
//   - day: Weekday to update
//   - project: New value, NoProject to clear
//
// Returns:
//   - error: ErrUnknownCrew, ErrInvalidWeekday, ErrUnknownProject or ErrBoardClosed
func (b *Board) UpdateScheduleCell(crewID string, day Weekday, project ProjectID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBoardClosed
	}

	snap, err := b.setLocked(types.Key(crewID, day), project, types.ReasonDirect)
	if err != nil {
		return err
	}
	b.metrics.RecordAssignedCells(weekly.Occupied(snap))

	return nil
}

// GetCell returns the project in a cell, NoProject if empty or outside the grid.
func (b *Board) GetCell(crewID string, day Weekday) ProjectID {
	return b.store.Get(types.Key(crewID, day))
}

// WeeklyCounts returns the number of cells holding each project, recomputed per call.
func (b *Board) WeeklyCounts() map[ProjectID]int {
	return weekly.Counts(b.store.Snapshot())
}

// WeeklySummary returns palette-ordered totals, zero counts included.
func (b *Board) WeeklySummary() []ProjectTotal {
	return weekly.Summary(b.store.Snapshot(), b.palette)
}

// Snapshot returns the current grid.
func (b *Board) Snapshot() Snapshot {
	return b.store.Snapshot()
}

// Crews returns the roster in display order.
func (b *Board) Crews() []Crew {
	out := make([]Crew, len(b.crews))
	copy(out, b.crews)

	return out
}

// Palette returns the assignable projects in display order.
func (b *Board) Palette() Palette {
	out := make(Palette, len(b.palette))
	copy(out, b.palette)

	return out
}

// IsConflict reports whether a cell is inside its conflict window.
func (b *Board) IsConflict(crewID string, day Weekday) bool {
	return b.tracker.IsFlagged(types.Key(crewID, day))
}

// Conflicts returns the currently flagged cells.
func (b *Board) Conflicts() []CellKey {
	return b.tracker.Flagged()
}

// Subscribe returns a channel of applied cell changes and an unsubscribe func.
//
// Delivery is non-blocking: if the subscriber's buffer (Config.SubscriberBuffer)
// is full the event is dropped for that subscriber. The channel is closed by
// the unsubscribe func or by Close.
//
// Example:
//
//	ch, unsubscribe := board.Subscribe()
//	defer unsubscribe()
//	for change := range ch {
//	    fmt.Printf("%s: %q -> %q\n", change.Cell, change.Previous, change.Current)
//	}
func (b *Board) Subscribe() (<-chan CellChange, func()) {
	return b.notifier.Subscribe()
}

// Close stops conflict timers, ends subscriptions and waits for running hooks.
//
// Returns:
//   - error: ErrBoardClosed if already closed
func (b *Board) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()

		return ErrBoardClosed
	}
	b.closed = true
	b.cancel()
	b.mu.Unlock()

	b.tracker.Close()
	b.notifier.Close()
	b.hookWg.Wait()

	b.logger.Info("board closed", "version", b.store.Snapshot().Version())

	return nil
}
