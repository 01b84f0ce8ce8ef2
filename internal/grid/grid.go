// Package grid implements the assignment store: the canonical mapping of
// (crew, weekday) to a project or nothing.
package grid

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arloliu/crewsched/types"
)

// Store owns the weekly assignment grid.
//
// Set is the only mutator. Readers load the current snapshot atomically and
// never observe a partially applied mutation; writers are serialised by mu so
// versions are strictly increasing.
type Store struct {
	palette types.Palette

	mu      sync.Mutex
	current atomic.Pointer[types.Snapshot]
}

// New creates a store with one empty cell per crew and weekday.
//
// Parameters:
//   - crewIDs: Roster crew IDs in display order
//   - palette: Projects a cell may hold
//
// Returns:
//   - *Store: Initialized store
//   - error: ErrDuplicateCrew if a crew ID repeats, ErrUnknownCrew for an empty ID
func New(crewIDs []string, palette types.Palette) (*Store, error) {
	seen := make(map[string]struct{}, len(crewIDs))
	for _, id := range crewIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty crew ID", types.ErrUnknownCrew)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q", types.ErrDuplicateCrew, id)
		}
		seen[id] = struct{}{}
	}

	pal := make(types.Palette, len(palette))
	copy(pal, palette)

	s := &Store{palette: pal}
	snap := types.NewSnapshot(crewIDs)
	s.current.Store(&snap)

	return s, nil
}

// Get returns the project at key, or NoProject if the cell is empty or unknown.
func (s *Store) Get(key types.CellKey) types.ProjectID {
	return s.current.Load().Get(key)
}

// Snapshot returns the current grid.
func (s *Store) Snapshot() types.Snapshot {
	return *s.current.Load()
}

// Validate checks that key addresses a grid cell and project may be stored in it.
//
// Returns:
//   - error: ErrUnknownCrew, ErrInvalidWeekday or ErrUnknownProject; nil if valid
func (s *Store) Validate(key types.CellKey, project types.ProjectID) error {
	if !key.Day.Valid() {
		return fmt.Errorf("%w: %d", types.ErrInvalidWeekday, int(key.Day))
	}
	if !s.current.Load().HasCrew(key.CrewID) {
		return fmt.Errorf("%w: %q", types.ErrUnknownCrew, key.CrewID)
	}
	if !project.IsNone() && !s.palette.Contains(project) {
		return fmt.Errorf("%w: %q", types.ErrUnknownProject, string(project))
	}

	return nil
}

// Set replaces the value of one cell and returns the resulting snapshot.
//
// Invalid input is rejected before any state changes, leaving the grid and
// its version untouched.
//
// Parameters:
//   - key: Cell to replace
//   - project: New value (NoProject clears the cell)
//
// Returns:
//   - types.Snapshot: Grid after the mutation
//   - types.ProjectID: Value the cell held before the mutation
//   - error: Validation error from Validate
func (s *Store) Set(key types.CellKey, project types.ProjectID) (types.Snapshot, types.ProjectID, error) {
	if err := s.Validate(key, project); err != nil {
		return s.Snapshot(), types.NoProject, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	previous := cur.Get(key)
	next := cur.With(key, project)
	s.current.Store(&next)

	return next, previous, nil
}
