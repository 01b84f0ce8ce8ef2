package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/crewsched/types"
)

// Static implements a roster source with a fixed list of crews.
type Static struct {
	mu    sync.RWMutex
	crews []types.Crew
}

var _ types.RosterSource = (*Static)(nil)

// NewStatic creates a new static roster source.
//
// Parameters:
//   - crews: Crew members in display order
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := roster.NewStatic([]types.Crew{
//	    {ID: "framing", Name: "Luis Ortega", Specialty: "Framing"},
//	    {ID: "tile", Name: "Dana Whitfield", Specialty: "Tile"},
//	})
//	board, err := crewsched.NewBoard(ctx, &cfg, src)
//	if err != nil { /* handle */ }
func NewStatic(crews []types.Crew) *Static {
	s := &Static{}
	s.Update(crews)

	return s
}

// ListCrews returns a copy of the crew list.
//
// Returns:
//   - []types.Crew: Crews in display order
//   - error: Always nil (never fails)
func (s *Static) ListCrews(_ context.Context) ([]types.Crew, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Crew, len(s.crews))
	copy(result, s.crews)

	return result, nil
}

// Update replaces the crew list.
//
// Boards already constructed keep the roster they read at startup.
func (s *Static) Update(crews []types.Crew) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.crews = make([]types.Crew, len(crews))
	copy(s.crews, crews)
}

// Validate checks that every crew has a non-empty, unique ID.
//
// Returns:
//   - error: ErrUnknownCrew for an empty ID, ErrDuplicateCrew for a repeated one
func Validate(crews []types.Crew) error {
	seen := make(map[string]struct{}, len(crews))
	for i, c := range crews {
		if c.ID == "" {
			return fmt.Errorf("%w: crew at index %d has empty ID", types.ErrUnknownCrew, i)
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("%w: %q", types.ErrDuplicateCrew, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return nil
}

// IDs returns the crew IDs in order.
func IDs(crews []types.Crew) []string {
	ids := make([]string, len(crews))
	for i, c := range crews {
		ids[i] = c.ID
	}

	return ids
}
