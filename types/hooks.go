package types

import "context"

// Hooks defines callbacks for Board events.
//
// All hooks are optional and called asynchronously in background goroutines
// so a slow hook never delays a drop. Hooks receive the board's lifecycle
// context, which is cancelled by Board.Close.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks for successive events may run concurrently and out of order;
//     use Board.Subscribe when ordering matters
//   - Hook errors are logged but never affect the grid
//
// Example:
//
//	hooks := &crewsched.Hooks{
//	    OnConflict: func(ctx context.Context, cell crewsched.CellKey, previous, incoming crewsched.ProjectID) error {
//	        log.Printf("%s: %s overwritten by %s", cell, previous, incoming)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnCellChanged is called after each applied cell mutation.
	OnCellChanged func(ctx context.Context, change CellChange) error

	// OnConflict is called when a drop overwrites a different project.
	OnConflict func(ctx context.Context, cell CellKey, previous, incoming ProjectID) error

	// OnDropRejected is called when a drop is discarded without side effects.
	OnDropRejected func(ctx context.Context, cell CellKey, err error) error
}
