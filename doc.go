// Package crewsched is the crew scheduling engine of a construction
// operations dashboard.
//
// A Board holds a weekly grid: one row per crew member, one column per
// weekday (Monday to Friday), and at most one project per cell. The grid is
// edited by drag and drop. A drag carries one of three payloads:
//
//   - cell: a project dragged out of an occupied cell (a move)
//   - palette: a project chip dragged from the palette (an assignment)
//   - clear: the clear chip (empties the target)
//
// Dropping a project onto a cell that already holds a different project
// overwrites it and raises a short-lived conflict flag on that cell
// (700ms by default). Weekly totals per project are recomputed from the grid
// on every read.
//
// # Quick Start
//
//	cfg := crewsched.DefaultConfig()
//	board, err := crewsched.NewBoard(ctx, &cfg, roster.NewDefault())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer board.Close()
//
//	// Move Friday's project of foreman1 to Monday.
//	src, _ := board.DragSource("foreman1", crewsched.Friday)
//	res := board.DropPayload("foreman1", crewsched.Monday, src)
//	fmt.Println(res.Conflict, board.WeeklyCounts())
//
// Hosts that receive raw drag data call Drop with the JSON bytes instead;
// see package payload for the wire format.
//
// # Observing changes
//
// Every applied cell mutation is published as a CellChange to subscribers
// (Board.Subscribe) and to the optional OnCellChanged hook. Package mirror
// consumes a subscription to keep a NATS JetStream KV bucket in step with
// the grid for other dashboard views.
//
// See the examples/ directory for a complete program.
package crewsched
