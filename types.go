package crewsched

import (
	"github.com/arloliu/crewsched/internal/weekly"
	"github.com/arloliu/crewsched/payload"
	"github.com/arloliu/crewsched/types"
)

// Re-export types from the types package.
//
// Internal packages depend on types without depending on the root package,
// while callers get crewsched.CellKey, crewsched.Logger, etc. directly.
type (
	Weekday      = types.Weekday
	ProjectID    = types.ProjectID
	Project      = types.Project
	Palette      = types.Palette
	Crew         = types.Crew
	CellKey      = types.CellKey
	CellChange   = types.CellChange
	ChangeReason = types.ChangeReason
	Snapshot     = types.Snapshot
	ProjectTotal = weekly.ProjectTotal
	Payload      = payload.Payload
	PayloadKind  = payload.Kind
)

// Re-export interfaces from the types package for convenience.
type (
	RosterSource     = types.RosterSource
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export constants from the types package.
const (
	Monday    = types.Monday
	Tuesday   = types.Tuesday
	Wednesday = types.Wednesday
	Thursday  = types.Thursday
	Friday    = types.Friday

	NoProject = types.NoProject

	ReasonAssign  = types.ReasonAssign
	ReasonMoveOut = types.ReasonMoveOut
	ReasonMoveIn  = types.ReasonMoveIn
	ReasonClear   = types.ReasonClear
	ReasonDirect  = types.ReasonDirect
)

// Key builds a CellKey.
func Key(crewID string, day Weekday) CellKey {
	return types.Key(crewID, day)
}
