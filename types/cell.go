package types

import (
	"fmt"
	"strings"
	"time"
)

// CellKey identifies one grid cell: a crew member on a weekday.
type CellKey struct {
	CrewID string  `json:"crewId"`
	Day    Weekday `json:"day"`
}

// Key builds a CellKey.
func Key(crewID string, day Weekday) CellKey {
	return CellKey{CrewID: crewID, Day: day}
}

// String returns the canonical "crewId:weekday" form.
func (k CellKey) String() string {
	return k.CrewID + ":" + k.Day.String()
}

// ParseCellKey parses the "crewId:weekday" form produced by String.
//
// The weekday is taken after the last colon so crew IDs may themselves contain colons.
func ParseCellKey(s string) (CellKey, error) {
	idx := strings.LastIndexByte(s, ':')
	if idx <= 0 {
		return CellKey{}, fmt.Errorf("malformed cell key %q", s)
	}

	day, err := ParseWeekday(s[idx+1:])
	if err != nil {
		return CellKey{}, err
	}

	return CellKey{CrewID: s[:idx], Day: day}, nil
}

// ChangeReason explains why a cell changed.
type ChangeReason string

const (
	// ReasonAssign is a palette chip dropped onto a cell.
	ReasonAssign ChangeReason = "assign"
	// ReasonMoveOut is the source cell of a move being cleared.
	ReasonMoveOut ChangeReason = "move-out"
	// ReasonMoveIn is the target cell of a move receiving the project.
	ReasonMoveIn ChangeReason = "move-in"
	// ReasonClear is the clear chip dropped onto a cell.
	ReasonClear ChangeReason = "clear"
	// ReasonDirect is a host call to UpdateScheduleCell outside a drop.
	ReasonDirect ChangeReason = "direct"
)

// CellChange describes one applied single-cell mutation.
type CellChange struct {
	// Version is the snapshot version produced by this mutation.
	Version int64 `json:"version"`

	// Cell is the mutated cell.
	Cell CellKey `json:"cell"`

	// Previous is the value before the mutation.
	Previous ProjectID `json:"previous"`

	// Current is the value after the mutation.
	Current ProjectID `json:"current"`

	// Reason is the drop variant (or direct call) that caused the mutation.
	Reason ChangeReason `json:"reason"`

	// At is when the mutation was applied.
	At time.Time `json:"at"`
}
