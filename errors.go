package crewsched

import "github.com/arloliu/crewsched/types"

// Sentinel errors re-exported from the types package for errors.Is checks.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrRosterSourceRequired is returned when the roster source is nil.
	ErrRosterSourceRequired = types.ErrRosterSourceRequired

	// ErrBoardClosed is returned when a mutation is attempted after Close.
	ErrBoardClosed = types.ErrBoardClosed

	// ErrEmptyCell is returned when a drag is started from an empty cell.
	ErrEmptyCell = types.ErrEmptyCell

	// ErrUnknownCrew is returned when a crew ID is not part of the roster.
	ErrUnknownCrew = types.ErrUnknownCrew

	// ErrInvalidWeekday is returned when a weekday is outside Monday..Friday.
	ErrInvalidWeekday = types.ErrInvalidWeekday

	// ErrUnknownProject is returned when a project ID is not in the palette.
	ErrUnknownProject = types.ErrUnknownProject

	// ErrDuplicateCrew is returned when the roster lists the same crew ID twice.
	ErrDuplicateCrew = types.ErrDuplicateCrew
)
