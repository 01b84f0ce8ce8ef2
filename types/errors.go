package types

import "errors"

// Sentinel errors for the crewsched library.
//
// These errors provide type-safe error checking using errors.Is().
// Components wrap them with context using fmt.Errorf("%w: ...", err) so the
// sentinel identity survives.

// Board errors - Public API errors returned by the Board component.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRosterSourceRequired is returned when the roster source is nil.
	ErrRosterSourceRequired = errors.New("roster source is required")

	// ErrBoardClosed is returned when a mutation is attempted after Close.
	ErrBoardClosed = errors.New("board closed")

	// ErrEmptyCell is returned when a drag is started from a cell with no project.
	ErrEmptyCell = errors.New("cell has no project")
)

// Grid errors - Caller contract violations rejected by the assignment store.
var (
	// ErrUnknownCrew is returned when a crew ID is not part of the roster.
	ErrUnknownCrew = errors.New("unknown crew")

	// ErrInvalidWeekday is returned when a weekday is outside Monday..Friday.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrUnknownProject is returned when a project ID is not in the palette.
	ErrUnknownProject = errors.New("unknown project")

	// ErrDuplicateCrew is returned when the roster lists the same crew ID twice.
	ErrDuplicateCrew = errors.New("duplicate crew")
)

// Mirror errors - KV mirror component errors.
var (
	// ErrPublishFailed is returned when writing a cell to the KV mirror fails.
	ErrPublishFailed = errors.New("failed to publish cell")

	// ErrDeleteFailed is returned when removing a cell from the KV mirror fails.
	ErrDeleteFailed = errors.New("failed to delete cell")
)
