package types

import "fmt"

// Weekday identifies one working day of the displayed week.
//
// The set is fixed and ordered: Monday through Friday. The zero value is
// not a valid weekday so an unset field is never mistaken for Monday.
type Weekday int

const (
	// Monday is the first day of the scheduling week.
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	// Friday is the last day of the scheduling week.
	Friday
)

// Weekdays lists the scheduling week in display order.
var Weekdays = [...]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = [...]string{"", "mon", "tue", "wed", "thu", "fri"}

var weekdayLabels = [...]string{"", "Mon", "Tue", "Wed", "Thu", "Fri"}

// Valid reports whether d is one of Monday..Friday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

// String returns the wire name of the weekday ("mon".."fri").
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}

	return weekdayNames[d]
}

// Label returns the short display label ("Mon".."Fri").
func (d Weekday) Label() string {
	if !d.Valid() {
		return ""
	}

	return weekdayLabels[d]
}

// ParseWeekday converts a wire name into a Weekday.
//
// Parameters:
//   - s: Wire name, one of "mon", "tue", "wed", "thu", "fri"
//
// Returns:
//   - Weekday: Parsed weekday
//   - error: ErrInvalidWeekday if s is not a known name
func ParseWeekday(s string) (Weekday, error) {
	for _, d := range Weekdays {
		if weekdayNames[d] == s {
			return d, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, int(d))
	}

	return []byte(weekdayNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed

	return nil
}
