package types

import "context"

// Crew is a roster member shown as one row of the weekly grid.
//
// Crews are owned by the host's roster; the scheduling engine only reads them.
type Crew struct {
	// ID uniquely identifies the crew member.
	ID string `yaml:"id" json:"id"`

	// Name is the display name.
	Name string `yaml:"name" json:"name"`

	// Specialty is the trade or role (e.g. "Concrete", "Framing").
	Specialty string `yaml:"specialty" json:"specialty"`

	// CurrentProject is the crew's standing assignment outside the weekly grid.
	// Informational only; the grid never reads or writes it.
	CurrentProject ProjectID `yaml:"currentProject,omitempty" json:"currentProject,omitempty"`
}

// Initials returns up to two leading letters of the crew name, used for avatars.
func (c Crew) Initials() string {
	out := make([]rune, 0, 2)
	start := true
	for _, r := range c.Name {
		if r == ' ' {
			start = true
			continue
		}
		if start {
			out = append(out, r)
			if len(out) == 2 {
				break
			}
			start = false
		}
	}

	return string(out)
}

// RosterSource supplies the ordered crew roster.
//
// Implementations must be safe for concurrent use.
type RosterSource interface {
	// ListCrews returns the roster in display order.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//
	// Returns:
	//   - []Crew: Roster rows
	//   - error: Source error
	ListCrews(ctx context.Context) ([]Crew, error)
}
