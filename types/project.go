package types

// ProjectID identifies a project that crews can be scheduled onto.
//
// The zero value NoProject means "unassigned".
type ProjectID string

// NoProject marks an empty cell.
const NoProject ProjectID = ""

// IsNone reports whether the ID represents an unassigned cell.
func (p ProjectID) IsNone() bool {
	return p == NoProject
}

// Project is a palette entry with display metadata.
type Project struct {
	// ID is the identifier stored in grid cells.
	ID ProjectID `yaml:"id" json:"id"`

	// Label is the human-readable project name.
	Label string `yaml:"label" json:"label"`

	// Color is an opaque display hint for the host (e.g. "#60A5FA").
	Color string `yaml:"color" json:"color"`
}

// Palette is the ordered, fixed set of assignable projects.
type Palette []Project

// Contains reports whether id is a palette entry.
func (p Palette) Contains(id ProjectID) bool {
	_, ok := p.Lookup(id)
	return ok
}

// Lookup returns the palette entry for id.
func (p Palette) Lookup(id ProjectID) (Project, bool) {
	for _, proj := range p {
		if proj.ID == id {
			return proj, true
		}
	}

	return Project{}, false
}

// IDs returns the project IDs in palette order.
func (p Palette) IDs() []ProjectID {
	ids := make([]ProjectID, len(p))
	for i, proj := range p {
		ids[i] = proj.ID
	}

	return ids
}
