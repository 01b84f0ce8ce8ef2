package roster

import "github.com/arloliu/crewsched/types"

// Default returns the demo roster: one crew member per trade row of the
// sample week.
func Default() []types.Crew {
	return []types.Crew{
		{ID: "concrete", Name: "Marco Delgado", Specialty: "Concrete", CurrentProject: "athanasakos"},
		{ID: "framing", Name: "Luis Ortega", Specialty: "Framing", CurrentProject: "winkenbach"},
		{ID: "foreman1", Name: "Sam Keller", Specialty: "Foreman", CurrentProject: "hope"},
		{ID: "foreman2", Name: "Priya Nair", Specialty: "Foreman", CurrentProject: "hope"},
		{ID: "tile", Name: "Dana Whitfield", Specialty: "Tile"},
		{ID: "landscape", Name: "Jorge Ruiz", Specialty: "Landscape", CurrentProject: "okimoto"},
		{ID: "finish1", Name: "Ellen Park", Specialty: "Finish Carpentry", CurrentProject: "winkenbach"},
		{ID: "finish2", Name: "Tom Becker", Specialty: "Finish Carpentry", CurrentProject: "winkenbach"},
	}
}

// NewDefault returns a Static source serving Default.
func NewDefault() *Static {
	return NewStatic(Default())
}
