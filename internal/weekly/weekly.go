// Package weekly derives per-project totals from the assignment grid.
//
// Every call recomputes from the snapshot it is given. Nothing is cached, so
// the result can never drift from the grid.
package weekly

import "github.com/arloliu/crewsched/types"

// ProjectTotal is one legend row of the weekly summary.
type ProjectTotal struct {
	Project  types.Project `json:"project"`
	CrewDays int           `json:"crewDays"`
}

// Counts returns the number of cells holding each project.
//
// Empty cells are not counted and projects with no cells are absent from the
// result, so the sum of all values equals the number of occupied cells.
func Counts(snap types.Snapshot) map[types.ProjectID]int {
	counts := make(map[types.ProjectID]int)
	snap.Range(func(_ types.CellKey, project types.ProjectID) bool {
		if !project.IsNone() {
			counts[project]++
		}

		return true
	})

	return counts
}

// Summary returns one row per palette entry in palette order, zero counts included.
//
// Parameters:
//   - snap: Grid to aggregate
//   - palette: Projects to report on
//
// Returns:
//   - []ProjectTotal: Totals in palette order
func Summary(snap types.Snapshot, palette types.Palette) []ProjectTotal {
	counts := Counts(snap)

	out := make([]ProjectTotal, 0, len(palette))
	for _, p := range palette {
		out = append(out, ProjectTotal{Project: p, CrewDays: counts[p.ID]})
	}

	return out
}

// Occupied returns the number of cells holding a project.
func Occupied(snap types.Snapshot) int {
	n := 0
	snap.Range(func(_ types.CellKey, project types.ProjectID) bool {
		if !project.IsNone() {
			n++
		}

		return true
	})

	return n
}
