package types

import (
	"encoding/json"

	"github.com/zeebo/xxh3"
)

// row holds one crew's assignments indexed by Weekday-1.
type row [len(Weekdays)]ProjectID

// Snapshot is an immutable view of the assignment grid.
//
// Snapshots are values: With returns a modified copy and never touches the
// receiver, so a snapshot handed to a renderer stays consistent while the
// board keeps mutating.
type Snapshot struct {
	version int64
	crews   []string
	rows    map[string]row
}

// NewSnapshot creates an empty grid with one unassigned cell per crew and weekday.
//
// Parameters:
//   - crewIDs: Roster crew IDs in display order (must be unique)
//
// Returns:
//   - Snapshot: Version 0 snapshot with every cell set to NoProject
func NewSnapshot(crewIDs []string) Snapshot {
	crews := make([]string, len(crewIDs))
	copy(crews, crewIDs)

	rows := make(map[string]row, len(crewIDs))
	for _, id := range crews {
		rows[id] = row{}
	}

	return Snapshot{crews: crews, rows: rows}
}

// Version returns the number of mutations applied since the grid was created.
func (s Snapshot) Version() int64 {
	return s.version
}

// Crews returns the crew IDs in display order.
func (s Snapshot) Crews() []string {
	out := make([]string, len(s.crews))
	copy(out, s.crews)

	return out
}

// HasCrew reports whether the grid has a row for crewID.
func (s Snapshot) HasCrew(crewID string) bool {
	_, ok := s.rows[crewID]
	return ok
}

// Get returns the project at key, or NoProject for empty or unknown cells.
func (s Snapshot) Get(key CellKey) ProjectID {
	if !key.Day.Valid() {
		return NoProject
	}
	r, ok := s.rows[key.CrewID]
	if !ok {
		return NoProject
	}

	return r[key.Day-1]
}

// With returns a copy of the snapshot with key set to project and the version incremented.
//
// The caller is responsible for validating key and project; With only
// requires that the crew row exists and the weekday is valid, and returns the
// receiver unchanged otherwise.
func (s Snapshot) With(key CellKey, project ProjectID) Snapshot {
	r, ok := s.rows[key.CrewID]
	if !ok || !key.Day.Valid() {
		return s
	}

	rows := make(map[string]row, len(s.rows))
	for id, existing := range s.rows {
		rows[id] = existing
	}
	r[key.Day-1] = project
	rows[key.CrewID] = r

	return Snapshot{version: s.version + 1, crews: s.crews, rows: rows}
}

// Range calls fn for every cell in display order (crew, then weekday).
// Iteration stops when fn returns false.
func (s Snapshot) Range(fn func(key CellKey, project ProjectID) bool) {
	for _, id := range s.crews {
		r := s.rows[id]
		for _, d := range Weekdays {
			if !fn(Key(id, d), r[d-1]) {
				return
			}
		}
	}
}

// Fingerprint returns a content hash of the grid, independent of version.
//
// Two snapshots with identical cells share a fingerprint, which lets hosts
// skip re-rendering after no-op drops such as a cell dropped onto itself.
func (s Snapshot) Fingerprint() uint64 {
	h := xxh3.New()
	for _, id := range s.crews {
		_, _ = h.WriteString(id)
		_, _ = h.Write([]byte{0})
		r := s.rows[id]
		for _, p := range r {
			_, _ = h.WriteString(string(p))
			_, _ = h.Write([]byte{0})
		}
	}

	return h.Sum64()
}

// MarshalJSON renders the grid as {crewId: {weekday: projectId|null}}.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]*ProjectID, len(s.crews))
	for _, id := range s.crews {
		r := s.rows[id]
		days := make(map[string]*ProjectID, len(Weekdays))
		for _, d := range Weekdays {
			if p := r[d-1]; !p.IsNone() {
				days[d.String()] = &p
			} else {
				days[d.String()] = nil
			}
		}
		out[id] = days
	}

	return json.Marshal(out)
}
