// Package payload implements the drag payload protocol.
//
// A drag carries exactly one of three variants, serialised as a
// self-describing JSON record with a "type" discriminator:
//
//	{"type":"cell","crewId":"framing","day":"fri","projectId":"hope"}
//	{"type":"palette","projectId":"hope"}
//	{"type":"clear","projectId":null}
//
// Decode is total: it returns exactly one variant or an error wrapping
// ErrMalformed. Callers treat a malformed payload as a no-op.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arloliu/crewsched/types"
)

// MIMEType is the drag-transfer format under which payloads are exchanged.
const MIMEType = "application/json"

// ErrMalformed is returned when raw bytes do not decode to a known variant.
var ErrMalformed = errors.New("malformed drag payload")

// Kind identifies the payload variant.
type Kind string

const (
	// KindCell is a project dragged out of an occupied grid cell.
	KindCell Kind = "cell"
	// KindPalette is a project chip dragged from the palette.
	KindPalette Kind = "palette"
	// KindClear is the clear chip.
	KindClear Kind = "clear"
)

// Payload is one decoded drag payload.
//
// The zero value is not a valid payload; build one with Cell, Palette or Clear.
type Payload struct {
	kind    Kind
	source  types.CellKey
	project types.ProjectID
}

// Cell builds the payload for dragging project out of the cell (crewID, day).
func Cell(crewID string, day types.Weekday, project types.ProjectID) Payload {
	return Payload{kind: KindCell, source: types.Key(crewID, day), project: project}
}

// Palette builds the payload for dragging a palette chip.
func Palette(project types.ProjectID) Payload {
	return Payload{kind: KindPalette, project: project}
}

// Clear builds the payload for dragging the clear chip.
func Clear() Payload {
	return Payload{kind: KindClear}
}

// Kind returns the payload variant.
func (p Payload) Kind() Kind {
	return p.kind
}

// Source returns the originating cell of a cell payload.
// The second result is false for other variants.
func (p Payload) Source() (types.CellKey, bool) {
	return p.source, p.kind == KindCell
}

// Project returns the carried project, or NoProject for the clear variant.
func (p Payload) Project() types.ProjectID {
	return p.project
}

// CarriesProject reports whether the payload assigns a project when dropped.
func (p Payload) CarriesProject() bool {
	return p.kind != KindClear && !p.project.IsNone()
}

// String implements fmt.Stringer for log output.
func (p Payload) String() string {
	switch p.kind {
	case KindCell:
		return fmt.Sprintf("cell(%s -> %s)", p.source, p.project)
	case KindPalette:
		return fmt.Sprintf("palette(%s)", p.project)
	case KindClear:
		return "clear"
	default:
		return "invalid"
	}
}

// wire is the JSON record exchanged over the drag channel.
type wire struct {
	Type      Kind    `json:"type"`
	CrewID    *string `json:"crewId,omitempty"`
	Day       *string `json:"day,omitempty"`
	ProjectID *string `json:"projectId"`
}

// Encode serialises a payload.
//
// Returns:
//   - []byte: JSON record
//   - error: ErrMalformed if p is not a valid variant
func Encode(p Payload) ([]byte, error) {
	var w wire

	switch p.kind {
	case KindCell:
		if p.source.CrewID == "" || !p.source.Day.Valid() || p.project.IsNone() {
			return nil, fmt.Errorf("%w: incomplete cell payload", ErrMalformed)
		}
		crew := p.source.CrewID
		day := p.source.Day.String()
		project := string(p.project)
		w = wire{Type: KindCell, CrewID: &crew, Day: &day, ProjectID: &project}
	case KindPalette:
		if p.project.IsNone() {
			return nil, fmt.Errorf("%w: palette payload without project", ErrMalformed)
		}
		project := string(p.project)
		w = wire{Type: KindPalette, ProjectID: &project}
	case KindClear:
		w = wire{Type: KindClear}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformed, p.kind)
	}

	return json.Marshal(w)
}

// Decode parses raw drag data into a payload.
//
// Parameters:
//   - raw: Bytes read from the drag-transfer channel
//
// Returns:
//   - Payload: Decoded variant
//   - error: Wraps ErrMalformed on invalid JSON, unknown or missing type,
//     or missing/extra fields for the variant
func Decode(raw []byte) (Payload, error) {
	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	switch w.Type {
	case KindCell:
		if w.CrewID == nil || *w.CrewID == "" {
			return Payload{}, fmt.Errorf("%w: cell payload without crewId", ErrMalformed)
		}
		if w.Day == nil {
			return Payload{}, fmt.Errorf("%w: cell payload without day", ErrMalformed)
		}
		day, err := types.ParseWeekday(*w.Day)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if w.ProjectID == nil || *w.ProjectID == "" {
			return Payload{}, fmt.Errorf("%w: cell payload without projectId", ErrMalformed)
		}

		return Cell(*w.CrewID, day, types.ProjectID(*w.ProjectID)), nil
	case KindPalette:
		if w.ProjectID == nil || *w.ProjectID == "" {
			return Payload{}, fmt.Errorf("%w: palette payload without projectId", ErrMalformed)
		}

		return Palette(types.ProjectID(*w.ProjectID)), nil
	case KindClear:
		if w.ProjectID != nil {
			return Payload{}, fmt.Errorf("%w: clear payload with projectId %q", ErrMalformed, *w.ProjectID)
		}

		return Clear(), nil
	case "":
		return Payload{}, fmt.Errorf("%w: missing type", ErrMalformed)
	default:
		return Payload{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, w.Type)
	}
}
