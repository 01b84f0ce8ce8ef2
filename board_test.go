package crewsched

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/crewsched/payload"
	"github.com/arloliu/crewsched/roster"
	crewtest "github.com/arloliu/crewsched/testing"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+msg)
}

func (l *recordingLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	for _, e := range l.entries {
		if len(e) > len(level) && e[:len(level)+1] == level+" " {
			out = append(out, e[len(level)+1:])
		}
	}

	return out
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.log("DEBUG", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.log("INFO", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.log("WARN", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.log("ERROR", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.log("FATAL", msg) }

type failingSource struct{}

func (failingSource) ListCrews(context.Context) ([]Crew, error) {
	return nil, errors.New("roster unavailable")
}

func newTestBoard(t *testing.T, opts ...Option) *Board {
	t.Helper()

	cfg := TestConfig()
	opts = append([]Option{WithLogger(crewtest.NewTestLogger(t))}, opts...)

	b, err := NewBoard(t.Context(), &cfg, roster.NewDefault(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return b
}

func encode(t *testing.T, p Payload) []byte {
	t.Helper()

	raw, err := payload.Encode(p)
	require.NoError(t, err)

	return raw
}

func TestNewBoard_NilSafety(t *testing.T) {
	cfg := TestConfig()

	_, err := NewBoard(t.Context(), nil, roster.NewDefault())
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBoard(t.Context(), &cfg, nil)
	require.ErrorIs(t, err, ErrRosterSourceRequired)

	_, err = NewBoard(t.Context(), &cfg, failingSource{})
	require.ErrorContains(t, err, "roster unavailable")

	dup := roster.NewStatic([]Crew{{ID: "a"}, {ID: "a"}})
	_, err = NewBoard(t.Context(), &cfg, dup)
	require.ErrorIs(t, err, ErrDuplicateCrew)

	bad := Config{ConflictWindow: -time.Second}
	_, err = NewBoard(t.Context(), &bad, roster.NewDefault())
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewBoard_Seed(t *testing.T) {
	b := newTestBoard(t)

	for _, d := range []Weekday{Monday, Tuesday, Wednesday, Thursday} {
		require.Equal(t, ProjectID("hope"), b.GetCell("foreman1", d))
	}
	require.Equal(t, ProjectID("athanasakos"), b.GetCell("foreman1", Friday))
	require.Equal(t, NoProject, b.GetCell("tile", Wednesday))

	require.Equal(t, map[ProjectID]int{
		"winkenbach":  15,
		"hope":        9,
		"athanasakos": 6,
		"okimoto":     5,
	}, b.WeeklyCounts())

	require.Len(t, b.Crews(), 8)
	require.Equal(t, DefaultPalette(), b.Palette())
	require.Empty(t, b.Conflicts())
	require.Equal(t, 50*time.Millisecond, b.ConflictWindow())
}

func TestNewBoard_SeedForUnknownCrewIsSkipped(t *testing.T) {
	logger := &recordingLogger{}
	cfg := TestConfig()
	src := roster.NewStatic([]Crew{{ID: "framing", Name: "Luis Ortega"}})

	b, err := NewBoard(t.Context(), &cfg, src, WithLogger(logger))
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, map[ProjectID]int{"winkenbach": 5}, b.WeeklyCounts())
	require.Contains(t, logger.messages("WARN"), "seed row ignored, crew not in roster")
}

func TestBoard_FridayToMondayMove(t *testing.T) {
	b := newTestBoard(t)
	before := b.WeeklyCounts()

	src, err := b.DragSource("foreman1", Friday)
	require.NoError(t, err)

	res := b.Drop("foreman1", Monday, encode(t, src))
	require.True(t, res.Accepted)
	require.NoError(t, res.Err)
	require.Equal(t, payload.KindCell, res.Kind)
	require.True(t, res.Conflict)

	require.Equal(t, NoProject, b.GetCell("foreman1", Friday))
	require.Equal(t, ProjectID("athanasakos"), b.GetCell("foreman1", Monday))
	require.Equal(t, ProjectID("hope"), b.GetCell("foreman1", Tuesday))
	require.True(t, b.IsConflict("foreman1", Monday))
	require.False(t, b.IsConflict("foreman1", Friday))
	require.Equal(t, []CellKey{Key("foreman1", Monday)}, b.Conflicts())

	after := b.WeeklyCounts()
	require.Equal(t, before["athanasakos"], after["athanasakos"])
	require.Equal(t, before["hope"]-1, after["hope"])

	require.Eventually(t, func() bool {
		return !b.IsConflict("foreman1", Monday)
	}, time.Second, 5*time.Millisecond)
}

func TestBoard_ClearChip(t *testing.T) {
	b := newTestBoard(t)
	raw := encode(t, payload.Clear())

	for _, d := range []Weekday{Monday, Wednesday} {
		res := b.Drop("framing", d, raw)
		require.True(t, res.Accepted)
		require.False(t, res.Conflict)
		require.Equal(t, NoProject, b.GetCell("framing", d))
		require.False(t, b.IsConflict("framing", d))
	}

	// Clearing an empty cell is accepted and changes nothing.
	version := b.Snapshot().Version()
	res := b.Drop("tile", Monday, raw)
	require.True(t, res.Accepted)
	require.False(t, res.Conflict)
	require.Equal(t, version+1, res.Snapshot.Version())
	require.Empty(t, b.Conflicts())
}

func TestBoard_MoveAcrossCrews(t *testing.T) {
	b := newTestBoard(t)

	res := b.DropPayload("tile", Wednesday, payload.Cell("landscape", Wednesday, "okimoto"))
	require.True(t, res.Accepted)
	require.False(t, res.Conflict)

	require.Equal(t, NoProject, b.GetCell("landscape", Wednesday))
	require.Equal(t, ProjectID("okimoto"), b.GetCell("tile", Wednesday))
	require.Equal(t, 5, b.WeeklyCounts()["okimoto"])
}

func TestBoard_SelfMoveIsIdempotent(t *testing.T) {
	b := newTestBoard(t)
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	before := b.Snapshot()

	src, err := b.DragSource("concrete", Tuesday)
	require.NoError(t, err)
	res := b.Drop("concrete", Tuesday, encode(t, src))

	require.True(t, res.Accepted)
	require.False(t, res.Conflict)
	require.Equal(t, before.Fingerprint(), res.Snapshot.Fingerprint())
	require.Equal(t, ProjectID("athanasakos"), b.GetCell("concrete", Tuesday))
	require.Empty(t, b.Conflicts())
	require.Empty(t, ch, "no change event for an unchanged cell")
}

func TestBoard_OverwriteConflict(t *testing.T) {
	b := newTestBoard(t)

	res := b.Drop("framing", Thursday, encode(t, payload.Palette("okimoto")))
	require.True(t, res.Accepted)
	require.True(t, res.Conflict)
	require.Equal(t, ProjectID("okimoto"), b.GetCell("framing", Thursday))
	require.True(t, b.IsConflict("framing", Thursday))

	require.Eventually(t, func() bool {
		return !b.IsConflict("framing", Thursday)
	}, time.Second, 5*time.Millisecond)
}

func TestBoard_ConflictLastsDefaultWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("uses the production conflict window")
	}

	cfg := DefaultConfig()
	b, err := NewBoard(t.Context(), &cfg, roster.NewDefault())
	require.NoError(t, err)
	defer b.Close()

	start := time.Now()
	res := b.DropPayload("framing", Monday, payload.Palette("hope"))
	require.True(t, res.Conflict)

	time.Sleep(400 * time.Millisecond)
	require.True(t, b.IsConflict("framing", Monday))

	require.Eventually(t, func() bool {
		return !b.IsConflict("framing", Monday)
	}, 2*time.Second, 10*time.Millisecond)
	require.GreaterOrEqual(t, time.Since(start), 700*time.Millisecond)
}

func TestBoard_NoFalseConflict(t *testing.T) {
	b := newTestBoard(t)

	res := b.DropPayload("framing", Monday, payload.Palette("winkenbach"))
	require.True(t, res.Accepted)
	require.False(t, res.Conflict)

	res = b.DropPayload("tile", Monday, payload.Palette("hope"))
	require.True(t, res.Accepted)
	require.False(t, res.Conflict)

	res = b.DropPayload("tile", Tuesday, payload.Cell("foreman2", Tuesday, "hope"))
	require.True(t, res.Accepted)
	require.False(t, res.Conflict)

	// Same project arriving from another cell.
	res = b.DropPayload("foreman1", Monday, payload.Cell("foreman2", Monday, "hope"))
	require.True(t, res.Accepted)
	require.False(t, res.Conflict)

	require.Empty(t, b.Conflicts())
}

func TestBoard_RejectedDropsHaveNoSideEffects(t *testing.T) {
	rejected := make(chan error, 16)
	hooks := &Hooks{
		OnDropRejected: func(_ context.Context, _ CellKey, err error) error {
			rejected <- err
			return nil
		},
	}
	b := newTestBoard(t, WithHooks(hooks))
	before := b.Snapshot()

	tests := []struct {
		name    string
		crew    string
		day     Weekday
		raw     string
		wantErr error
	}{
		{name: "garbage", crew: "framing", day: Monday, raw: `not json`, wantErr: payload.ErrMalformed},
		{name: "empty", crew: "framing", day: Monday, raw: ``, wantErr: payload.ErrMalformed},
		{name: "unknown type", crew: "framing", day: Monday, raw: `{"type":"swap"}`, wantErr: payload.ErrMalformed},
		{name: "unknown palette project", crew: "framing", day: Monday, raw: `{"type":"palette","projectId":"bogus"}`, wantErr: ErrUnknownProject},
		{name: "unknown cell project", crew: "tile", day: Monday, raw: `{"type":"cell","crewId":"framing","day":"mon","projectId":"bogus"}`, wantErr: ErrUnknownProject},
		{name: "unknown source crew", crew: "tile", day: Monday, raw: `{"type":"cell","crewId":"ghost","day":"mon","projectId":"hope"}`, wantErr: ErrUnknownCrew},
		{name: "unknown target crew", crew: "ghost", day: Monday, raw: `{"type":"palette","projectId":"hope"}`, wantErr: ErrUnknownCrew},
		{name: "invalid target day", crew: "framing", day: Weekday(9), raw: `{"type":"clear"}`, wantErr: ErrInvalidWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := b.Drop(tt.crew, tt.day, []byte(tt.raw))

			require.False(t, res.Accepted)
			require.False(t, res.Conflict)
			require.ErrorIs(t, res.Err, tt.wantErr)
			require.Equal(t, before.Version(), res.Snapshot.Version())
			require.Equal(t, before.Fingerprint(), b.Snapshot().Fingerprint())
			require.Empty(t, b.Conflicts())

			select {
			case err := <-rejected:
				require.ErrorIs(t, err, tt.wantErr)
			case <-time.After(time.Second):
				t.Fatal("OnDropRejected not called")
			}
		})
	}

	res := b.DropPayload("framing", Monday, Payload{})
	require.False(t, res.Accepted)
	require.ErrorIs(t, res.Err, payload.ErrMalformed)
}

func TestBoard_GridInvariantUnderRandomDrops(t *testing.T) {
	b := newTestBoard(t)
	rng := rand.New(rand.NewPCG(1, 2))

	crews := []string{"concrete", "framing", "foreman1", "tile", "ghost"}
	projects := []ProjectID{"winkenbach", "hope", "athanasakos", "okimoto", "bogus", "", "Hope"}
	days := []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, 0, 6}

	pick := func() (string, Weekday, ProjectID) {
		return crews[rng.IntN(len(crews))], days[rng.IntN(len(days))], projects[rng.IntN(len(projects))]
	}

	for range 500 {
		crew, day, project := pick()
		srcCrew, srcDay, _ := pick()

		var raw []byte
		switch rng.IntN(5) {
		case 0:
			raw = []byte(fmt.Sprintf(`{"type":"palette","projectId":%q}`, project))
		case 1:
			raw = []byte(fmt.Sprintf(`{"type":"cell","crewId":%q,"day":%q,"projectId":%q}`, srcCrew, srcDay.String(), project))
		case 2:
			raw = []byte(`{"type":"clear","projectId":null}`)
		case 3:
			_ = b.UpdateScheduleCell(crew, day, project)
			continue
		default:
			raw = []byte(`{"type":`)
		}
		b.Drop(crew, day, raw)
	}

	snap := b.Snapshot()
	palette := b.Palette()
	occupied := 0
	snap.Range(func(key CellKey, project ProjectID) bool {
		require.True(t, project == NoProject || palette.Contains(project), key.String())
		if project != NoProject {
			occupied++
		}
		return true
	})

	counts := b.WeeklyCounts()
	total := 0
	for p, n := range counts {
		total += n
		want := 0
		snap.Range(func(_ CellKey, project ProjectID) bool {
			if project == p {
				want++
			}
			return true
		})
		require.Equal(t, want, n, string(p))
	}
	require.Equal(t, occupied, total)
}

func TestBoard_UpdateScheduleCell(t *testing.T) {
	b := newTestBoard(t)

	require.NoError(t, b.UpdateScheduleCell("tile", Friday, "okimoto"))
	require.Equal(t, ProjectID("okimoto"), b.GetCell("tile", Friday))

	// Direct updates never raise the conflict signal.
	require.NoError(t, b.UpdateScheduleCell("tile", Friday, "hope"))
	require.False(t, b.IsConflict("tile", Friday))

	require.NoError(t, b.UpdateScheduleCell("tile", Friday, NoProject))
	require.Equal(t, NoProject, b.GetCell("tile", Friday))

	before := b.Snapshot()
	require.ErrorIs(t, b.UpdateScheduleCell("tile", Friday, "bogus"), ErrUnknownProject)
	require.ErrorIs(t, b.UpdateScheduleCell("ghost", Friday, "hope"), ErrUnknownCrew)
	require.ErrorIs(t, b.UpdateScheduleCell("tile", 0, "hope"), ErrInvalidWeekday)
	require.Equal(t, before.Version(), b.Snapshot().Version())
}

func TestBoard_DragSource(t *testing.T) {
	b := newTestBoard(t)

	p, err := b.DragSource("landscape", Monday)
	require.NoError(t, err)
	require.Equal(t, payload.Cell("landscape", Monday, "okimoto"), p)

	_, err = b.DragSource("tile", Monday)
	require.ErrorIs(t, err, ErrEmptyCell)

	_, err = b.DragSource("ghost", Monday)
	require.ErrorIs(t, err, ErrUnknownCrew)
}

func TestBoard_DragOverTracking(t *testing.T) {
	b := newTestBoard(t)
	mon := Key("framing", Monday)
	tue := Key("framing", Tuesday)

	_, ok := b.DragOverKey()
	require.False(t, ok)

	b.DragOver(mon)
	key, ok := b.DragOverKey()
	require.True(t, ok)
	require.Equal(t, mon, key)

	// Moving onto a child element of the cell keeps the hover.
	b.DragLeave(mon, true)
	_, ok = b.DragOverKey()
	require.True(t, ok)

	// Entering the next cell before the previous leave fires.
	b.DragOver(tue)
	b.DragLeave(mon, false)
	key, ok = b.DragOverKey()
	require.True(t, ok)
	require.Equal(t, tue, key)

	b.DragLeave(tue, false)
	_, ok = b.DragOverKey()
	require.False(t, ok)

	b.DragOver(mon)
	b.DragEnd()
	_, ok = b.DragOverKey()
	require.False(t, ok)

	// Any drop ends hovering, even a rejected one.
	b.DragOver(mon)
	res := b.Drop("framing", Monday, []byte("garbage"))
	require.False(t, res.Accepted)
	_, ok = b.DragOverKey()
	require.False(t, ok)
}

func TestBoard_Subscribe(t *testing.T) {
	b := newTestBoard(t)
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	src, err := b.DragSource("foreman1", Friday)
	require.NoError(t, err)
	b.DropPayload("tile", Monday, src)

	out := <-ch
	require.Equal(t, Key("foreman1", Friday), out.Cell)
	require.Equal(t, ProjectID("athanasakos"), out.Previous)
	require.Equal(t, NoProject, out.Current)
	require.Equal(t, ReasonMoveOut, out.Reason)

	in := <-ch
	require.Equal(t, Key("tile", Monday), in.Cell)
	require.Equal(t, NoProject, in.Previous)
	require.Equal(t, ProjectID("athanasakos"), in.Current)
	require.Equal(t, ReasonMoveIn, in.Reason)
	require.Greater(t, in.Version, out.Version)

	require.NoError(t, b.UpdateScheduleCell("tile", Monday, NoProject))
	direct := <-ch
	require.Equal(t, ReasonDirect, direct.Reason)
}

func TestBoard_Hooks(t *testing.T) {
	var mu sync.Mutex
	var changes []CellChange
	conflicts := make(chan CellKey, 1)

	hooks := &Hooks{
		OnCellChanged: func(_ context.Context, change CellChange) error {
			mu.Lock()
			defer mu.Unlock()
			changes = append(changes, change)

			return errors.New("audit store down")
		},
		OnConflict: func(_ context.Context, cell CellKey, previous, incoming ProjectID) error {
			assert.Equal(t, ProjectID("winkenbach"), previous)
			assert.Equal(t, ProjectID("hope"), incoming)
			conflicts <- cell

			return nil
		},
	}
	logger := &recordingLogger{}
	b := newTestBoard(t, WithHooks(hooks), WithLogger(logger))

	res := b.DropPayload("finish1", Wednesday, payload.Palette("hope"))
	require.True(t, res.Conflict)

	select {
	case cell := <-conflicts:
		require.Equal(t, Key("finish1", Wednesday), cell)
	case <-time.After(time.Second):
		t.Fatal("OnConflict not called")
	}

	require.NoError(t, b.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, changes, 1)
	require.Equal(t, ReasonAssign, changes[0].Reason)
	require.Contains(t, logger.messages("WARN"), "hook returned error")
}

func TestBoard_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewPrometheusMetrics(reg, "test")
	b := newTestBoard(t, WithMetrics(collector))

	b.DropPayload("framing", Monday, payload.Palette("hope"))
	b.DropPayload("tile", Monday, payload.Palette("hope"))
	b.Drop("tile", Monday, []byte("{"))

	// Series: palette/accepted and unknown/rejected.
	count, err := testutil.GatherAndCount(reg, "test_board_drops_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "test_board_conflicts_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "test_board_assigned_cells")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestBoard_Close(t *testing.T) {
	cfg := TestConfig()
	b, err := NewBoard(t.Context(), &cfg, roster.NewDefault())
	require.NoError(t, err)

	ch, _ := b.Subscribe()
	b.DropPayload("framing", Monday, payload.Palette("hope"))
	require.True(t, b.IsConflict("framing", Monday))

	require.NoError(t, b.Close())
	require.ErrorIs(t, b.Close(), ErrBoardClosed)

	// Conflict timers are stopped and the flag set cleared.
	require.Empty(t, b.Conflicts())

	// Buffered events remain readable, then the channel closes.
	<-ch
	_, ok := <-ch
	require.False(t, ok)

	res := b.DropPayload("tile", Monday, payload.Palette("hope"))
	require.False(t, res.Accepted)
	require.ErrorIs(t, res.Err, ErrBoardClosed)
	require.ErrorIs(t, b.UpdateScheduleCell("tile", Monday, "hope"), ErrBoardClosed)

	// Reads keep working on the final grid.
	require.Equal(t, ProjectID("hope"), b.GetCell("framing", Monday))
}

func TestBoard_ConcurrentDrops(t *testing.T) {
	b := newTestBoard(t)
	ch, unsubscribe := b.Subscribe()
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			day := []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}[i%5]
			project := DefaultPalette()[i%4].ID
			b.DropPayload("tile", day, payload.Palette(project))
			_ = b.GetCell("tile", day)
			_ = b.WeeklyCounts()
		})
	}
	wg.Wait()

	require.Equal(t, 40, weeklyTotal(b.WeeklyCounts()))

	// Versions arrive in increasing order.
	last := int64(0)
	for len(ch) > 0 {
		change := <-ch
		require.Greater(t, change.Version, last)
		last = change.Version
	}
}

func weeklyTotal(counts map[ProjectID]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}

	return total
}
