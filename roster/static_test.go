package roster

import (
	"context"
	"testing"

	"github.com/arloliu/crewsched/types"
	"github.com/stretchr/testify/require"
)

func TestStatic_ListCrews(t *testing.T) {
	t.Run("returns all crews in order", func(t *testing.T) {
		crews := []types.Crew{
			{ID: "framing", Name: "Luis Ortega"},
			{ID: "tile", Name: "Dana Whitfield"},
		}
		src := NewStatic(crews)

		result, err := src.ListCrews(context.Background())

		require.NoError(t, err)
		require.Equal(t, crews, result)
	})

	t.Run("returns empty list when no crews", func(t *testing.T) {
		src := NewStatic(nil)

		result, err := src.ListCrews(context.Background())

		require.NoError(t, err)
		require.Empty(t, result)
	})

	t.Run("does not share backing array", func(t *testing.T) {
		crews := []types.Crew{{ID: "framing", Name: "Luis Ortega"}}
		src := NewStatic(crews)
		crews[0].Name = "changed by caller"

		result, err := src.ListCrews(context.Background())
		require.NoError(t, err)
		result[0].Name = "changed by reader"

		again, _ := src.ListCrews(context.Background())
		require.Equal(t, "Luis Ortega", again[0].Name)
	})
}

func TestStatic_Update(t *testing.T) {
	src := NewStatic([]types.Crew{{ID: "a"}})
	src.Update([]types.Crew{{ID: "b"}, {ID: "c"}})

	result, err := src.ListCrews(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c"}, IDs(result))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Default()))
	require.NoError(t, Validate(nil))
	require.ErrorIs(t, Validate([]types.Crew{{ID: "a"}, {ID: "a"}}), types.ErrDuplicateCrew)
	require.ErrorIs(t, Validate([]types.Crew{{ID: "a"}, {ID: ""}}), types.ErrUnknownCrew)
}

func TestDefault(t *testing.T) {
	crews, err := NewDefault().ListCrews(context.Background())
	require.NoError(t, err)
	require.Len(t, crews, 8)
	require.Equal(t, "foreman1", crews[2].ID)
}
