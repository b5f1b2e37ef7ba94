package resolve_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remsfal/remsfal-frontend-sub001/internal/resolve"
)

const (
	idMain  = "0f8fad5b-d9cb-469f-a165-70867728950e"
	idPark  = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	idParkB = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
)

var projects = []resolve.Named{
	{ID: idMain, Name: "Main Street Apartments"},
	{ID: idPark, Name: "Parkview North"},
	{ID: idParkB, Name: "Parkview South"},
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "exact", query: "Main Street Apartments", want: idMain},
		{name: "case-insensitive exact", query: "parkview NORTH", want: idPark},
		{name: "partial", query: "main", want: idMain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := resolve.FuzzyMatch(tt.query, projects)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestFuzzyMatch_PrefersExactOverFuzzy(t *testing.T) {
	items := []resolve.Named{{ID: "b", Name: "Sales Office"}, {ID: "a", Name: "Sales"}}
	id, err := resolve.FuzzyMatch("sales", items)
	require.NoError(t, err)
	assert.Equal(t, "a", id)
}

func TestFuzzyMatch_Errors(t *testing.T) {
	_, err := resolve.FuzzyMatch("  ", projects)
	assert.ErrorIs(t, err, resolve.ErrEmptyQuery)

	_, err = resolve.FuzzyMatch("main", nil)
	assert.ErrorIs(t, err, resolve.ErrEmptyItems)

	_, err = resolve.FuzzyMatch("zzz", projects)
	assert.ErrorIs(t, err, resolve.ErrNoMatch)

	_, err = resolve.FuzzyMatch("parkview", projects)
	var ae *resolve.AmbiguousError
	require.ErrorAs(t, err, &ae)
	assert.Len(t, ae.Matches, 2)
	assert.Contains(t, ae.Error(), idPark)
}

func TestFuzzyMatchAll(t *testing.T) {
	matches := resolve.FuzzyMatchAll("park", projects, 1)
	require.Len(t, matches, 1)
	assert.NotEmpty(t, matches[0].ID)

	assert.Nil(t, resolve.FuzzyMatchAll("", projects, 10))
	assert.Nil(t, resolve.FuzzyMatchAll("park", projects, 0))
}

func TestLooksLikeID(t *testing.T) {
	assert.True(t, resolve.LooksLikeID(idMain))
	assert.True(t, resolve.LooksLikeID(" "+idMain+" "))
	assert.False(t, resolve.LooksLikeID("Main Street"))
	assert.False(t, resolve.LooksLikeID("42"))
}

func TestIDOrName(t *testing.T) {
	loads := 0
	load := func(context.Context) ([]resolve.Named, error) {
		loads++
		return projects, nil
	}

	id, err := resolve.IDOrName(context.Background(), idPark, load)
	require.NoError(t, err)
	assert.Equal(t, idPark, id)
	assert.Equal(t, 0, loads, "IDs must not trigger a lookup")

	id, err = resolve.IDOrName(context.Background(), "main street", load)
	require.NoError(t, err)
	assert.Equal(t, idMain, id)
	assert.Equal(t, 1, loads)

	boom := errors.New("boom")
	_, err = resolve.IDOrName(context.Background(), "main", func(context.Context) ([]resolve.Named, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = resolve.IDOrName(context.Background(), "", load)
	assert.ErrorIs(t, err, resolve.ErrEmptyQuery)
}
