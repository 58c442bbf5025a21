package raster

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khgis/ga-lisst/internal/domain"
)

// gridFromRows builds a grid from visual rows, top row first.
func gridFromRows(t *testing.T, rows [][]int) *Grid {
	t.Helper()
	require.NotEmpty(t, rows)

	g := NewGrid(orb.Point{0, 0}, 30, len(rows[0]), len(rows))
	for i, r := range rows {
		require.Len(t, r, g.Cols)
		for col, v := range r {
			g.Set(col, g.Rows-1-i, v)
		}
	}
	return g
}

func TestVectorize_SplitsRowsIntoRuns(t *testing.T) {
	g := gridFromRows(t, [][]int{
		{1, 1, 0, 2},
		{1, 1, 2, 2},
	})

	regions := Vectorize(g)
	require.Len(t, regions, 2)

	assert.Equal(t, domain.RankMostPreferred, regions[0].Rank)
	assert.Equal(t, []Run{
		{Row: 0, Col0: 0, Col1: 1},
		{Row: 1, Col0: 0, Col1: 1},
	}, regions[0].Runs)

	assert.Equal(t, domain.RankLessPreferred, regions[1].Rank)
	assert.Equal(t, []Run{
		{Row: 0, Col0: 2, Col1: 3},
		{Row: 1, Col0: 3, Col1: 3},
	}, regions[1].Runs)
}

func TestVectorize_AdjacentDifferentRanksBreakRuns(t *testing.T) {
	g := gridFromRows(t, [][]int{
		{1, 2, 1},
	})

	regions := Vectorize(g)
	require.Len(t, regions, 2)
	assert.Len(t, regions[0].Runs, 2)
	assert.Len(t, regions[1].Runs, 1)
}

func TestVectorize_EmptyGrid(t *testing.T) {
	g := NewGrid(orb.Point{0, 0}, 30, 4, 4)
	assert.Empty(t, Vectorize(g))
}

func TestVectorize_Deterministic(t *testing.T) {
	g := gridFromRows(t, [][]int{
		{4, 4, 3, 0},
		{0, 1, 1, 2},
		{2, 2, 0, 1},
	})

	first := Vectorize(g)
	second := Vectorize(g)
	assert.Equal(t, first, second)
}
