package raster

import (
	"sort"

	"github.com/khgis/ga-lisst/internal/domain"
)

// Run is a maximal horizontal strip of same-valued cells: columns
// [Col0, Col1] of one row. Runs are the vector building blocks the clip
// stage intersects with the boundary.
type Run struct {
	Row  int
	Col0 int
	Col1 int
}

// Region collects every run of one rank. The dissolve-by-rank step follows
// immediately downstream, so individual connected components are not tracked.
type Region struct {
	Rank domain.Rank
	Runs []Run
}

// Vectorize converts the grid into per-rank regions. Runs are emitted in
// row-major order and regions in ascending rank order, so repeated runs over
// identical data produce identical output.
func Vectorize(g *Grid) []Region {
	byRank := make(map[domain.Rank][]Run)

	for row := 0; row < g.Rows; row++ {
		col := 0
		for col < g.Cols {
			v := g.Value(col, row)
			if v == 0 {
				col++
				continue
			}
			start := col
			for col < g.Cols && g.Value(col, row) == v {
				col++
			}
			rank := domain.Rank(v)
			byRank[rank] = append(byRank[rank], Run{Row: row, Col0: start, Col1: col - 1})
		}
	}

	regions := make([]Region, 0, len(byRank))
	for rank, runs := range byRank {
		regions = append(regions, Region{Rank: rank, Runs: runs})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Rank < regions[j].Rank })
	return regions
}
