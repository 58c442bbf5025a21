// Package raster assembles sampled pixel values into a grid aligned to the
// image service's cell lattice and converts the grid into per-rank vector
// regions. This is the native counterpart of the original workflow's
// extract-by-mask and raster-to-polygon steps.
package raster

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/khgis/ga-lisst/internal/domain"
)

// Grid is a classified raster window in Web Mercator. Values are rank pixel
// values; zero means NoData. Row 0 is the southernmost row, column 0 the
// westernmost column.
type Grid struct {
	Origin   orb.Point // lower-left corner of cell (0,0)
	CellSize float64
	Cols     int
	Rows     int

	values []int
}

// NewGrid allocates an empty (all NoData) grid.
func NewGrid(origin orb.Point, cellSize float64, cols, rows int) *Grid {
	return &Grid{
		Origin:   origin,
		CellSize: cellSize,
		Cols:     cols,
		Rows:     rows,
		values:   make([]int, cols*rows),
	}
}

// GridForBoundary computes the fetch window for a boundary's Mercator bound:
// padded by the buffer distance, snapped outward to the service's cell
// lattice (the snap-raster behavior), and clamped to the service extent.
// ok is false when the padded bound does not overlap the service coverage.
func GridForBoundary(bound orb.Bound, bufferMeters float64, info domain.ServiceInfo) (g *Grid, ok bool) {
	cell := info.CellSize
	if cell <= 0 {
		return nil, false
	}

	padded := orb.Bound{
		Min: orb.Point{bound.Min[0] - bufferMeters, bound.Min[1] - bufferMeters},
		Max: orb.Point{bound.Max[0] + bufferMeters, bound.Max[1] + bufferMeters},
	}

	// Clamp to the service extent; NoData lies beyond it anyway.
	minX := math.Max(padded.Min[0], info.Extent.Min[0])
	minY := math.Max(padded.Min[1], info.Extent.Min[1])
	maxX := math.Min(padded.Max[0], info.Extent.Max[0])
	maxY := math.Min(padded.Max[1], info.Extent.Max[1])
	if minX >= maxX || minY >= maxY {
		return nil, false
	}

	// Snap outward to whole cells measured from the service extent origin.
	snap := func(v, origin float64, up bool) float64 {
		steps := (v - origin) / cell
		if up {
			return origin + math.Ceil(steps)*cell
		}
		return origin + math.Floor(steps)*cell
	}
	minX = snap(minX, info.Extent.Min[0], false)
	minY = snap(minY, info.Extent.Min[1], false)
	maxX = snap(maxX, info.Extent.Min[0], true)
	maxY = snap(maxY, info.Extent.Min[1], true)

	cols := int(math.Round((maxX - minX) / cell))
	rows := int(math.Round((maxY - minY) / cell))
	if cols <= 0 || rows <= 0 {
		return nil, false
	}

	return NewGrid(orb.Point{minX, minY}, cell, cols, rows), true
}

// Envelope returns the grid's outer bound.
func (g *Grid) Envelope() orb.Bound {
	return orb.Bound{
		Min: g.Origin,
		Max: orb.Point{
			g.Origin[0] + float64(g.Cols)*g.CellSize,
			g.Origin[1] + float64(g.Rows)*g.CellSize,
		},
	}
}

// Value returns the pixel value at (col, row), zero for out-of-range.
func (g *Grid) Value(col, row int) int {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return 0
	}
	return g.values[row*g.Cols+col]
}

// Set assigns the pixel value at (col, row). Out-of-range is ignored.
func (g *Grid) Set(col, row, value int) {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return
	}
	g.values[row*g.Cols+col] = value
}

// SetSample places a sample taken at a cell center into the grid. Returns
// false when the location falls outside the grid.
func (g *Grid) SetSample(s domain.Sample) bool {
	col := int(math.Round((s.X - g.Origin[0] - g.CellSize/2) / g.CellSize))
	row := int(math.Round((s.Y - g.Origin[1] - g.CellSize/2) / g.CellSize))
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return false
	}
	if s.OK {
		g.values[row*g.Cols+col] = s.Value
	}
	return true
}

// RunBound returns the Mercator rectangle covering cells [col0, col1] of a row.
func (g *Grid) RunBound(row, col0, col1 int) orb.Bound {
	return orb.Bound{
		Min: orb.Point{
			g.Origin[0] + float64(col0)*g.CellSize,
			g.Origin[1] + float64(row)*g.CellSize,
		},
		Max: orb.Point{
			g.Origin[0] + float64(col1+1)*g.CellSize,
			g.Origin[1] + float64(row+1)*g.CellSize,
		},
	}
}

// DataCells counts cells holding a value other than NoData.
func (g *Grid) DataCells() int {
	n := 0
	for _, v := range g.values {
		if v != 0 {
			n++
		}
	}
	return n
}
