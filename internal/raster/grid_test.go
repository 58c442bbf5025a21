package raster

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khgis/ga-lisst/internal/domain"
)

func testServiceInfo() domain.ServiceInfo {
	return domain.ServiceInfo{
		Name:     "test",
		CellSize: 30,
		Extent: orb.Bound{
			Min: orb.Point{0, 0},
			Max: orb.Point{30000, 30000},
		},
		WKID: 3857,
	}
}

func TestGridForBoundary_SnapsToServiceLattice(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{1005, 1010}, Max: orb.Point{1300, 1290}}

	g, ok := GridForBoundary(bound, 0, testServiceInfo())
	require.True(t, ok)

	// Snapped outward to whole 30 m cells from the extent origin.
	assert.Equal(t, orb.Point{990, 990}, g.Origin)
	env := g.Envelope()
	assert.Equal(t, orb.Point{1320, 1290}, env.Max)
	assert.Equal(t, 11, g.Cols)
	assert.Equal(t, 10, g.Rows)
}

func TestGridForBoundary_AppliesBuffer(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{1000, 1000}, Max: orb.Point{1100, 1100}}

	noBuffer, ok := GridForBoundary(bound, 0, testServiceInfo())
	require.True(t, ok)
	buffered, ok := GridForBoundary(bound, 30.48, testServiceInfo())
	require.True(t, ok)

	assert.Greater(t, buffered.Cols, noBuffer.Cols)
	assert.Greater(t, buffered.Rows, noBuffer.Rows)
	assert.LessOrEqual(t, buffered.Origin[0], noBuffer.Origin[0]-30)
}

func TestGridForBoundary_ClampsToExtent(t *testing.T) {
	// Straddles the western extent edge.
	bound := orb.Bound{Min: orb.Point{-500, 1000}, Max: orb.Point{500, 2000}}

	g, ok := GridForBoundary(bound, 0, testServiceInfo())
	require.True(t, ok)
	assert.Equal(t, 0.0, g.Origin[0])
}

func TestGridForBoundary_OutsideExtent(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{50000, 50000}, Max: orb.Point{51000, 51000}}

	_, ok := GridForBoundary(bound, 0, testServiceInfo())
	assert.False(t, ok)
}

func TestGridForBoundary_NoPixelSize(t *testing.T) {
	info := testServiceInfo()
	info.CellSize = 0

	_, ok := GridForBoundary(orb.Bound{Max: orb.Point{100, 100}}, 0, info)
	assert.False(t, ok)
}

func TestGrid_SetSamplePlacesCellCenters(t *testing.T) {
	g := NewGrid(orb.Point{0, 0}, 30, 3, 2)

	// Center of cell (1, 0).
	placed := g.SetSample(domain.Sample{X: 45, Y: 15, Value: 4, OK: true})
	assert.True(t, placed)
	assert.Equal(t, 4, g.Value(1, 0))

	// NoData samples land but do not write a value.
	placed = g.SetSample(domain.Sample{X: 75, Y: 45, OK: false})
	assert.True(t, placed)
	assert.Equal(t, 0, g.Value(2, 1))

	// Outside the grid.
	placed = g.SetSample(domain.Sample{X: 500, Y: 15, Value: 1, OK: true})
	assert.False(t, placed)
}

func TestGrid_RunBound(t *testing.T) {
	g := NewGrid(orb.Point{100, 200}, 10, 5, 5)

	b := g.RunBound(2, 1, 3)
	assert.Equal(t, orb.Point{110, 220}, b.Min)
	assert.Equal(t, orb.Point{140, 230}, b.Max)
}

func TestGrid_DataCells(t *testing.T) {
	g := NewGrid(orb.Point{0, 0}, 30, 2, 2)
	assert.Equal(t, 0, g.DataCells())

	g.Set(0, 0, 1)
	g.Set(1, 1, 4)
	assert.Equal(t, 2, g.DataCells())
}
