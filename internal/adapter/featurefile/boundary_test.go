package featurefile

import (
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khgis/ga-lisst/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBoundary_GeoJSONFeatureCollection(t *testing.T) {
	path := writeFile(t, "boundary.geojson", `{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[-84.5, 33.5], [-84.0, 33.5], [-84.0, 34.0], [-84.5, 34.0], [-84.5, 33.5]]]
			}
		}]
	}`)

	b, err := LoadBoundary(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CRSWGS84, b.CRS)
	assert.False(t, b.CRSAssumed)
	poly, ok := b.Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.Len(t, poly[0], 5)
}

func TestLoadBoundary_BareGeometry(t *testing.T) {
	path := writeFile(t, "boundary.json", `{
		"type": "Polygon",
		"coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]
	}`)

	b, err := LoadBoundary(path)
	require.NoError(t, err)
	_, ok := b.Geometry.(orb.Polygon)
	assert.True(t, ok)
}

func TestLoadBoundary_MergesMultipleFeatures(t *testing.T) {
	path := writeFile(t, "boundary.geojson", `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}},
			{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[2, 2], [3, 2], [3, 3], [2, 3], [2, 2]]]}}
		]
	}`)

	b, err := LoadBoundary(path)
	require.NoError(t, err)

	mp, ok := b.Geometry.(orb.MultiPolygon)
	require.True(t, ok)
	assert.Len(t, mp, 2)
}

func TestLoadBoundary_NonPolygonPassedThrough(t *testing.T) {
	// Non-polygon geometry loads; the pipeline's validation rejects it.
	path := writeFile(t, "line.geojson", `{
		"type": "Feature",
		"properties": {},
		"geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}
	}`)

	b, err := LoadBoundary(path)
	require.NoError(t, err)
	_, ok := b.Geometry.(orb.LineString)
	assert.True(t, ok)
}

func TestLoadBoundary_UnsupportedExtension(t *testing.T) {
	_, err := LoadBoundary("boundary.gpkg")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadBoundary_MissingFile(t *testing.T) {
	_, err := LoadBoundary(filepath.Join(t.TempDir(), "nope.geojson"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadBoundary_InvalidGeoJSON(t *testing.T) {
	path := writeFile(t, "bad.geojson", `{not json`)

	_, err := LoadBoundary(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func writeBoundaryShapefile(t *testing.T, dir string, prj string) string {
	t.Helper()
	path := filepath.Join(dir, "boundary.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	// Outer ring clockwise, per the shapefile convention.
	ring := []shp.Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
	w.Write(&poly)
	w.Close()

	if prj != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "boundary.prj"), []byte(prj), 0o644))
	}
	return path
}

func TestLoadBoundary_Shapefile(t *testing.T) {
	path := writeBoundaryShapefile(t, t.TempDir(),
		`GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984"]]`)

	b, err := LoadBoundary(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CRSWGS84, b.CRS)
	assert.False(t, b.CRSAssumed)

	poly, ok := b.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
}

func TestLoadBoundary_ShapefileMercatorPrj(t *testing.T) {
	path := writeBoundaryShapefile(t, t.TempDir(),
		`PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",PROJECTION["Mercator_Auxiliary_Sphere"]]`)

	b, err := LoadBoundary(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CRSWebMercator, b.CRS)
	assert.False(t, b.CRSAssumed)
}

func TestLoadBoundary_ShapefileWithoutPrjAssumesWGS84(t *testing.T) {
	path := writeBoundaryShapefile(t, t.TempDir(), "")

	b, err := LoadBoundary(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CRSWGS84, b.CRS)
	assert.True(t, b.CRSAssumed)
}
