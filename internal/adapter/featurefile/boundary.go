// Package featurefile reads boundary datasets and writes the output feature
// layer. GeoJSON is handled with orb; ESRI shapefiles with go-shp.
package featurefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/khgis/ga-lisst/internal/domain"
)

// LoadBoundary reads the user's boundary dataset. The geometry is returned
// as-is; polygon validation happens in the pipeline so non-polygon inputs
// fail with the input-error taxonomy, not a parse error.
func LoadBoundary(path string) (domain.Boundary, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return loadGeoJSONBoundary(path)
	case ".shp":
		return loadShapefileBoundary(path)
	default:
		return domain.Boundary{}, fmt.Errorf("%w: unsupported boundary format %q (want .geojson, .json, or .shp)",
			domain.ErrInvalidInput, filepath.Ext(path))
	}
}

func loadGeoJSONBoundary(path string) (domain.Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Boundary{}, fmt.Errorf("%w: read boundary: %v", domain.ErrInvalidInput, err)
	}

	geoms, err := parseGeoJSONGeometries(data)
	if err != nil {
		return domain.Boundary{}, fmt.Errorf("%w: parse boundary %s: %v", domain.ErrInvalidInput, path, err)
	}

	// RFC 7946 GeoJSON is always WGS-84.
	return domain.Boundary{Geometry: mergeGeometries(geoms), CRS: domain.CRSWGS84, Path: path}, nil
}

func parseGeoJSONGeometries(data []byte) ([]orb.Geometry, error) {
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil {
		geoms := make([]orb.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geoms = append(geoms, f.Geometry)
			}
		}
		return geoms, nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		return []orb.Geometry{f.Geometry}, nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	return []orb.Geometry{g.Geometry()}, nil
}

// mergeGeometries combines polygonal geometries into one. When any
// non-polygonal geometry is present it is returned instead, so validation
// can report the offending type.
func mergeGeometries(geoms []orb.Geometry) orb.Geometry {
	var merged orb.MultiPolygon
	for _, g := range geoms {
		switch t := g.(type) {
		case orb.Polygon:
			merged = append(merged, t)
		case orb.MultiPolygon:
			merged = append(merged, t...)
		default:
			return g
		}
	}
	switch len(merged) {
	case 0:
		return nil
	case 1:
		return merged[0]
	default:
		return merged
	}
}

func loadShapefileBoundary(path string) (domain.Boundary, error) {
	r, err := shp.Open(path)
	if err != nil {
		return domain.Boundary{}, fmt.Errorf("%w: open boundary shapefile: %v", domain.ErrInvalidInput, err)
	}
	defer r.Close()

	var geoms []orb.Geometry
	for r.Next() {
		_, shape := r.Shape()
		switch t := shape.(type) {
		case *shp.Polygon:
			geoms = append(geoms, polygonFromShp(t))
		case *shp.PolyLine:
			geoms = append(geoms, lineFromShp(t))
		case *shp.Point:
			geoms = append(geoms, orb.Point{t.X, t.Y})
		}
	}

	crs, assumed := sniffPrj(path)
	return domain.Boundary{
		Geometry:   mergeGeometries(geoms),
		CRS:        crs,
		CRSAssumed: assumed,
		Path:       path,
	}, nil
}

// polygonFromShp converts shapefile polygon parts into an orb geometry.
// Clockwise rings open a new polygon (shapefile outer-ring convention);
// counter-clockwise rings become holes of the preceding polygon.
func polygonFromShp(p *shp.Polygon) orb.Geometry {
	var polys orb.MultiPolygon
	for _, ring := range splitParts(p.Parts, p.Points) {
		if ring.Orientation() == orb.CW || len(polys) == 0 {
			polys = append(polys, orb.Polygon{ring})
			continue
		}
		last := len(polys) - 1
		polys[last] = append(polys[last], ring)
	}
	if len(polys) == 1 {
		return polys[0]
	}
	return polys
}

func lineFromShp(l *shp.PolyLine) orb.Geometry {
	rings := splitParts(l.Parts, l.Points)
	if len(rings) == 0 {
		return nil
	}
	return orb.LineString(rings[0])
}

// splitParts slices the flat shapefile point array into per-part rings.
func splitParts(parts []int32, points []shp.Point) []orb.Ring {
	out := make([]orb.Ring, 0, len(parts))
	for i := range parts {
		start := parts[i]
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for _, pt := range points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		out = append(out, ring)
	}
	return out
}

// sniffPrj infers the boundary CRS from the .prj sidecar. Without one,
// WGS-84 is assumed and the caller warns.
func sniffPrj(shpPath string) (domain.CRS, bool) {
	prjPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"
	data, err := os.ReadFile(prjPath)
	if err != nil {
		return domain.CRSWGS84, true
	}
	wkt := strings.ToUpper(string(data))
	if strings.Contains(wkt, "MERCATOR") || strings.Contains(wkt, "3857") || strings.Contains(wkt, "102100") {
		return domain.CRSWebMercator, false
	}
	return domain.CRSWGS84, false
}
