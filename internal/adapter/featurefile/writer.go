package featurefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/khgis/ga-lisst/internal/domain"
	"github.com/khgis/ga-lisst/internal/style"
)

// wgs84WKT is the .prj sidecar content for the shapefile output.
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// WriteGeoJSON writes the output feature layer as a GeoJSON
// FeatureCollection with simplestyle fill/stroke properties from the
// symbology definition. Geometries must already be WGS-84.
func WriteGeoJSON(path string, features []domain.RankFeature, def *style.Definition) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		feat := geojson.NewFeature(f.Geometry)
		feat.Properties = geojson.Properties{
			"Rank":     f.Label,
			"GRIDCODE": f.GridCode,
			"ACRES":    f.Acres,
		}
		if c, ok := def.ClassFor(f.Rank); ok {
			feat.Properties["fill"] = c.Fill
			feat.Properties["stroke"] = c.Outline
		}
		fc.Append(feat)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode geojson: %v", domain.ErrFilesystem, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrFilesystem, path, err)
	}
	return nil
}

// WriteShapefile writes the output feature layer as an ESRI shapefile with
// RANK, GRIDCODE, and ACRES attributes plus a WGS-84 .prj sidecar.
func WriteShapefile(path string, features []domain.RankFeature) (err error) {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrFilesystem, path, err)
	}
	// Close flushes the .shp and .dbf headers; go-shp's Close returns no
	// error value to propagate.
	defer w.Close()

	w.SetFields([]shp.Field{
		shp.StringField("RANK", 40),
		shp.NumberField("GRIDCODE", 10),
		shp.FloatField("ACRES", 19, 6),
	})

	for i, f := range features {
		poly := shpPolygon(f.Geometry)
		w.Write(poly)
		if err := w.WriteAttribute(i, 0, f.Label); err != nil {
			return fmt.Errorf("%w: write attributes: %v", domain.ErrFilesystem, err)
		}
		if err := w.WriteAttribute(i, 1, f.GridCode); err != nil {
			return fmt.Errorf("%w: write attributes: %v", domain.ErrFilesystem, err)
		}
		if err := w.WriteAttribute(i, 2, f.Acres); err != nil {
			return fmt.Errorf("%w: write attributes: %v", domain.ErrFilesystem, err)
		}
	}

	prjPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if err := os.WriteFile(prjPath, []byte(wgs84WKT), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrFilesystem, prjPath, err)
	}
	return nil
}

// shpPolygon flattens a multipolygon into shapefile parts with the format's
// ring orientation: outer rings clockwise, holes counter-clockwise.
func shpPolygon(mp orb.MultiPolygon) *shp.Polygon {
	var parts [][]shp.Point
	for _, poly := range mp {
		for i, ring := range poly {
			wantOuter := i == 0
			if (ring.Orientation() == orb.CCW) == wantOuter {
				ring = reversed(ring)
			}
			parts = append(parts, shpRing(ring))
		}
	}
	poly := shp.Polygon(*shp.NewPolyLine(parts))
	return &poly
}

func shpRing(ring orb.Ring) []shp.Point {
	pts := make([]shp.Point, 0, len(ring)+1)
	for _, p := range ring {
		pts = append(pts, shp.Point{X: p[0], Y: p[1]})
	}
	// Shapefile rings must be explicitly closed.
	if len(pts) > 0 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return pts
}

func reversed(ring orb.Ring) orb.Ring {
	out := make(orb.Ring, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}
