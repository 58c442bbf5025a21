// Package geoproj reconciles the two coordinate systems the tool touches:
// geographic WGS-84 (boundary files, GeoJSON output) and spherical Web
// Mercator EPSG:3857 (the LISST image service). Clipping happens on the
// Mercator plane where raster cells are axis-aligned squares; measurement
// unprojects back to WGS-84 and uses geodesic area.
package geoproj

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	// earthRadius is the WGS-84 semi-major axis, the sphere radius used by
	// the Web Mercator projection (EPSG:3857).
	earthRadius = 6378137.0

	// maxLatitude is the Web Mercator cutoff; beyond it the projection
	// diverges. Georgia is nowhere near it, but inputs are clamped anyway.
	maxLatitude = 85.05112878

	// MetersPerFoot converts the original tool's 100 ft boundary buffer.
	MetersPerFoot = 0.3048

	// squareMetersPerAcre is the international acre.
	squareMetersPerAcre = 4046.8564224
)

// Forward projects a WGS-84 longitude/latitude point to Web Mercator meters.
func Forward(p orb.Point) orb.Point {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, p[1]))
	x := earthRadius * p[0] * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return orb.Point{x, y}
}

// Inverse unprojects a Web Mercator point to WGS-84 longitude/latitude.
func Inverse(p orb.Point) orb.Point {
	lon := p[0] / earthRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(p[1]/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return orb.Point{lon, lat}
}

// ForwardGeometry projects a WGS-84 geometry to Web Mercator.
func ForwardGeometry(g orb.Geometry) orb.Geometry {
	return transform(g, Forward)
}

// InverseGeometry unprojects a Web Mercator geometry to WGS-84.
func InverseGeometry(g orb.Geometry) orb.Geometry {
	return transform(g, Inverse)
}

// transform applies fn to every vertex, preserving geometry type and
// structure. Only the types the pipeline produces are supported.
func transform(g orb.Geometry, fn func(orb.Point) orb.Point) orb.Geometry {
	switch t := g.(type) {
	case orb.Point:
		return fn(t)
	case orb.Ring:
		return transformRing(t, fn)
	case orb.Polygon:
		return transformPolygon(t, fn)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(t))
		for i, p := range t {
			out[i] = transformPolygon(p, fn)
		}
		return out
	case orb.Bound:
		return orb.Bound{Min: fn(t.Min), Max: fn(t.Max)}
	default:
		return g
	}
}

func transformPolygon(p orb.Polygon, fn func(orb.Point) orb.Point) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = transformRing(r, fn)
	}
	return out
}

func transformRing(r orb.Ring, fn func(orb.Point) orb.Point) orb.Ring {
	out := make(orb.Ring, len(r))
	for i, p := range r {
		out[i] = fn(p)
	}
	return out
}

// GeodesicAcres measures a Web Mercator geometry by unprojecting to WGS-84
// and taking the geodesic area in acres.
func GeodesicAcres(mercator orb.Geometry) float64 {
	return Acres(math.Abs(geo.Area(InverseGeometry(mercator))))
}

// Acres converts square meters to acres.
func Acres(squareMeters float64) float64 {
	return squareMeters / squareMetersPerAcre
}
