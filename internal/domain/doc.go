// Package domain models the Georgia Low Impact Solar Siting Tool (GA LISST)
// dataset and the contracts shared by the processing pipeline.
//
// # Data Source
//
// The LISST suitability surface is published by The Nature Conservancy as a
// classified raster on a public ArcGIS Image Service
// (https://www.nature.org/en-us/about-us/where-we-work/united-states/georgia/stories-in-georgia/low-impact-solar-renewable-energy/).
// Each pixel carries one of four suitability categories, called ranks:
//
//	1  Most preferred for low impact
//	2  Less preferred for low impact
//	3  Not preferred for low impact
//	4  Avoidance recommended
//
// The authoritative value-to-label mapping lives in the service's raster
// attribute table; the constants here are a fallback used when the table is
// unavailable.
//
// # Coordinate Systems
//
// The service publishes in spherical Web Mercator (EPSG:3857). Boundaries may
// arrive in WGS-84 or Web Mercator and are reconciled before any spatial
// operation. Acreage is always measured geodesically on WGS-84, never from
// Mercator plane coordinates, which exaggerate area away from the equator.
//
// # Output Contract
//
// A run produces at most one feature per rank: the dissolved polygons of that
// rank clipped to the boundary, with a derived ACRES attribute. Per-rank
// acreage totals never exceed the boundary's own acreage (minus coverage
// gaps). Reprocessing the same boundary against unchanged service data yields
// attribute-identical features.
package domain
