package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// CRS identifies one of the two coordinate reference systems the tool
// understands. Anything else is rejected during validation.
type CRS int

const (
	// CRSWGS84 is geographic longitude/latitude, EPSG:4326.
	CRSWGS84 CRS = iota
	// CRSWebMercator is spherical Web Mercator, EPSG:3857 (aka 102100).
	CRSWebMercator
)

// String returns the EPSG-style name for the CRS.
func (c CRS) String() string {
	if c == CRSWebMercator {
		return "EPSG:3857"
	}
	return "EPSG:4326"
}

// Boundary is the user-supplied area of interest. It is read-only input:
// the pipeline never mutates or rewrites it.
type Boundary struct {
	// Geometry is whatever the source file contained. Validation rejects
	// anything that is not a Polygon or MultiPolygon.
	Geometry orb.Geometry

	// CRS the geometry coordinates are expressed in.
	CRS CRS

	// CRSAssumed is true when the source carried no CRS information and
	// WGS-84 was assumed. Surfaced to the user as a warning, not an error.
	CRSAssumed bool

	// Path of the source file, for messages.
	Path string
}

// RankFeature is one dissolved output polygon: all coverage of a single rank
// inside the boundary. Geometry is WGS-84.
type RankFeature struct {
	Rank     Rank
	Label    string
	GridCode int // raster pixel value, always int(Rank)
	Geometry orb.MultiPolygon
	Acres    float64
}

// RunResult describes the single persisted artifact of a run plus everything
// the host needs to report: output locations, features, messages, timings.
type RunResult struct {
	GeoJSONPath   string
	ShapefilePath string

	// StylePath is the symbology definition associated with the output, or
	// empty when the built-in default symbology was used.
	StylePath string

	Features      []RankFeature
	BoundaryAcres float64

	// Messages is the full ordered transcript of the run's user-facing
	// messages, including warnings.
	Messages []Message

	StartedAt  time.Time
	FinishedAt time.Time
}

// TotalAcres sums the ACRES attribute across all output features.
func (r *RunResult) TotalAcres() float64 {
	var total float64
	for _, f := range r.Features {
		total += f.Acres
	}
	return total
}

// Warnings returns only the warning-severity messages of the run.
func (r *RunResult) Warnings() []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Severity == SeverityWarning {
			out = append(out, m)
		}
	}
	return out
}
