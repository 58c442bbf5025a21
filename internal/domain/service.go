package domain

import (
	"context"

	"github.com/paulmach/orb"
)

// ServiceInfo is the subset of the image service's metadata the pipeline
// needs: capability gating, grid snapping, and coverage checks.
type ServiceInfo struct {
	Name         string
	Capabilities []string // e.g. "Catalog", "Image", "Metadata"
	CellSize     float64  // pixel size in service units (meters for Mercator)
	Extent       orb.Bound
	WKID         int // spatial reference well-known ID
}

// HasCapability reports whether the service advertises the named capability.
func (s ServiceInfo) HasCapability(name string) bool {
	for _, c := range s.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

// RankEntry is one row of the service's raster attribute table.
type RankEntry struct {
	Value int
	Label string
}

// Sample is one raw pixel value read from the service. Location is in the
// service's spatial reference. NoData cells are reported with OK=false.
type Sample struct {
	X     float64
	Y     float64
	Value int
	OK    bool
}

// ImageService is the remote LISST raster source. Implementations fetch raw
// classified pixel values; no rendering or image decoding is involved.
type ImageService interface {
	// Describe fetches service metadata. A missing or rejected capability
	// surfaces as ErrLicense; transport failures as ErrService.
	Describe(ctx context.Context) (ServiceInfo, error)

	// RankTable fetches the value-to-label mapping from the service's raster
	// attribute table.
	RankTable(ctx context.Context) ([]RankEntry, error)

	// Samples reads every pixel value inside the envelope at the given cell
	// size. The envelope must be cell-aligned; samples are taken at cell
	// centers.
	Samples(ctx context.Context, envelope orb.Bound, cellSize float64) ([]Sample, error)
}
