package domain

import "errors"

// Sentinel errors forming the run-abort taxonomy. Stages wrap these with
// fmt.Errorf("%w: ...", ...) so callers can classify failures with errors.Is.
// Every one of these aborts the run immediately; warnings never do.
var (
	// ErrInvalidInput marks a boundary that is not a polygon dataset.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLicense marks a missing required service capability. Raised before
	// any processing work, so a licensing failure leaves no output behind.
	ErrLicense = errors.New("required capability unavailable")

	// ErrService marks a remote fetch failure: network errors, non-2xx
	// responses, or malformed service payloads.
	ErrService = errors.New("image service failure")

	// ErrGeometry marks an empty or degenerate spatial result, such as a
	// boundary that does not intersect the LISST coverage.
	ErrGeometry = errors.New("geometry result empty")

	// ErrFilesystem marks a failure creating or writing the output folder.
	ErrFilesystem = errors.New("filesystem failure")
)
