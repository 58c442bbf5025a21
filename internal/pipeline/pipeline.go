// Package pipeline runs the GA LISST processing sequence: validate the
// boundary, resolve the output location, check the service license, fetch
// the classified raster, vectorize, clip, measure acreage, apply symbology,
// and write the output feature layer. Execution is strictly linear and
// single-threaded; the first stage error aborts the run and nothing partial
// is written.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"

	"github.com/khgis/ga-lisst/internal/adapter/featurefile"
	"github.com/khgis/ga-lisst/internal/domain"
	"github.com/khgis/ga-lisst/internal/geoproj"
	"github.com/khgis/ga-lisst/internal/observability"
	"github.com/khgis/ga-lisst/internal/raster"
	"github.com/khgis/ga-lisst/internal/style"
	"github.com/khgis/ga-lisst/internal/workspace"
)

// requiredCapability is the service capability the run depends on. Without
// it the run fails fast and performs no further work.
const requiredCapability = "Image"

// Options configure one run.
type Options struct {
	// OutputFolder overrides output location resolution when non-empty.
	OutputFolder string

	// WorkingDir is where project discovery starts.
	WorkingDir string

	// StylePath is the symbology definition to associate with the output.
	StylePath string

	// OutputName is the base name of the output layer files.
	// Defaults to "lisst_polygon".
	OutputName string

	// BufferMeters pads the raster fetch extent around the boundary.
	// Defaults to 100 ft, matching the published workflow.
	BufferMeters float64
}

// Pipeline executes runs against one image service.
type Pipeline struct {
	svc      domain.ImageService
	resolver workspace.Resolver
	msgs     *domain.Messenger
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options
	ready    atomic.Bool
}

// New creates a Pipeline with the given collaborators.
func New(svc domain.ImageService, resolver workspace.Resolver, msgs *domain.Messenger, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.OutputName == "" {
		opts.OutputName = "lisst_polygon"
	}
	if opts.BufferMeters == 0 {
		opts.BufferMeters = 100 * geoproj.MetersPerFoot
	}
	return &Pipeline{
		svc:      svc,
		resolver: resolver,
		msgs:     msgs,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// CheckReadiness returns nil once a run has started, for the optional
// health endpoint.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no run started yet")
	}
	return nil
}

// rankPieces holds one rank's clipped coverage on the Mercator plane.
type rankPieces struct {
	rank domain.Rank
	merc orb.MultiPolygon
}

// runState carries intermediate artifacts between stages. Everything here is
// transient: only the write stage persists anything.
type runState struct {
	boundary      domain.Boundary
	boundaryMerc  orb.Geometry
	boundaryAcres float64

	out    workspace.Resolution
	info   domain.ServiceInfo
	labels map[int]string

	grid    *raster.Grid
	regions []raster.Region
	clipped []rankPieces

	features  []domain.RankFeature
	styleDef  *style.Definition
	stylePath string

	geojsonPath   string
	shapefilePath string
}

// Run executes the full sequence for one boundary. On failure the returned
// error wraps the domain taxonomy sentinel and carries the failing stage
// name; the messenger transcript holds everything reported to the user.
func (p *Pipeline) Run(ctx context.Context, boundary domain.Boundary) (*domain.RunResult, error) {
	p.ready.Store(true)
	p.metrics.RunInProgress.Set(1)
	defer p.metrics.RunInProgress.Set(0)

	started := clock.Now()
	st := &runState{boundary: boundary}

	stages := []struct {
		name string
		run  func(context.Context, *runState) error
	}{
		{"validate", p.validate},
		{"resolve_output", p.resolveOutput},
		{"check_license", p.checkLicense},
		{"fetch", p.fetch},
		{"vectorize", p.vectorize},
		{"clip", p.clip},
		{"measure", p.measure},
		{"apply_symbology", p.applySymbology},
		{"write", p.write},
	}

	for _, s := range stages {
		stageStart := time.Now()
		err := s.run(ctx, st)
		p.metrics.StageDuration.WithLabelValues(s.name).Observe(time.Since(stageStart).Seconds())
		if err != nil {
			p.msgs.Errorf("%v", err)
			p.metrics.RunsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	result := &domain.RunResult{
		GeoJSONPath:   st.geojsonPath,
		ShapefilePath: st.shapefilePath,
		StylePath:     st.stylePath,
		Features:      st.features,
		BoundaryAcres: st.boundaryAcres,
		Messages:      p.msgs.Messages(),
		StartedAt:     started,
		FinishedAt:    clock.Now(),
	}

	p.metrics.WarningsTotal.Add(float64(len(result.Warnings())))
	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	return result, nil
}

// validate rejects non-polygon boundaries before any network activity and
// reconciles the boundary onto the Mercator plane.
func (p *Pipeline) validate(_ context.Context, st *runState) error {
	g := st.boundary.Geometry
	if g == nil {
		return fmt.Errorf("%w: boundary contains no polygon features", domain.ErrInvalidInput)
	}
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return fmt.Errorf("%w: boundary geometry is %s; a polygon is required", domain.ErrInvalidInput, g.GeoJSONType())
	}
	if vertexCount(g) < 4 {
		return fmt.Errorf("%w: boundary polygon has no area", domain.ErrInvalidInput)
	}

	if st.boundary.CRSAssumed {
		p.msgs.Warnf("Boundary %s has no coordinate system information; assuming WGS-84.", st.boundary.Path)
	}
	p.msgs.Infof("Input boundary: %s (%s)", st.boundary.Path, st.boundary.CRS)

	if st.boundary.CRS == domain.CRSWGS84 {
		st.boundaryMerc = geoproj.ForwardGeometry(g)
	} else {
		st.boundaryMerc = g
	}
	return nil
}

// resolveOutput picks the output folder without creating it; creation is
// deferred to the write stage so earlier failures leave no filesystem trace.
func (p *Pipeline) resolveOutput(_ context.Context, st *runState) error {
	res, err := p.resolver.Resolve(p.opts.OutputFolder, p.opts.WorkingDir)
	if err != nil {
		return err
	}
	st.out = res

	switch res.Source {
	case workspace.SourceProject:
		p.msgs.Infof("Workspace: %s", res.Folder)
	case workspace.SourceFallback:
		p.msgs.Warnf("No project file found. Output files will be saved to the default location %s.", res.Folder)
	default:
		p.msgs.Infof("Output folder: %s", res.Folder)
	}
	return nil
}

// checkLicense verifies the service advertises the required capability.
func (p *Pipeline) checkLicense(ctx context.Context, st *runState) error {
	p.msgs.Infof("Checking GA LISST image service...")

	info, err := p.svc.Describe(ctx)
	if err != nil {
		return err
	}
	if !info.HasCapability(requiredCapability) {
		return fmt.Errorf("%w: service %q does not provide the %s capability", domain.ErrLicense, info.Name, requiredCapability)
	}
	if info.WKID != 3857 && info.WKID != 102100 {
		return fmt.Errorf("%w: unsupported service spatial reference wkid %d", domain.ErrService, info.WKID)
	}
	if info.CellSize <= 0 {
		return fmt.Errorf("%w: service reports no pixel size", domain.ErrService)
	}

	st.info = info
	p.msgs.Infof("GA LISST image service %q available (cell size %.1f m).", info.Name, info.CellSize)
	return nil
}

// fetch requests the rank table and the raw classified samples for the
// buffered, cell-aligned window around the boundary.
func (p *Pipeline) fetch(ctx context.Context, st *runState) error {
	grid, ok := raster.GridForBoundary(st.boundaryMerc.Bound(), p.opts.BufferMeters, st.info)
	if !ok {
		return fmt.Errorf("%w: boundary does not intersect the LISST coverage extent", domain.ErrGeometry)
	}

	st.labels = builtinLabels()
	entries, err := p.svc.RankTable(ctx)
	if err != nil {
		p.msgs.Warnf("Rank table unavailable (%v); using built-in rank labels.", err)
	} else {
		for _, e := range entries {
			if e.Label != "" {
				st.labels[e.Value] = e.Label
			}
		}
	}

	p.msgs.Infof("Fetching LISST raster: %d x %d cells...", grid.Cols, grid.Rows)
	samples, err := p.svc.Samples(ctx, grid.Envelope(), grid.CellSize)
	if err != nil {
		return err
	}
	for _, s := range samples {
		grid.SetSample(s)
	}
	if grid.DataCells() == 0 {
		return fmt.Errorf("%w: no LISST coverage within the boundary extent", domain.ErrGeometry)
	}

	st.grid = grid
	p.msgs.Infof("Received %d samples (%d classified cells).", len(samples), grid.DataCells())
	return nil
}

// vectorize converts the grid to per-rank regions.
func (p *Pipeline) vectorize(_ context.Context, st *runState) error {
	st.regions = raster.Vectorize(st.grid)
	if len(st.regions) == 0 {
		return fmt.Errorf("%w: raster contains no classified cells", domain.ErrGeometry)
	}
	p.msgs.Infof("Converting the LISST raster to polygons: %d ranks present.", len(st.regions))
	return nil
}

// clip intersects each rank's cell runs with the exact boundary geometry.
func (p *Pipeline) clip(_ context.Context, st *runState) error {
	p.msgs.Infof("Clipping polygons to the input boundary...")

	boundaryBound := st.boundaryMerc.Bound()
	for _, region := range st.regions {
		var mp orb.MultiPolygon
		for _, run := range region.Runs {
			rb := st.grid.RunBound(run.Row, run.Col0, run.Col1)
			if !rb.Intersects(boundaryBound) {
				continue
			}
			appendPieces(&mp, clip.Geometry(rb, st.boundaryMerc))
		}
		if len(mp) > 0 {
			st.clipped = append(st.clipped, rankPieces{rank: region.Rank, merc: mp})
		}
	}

	if len(st.clipped) == 0 {
		return fmt.Errorf("%w: boundary does not intersect the classified coverage", domain.ErrGeometry)
	}
	return nil
}

// appendPieces collects non-degenerate polygons from a clip result.
func appendPieces(mp *orb.MultiPolygon, g orb.Geometry) {
	switch t := g.(type) {
	case orb.Polygon:
		if len(t) > 0 && planar.Area(t) > 0 {
			*mp = append(*mp, t)
		}
	case orb.MultiPolygon:
		for _, poly := range t {
			if len(poly) > 0 && planar.Area(poly) > 0 {
				*mp = append(*mp, poly)
			}
		}
	}
}

// measure dissolves per rank and derives the ACRES attribute geodesically.
func (p *Pipeline) measure(_ context.Context, st *runState) error {
	p.msgs.Infof("Calculating acreages for each rank...")

	st.boundaryAcres = geoproj.GeodesicAcres(st.boundaryMerc)

	for _, rp := range st.clipped {
		wgs := geoproj.InverseGeometry(rp.merc).(orb.MultiPolygon)
		acres := geoproj.Acres(math.Abs(geo.Area(wgs)))
		label := st.labels[int(rp.rank)]
		if label == "" {
			// Pixel values outside the published set still get a label.
			label = rp.rank.Label()
		}
		st.features = append(st.features, domain.RankFeature{
			Rank:     rp.rank,
			Label:    label,
			GridCode: int(rp.rank),
			Geometry: wgs,
			Acres:    acres,
		})
		p.msgs.Infof("  %s: %.2f acres", label, acres)
	}
	return nil
}

// applySymbology loads the style definition. A missing or unusable file
// degrades to the built-in default with a warning; the run still succeeds.
func (p *Pipeline) applySymbology(_ context.Context, st *runState) error {
	def, err := style.Load(p.opts.StylePath)
	switch {
	case err == nil:
		st.styleDef = def
		st.stylePath = p.opts.StylePath
		p.msgs.Infof("Applied symbology from %s.", p.opts.StylePath)
	case errors.Is(err, os.ErrNotExist):
		st.styleDef = style.Default()
		p.msgs.Warnf("Style file %s not found; default symbology will be used.", p.opts.StylePath)
	default:
		st.styleDef = style.Default()
		p.msgs.Warnf("Style file %s unusable (%v); default symbology will be used.", p.opts.StylePath, err)
	}
	return nil
}

// write creates the output folder and persists the feature layer. This is
// the only stage with filesystem side effects.
func (p *Pipeline) write(_ context.Context, st *runState) error {
	if err := os.MkdirAll(st.out.Folder, 0o755); err != nil {
		return fmt.Errorf("%w: create output folder %s: %v", domain.ErrFilesystem, st.out.Folder, err)
	}

	st.geojsonPath = filepath.Join(st.out.Folder, p.opts.OutputName+".geojson")
	st.shapefilePath = filepath.Join(st.out.Folder, p.opts.OutputName+".shp")

	if err := featurefile.WriteGeoJSON(st.geojsonPath, st.features, st.styleDef); err != nil {
		return err
	}
	if err := featurefile.WriteShapefile(st.shapefilePath, st.features); err != nil {
		return err
	}

	p.metrics.FeaturesWritten.Add(float64(len(st.features)))
	p.msgs.Infof("LISST data processed successfully. Output polygon: %s", st.shapefilePath)
	return nil
}

func builtinLabels() map[int]string {
	labels := make(map[int]string, 4)
	for _, r := range domain.Ranks() {
		labels[int(r)] = r.Label()
	}
	return labels
}

func vertexCount(g orb.Geometry) int {
	n := 0
	switch t := g.(type) {
	case orb.Polygon:
		for _, ring := range t {
			n += len(ring)
		}
	case orb.MultiPolygon:
		for _, poly := range t {
			for _, ring := range poly {
				n += len(ring)
			}
		}
	}
	return n
}
