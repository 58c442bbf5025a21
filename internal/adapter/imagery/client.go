// Package imagery implements domain.ImageService against the ArcGIS
// ImageServer REST API. Raster content is fetched through the getSamples
// endpoint as raw classified pixel values, so no image rendering or decoding
// is involved anywhere in the pipeline.
package imagery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/khgis/ga-lisst/internal/domain"
	"github.com/khgis/ga-lisst/internal/observability"
)

// Client talks to one ArcGIS ImageServer endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxSamples int // service-side getSamples cap, chunking threshold
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an image service client. maxSamples bounds the number of
// pixel samples requested per getSamples call; the ArcGIS default cap is 1000.
func NewClient(baseURL string, timeout time.Duration, maxSamples int, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxSamples: maxSamples,
		logger:     logger,
		metrics:    metrics,
	}
}

// Describe fetches the service metadata document.
func (c *Client) Describe(ctx context.Context) (domain.ServiceInfo, error) {
	var doc serviceInfo
	if err := c.getJSON(ctx, c.baseURL, url.Values{"f": {"json"}}, "describe", &doc); err != nil {
		return domain.ServiceInfo{}, err
	}
	if err := checkEsriError(doc.Error, "describe"); err != nil {
		return domain.ServiceInfo{}, err
	}

	cell := doc.PixelSizeX
	if doc.PixelSizeY > cell {
		cell = doc.PixelSizeY
	}
	wkid := doc.Extent.SpatialReference.LatestWKID
	if wkid == 0 {
		wkid = doc.Extent.SpatialReference.WKID
	}

	info := domain.ServiceInfo{
		Name:     doc.Name,
		CellSize: cell,
		Extent: orb.Bound{
			Min: orb.Point{doc.Extent.XMin, doc.Extent.YMin},
			Max: orb.Point{doc.Extent.XMax, doc.Extent.YMax},
		},
		WKID: wkid,
	}
	for _, cap := range strings.Split(doc.Capabilities, ",") {
		if cap = strings.TrimSpace(cap); cap != "" {
			info.Capabilities = append(info.Capabilities, cap)
		}
	}
	return info, nil
}

// rankLabelFields are the attribute table columns checked, in order, for the
// human-readable rank label.
var rankLabelFields = []string{"Rank", "ClassName", "Class_Name", "Label"}

// RankTable fetches the raster attribute table and extracts the pixel
// value-to-rank-label mapping.
func (c *Client) RankTable(ctx context.Context) ([]domain.RankEntry, error) {
	var doc attributeTable
	u := c.baseURL + "/rasterAttributeTable"
	if err := c.getJSON(ctx, u, url.Values{"f": {"json"}}, "rank_table", &doc); err != nil {
		return nil, err
	}
	if err := checkEsriError(doc.Error, "rank table"); err != nil {
		return nil, err
	}
	if doc.Table == nil {
		return nil, fmt.Errorf("%w: rank table: service has no raster attribute table", domain.ErrService)
	}

	var entries []domain.RankEntry
	for _, f := range doc.Table.Features {
		value, ok := attributeInt(f.Attributes, "Value")
		if !ok {
			continue
		}
		entry := domain.RankEntry{Value: value}
		for _, field := range rankLabelFields {
			if s, ok := f.Attributes[field].(string); ok && s != "" {
				entry.Label = s
				break
			}
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: rank table: no usable rows", domain.ErrService)
	}
	return entries, nil
}

// Samples reads every pixel inside the cell-aligned envelope. Requests are
// chunked into tiles of at most maxSamples cells, splitting rows and columns
// alike, so every call stays within the service's sample cap even when a
// single row is wider than the cap. Sample points sit at cell centers: the
// request envelope is inset by half a cell so the service's sampling lattice
// lands on them.
func (c *Client) Samples(ctx context.Context, envelope orb.Bound, cellSize float64) ([]domain.Sample, error) {
	cols := int(math.Round((envelope.Max[0] - envelope.Min[0]) / cellSize))
	rows := int(math.Round((envelope.Max[1] - envelope.Min[1]) / cellSize))
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: samples: empty envelope", domain.ErrService)
	}

	tileCols := cols
	if tileCols > c.maxSamples {
		tileCols = c.maxSamples
	}
	tileRows := c.maxSamples / tileCols
	if tileRows < 1 {
		tileRows = 1
	}

	samples := make([]domain.Sample, 0, cols*rows)
	for row := 0; row < rows; row += tileRows {
		nRows := tileRows
		if row+nRows > rows {
			nRows = rows - row
		}
		for col := 0; col < cols; col += tileCols {
			nCols := tileCols
			if col+nCols > cols {
				nCols = cols - col
			}
			tile := orb.Bound{
				Min: orb.Point{
					envelope.Min[0] + float64(col)*cellSize,
					envelope.Min[1] + float64(row)*cellSize,
				},
				Max: orb.Point{
					envelope.Min[0] + float64(col+nCols)*cellSize,
					envelope.Min[1] + float64(row+nRows)*cellSize,
				},
			}
			got, err := c.sampleTile(ctx, tile, cellSize)
			if err != nil {
				return nil, err
			}
			samples = append(samples, got...)
		}
	}

	c.metrics.SamplesFetched.Add(float64(len(samples)))
	return samples, nil
}

func (c *Client) sampleTile(ctx context.Context, tile orb.Bound, cellSize float64) ([]domain.Sample, error) {
	half := cellSize / 2
	geometry := fmt.Sprintf(`{"xmin":%f,"ymin":%f,"xmax":%f,"ymax":%f,"spatialReference":{"wkid":3857}}`,
		tile.Min[0]+half, tile.Min[1]+half, tile.Max[0]-half, tile.Max[1]-half)

	params := url.Values{
		"geometry":             {geometry},
		"geometryType":         {"esriGeometryEnvelope"},
		"sampleDistance":       {strconv.FormatFloat(cellSize, 'f', -1, 64)},
		"returnFirstValueOnly": {"true"},
		"f":                    {"json"},
	}

	var doc sampleResponse
	if err := c.getJSON(ctx, c.baseURL+"/getSamples", params, "samples", &doc); err != nil {
		return nil, err
	}
	if err := checkEsriError(doc.Error, "samples"); err != nil {
		return nil, err
	}

	out := make([]domain.Sample, 0, len(doc.Samples))
	for _, s := range doc.Samples {
		sample := domain.Sample{X: s.Location.X, Y: s.Location.Y}
		if v, err := strconv.Atoi(strings.TrimSpace(s.Value)); err == nil {
			sample.Value = v
			sample.OK = true
		}
		out = append(out, sample)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %s: create request: %v", domain.ErrService, endpoint, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ServiceRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ServiceRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %s request: %v", domain.ErrService, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.metrics.ServiceRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %s: service returned status %d", domain.ErrLicense, endpoint, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.ServiceRequests.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrService, endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		c.metrics.ServiceRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %s: decode response: %v", domain.ErrService, endpoint, err)
	}

	c.metrics.ServiceRequests.WithLabelValues(endpoint, "success").Inc()
	c.logger.Debug("image service request", "endpoint", endpoint, "duration", time.Since(start))
	return nil
}

// checkEsriError maps the error envelope ArcGIS embeds in HTTP 200 bodies.
// Token and permission failures surface as license errors.
func checkEsriError(e *esriError, endpoint string) error {
	if e == nil {
		return nil
	}
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden, 498, 499:
		return fmt.Errorf("%w: %s: %s (code %d)", domain.ErrLicense, endpoint, e.Message, e.Code)
	default:
		return fmt.Errorf("%w: %s: %s (code %d)", domain.ErrService, endpoint, e.Message, e.Code)
	}
}

// attributeInt reads an integer attribute that may arrive as float64 or
// string depending on the service's JSON encoder.
func attributeInt(attrs map[string]any, key string) (int, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}
