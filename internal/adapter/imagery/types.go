package imagery

// ArcGIS ImageServer REST response types. Only the fields the pipeline
// consumes are mapped.

type spatialReference struct {
	WKID       int `json:"wkid"`
	LatestWKID int `json:"latestWkid"`
}

type extent struct {
	XMin             float64          `json:"xmin"`
	YMin             float64          `json:"ymin"`
	XMax             float64          `json:"xmax"`
	YMax             float64          `json:"ymax"`
	SpatialReference spatialReference `json:"spatialReference"`
}

// serviceInfo is the `{service}?f=json` metadata document.
type serviceInfo struct {
	Name         string  `json:"name"`
	Capabilities string  `json:"capabilities"` // comma-separated, e.g. "Catalog,Image,Metadata"
	PixelSizeX   float64 `json:"pixelSizeX"`
	PixelSizeY   float64 `json:"pixelSizeY"`
	Extent       extent  `json:"extent"`

	Error *esriError `json:"error"`
}

// attributeTable is the `{service}/rasterAttributeTable?f=json` document.
type attributeTable struct {
	Table *struct {
		Features []struct {
			Attributes map[string]any `json:"attributes"`
		} `json:"features"`
	} `json:"rasterAttributeTable"`

	Error *esriError `json:"error"`
}

// sampleResponse is the `{service}/getSamples` document. Pixel values arrive
// as strings; NoData cells carry "NoData" or an empty string.
type sampleResponse struct {
	Samples []struct {
		Location struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"location"`
		Value string `json:"value"`
	} `json:"samples"`

	Error *esriError `json:"error"`
}

// esriError is the error envelope ArcGIS returns inside an HTTP 200 body.
type esriError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
