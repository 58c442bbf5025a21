// Command mockserver is a local stand-in for the GA LISST ArcGIS ImageServer.
// It serves the three REST endpoints the tool uses (service metadata, raster
// attribute table, getSamples) over a deterministic synthetic rank raster so
// the pipeline can be exercised end to end without network access.
//
// Usage:
//
//	go run ./cmd/mockserver -addr :8191
//	lisst -service http://localhost:8191/arcgis/rest/services/lisst/ImageServer -boundary parcel.geojson
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"net/http"
	"strconv"
)

// Synthetic raster parameters: a 30 m Web Mercator grid covering roughly the
// state of Georgia.
const (
	cellSize = 30.0
	xMin     = -9529000.0
	yMin     = 3545000.0
	xMax     = -8994000.0
	yMax     = 4163000.0
)

const basePath = "/arcgis/rest/services/lisst/ImageServer"

var rankLabels = map[int]string{
	1: "Most preferred for low impact",
	2: "Less preferred for low impact",
	3: "Not preferred for low impact",
	4: "Avoidance recommended",
}

func main() {
	addr := flag.String("addr", ":8191", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+basePath, handleInfo)
	mux.HandleFunc("GET "+basePath+"/rasterAttributeTable", handleAttributeTable)
	mux.HandleFunc("GET "+basePath+"/getSamples", handleGetSamples)

	log.Printf("mock LISST image service listening on %s%s", *addr, basePath)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"name":         "OverallPref_Mock/ImageServer",
		"capabilities": "Catalog,Image,Metadata",
		"pixelSizeX":   cellSize,
		"pixelSizeY":   cellSize,
		"extent": map[string]any{
			"xmin": xMin, "ymin": yMin, "xmax": xMax, "ymax": yMax,
			"spatialReference": map[string]any{"wkid": 102100, "latestWkid": 3857},
		},
	})
}

func handleAttributeTable(w http.ResponseWriter, _ *http.Request) {
	features := make([]map[string]any, 0, len(rankLabels))
	for value := 1; value <= 4; value++ {
		features = append(features, map[string]any{
			"attributes": map[string]any{
				"Value": value,
				"Rank":  rankLabels[value],
			},
		})
	}
	writeJSON(w, map[string]any{
		"rasterAttributeTable": map[string]any{"features": features},
	})
}

func handleGetSamples(w http.ResponseWriter, r *http.Request) {
	var env struct {
		XMin float64 `json:"xmin"`
		YMin float64 `json:"ymin"`
		XMax float64 `json:"xmax"`
		YMax float64 `json:"ymax"`
	}
	if err := json.Unmarshal([]byte(r.URL.Query().Get("geometry")), &env); err != nil {
		writeEsriError(w, 400, "invalid geometry parameter")
		return
	}
	dist, err := strconv.ParseFloat(r.URL.Query().Get("sampleDistance"), 64)
	if err != nil || dist <= 0 {
		dist = cellSize
	}

	// Sample the lattice from the envelope corner at sampleDistance steps,
	// matching how the real service walks an envelope geometry.
	var samples []map[string]any
	for y := env.YMin; y <= env.YMax+1e-6; y += dist {
		for x := env.XMin; x <= env.XMax+1e-6; x += dist {
			samples = append(samples, map[string]any{
				"location": map[string]any{"x": x, "y": y},
				"value":    valueAt(x, y),
			})
		}
	}
	writeJSON(w, map[string]any{"samples": samples})
}

// valueAt assigns a deterministic rank to the cell containing (x, y):
// diagonal bands of ranks 1..4 with every fifth band left unclassified.
// Outside the extent everything is NoData.
func valueAt(x, y float64) string {
	if x < xMin || x > xMax || y < yMin || y > yMax {
		return "NoData"
	}
	col := int(math.Floor((x - xMin) / cellSize))
	row := int(math.Floor((y - yMin) / cellSize))
	band := (col/8 + row/8) % 5
	if band == 0 {
		return "NoData"
	}
	return strconv.Itoa(band)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeEsriError(w http.ResponseWriter, code int, message string) {
	// ArcGIS reports errors inside an HTTP 200 body.
	writeJSON(w, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": []string{},
		},
	})
}
