// Command lisst fetches the Georgia Low Impact Solar Siting Tool (GA LISST)
// suitability classification for a user-supplied boundary and writes the
// clipped, per-rank acreage polygons as GeoJSON and shapefile layers.
//
// Usage:
//
//	lisst -boundary parcel.geojson [-out ./layers] [-style symb/ga_lisst.style.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/khgis/ga-lisst/internal/adapter/featurefile"
	httpadapter "github.com/khgis/ga-lisst/internal/adapter/http"
	"github.com/khgis/ga-lisst/internal/adapter/imagery"
	"github.com/khgis/ga-lisst/internal/config"
	"github.com/khgis/ga-lisst/internal/domain"
	"github.com/khgis/ga-lisst/internal/geoproj"
	"github.com/khgis/ga-lisst/internal/observability"
	"github.com/khgis/ga-lisst/internal/pipeline"
	"github.com/khgis/ga-lisst/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	boundaryPath := flag.String("boundary", "", "boundary dataset to clip to (.geojson, .json, or .shp)")
	outFolder := flag.String("out", "", "output folder (default: resolved from the open project)")
	stylePath := flag.String("style", "", "symbology definition (overrides LISST_STYLE_PATH)")
	serviceURL := flag.String("service", "", "image service URL (overrides LISST_SERVICE_URL)")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	if *serviceURL != "" {
		cfg.ServiceURL = *serviceURL
	}
	if *stylePath != "" {
		cfg.StylePath = *stylePath
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if *boundaryPath == "" {
		flag.Usage()
		logger.Error("missing required flag: -boundary")
		return errors.New("missing required flag: -boundary")
	}

	workingDir, err := os.Getwd()
	if err != nil {
		logger.Error("cannot determine working directory", "error", err)
		return err
	}

	svc := imagery.NewClient(cfg.ServiceURL, cfg.ServiceTimeout, cfg.MaxSamplesPerRequest, logger, metrics)
	msgs := domain.NewMessenger(logger)

	p := pipeline.New(svc, workspace.Resolver{}, msgs, logger, metrics, pipeline.Options{
		OutputFolder: *outFolder,
		WorkingDir:   workingDir,
		StylePath:    cfg.StylePath,
		OutputName:   cfg.OutputName,
		BufferMeters: cfg.BufferFeet * geoproj.MetersPerFoot,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional metrics sidecar for scheduled runs.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	boundary, err := featurefile.LoadBoundary(*boundaryPath)
	if err != nil {
		logger.Error("failed to load boundary", "error", err)
		return err
	}

	result, runErr := p.Run(ctx, boundary)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		return runErr
	}

	printSummary(result)
	return nil
}

func printSummary(r *domain.RunResult) {
	fmt.Printf("GA LISST run complete in %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	fmt.Printf("Boundary area: %.2f acres\n", r.BoundaryAcres)
	for _, f := range r.Features {
		fmt.Printf("  rank %d  %-35s %12.2f acres\n", f.GridCode, f.Label, f.Acres)
	}
	fmt.Printf("Total classified: %.2f acres\n", r.TotalAcres())
	fmt.Printf("Output: %s\n", r.ShapefilePath)
	fmt.Printf("        %s\n", r.GeoJSONPath)
	for _, w := range r.Warnings() {
		fmt.Printf("warning: %s\n", w.Text)
	}
}
