package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"dashpulse/internal/config"
	"dashpulse/internal/elections"
	"dashpulse/internal/exporter"
	"dashpulse/internal/indicators"
	"dashpulse/internal/infrastructure"
)

func main() {
	out := flag.String("out", "", "output directory (defaults to the configured export dir)")
	xlsx := flag.Bool("xlsx", true, "also write an Excel workbook")
	counties := flag.Bool("counties", true, "also write the synthetic county dataset")
	seed := flag.Int64("seed", 0, "override the configured county generator seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *out == "" {
		*out = cfg.Export.Dir
	}
	if *seed == 0 {
		*seed = cfg.Elections.Seed
	}

	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	logger.Info("Starting snapshot export",
		slog.String("output_dir", *out),
		slog.Bool("xlsx", *xlsx),
		slog.Bool("counties", *counties))

	if err := run(cfg, logger, *out, *xlsx, *counties, *seed); err != nil {
		logger.Error("Snapshot export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Snapshot export complete")
}

func run(cfg *config.Config, logger *slog.Logger, out string, xlsx, counties bool, seed int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sources.FetchTimeout)
	defer cancel()

	pipeline := indicators.NewPipeline(cfg.Sources, logger, nil)
	ds, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("running indicator pipeline: %w", err)
	}
	for _, w := range ds.Warnings {
		logger.Warn("pipeline warning", slog.String("warning", w))
	}

	exp := exporter.NewExporter(out, logger)

	combinedOpts := exporter.WriteOptions{
		Headers:   exporter.CombinedHeaders,
		Records:   exporter.CombinedRecords(ds.Combined),
		BOMPrefix: cfg.Export.BOM,
	}
	if _, err := exp.WriteCSVFile("indicators.csv", combinedOpts); err != nil {
		return fmt.Errorf("writing indicators csv: %w", err)
	}

	mixOpts := exporter.WriteOptions{
		Headers:   exporter.MixHeaders,
		Records:   exporter.MixRecords(ds.Mix),
		BOMPrefix: cfg.Export.BOM,
	}
	if _, err := exp.WriteCSVFile("energy_mix.csv", mixOpts); err != nil {
		return fmt.Errorf("writing energy mix csv: %w", err)
	}

	var countyRows []elections.County
	if counties {
		gen := elections.NewGenerator(cfg.Elections.States, cfg.Elections.CountiesPerParty)
		countyRows = gen.Generate(seed)
		countyOpts := exporter.WriteOptions{
			Headers:   exporter.CountyHeaders,
			Records:   exporter.CountyRecords(countyRows),
			BOMPrefix: cfg.Export.BOM,
		}
		if _, err := exp.WriteCSVFile("counties.csv", countyOpts); err != nil {
			return fmt.Errorf("writing counties csv: %w", err)
		}
	}

	if xlsx {
		sheets := []exporter.Sheet{
			{Name: "Indicators", Headers: exporter.CombinedHeaders, Records: exporter.CombinedCells(ds.Combined)},
			{Name: "Energy Mix", Headers: exporter.MixHeaders, Records: exporter.MixCells(ds.Mix)},
		}
		if counties {
			sheets = append(sheets, exporter.Sheet{
				Name: "Counties", Headers: exporter.CountyHeaders, Records: exporter.CountyCells(countyRows),
			})
		}
		if _, err := exp.WriteWorkbookFile("indicators.xlsx", sheets); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
	}

	return nil
}
