package indicators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dashpulse/internal/config"
	"dashpulse/internal/infrastructure"
)

// Pipeline orchestrates one full indicators load: fetch, harmonize, merge,
// enrich, reshape. Every run recomputes from scratch; callers that want
// memoization wrap the pipeline in an explicit cache.
type Pipeline struct {
	loader  *Loader
	cutoff  int
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewPipeline creates a pipeline for the configured sources. metrics may
// be nil.
func NewPipeline(cfg config.SourcesConfig, logger *slog.Logger, metrics *infrastructure.Metrics) *Pipeline {
	return &Pipeline{
		loader:  NewLoader(cfg, logger),
		cutoff:  cfg.YearCutoff,
		logger:  logger.With(slog.String("component", "indicators_pipeline")),
		metrics: metrics,
	}
}

// Run executes the pipeline. A CO₂ or energy fetch failure aborts the
// load; only the GDP source has a fallback. Warnings on the returned
// dataset record any non-fatal degradation (the GDP fallback).
func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	start := time.Now()

	rawCO2, err := p.loader.FetchCO2(ctx)
	p.metrics.RecordSourceFetch(ctx, SourceCO2, err == nil)
	if err != nil {
		return nil, fmt.Errorf("loading co2 source: %w", err)
	}

	rawEnergy, err := p.loader.FetchEnergy(ctx)
	p.metrics.RecordSourceFetch(ctx, SourceEnergy, err == nil)
	if err != nil {
		return nil, fmt.Errorf("loading energy source: %w", err)
	}

	co2, err := HarmonizeCO2(rawCO2, p.cutoff)
	if err != nil {
		return nil, err
	}
	p.logger.DebugContext(ctx, "co2 table harmonized",
		slog.Int("rows", len(co2)),
		slog.Int("dropped", len(rawCO2.Rows)-len(co2)))

	energy, err := HarmonizeEnergy(rawEnergy, p.cutoff)
	if err != nil {
		return nil, err
	}
	p.logger.DebugContext(ctx, "energy table harmonized",
		slog.Int("rows", len(energy)),
		slog.Int("dropped", len(rawEnergy.Rows)-len(energy)))

	var warnings []string
	gdp, err := p.loader.FetchGDP(ctx)
	p.metrics.RecordSourceFetch(ctx, SourceGDP, err == nil)
	if err != nil {
		p.logger.WarnContext(ctx, "gdp source unavailable, computing fallback from energy table",
			slog.String("error", err.Error()))
		p.metrics.RecordGDPFallback(ctx)
		gdp = FallbackGDP(energy)
		warnings = append(warnings, fmt.Sprintf(
			"GDP source unavailable (%v); GDP per capita computed from energy table gdp/population", err))
	}

	combined := Enrich(Merge(energy, gdp, co2))
	mix := Shares(ToLong(combined))

	elapsed := time.Since(start)
	p.metrics.RecordLoadDuration(ctx, "indicators", elapsed)
	p.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("combined_rows", len(combined)),
		slog.Int("mix_rows", len(mix)),
		slog.Int("warnings", len(warnings)),
		slog.Duration("elapsed", elapsed))

	return &Dataset{
		Combined: combined,
		Mix:      mix,
		Warnings: warnings,
		LoadedAt: time.Now().UTC(),
	}, nil
}
