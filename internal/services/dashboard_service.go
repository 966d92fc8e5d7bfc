package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dashpulse/internal/cache"
	"dashpulse/internal/indicators"
)

// datasetKey is the cache key for the indicators snapshot. The pipeline
// takes no inputs, so the key is constant.
const datasetKey = "indicators"

// PipelineRunner runs one full indicators load
type PipelineRunner interface {
	Run(ctx context.Context) (*indicators.Dataset, error)
}

// IndicatorFilter selects a slice of the indicators dataset. Zero values
// leave the corresponding dimension unbounded.
type IndicatorFilter struct {
	Country  string
	FromYear int
	ToYear   int
}

func (f IndicatorFilter) matches(country string, year int) bool {
	if f.Country != "" && country != f.Country {
		return false
	}
	if f.FromYear != 0 && year < f.FromYear {
		return false
	}
	if f.ToYear != 0 && year > f.ToYear {
		return false
	}
	return true
}

// LoadStatus describes the current snapshot for health reporting
type LoadStatus struct {
	Loaded   bool      `json:"loaded"`
	LoadedAt time.Time `json:"loaded_at"`
	Rows     int       `json:"rows"`
	Warnings []string  `json:"warnings,omitempty"`
}

// DashboardService serves the indicators dataset, memoized in an explicit
// snapshot cache. Every caller shares one loaded snapshot; Refresh is the
// only invalidation path.
type DashboardService struct {
	pipeline PipelineRunner
	cache    *cache.Cache[*indicators.Dataset]
	logger   *slog.Logger
}

// NewDashboardService creates a dashboard service
func NewDashboardService(pipeline PipelineRunner, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		pipeline: pipeline,
		cache:    cache.New[*indicators.Dataset](),
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// Dataset returns the cached snapshot, loading it on first use
func (s *DashboardService) Dataset(ctx context.Context) (*indicators.Dataset, error) {
	return s.cache.GetOrLoad(ctx, datasetKey, func(ctx context.Context) (*indicators.Dataset, error) {
		s.logger.InfoContext(ctx, "loading indicators dataset")
		ds, err := s.pipeline.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading indicators dataset: %w", err)
		}
		return ds, nil
	})
}

// Refresh clears the snapshot and reloads it
func (s *DashboardService) Refresh(ctx context.Context) (*indicators.Dataset, error) {
	s.logger.InfoContext(ctx, "refreshing indicators dataset")
	s.cache.Clear(datasetKey)
	return s.Dataset(ctx)
}

// Countries returns the sorted distinct country names
func (s *DashboardService) Countries(ctx context.Context) ([]string, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Countries(), nil
}

// Combined returns merged rows matching the filter, preserving dataset order
func (s *DashboardService) Combined(ctx context.Context, f IndicatorFilter) ([]indicators.CombinedRow, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]indicators.CombinedRow, 0, len(ds.Combined))
	for _, row := range ds.Combined {
		if f.matches(row.Country, row.Year) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Mix returns long-format mix rows matching the filter
func (s *DashboardService) Mix(ctx context.Context, f IndicatorFilter) ([]indicators.MixRow, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]indicators.MixRow, 0, len(ds.Mix))
	for _, row := range ds.Mix {
		if f.matches(row.Country, row.Year) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Status reports whether a snapshot is loaded, without triggering a load
func (s *DashboardService) Status() LoadStatus {
	ds, ok := s.cache.Get(datasetKey)
	if !ok {
		return LoadStatus{}
	}
	return LoadStatus{
		Loaded:   true,
		LoadedAt: ds.LoadedAt,
		Rows:     len(ds.Combined),
		Warnings: ds.Warnings,
	}
}
