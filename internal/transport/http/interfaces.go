package http

import (
	"context"

	"dashpulse/internal/elections"
	"dashpulse/internal/indicators"
	"dashpulse/internal/services"
)

// DashboardServiceInterface is the indicators surface the handlers need
type DashboardServiceInterface interface {
	Refresh(ctx context.Context) (*indicators.Dataset, error)
	Countries(ctx context.Context) ([]string, error)
	Combined(ctx context.Context, f services.IndicatorFilter) ([]indicators.CombinedRow, error)
	Mix(ctx context.Context, f services.IndicatorFilter) ([]indicators.MixRow, error)
	Status() services.LoadStatus
}

// ElectionServiceInterface is the elections surface the handlers need
type ElectionServiceInterface interface {
	Counties(ctx context.Context, c elections.Criteria) ([]elections.County, error)
	Shifts(ctx context.Context, c elections.Criteria, n int, dir elections.Direction) ([]elections.Shift, error)
	Stats(ctx context.Context, c elections.Criteria) (elections.Summary, error)
	States(ctx context.Context) ([]string, error)
}
