package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "dashpulse/internal/errors"
	"dashpulse/internal/indicators"
	"dashpulse/internal/services"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Refresh(ctx context.Context) (*indicators.Dataset, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*indicators.Dataset), args.Error(1)
}

func (m *MockDashboardService) Countries(ctx context.Context) ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDashboardService) Combined(ctx context.Context, f services.IndicatorFilter) ([]indicators.CombinedRow, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]indicators.CombinedRow), args.Error(1)
}

func (m *MockDashboardService) Mix(ctx context.Context, f services.IndicatorFilter) ([]indicators.MixRow, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]indicators.MixRow), args.Error(1)
}

func (m *MockDashboardService) Status() services.LoadStatus {
	args := m.Called()
	return args.Get(0).(services.LoadStatus)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newIndicatorsHandler(service DashboardServiceInterface) *IndicatorsHandler {
	logger := testLogger()
	return NewIndicatorsHandler(service, logger, apierrors.NewErrorHandler(logger))
}

func sampleCombined() []indicators.CombinedRow {
	return []indicators.CombinedRow{
		{ISOCode: "GBR", Country: "United Kingdom", Year: 2010, Continent: "Europe", GDPPerCapita: 44000},
	}
}

func TestIndicatorsHandler_GetIndicators(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*MockDashboardService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "successful get",
			target: "/api/indicators?country=United+Kingdom&from=2000&to=2020",
			setupMock: func(m *MockDashboardService) {
				m.On("Combined", services.IndicatorFilter{Country: "United Kingdom", FromYear: 2000, ToYear: 2020}).
					Return(sampleCombined(), nil)
				m.On("Status").Return(services.LoadStatus{Loaded: true, Warnings: []string{"gdp fallback"}})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"iso_code":"GBR"`,
		},
		{
			name:           "invalid from year",
			target:         "/api/indicators?from=abc",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"VALIDATION_FAILED"`,
		},
		{
			name:           "inverted year range",
			target:         "/api/indicators?from=2020&to=2000",
			setupMock:      func(m *MockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `year range is inverted`,
		},
		{
			name:   "service error",
			target: "/api/indicators",
			setupMock: func(m *MockDashboardService) {
				m.On("Combined", services.IndicatorFilter{}).Return(nil, errors.New("source down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"INTERNAL_SERVER_ERROR"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDashboardService)
			tt.setupMock(mockService)
			handler := newIndicatorsHandler(mockService)

			req := httptest.NewRequest("GET", tt.target, nil)
			rec := httptest.NewRecorder()

			handler.GetIndicators(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestIndicatorsHandler_GetIndicators_IncludesWarnings(t *testing.T) {
	mockService := new(MockDashboardService)
	mockService.On("Combined", services.IndicatorFilter{}).Return(sampleCombined(), nil)
	mockService.On("Status").Return(services.LoadStatus{Loaded: true, Warnings: []string{"GDP source unavailable"}})
	handler := newIndicatorsHandler(mockService)

	rec := httptest.NewRecorder()
	handler.GetIndicators(rec, httptest.NewRequest("GET", "/api/indicators", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"warnings":["GDP source unavailable"]`)
}

func TestIndicatorsHandler_GetMix(t *testing.T) {
	share := 0.25
	mockService := new(MockDashboardService)
	mockService.On("Mix", services.IndicatorFilter{Country: "France"}).Return([]indicators.MixRow{
		{ISOCode: "FRA", Country: "France", Year: 2015, Source: "nuclear", Value: 416.8, Share: &share},
	}, nil)
	handler := newIndicatorsHandler(mockService)

	rec := httptest.NewRecorder()
	handler.GetMix(rec, httptest.NewRequest("GET", "/api/indicators/mix?country=France", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"source":"nuclear"`)
	assert.Contains(t, rec.Body.String(), `"share":0.25`)
	mockService.AssertExpectations(t)
}

func TestIndicatorsHandler_GetCountries(t *testing.T) {
	mockService := new(MockDashboardService)
	mockService.On("Countries").Return([]string{"France", "United Kingdom"}, nil)
	handler := newIndicatorsHandler(mockService)

	rec := httptest.NewRecorder()
	handler.GetCountries(rec, httptest.NewRequest("GET", "/api/indicators/countries", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
	mockService.AssertExpectations(t)
}

func TestIndicatorsHandler_Export(t *testing.T) {
	t.Run("csv default", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Combined", services.IndicatorFilter{Country: "United Kingdom", FromYear: 2000, ToYear: 2020}).
			Return(sampleCombined(), nil)
		handler := newIndicatorsHandler(mockService)

		rec := httptest.NewRecorder()
		handler.Export(rec, httptest.NewRequest("GET", "/api/indicators/export?country=United+Kingdom&from=2000&to=2020", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "United-Kingdom_2000_2020.csv")
		assert.Contains(t, rec.Body.String(), "iso_code")
		assert.Contains(t, rec.Body.String(), "GBR")
	})

	t.Run("xlsx", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Combined", services.IndicatorFilter{}).Return(sampleCombined(), nil)
		mockService.On("Mix", services.IndicatorFilter{}).Return([]indicators.MixRow{}, nil)
		handler := newIndicatorsHandler(mockService)

		rec := httptest.NewRecorder()
		handler.Export(rec, httptest.NewRequest("GET", "/api/indicators/export?format=xlsx", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Body.Bytes())
	})

	t.Run("xlsx mix failure keeps error response clean", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Combined", services.IndicatorFilter{}).Return(sampleCombined(), nil)
		mockService.On("Mix", services.IndicatorFilter{}).
			Return([]indicators.MixRow(nil), errors.New("dataset gone"))
		handler := newIndicatorsHandler(mockService)

		rec := httptest.NewRecorder()
		handler.Export(rec, httptest.NewRequest("GET", "/api/indicators/export?format=xlsx", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Header().Get("Content-Disposition"),
			"error responses must not carry an attachment disposition")
		assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		handler := newIndicatorsHandler(new(MockDashboardService))

		rec := httptest.NewRecorder()
		handler.Export(rec, httptest.NewRequest("GET", "/api/indicators/export?format=pdf", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "must be csv or xlsx")
	})
}

func TestIndicatorsHandler_Refresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Refresh").Return(&indicators.Dataset{
			Combined: sampleCombined(),
			LoadedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}, nil)
		handler := newIndicatorsHandler(mockService)

		rec := httptest.NewRecorder()
		handler.Refresh(rec, httptest.NewRequest("POST", "/api/indicators/refresh", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"rows":1`)
		mockService.AssertExpectations(t)
	})

	t.Run("source failure maps to bad gateway", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Refresh").Return(nil, errors.New("fetching co2: connection refused"))
		handler := newIndicatorsHandler(mockService)

		rec := httptest.NewRecorder()
		handler.Refresh(rec, httptest.NewRequest("POST", "/api/indicators/refresh", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), `"SOURCE_UNAVAILABLE"`)
		mockService.AssertExpectations(t)
	})
}
