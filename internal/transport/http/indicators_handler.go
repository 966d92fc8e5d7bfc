package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "dashpulse/internal/errors"
	"dashpulse/internal/exporter"
	"dashpulse/internal/indicators"
	"dashpulse/internal/services"
)

// IndicatorsHandler serves the world-indicators dataset
type IndicatorsHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewIndicatorsHandler creates an indicators handler
func NewIndicatorsHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *IndicatorsHandler {
	return &IndicatorsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "indicators_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the indicator routes
func (h *IndicatorsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetIndicators)
	r.Get("/mix", h.GetMix)
	r.Get("/countries", h.GetCountries)
	r.Get("/export", h.Export)
	r.Post("/refresh", h.Refresh)

	return r
}

// IndicatorsResponse wraps merged indicator rows
type IndicatorsResponse struct {
	Data     interface{} `json:"data"`
	Count    int         `json:"count"`
	Warnings []string    `json:"warnings,omitempty"`
}

// parseFilter extracts the country/year-range filter from query params
func parseFilter(r *http.Request) (services.IndicatorFilter, error) {
	f := services.IndicatorFilter{Country: r.URL.Query().Get("country")}

	parseYear := func(name string) (int, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return 0, nil
		}
		year, err := strconv.Atoi(raw)
		if err != nil || year < 0 {
			return 0, apierrors.ErrValidation(name, fmt.Sprintf("%q is not a valid year", raw))
		}
		return year, nil
	}

	var err error
	if f.FromYear, err = parseYear("from"); err != nil {
		return f, err
	}
	if f.ToYear, err = parseYear("to"); err != nil {
		return f, err
	}
	if f.FromYear != 0 && f.ToYear != 0 && f.FromYear > f.ToYear {
		return f, apierrors.ErrValidation("from", "year range is inverted")
	}
	return f, nil
}

// GetIndicators handles GET /api/indicators
func (h *IndicatorsHandler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.Combined(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, IndicatorsResponse{
		Data:     rows,
		Count:    len(rows),
		Warnings: h.service.Status().Warnings,
	})
}

// GetMix handles GET /api/indicators/mix
func (h *IndicatorsHandler) GetMix(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rows, err := h.service.Mix(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, IndicatorsResponse{Data: rows, Count: len(rows)})
}

// GetCountries handles GET /api/indicators/countries
func (h *IndicatorsHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.service.Countries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"countries": countries,
		"count":     len(countries),
	})
}

// Export handles GET /api/indicators/export, streaming the filtered
// merged table as CSV or, with format=xlsx, as an Excel workbook.
func (h *IndicatorsHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", "must be csv or xlsx"))
		return
	}

	combined, err := h.service.Combined(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Gather everything before any headers go out; a failure here still
	// has to produce a plain JSON error response.
	var mix []indicators.MixRow
	if format == "xlsx" {
		mix, err = h.service.Mix(r.Context(), filter)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}

	filename := exporter.FilterFilename(format,
		filter.Country, yearToken(filter.FromYear), yearToken(filter.ToYear))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	h.logger.InfoContext(r.Context(), "streaming indicators export",
		slog.String("filename", filename),
		slog.Int("rows", len(combined)))

	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = exporter.WriteWorkbook(w, []exporter.Sheet{
			{Name: "Indicators", Headers: exporter.CombinedHeaders, Records: exporter.CombinedCells(combined)},
			{Name: "Energy Mix", Headers: exporter.MixHeaders, Records: exporter.MixCells(mix)},
		})
		if err != nil {
			h.logger.ErrorContext(r.Context(), "workbook export failed", slog.String("error", err.Error()))
		}
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = exporter.WriteCSV(w, exporter.WriteOptions{
			Headers: exporter.CombinedHeaders,
			Records: exporter.CombinedRecords(combined),
		})
		if err != nil {
			h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
		}
	}
}

// Refresh handles POST /api/indicators/refresh
func (h *IndicatorsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadGateway, "SOURCE_UNAVAILABLE",
			"A remote data source is unavailable", err.Error()))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"rows":      len(ds.Combined),
		"warnings":  ds.Warnings,
		"loaded_at": ds.LoadedAt,
	})
}

func yearToken(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
