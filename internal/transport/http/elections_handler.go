package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dashpulse/internal/elections"
	apierrors "dashpulse/internal/errors"
	"dashpulse/internal/exporter"
)

// ElectionsHandler serves the county election dataset
type ElectionsHandler struct {
	service      ElectionServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewElectionsHandler creates an elections handler
func NewElectionsHandler(service ElectionServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ElectionsHandler {
	return &ElectionsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "elections_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the election routes
func (h *ElectionsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetCounties)
	r.Get("/shifts", h.GetShifts)
	r.Get("/stats", h.GetStats)
	r.Get("/states", h.GetStates)
	r.Get("/export", h.Export)

	return r
}

// CountiesResponse wraps filtered county rows
type CountiesResponse struct {
	Data  []elections.County `json:"data"`
	Count int                `json:"count"`
}

// parseCriteria extracts the filter criteria from query params. An
// absent parties param means both parties; an explicit empty one means
// neither, matching the dashboard's unchecked-checkbox behavior.
func parseCriteria(r *http.Request) (elections.Criteria, error) {
	q := r.URL.Query()
	c := elections.Criteria{State: q.Get("state")}

	if raw := q.Get("min_votes"); raw != "" {
		votes, err := strconv.Atoi(raw)
		if err != nil || votes < 0 {
			return c, apierrors.ErrValidation("min_votes", fmt.Sprintf("%q is not a valid vote count", raw))
		}
		c.MinVotes = votes
	}

	if _, ok := q["parties"]; !ok {
		c.Parties = elections.AllParties()
		return c, nil
	}
	for _, p := range strings.Split(q.Get("parties"), ",") {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.EqualFold(p, elections.PartyRepublican):
			c.Parties = append(c.Parties, elections.PartyRepublican)
		case strings.EqualFold(p, elections.PartyDemocrat):
			c.Parties = append(c.Parties, elections.PartyDemocrat)
		default:
			return c, apierrors.ErrValidation("parties", fmt.Sprintf("unknown party %q", p))
		}
	}
	return c, nil
}

// GetCounties handles GET /api/elections
func (h *ElectionsHandler) GetCounties(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	counties, err := h.service.Counties(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, CountiesResponse{Data: counties, Count: len(counties)})
}

// GetShifts handles GET /api/elections/shifts
func (h *ElectionsHandler) GetShifts(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dir := elections.MostRepublican
	if raw := r.URL.Query().Get("direction"); raw != "" {
		parsed, ok := elections.ParseDirection(raw)
		if !ok {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("direction", "must be republican or democrat"))
			return
		}
		dir = parsed
	}

	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("n", fmt.Sprintf("%q is not a valid count", raw)))
			return
		}
		n = parsed
	}

	shifts, err := h.service.Shifts(r.Context(), criteria, n, dir)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"data":      shifts,
		"count":     len(shifts),
		"direction": dir,
	})
}

// GetStats handles GET /api/elections/stats
func (h *ElectionsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.Stats(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}

// GetStates handles GET /api/elections/states
func (h *ElectionsHandler) GetStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.States(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"states": states,
		"count":  len(states),
	})
}

// Export handles GET /api/elections/export, streaming the filtered
// counties as CSV with the active filters encoded in the filename.
func (h *ElectionsHandler) Export(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	counties, err := h.service.Counties(r.Context(), criteria)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	tokens := []string{"counties", criteria.State}
	if criteria.MinVotes > 0 {
		tokens = append(tokens, fmt.Sprintf("min%d", criteria.MinVotes))
	}
	tokens = append(tokens, criteria.Parties...)
	filename := exporter.FilterFilename("csv", tokens...)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	h.logger.InfoContext(r.Context(), "streaming counties export",
		slog.String("filename", filename),
		slog.Int("rows", len(counties)))

	if err := exporter.WriteCSV(w, exporter.WriteOptions{
		Headers: exporter.CountyHeaders,
		Records: exporter.CountyRecords(counties),
	}); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}
