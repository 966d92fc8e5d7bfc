package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HealthHandler serves liveness and readiness information
type HealthHandler struct {
	service DashboardServiceInterface
	version string
	started time.Time
}

// NewHealthHandler creates a health handler
func NewHealthHandler(service DashboardServiceInterface, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		started: time.Now(),
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetHealth)
	return r
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status          string     `json:"status"`
	Version         string     `json:"version"`
	UptimeSeconds   float64    `json:"uptime_seconds"`
	DatasetLoaded   bool       `json:"dataset_loaded"`
	DatasetRows     int        `json:"dataset_rows,omitempty"`
	DatasetLoadedAt *time.Time `json:"dataset_loaded_at,omitempty"`
	Warnings        []string   `json:"warnings,omitempty"`
}

// GetHealth handles GET /healthz. The service is healthy as long as it
// can answer; an unloaded dataset is reported but is not a failure.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status()

	resp := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: time.Since(h.started).Seconds(),
		DatasetLoaded: status.Loaded,
		Warnings:      status.Warnings,
	}
	if status.Loaded {
		resp.DatasetRows = status.Rows
		loadedAt := status.LoadedAt
		resp.DatasetLoadedAt = &loadedAt
	}

	render.JSON(w, r, resp)
}
