package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashpulse/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RateLimitRPS:    1000,
			RateLimitBurst:  1000,
		},
		Logging: config.LoggingConfig{
			Level:  "error",
			Format: "json",
			Output: "console",
		},
		Sources: config.SourcesConfig{
			CO2URL:       "http://127.0.0.1:1/co2.csv",
			EnergyURL:    "http://127.0.0.1:1/energy.csv",
			GDPURL:       "http://127.0.0.1:1/gdp",
			YearCutoff:   1990,
			FetchTimeout: time.Second,
			RateRPS:      100,
			RateBurst:    10,
		},
		Elections: config.ElectionsConfig{
			Seed:             42,
			CountiesPerParty: 120,
			States:           []string{"Texas", "Ohio", "Georgia"},
		},
		Export: config.ExportConfig{Dir: "exports"},
	}
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	application, err := NewApplicationWithConfig(testConfig())
	require.NoError(t, err)
	return application
}

func TestNewApplicationWithConfig(t *testing.T) {
	application := newTestApplication(t)

	assert.NotNil(t, application.Router)
	assert.NotNil(t, application.Server)
	assert.NotNil(t, application.Dashboard)
	assert.NotNil(t, application.Elections)
	assert.NotNil(t, application.Logger)
}

func TestApplication_HealthRoute(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, false, body["dataset_loaded"])
}

func TestApplication_MetricsRoute(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApplication_ElectionsRoute(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/elections/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Total      int `json:"total"`
		Republican int `json:"republican"`
		Democrat   int `json:"democrat"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 240, summary.Total)
	assert.Equal(t, 120, summary.Republican)
	assert.Equal(t, 120, summary.Democrat)
}

func TestApplication_NotFound(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestApplication_SecurityHeaders(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestApplication_RequestIDHeader(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.Router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
