package indicators

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"dashpulse/internal/config"
)

// Source names used in logs and metrics
const (
	SourceCO2    = "co2"
	SourceEnergy = "energy"
	SourceGDP    = "gdp"
)

// Loader fetches the three remote tabular sources. Fetches share one
// rate-limited HTTP client so repeated refreshes stay polite to the
// upstream origins.
type Loader struct {
	cfg     config.SourcesConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewLoader creates a loader for the configured sources
func NewLoader(cfg config.SourcesConfig, logger *slog.Logger) *Loader {
	return &Loader{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst),
		logger:  logger.With(slog.String("component", "source_loader")),
	}
}

// FetchCO2 downloads the CO₂ per-capita table
func (l *Loader) FetchCO2(ctx context.Context) (RawTable, error) {
	return l.fetchCSV(ctx, SourceCO2, l.cfg.CO2URL)
}

// FetchEnergy downloads the energy dataset
func (l *Loader) FetchEnergy(ctx context.Context) (RawTable, error) {
	return l.fetchCSV(ctx, SourceEnergy, l.cfg.EnergyURL)
}

// fetchCSV downloads and parses one CSV table
func (l *Loader) fetchCSV(ctx context.Context, source, rawURL string) (RawTable, error) {
	body, err := l.get(ctx, source, rawURL)
	if err != nil {
		return RawTable{}, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, harmonizer drops them

	records, err := reader.ReadAll()
	if err != nil {
		return RawTable{}, fmt.Errorf("parsing %s csv: %w", source, err)
	}
	if len(records) == 0 {
		return RawTable{}, fmt.Errorf("%s source returned an empty table", source)
	}

	table := RawTable{Headers: records[0], Rows: records[1:]}
	l.logger.InfoContext(ctx, "source fetched",
		slog.String("source", source),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

// wbObservation is one observation in the World Bank v2 API response
type wbObservation struct {
	CountryISO3 string   `json:"countryiso3code"`
	Date        string   `json:"date"`
	Value       *float64 `json:"value"`
}

// FetchGDP downloads GDP per capita from the World Bank API. The response
// is a two-element JSON array: paging metadata followed by observations.
// Callers are expected to fall back to FallbackGDP on any error here.
func (l *Loader) FetchGDP(ctx context.Context) ([]GDPRow, error) {
	u, err := url.Parse(l.cfg.GDPURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gdp url: %w", err)
	}
	q := u.Query()
	pageSize := l.cfg.GDPPageSize
	if pageSize <= 0 {
		pageSize = 20000
	}
	q.Set("format", "json")
	q.Set("per_page", strconv.Itoa(pageSize))
	q.Set("date", fmt.Sprintf("%d:%d", l.cfg.GDPFromYear, l.cfg.GDPToYear))
	u.RawQuery = q.Encode()

	body, err := l.get(ctx, SourceGDP, u.String())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var envelope []json.RawMessage
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding gdp response: %w", err)
	}
	if len(envelope) < 2 {
		return nil, fmt.Errorf("gdp response missing observation page")
	}

	var observations []wbObservation
	if err := json.Unmarshal(envelope[1], &observations); err != nil {
		return nil, fmt.Errorf("decoding gdp observations: %w", err)
	}

	rows := make([]GDPRow, 0, len(observations))
	for _, obs := range observations {
		// Blank values and blank codes cannot join downstream
		if obs.Value == nil || obs.CountryISO3 == "" {
			continue
		}
		year, err := strconv.Atoi(obs.Date)
		if err != nil {
			continue
		}
		rows = append(rows, GDPRow{
			ISOCode:      obs.CountryISO3,
			Year:         year,
			GDPPerCapita: *obs.Value,
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("gdp source returned no usable observations")
	}

	l.logger.InfoContext(ctx, "source fetched",
		slog.String("source", SourceGDP),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// get performs a rate-limited GET and returns the response body
func (l *Loader) get(ctx context.Context, source, rawURL string) (io.ReadCloser, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", source, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s source: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s source: unexpected status %d", source, resp.StatusCode)
	}
	return resp.Body, nil
}

// FallbackGDP derives GDP per capita as gdp/population from the harmonized
// energy table. It produces the same schema as the primary fetch so
// downstream consumers are agnostic to which path executed. Rows missing
// either input are skipped.
func FallbackGDP(energy []EnergyRow) []GDPRow {
	rows := make([]GDPRow, 0, len(energy))
	for _, r := range energy {
		if r.GDP == nil || r.Population == nil || *r.Population == 0 {
			continue
		}
		rows = append(rows, GDPRow{
			ISOCode:      r.ISOCode,
			Year:         r.Year,
			GDPPerCapita: *r.GDP / *r.Population,
		})
	}
	return rows
}
