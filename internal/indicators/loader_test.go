package indicators

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashpulse/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSourcesConfig(co2URL, energyURL, gdpURL string) config.SourcesConfig {
	return config.SourcesConfig{
		CO2URL:       co2URL,
		EnergyURL:    energyURL,
		GDPURL:       gdpURL,
		GDPFromYear:  1990,
		GDPToYear:    2023,
		YearCutoff:   1990,
		FetchTimeout: 5 * time.Second,
		RateRPS:      1000,
		RateBurst:    1000,
	}
}

const co2CSV = `Entity,Code,Year,emissions_total_per_capita
United Kingdom,GBR,2000,9.2
United Kingdom,GBR,2001,9.0
France,FRA,2000,6.0
France,FRA,2001,5.9
`

const energyCSV = `country,iso_code,year,electricity_generation,biofuel_electricity,coal_electricity,gas_electricity,hydro_electricity,nuclear_electricity,oil_electricity,other_renewable_exc_biofuel_electricity,solar_electricity,wind_electricity,gdp,population
United Kingdom,GBR,2000,377,1,120,140,5,85,4,3,0,7,1700000000000,59000000
United Kingdom,GBR,2001,380,1,118,145,5,83,4,3,0,8,1750000000000,59200000
France,FRA,2000,540,2,30,20,70,400,5,2,0,1,2000000000000,60000000
France,FRA,2001,545,2,28,22,72,402,5,2,0,1,2050000000000,60200000
`

const gdpJSON = `[
  {"page":1,"pages":1,"per_page":20000,"total":4},
  [
    {"countryiso3code":"GBR","date":"2000","value":28000.5},
    {"countryiso3code":"GBR","date":"2001","value":29000.1},
    {"countryiso3code":"FRA","date":"2000","value":27000.0},
    {"countryiso3code":"FRA","date":"2001","value":27500.0},
    {"countryiso3code":"","date":"2000","value":12345.0},
    {"countryiso3code":"DEU","date":"2000","value":null}
  ]
]`

func newSourceServer(t *testing.T, gdpStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/co2.csv", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, co2CSV)
	})
	mux.HandleFunc("/energy.csv", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, energyCSV)
	})
	mux.HandleFunc("/gdp", func(w http.ResponseWriter, r *http.Request) {
		if gdpStatus != http.StatusOK {
			w.WriteHeader(gdpStatus)
			return
		}
		io.WriteString(w, gdpJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestLoader(t *testing.T, gdpStatus int) *Loader {
	srv := newSourceServer(t, gdpStatus)
	cfg := testSourcesConfig(srv.URL+"/co2.csv", srv.URL+"/energy.csv", srv.URL+"/gdp")
	return NewLoader(cfg, discardLogger())
}

func TestFetchCO2ParsesTable(t *testing.T) {
	loader := newTestLoader(t, http.StatusOK)

	table, err := loader.FetchCO2(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Entity", "Code", "Year", "emissions_total_per_capita"}, table.Headers)
	assert.Len(t, table.Rows, 4)
}

func TestFetchGDPParsesObservations(t *testing.T) {
	loader := newTestLoader(t, http.StatusOK)

	rows, err := loader.FetchGDP(context.Background())
	require.NoError(t, err)

	// Blank iso code and null value observations are skipped
	require.Len(t, rows, 4)
	assert.Equal(t, "GBR", rows[0].ISOCode)
	assert.Equal(t, 2000, rows[0].Year)
	assert.InDelta(t, 28000.5, rows[0].GDPPerCapita, 1e-9)
}

func TestFetchGDPErrorStatus(t *testing.T) {
	loader := newTestLoader(t, http.StatusBadGateway)

	_, err := loader.FetchGDP(context.Background())
	assert.Error(t, err)
}

func TestFetchRespectsContextCancellation(t *testing.T) {
	loader := newTestLoader(t, http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.FetchCO2(ctx)
	assert.Error(t, err)
}

func TestFallbackGDPElementwise(t *testing.T) {
	energy := []EnergyRow{
		{ISOCode: "GBR", Country: "UK", Year: 2000, GDP: fptr(1.7e12), Population: fptr(5.9e7)},
		{ISOCode: "FRA", Country: "France", Year: 2000, GDP: fptr(2.0e12), Population: fptr(6.0e7)},
	}

	rows := FallbackGDP(energy)
	require.Len(t, rows, 2)
	assert.InDelta(t, 1.7e12/5.9e7, rows[0].GDPPerCapita, 1e-6)
	assert.InDelta(t, 2.0e12/6.0e7, rows[1].GDPPerCapita, 1e-6)
	assert.Equal(t, "GBR", rows[0].ISOCode)
	assert.Equal(t, 2000, rows[0].Year)
}

func TestFallbackGDPSkipsIncompleteRows(t *testing.T) {
	energy := []EnergyRow{
		{ISOCode: "GBR", Year: 2000, GDP: fptr(1.7e12)},                           // no population
		{ISOCode: "FRA", Year: 2000, Population: fptr(6.0e7)},                     // no gdp
		{ISOCode: "ITA", Year: 2000, GDP: fptr(1.0e12), Population: fptr(0)},      // zero population
		{ISOCode: "DEU", Year: 2000, GDP: fptr(2.1e12), Population: fptr(8.2e7)},  // complete
	}

	rows := FallbackGDP(energy)
	require.Len(t, rows, 1)
	assert.Equal(t, "DEU", rows[0].ISOCode)
}

func TestPipelineRunPrimaryGDPPath(t *testing.T) {
	srv := newSourceServer(t, http.StatusOK)
	cfg := testSourcesConfig(srv.URL+"/co2.csv", srv.URL+"/energy.csv", srv.URL+"/gdp")
	p := NewPipeline(cfg, discardLogger(), nil)

	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	// Primary path succeeded, so the fallback must not have run
	assert.Empty(t, ds.Warnings)
	require.Len(t, ds.Combined, 4)

	// GDP values come from the World Bank payload, not gdp/population
	assert.InDelta(t, 28000.5, ds.Combined[0].GDPPerCapita, 1e-9)
	assert.Equal(t, "Europe", ds.Combined[0].Continent)
	assert.NotEmpty(t, ds.Mix)
	assert.False(t, ds.LoadedAt.IsZero())
}

func TestPipelineRunFallbackGDPPath(t *testing.T) {
	srv := newSourceServer(t, http.StatusServiceUnavailable)
	cfg := testSourcesConfig(srv.URL+"/co2.csv", srv.URL+"/energy.csv", srv.URL+"/gdp")
	p := NewPipeline(cfg, discardLogger(), nil)

	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	// Fallback ran: a warning surfaced, and GDP equals gdp/population
	require.Len(t, ds.Warnings, 1)
	assert.Contains(t, ds.Warnings[0], "GDP source unavailable")
	require.Len(t, ds.Combined, 4)
	assert.InDelta(t, 1.7e12/5.9e7, ds.Combined[0].GDPPerCapita, 1e-6)
}

func TestPipelineRunCO2FailureIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/co2.csv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/energy.csv", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, energyCSV)
	})
	mux.HandleFunc("/gdp", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, gdpJSON)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := testSourcesConfig(srv.URL+"/co2.csv", srv.URL+"/energy.csv", srv.URL+"/gdp")
	p := NewPipeline(cfg, discardLogger(), nil)

	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestPipelineMixSharesSumToOne(t *testing.T) {
	srv := newSourceServer(t, http.StatusOK)
	cfg := testSourcesConfig(srv.URL+"/co2.csv", srv.URL+"/energy.csv", srv.URL+"/gdp")
	p := NewPipeline(cfg, discardLogger(), nil)

	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	sums := make(map[mergeKey]float64)
	for _, r := range ds.Mix {
		require.NotNil(t, r.Share)
		sums[mergeKey{r.ISOCode, r.Year}] += *r.Share
	}
	for key, sum := range sums {
		assert.InDelta(t, 1.0, sum, 1e-9, "group %v", key)
	}
}
