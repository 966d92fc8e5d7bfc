package indicators

import (
	"sort"
	"time"
)

// MixSources lists the electricity generation sources that are melted into
// the long-format mix table, in output order.
var MixSources = []string{
	"biofuel", "coal", "gas", "hydro", "nuclear", "oil",
	"other_renewable", "solar", "wind",
}

// RawTable is a loosely typed tabular payload as fetched from a remote
// origin. It only exists between the loader and the harmonizer.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// index returns a header name → column position map
func (t RawTable) index() map[string]int {
	idx := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		idx[h] = i
	}
	return idx
}

// CO2Row is a harmonized CO₂ emissions record
type CO2Row struct {
	ISOCode      string `validate:"required"`
	Country      string `validate:"required"`
	Year         int    `validate:"gt=0"`
	CO2PerCapita *float64
}

// EnergyRow is a harmonized electricity generation record. Metric values
// are nil when the source cell was empty.
type EnergyRow struct {
	ISOCode               string `validate:"required"`
	Country               string `validate:"required"`
	Year                  int    `validate:"gt=0"`
	ElectricityGeneration *float64
	Biofuel               *float64
	Coal                  *float64
	Gas                   *float64
	Hydro                 *float64
	Nuclear               *float64
	Oil                   *float64
	OtherRenewable        *float64
	Solar                 *float64
	Wind                  *float64

	// GDP and Population are carried through harmonization solely to feed
	// the GDP per-capita fallback computation.
	GDP        *float64
	Population *float64
}

// source returns the generation value for the named mix source
func (r EnergyRow) source(name string) *float64 {
	switch name {
	case "biofuel":
		return r.Biofuel
	case "coal":
		return r.Coal
	case "gas":
		return r.Gas
	case "hydro":
		return r.Hydro
	case "nuclear":
		return r.Nuclear
	case "oil":
		return r.Oil
	case "other_renewable":
		return r.OtherRenewable
	case "solar":
		return r.Solar
	case "wind":
		return r.Wind
	}
	return nil
}

// GDPRow is a GDP per-capita record, from either the primary World Bank
// fetch or the fallback computation. Both paths produce this exact schema.
type GDPRow struct {
	ISOCode      string
	Year         int
	GDPPerCapita float64
}

// CombinedRow is the result of inner joining the three harmonized tables
// on (iso_code, year). Every metric column is guaranteed present; a key
// missing from any one source does not appear here at all.
type CombinedRow struct {
	ISOCode               string   `json:"iso_code"`
	Country               string   `json:"country"`
	Year                  int      `json:"year"`
	Continent             string   `json:"continent,omitempty"`
	ElectricityGeneration *float64 `json:"electricity_generation"`
	Biofuel               *float64 `json:"biofuel"`
	Coal                  *float64 `json:"coal"`
	Gas                   *float64 `json:"gas"`
	Hydro                 *float64 `json:"hydro"`
	Nuclear               *float64 `json:"nuclear"`
	Oil                   *float64 `json:"oil"`
	OtherRenewable        *float64 `json:"other_renewable"`
	Solar                 *float64 `json:"solar"`
	Wind                  *float64 `json:"wind"`
	GDPPerCapita          float64  `json:"gdp_percap"`
	CO2PerCapita          *float64 `json:"co2_per_capita"`
}

// source returns the generation value for the named mix source
func (r CombinedRow) source(name string) *float64 {
	switch name {
	case "biofuel":
		return r.Biofuel
	case "coal":
		return r.Coal
	case "gas":
		return r.Gas
	case "hydro":
		return r.Hydro
	case "nuclear":
		return r.Nuclear
	case "oil":
		return r.Oil
	case "other_renewable":
		return r.OtherRenewable
	case "solar":
		return r.Solar
	case "wind":
		return r.Wind
	}
	return nil
}

// MixRow is one long-format electricity-mix observation. Value is always
// concrete (null source cells are dropped during the melt); Share is nil
// when the (iso_code, year) group sums to zero.
type MixRow struct {
	ISOCode   string   `json:"iso_code"`
	Country   string   `json:"country"`
	Year      int      `json:"year"`
	Continent string   `json:"continent,omitempty"`
	Source    string   `json:"source"`
	Value     float64  `json:"value"`
	Share     *float64 `json:"share"`
}

// Dataset is the complete output of one pipeline run
type Dataset struct {
	Combined []CombinedRow `json:"combined"`
	Mix      []MixRow      `json:"mix"`
	Warnings []string      `json:"warnings,omitempty"`
	LoadedAt time.Time     `json:"loaded_at"`
}

// Countries returns the sorted distinct country names in the dataset
func (d *Dataset) Countries() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range d.Combined {
		if _, ok := seen[row.Country]; ok {
			continue
		}
		seen[row.Country] = struct{}{}
		out = append(out, row.Country)
	}
	sort.Strings(out)
	return out
}

func fptr(v float64) *float64 { return &v }
