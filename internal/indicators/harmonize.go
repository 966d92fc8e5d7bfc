package indicators

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// validate checks harmonized rows at the loader/harmonizer boundary.
// Rows that fail validation are dropped, never propagated.
var validate = validator.New()

// columnSpec maps a canonical column to the header variants it may carry
// in the wire format: the normalized "cleaned names" variant and the raw
// as-fetched variant. Resolution inspects actual header presence.
type columnSpec []string

// resolve returns the column position of the first matching variant
func (s columnSpec) resolve(idx map[string]int) (int, bool) {
	for _, name := range s {
		if col, ok := idx[name]; ok {
			return col, true
		}
	}
	return -1, false
}

var co2Columns = map[string]columnSpec{
	"iso_code": {"code", "Code"},
	"country":  {"entity", "Entity"},
	"year":     {"year", "Year"},
	"value":    {"emissions_total_per_capita"},
}

var energyColumns = map[string]columnSpec{
	"iso_code":               {"iso_code"},
	"country":                {"country"},
	"year":                   {"year"},
	"electricity_generation": {"electricity_generation"},
	"biofuel":                {"biofuel", "biofuel_electricity"},
	"coal":                   {"coal", "coal_electricity"},
	"gas":                    {"gas", "gas_electricity"},
	"hydro":                  {"hydro", "hydro_electricity"},
	"nuclear":                {"nuclear", "nuclear_electricity"},
	"oil":                    {"oil", "oil_electricity"},
	"other_renewable":        {"other_renewable", "other_renewable_exc_biofuel_electricity"},
	"solar":                  {"solar", "solar_electricity"},
	"wind":                   {"wind", "wind_electricity"},
	"gdp":                    {"gdp"},
	"population":             {"population"},
}

// resolveColumns maps every canonical column to its position in the table,
// trying each variant in order. Required columns must resolve; optional
// metric columns may be absent entirely.
func resolveColumns(t RawTable, specs map[string]columnSpec, required ...string) (map[string]int, error) {
	idx := t.index()
	cols := make(map[string]int, len(specs))
	for canonical, spec := range specs {
		if col, ok := spec.resolve(idx); ok {
			cols[canonical] = col
		}
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("source table missing required column %q", name)
		}
	}
	return cols, nil
}

// HarmonizeCO2 normalizes a raw CO₂ table to []CO2Row. Rows before the
// year cutoff and rows without an iso code are dropped.
func HarmonizeCO2(t RawTable, yearCutoff int) ([]CO2Row, error) {
	cols, err := resolveColumns(t, co2Columns, "iso_code", "country", "year", "value")
	if err != nil {
		return nil, fmt.Errorf("harmonizing co2 table: %w", err)
	}

	rows := make([]CO2Row, 0, len(t.Rows))
	for _, rec := range t.Rows {
		row := CO2Row{
			ISOCode:      cell(rec, cols["iso_code"]),
			Country:      cell(rec, cols["country"]),
			Year:         parseInt(cell(rec, cols["year"])),
			CO2PerCapita: parseFloatPtr(cell(rec, cols["value"])),
		}
		if row.ISOCode == "" || row.Year < yearCutoff {
			continue
		}
		if err := validate.Struct(row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HarmonizeEnergy normalizes a raw energy table to []EnergyRow. Rows
// before the year cutoff and rows without an iso code are dropped.
func HarmonizeEnergy(t RawTable, yearCutoff int) ([]EnergyRow, error) {
	cols, err := resolveColumns(t, energyColumns, "iso_code", "country", "year")
	if err != nil {
		return nil, fmt.Errorf("harmonizing energy table: %w", err)
	}

	metric := func(rec []string, name string) *float64 {
		col, ok := cols[name]
		if !ok {
			return nil
		}
		return parseFloatPtr(cell(rec, col))
	}

	rows := make([]EnergyRow, 0, len(t.Rows))
	for _, rec := range t.Rows {
		row := EnergyRow{
			ISOCode:               cell(rec, cols["iso_code"]),
			Country:               cell(rec, cols["country"]),
			Year:                  parseInt(cell(rec, cols["year"])),
			ElectricityGeneration: metric(rec, "electricity_generation"),
			Biofuel:               metric(rec, "biofuel"),
			Coal:                  metric(rec, "coal"),
			Gas:                   metric(rec, "gas"),
			Hydro:                 metric(rec, "hydro"),
			Nuclear:               metric(rec, "nuclear"),
			Oil:                   metric(rec, "oil"),
			OtherRenewable:        metric(rec, "other_renewable"),
			Solar:                 metric(rec, "solar"),
			Wind:                  metric(rec, "wind"),
			GDP:                   metric(rec, "gdp"),
			Population:            metric(rec, "population"),
		}
		if row.ISOCode == "" || row.Year < yearCutoff {
			continue
		}
		if err := validate.Struct(row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cell returns the trimmed-at-bounds cell value for a column position
func cell(rec []string, col int) string {
	if col < 0 || col >= len(rec) {
		return ""
	}
	return rec[col]
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// parseFloatPtr parses a numeric cell, returning nil for empty or
// unparseable values so nullness survives harmonization.
func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
