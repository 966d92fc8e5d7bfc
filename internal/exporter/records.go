package exporter

import (
	"strconv"

	"dashpulse/internal/elections"
	"dashpulse/internal/indicators"
)

// CombinedHeaders is the column order for merged indicator exports
var CombinedHeaders = []string{
	"iso_code", "country", "year", "continent", "electricity_generation",
	"biofuel", "coal", "gas", "hydro", "nuclear", "oil",
	"other_renewable", "solar", "wind", "gdp_percap", "co2_per_capita",
}

// CombinedRecords converts merged indicator rows to CSV records. Null
// metric values serialize as empty cells.
func CombinedRecords(rows []indicators.CombinedRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.ISOCode,
			r.Country,
			strconv.Itoa(r.Year),
			r.Continent,
			formatFloatPtr(r.ElectricityGeneration),
			formatFloatPtr(r.Biofuel),
			formatFloatPtr(r.Coal),
			formatFloatPtr(r.Gas),
			formatFloatPtr(r.Hydro),
			formatFloatPtr(r.Nuclear),
			formatFloatPtr(r.Oil),
			formatFloatPtr(r.OtherRenewable),
			formatFloatPtr(r.Solar),
			formatFloatPtr(r.Wind),
			formatFloat(r.GDPPerCapita),
			formatFloatPtr(r.CO2PerCapita),
		}
	}
	return out
}

// MixHeaders is the column order for long-format mix exports
var MixHeaders = []string{"iso_code", "country", "year", "continent", "source", "value", "share"}

// MixRecords converts long-format mix rows to CSV records
func MixRecords(rows []indicators.MixRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.ISOCode,
			r.Country,
			strconv.Itoa(r.Year),
			r.Continent,
			r.Source,
			formatFloat(r.Value),
			formatFloatPtr(r.Share),
		}
	}
	return out
}

// CountyHeaders is the column order for election exports
var CountyHeaders = []string{"county", "state", "margin_2020", "margin_2024", "total_votes", "party"}

// CountyRecords converts county rows to CSV records
func CountyRecords(counties []elections.County) [][]string {
	out := make([][]string, len(counties))
	for i, c := range counties {
		out[i] = []string{
			c.Name,
			c.State,
			formatFloat(c.Margin2020),
			formatFloat(c.Margin2024),
			strconv.Itoa(c.TotalVotes),
			c.Party,
		}
	}
	return out
}

// CombinedCells converts merged indicator rows to typed workbook cells.
// Null metric values become empty cells.
func CombinedCells(rows []indicators.CombinedRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			r.ISOCode,
			r.Country,
			r.Year,
			r.Continent,
			cellFloatPtr(r.ElectricityGeneration),
			cellFloatPtr(r.Biofuel),
			cellFloatPtr(r.Coal),
			cellFloatPtr(r.Gas),
			cellFloatPtr(r.Hydro),
			cellFloatPtr(r.Nuclear),
			cellFloatPtr(r.Oil),
			cellFloatPtr(r.OtherRenewable),
			cellFloatPtr(r.Solar),
			cellFloatPtr(r.Wind),
			r.GDPPerCapita,
			cellFloatPtr(r.CO2PerCapita),
		}
	}
	return out
}

// MixCells converts long-format mix rows to typed workbook cells
func MixCells(rows []indicators.MixRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			r.ISOCode,
			r.Country,
			r.Year,
			r.Continent,
			r.Source,
			r.Value,
			cellFloatPtr(r.Share),
		}
	}
	return out
}

// CountyCells converts county rows to typed workbook cells
func CountyCells(counties []elections.County) [][]any {
	out := make([][]any, len(counties))
	for i, c := range counties {
		out[i] = []any{
			c.Name,
			c.State,
			c.Margin2020,
			c.Margin2024,
			c.TotalVotes,
			c.Party,
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func cellFloatPtr(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
