package indicators

// mergeKey identifies one (iso_code, year) observation across sources
type mergeKey struct {
	ISOCode string
	Year    int
}

// Merge inner-joins the three harmonized tables on (iso_code, year):
// energy ⋈ gdp, then the result ⋈ co2. A key absent from any one source
// disappears from the output entirely; no partial rows are ever produced.
// Output preserves the energy table's row order.
func Merge(energy []EnergyRow, gdp []GDPRow, co2 []CO2Row) []CombinedRow {
	gdpByKey := make(map[mergeKey]GDPRow, len(gdp))
	for _, r := range gdp {
		gdpByKey[mergeKey{r.ISOCode, r.Year}] = r
	}

	co2ByKey := make(map[mergeKey]CO2Row, len(co2))
	for _, r := range co2 {
		co2ByKey[mergeKey{r.ISOCode, r.Year}] = r
	}

	out := make([]CombinedRow, 0, len(energy))
	for _, e := range energy {
		key := mergeKey{e.ISOCode, e.Year}

		g, ok := gdpByKey[key]
		if !ok {
			continue
		}
		c, ok := co2ByKey[key]
		if !ok {
			continue
		}

		out = append(out, CombinedRow{
			ISOCode:               e.ISOCode,
			Country:               e.Country,
			Year:                  e.Year,
			ElectricityGeneration: e.ElectricityGeneration,
			Biofuel:               e.Biofuel,
			Coal:                  e.Coal,
			Gas:                   e.Gas,
			Hydro:                 e.Hydro,
			Nuclear:               e.Nuclear,
			Oil:                   e.Oil,
			OtherRenewable:        e.OtherRenewable,
			Solar:                 e.Solar,
			Wind:                  e.Wind,
			GDPPerCapita:          g.GDPPerCapita,
			CO2PerCapita:          c.CO2PerCapita,
		})
	}
	return out
}
