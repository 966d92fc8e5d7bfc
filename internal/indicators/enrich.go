package indicators

import "strings"

// Enrich annotates each combined row with a coarse continent grouping
// derived from the country name. Classification is best-effort: unmatched
// names get an empty continent and the row is kept.
func Enrich(rows []CombinedRow) []CombinedRow {
	out := make([]CombinedRow, len(rows))
	for i, r := range rows {
		r.Continent = Continent(r.Country)
		out[i] = r
	}
	return out
}

// Continent classifies a country name into a continent, returning "" for
// names it does not recognize.
func Continent(country string) string {
	return continentByName[normalizeCountry(country)]
}

// normalizeCountry lowercases and collapses whitespace so the lookup
// tolerates minor naming drift between sources.
func normalizeCountry(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

const (
	continentAfrica       = "Africa"
	continentAsia         = "Asia"
	continentEurope       = "Europe"
	continentNorthAmerica = "North America"
	continentOceania      = "Oceania"
	continentSouthAmerica = "South America"
	continentAntarctica   = "Antarctica"
)

// continentByName maps normalized country names to continents. The names
// follow the OWID entity spelling, with a handful of common aliases.
var continentByName = map[string]string{
	// Africa
	"algeria": continentAfrica, "angola": continentAfrica, "benin": continentAfrica,
	"botswana": continentAfrica, "burkina faso": continentAfrica, "burundi": continentAfrica,
	"cameroon": continentAfrica, "cape verde": continentAfrica, "central african republic": continentAfrica,
	"chad": continentAfrica, "comoros": continentAfrica, "congo": continentAfrica,
	"democratic republic of congo": continentAfrica, "cote d'ivoire": continentAfrica,
	"djibouti": continentAfrica, "egypt": continentAfrica, "equatorial guinea": continentAfrica,
	"eritrea": continentAfrica, "eswatini": continentAfrica, "ethiopia": continentAfrica,
	"gabon": continentAfrica, "gambia": continentAfrica, "ghana": continentAfrica,
	"guinea": continentAfrica, "guinea-bissau": continentAfrica, "kenya": continentAfrica,
	"lesotho": continentAfrica, "liberia": continentAfrica, "libya": continentAfrica,
	"madagascar": continentAfrica, "malawi": continentAfrica, "mali": continentAfrica,
	"mauritania": continentAfrica, "mauritius": continentAfrica, "morocco": continentAfrica,
	"mozambique": continentAfrica, "namibia": continentAfrica, "niger": continentAfrica,
	"nigeria": continentAfrica, "rwanda": continentAfrica, "sao tome and principe": continentAfrica,
	"senegal": continentAfrica, "seychelles": continentAfrica, "sierra leone": continentAfrica,
	"somalia": continentAfrica, "south africa": continentAfrica, "south sudan": continentAfrica,
	"sudan": continentAfrica, "tanzania": continentAfrica, "togo": continentAfrica,
	"tunisia": continentAfrica, "uganda": continentAfrica, "zambia": continentAfrica,
	"zimbabwe": continentAfrica,

	// Asia
	"afghanistan": continentAsia, "armenia": continentAsia, "azerbaijan": continentAsia,
	"bahrain": continentAsia, "bangladesh": continentAsia, "bhutan": continentAsia,
	"brunei": continentAsia, "cambodia": continentAsia, "china": continentAsia,
	"georgia": continentAsia, "hong kong": continentAsia, "india": continentAsia,
	"indonesia": continentAsia, "iran": continentAsia, "iraq": continentAsia,
	"israel": continentAsia, "japan": continentAsia, "jordan": continentAsia,
	"kazakhstan": continentAsia, "kuwait": continentAsia, "kyrgyzstan": continentAsia,
	"laos": continentAsia, "lebanon": continentAsia, "macao": continentAsia,
	"malaysia": continentAsia, "maldives": continentAsia, "mongolia": continentAsia,
	"myanmar": continentAsia, "nepal": continentAsia, "north korea": continentAsia,
	"oman": continentAsia, "pakistan": continentAsia, "palestine": continentAsia,
	"philippines": continentAsia, "qatar": continentAsia, "saudi arabia": continentAsia,
	"singapore": continentAsia, "south korea": continentAsia, "sri lanka": continentAsia,
	"syria": continentAsia, "taiwan": continentAsia, "tajikistan": continentAsia,
	"thailand": continentAsia, "timor": continentAsia, "east timor": continentAsia,
	"turkey": continentAsia, "turkmenistan": continentAsia, "united arab emirates": continentAsia,
	"uzbekistan": continentAsia, "vietnam": continentAsia, "yemen": continentAsia,

	// Europe
	"albania": continentEurope, "andorra": continentEurope, "austria": continentEurope,
	"belarus": continentEurope, "belgium": continentEurope, "bosnia and herzegovina": continentEurope,
	"bulgaria": continentEurope, "croatia": continentEurope, "cyprus": continentEurope,
	"czechia": continentEurope, "czech republic": continentEurope, "denmark": continentEurope,
	"estonia": continentEurope, "faroe islands": continentEurope, "finland": continentEurope,
	"france": continentEurope, "germany": continentEurope, "gibraltar": continentEurope,
	"greece": continentEurope, "hungary": continentEurope, "iceland": continentEurope,
	"ireland": continentEurope, "italy": continentEurope, "kosovo": continentEurope,
	"latvia": continentEurope, "liechtenstein": continentEurope, "lithuania": continentEurope,
	"luxembourg": continentEurope, "malta": continentEurope, "moldova": continentEurope,
	"monaco": continentEurope, "montenegro": continentEurope, "netherlands": continentEurope,
	"north macedonia": continentEurope, "norway": continentEurope, "poland": continentEurope,
	"portugal": continentEurope, "romania": continentEurope, "russia": continentEurope,
	"san marino": continentEurope, "serbia": continentEurope, "slovakia": continentEurope,
	"slovenia": continentEurope, "spain": continentEurope, "sweden": continentEurope,
	"switzerland": continentEurope, "ukraine": continentEurope, "united kingdom": continentEurope,

	// North America
	"antigua and barbuda": continentNorthAmerica, "bahamas": continentNorthAmerica,
	"barbados": continentNorthAmerica, "belize": continentNorthAmerica,
	"bermuda": continentNorthAmerica, "canada": continentNorthAmerica,
	"costa rica": continentNorthAmerica, "cuba": continentNorthAmerica,
	"dominica": continentNorthAmerica, "dominican republic": continentNorthAmerica,
	"el salvador": continentNorthAmerica, "greenland": continentNorthAmerica,
	"grenada": continentNorthAmerica, "guatemala": continentNorthAmerica,
	"haiti": continentNorthAmerica, "honduras": continentNorthAmerica,
	"jamaica": continentNorthAmerica, "mexico": continentNorthAmerica,
	"nicaragua": continentNorthAmerica, "panama": continentNorthAmerica,
	"puerto rico": continentNorthAmerica, "saint kitts and nevis": continentNorthAmerica,
	"saint lucia": continentNorthAmerica, "saint vincent and the grenadines": continentNorthAmerica,
	"trinidad and tobago": continentNorthAmerica, "united states": continentNorthAmerica,
	"united states of america": continentNorthAmerica,

	// Oceania
	"australia": continentOceania, "fiji": continentOceania, "kiribati": continentOceania,
	"marshall islands": continentOceania, "micronesia": continentOceania,
	"nauru": continentOceania, "new caledonia": continentOceania,
	"new zealand": continentOceania, "palau": continentOceania,
	"papua new guinea": continentOceania, "samoa": continentOceania,
	"solomon islands": continentOceania, "tonga": continentOceania,
	"tuvalu": continentOceania, "vanuatu": continentOceania,

	// South America
	"argentina": continentSouthAmerica, "bolivia": continentSouthAmerica,
	"brazil": continentSouthAmerica, "chile": continentSouthAmerica,
	"colombia": continentSouthAmerica, "ecuador": continentSouthAmerica,
	"guyana": continentSouthAmerica, "paraguay": continentSouthAmerica,
	"peru": continentSouthAmerica, "suriname": continentSouthAmerica,
	"uruguay": continentSouthAmerica, "venezuela": continentSouthAmerica,

	"antarctica": continentAntarctica,
}
