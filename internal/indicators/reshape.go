package indicators

// ToLong melts the nine generation-source columns of the combined table
// into one row per (iso_code, year, source), carrying the identifying
// columns along. Rows whose underlying value is null are dropped, never
// zero-filled.
func ToLong(rows []CombinedRow) []MixRow {
	out := make([]MixRow, 0, len(rows)*len(MixSources))
	for _, r := range rows {
		for _, source := range MixSources {
			v := r.source(source)
			if v == nil {
				continue
			}
			out = append(out, MixRow{
				ISOCode:   r.ISOCode,
				Country:   r.Country,
				Year:      r.Year,
				Continent: r.Continent,
				Source:    source,
				Value:     *v,
			})
		}
	}
	return out
}

// Shares normalizes long-format values to per-group shares: each value is
// divided by the sum over its (iso_code, year) group. Groups whose sum is
// zero get nil shares, propagated rather than defaulted to zero. The input
// slice is not mutated.
func Shares(long []MixRow) []MixRow {
	sums := make(map[mergeKey]float64, len(long))
	for _, r := range long {
		sums[mergeKey{r.ISOCode, r.Year}] += r.Value
	}

	out := make([]MixRow, len(long))
	for i, r := range long {
		if sum := sums[mergeKey{r.ISOCode, r.Year}]; sum != 0 {
			r.Share = fptr(r.Value / sum)
		}
		out[i] = r
	}
	return out
}
