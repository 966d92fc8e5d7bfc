package elections

import "sort"

// Direction selects which end of the margin-change distribution TopShift
// returns.
type Direction string

const (
	// MostRepublican selects the largest positive change in margin
	MostRepublican Direction = "republican"
	// MostDemocrat selects the largest negative change in margin
	MostDemocrat Direction = "democrat"
)

// ParseDirection validates a direction string
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case MostRepublican, MostDemocrat:
		return Direction(s), true
	}
	return "", false
}

// Shift is a county annotated with its change in margin between periods
type Shift struct {
	County
	Change float64 `json:"change"`
}

// TopShift returns the n counties with the most extreme margin change in
// the given direction, ordered most extreme first. Ties are broken by
// input order (first seen wins). n larger than the input returns
// everything available.
func TopShift(counties []County, n int, dir Direction) []Shift {
	shifts := make([]Shift, len(counties))
	for i, c := range counties {
		shifts[i] = Shift{County: c, Change: c.Margin2024 - c.Margin2020}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if dir == MostDemocrat {
			return shifts[i].Change < shifts[j].Change
		}
		return shifts[i].Change > shifts[j].Change
	})

	if n > len(shifts) {
		n = len(shifts)
	}
	if n < 0 {
		n = 0
	}
	return shifts[:n]
}

// Summary holds the county counts shown on the dashboard's stat row
type Summary struct {
	Total      int `json:"total"`
	Republican int `json:"republican"`
	Democrat   int `json:"democrat"`
}

// Stats counts counties by party
func Stats(counties []County) Summary {
	s := Summary{Total: len(counties)}
	for _, c := range counties {
		switch c.Party {
		case PartyRepublican:
			s.Republican++
		case PartyDemocrat:
			s.Democrat++
		}
	}
	return s
}
