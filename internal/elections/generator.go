package elections

import (
	"fmt"
	"math"
	"math/rand"
)

// Party labels for the two county categories
const (
	PartyRepublican = "Republican"
	PartyDemocrat   = "Democrat"
)

// County is one synthetic county record. Republican counties carry
// strictly positive margins in both periods, Democrat counties strictly
// negative; the generator's clip ranges make a sign flip impossible by
// construction.
type County struct {
	Name       string  `json:"county"`
	State      string  `json:"state"`
	Margin2020 float64 `json:"margin_2020"`
	Margin2024 float64 `json:"margin_2024"`
	TotalVotes int     `json:"total_votes"`
	Party      string  `json:"party"`
}

// Generator produces the synthetic dataset. Output is fully determined by
// the seed passed to Generate: two calls with the same seed yield
// identical slices.
type Generator struct {
	states           []string
	countiesPerParty int
}

// NewGenerator creates a generator drawing states from the given list
func NewGenerator(states []string, countiesPerParty int) *Generator {
	return &Generator{states: states, countiesPerParty: countiesPerParty}
}

// Generate builds the dataset for the given seed: one batch of Republican
// counties with margins clipped into [1, 95] and a symmetric batch of
// Democrat counties clipped into [-95, -1].
func (g *Generator) Generate(seed int64) []County {
	r := rand.New(rand.NewSource(seed))
	counties := make([]County, 0, 2*g.countiesPerParty)

	for i := 0; i < g.countiesPerParty; i++ {
		counties = append(counties, g.county(r, i+1, false))
	}
	for i := 0; i < g.countiesPerParty; i++ {
		counties = append(counties, g.county(r, g.countiesPerParty+i+1, true))
	}
	return counties
}

// county draws one record. Base margin is uniform in [5, 85] (negated for
// Democrat counties) with independent gaussian noise per period: σ=3 for
// 2020, σ=4 for 2024.
func (g *Generator) county(r *rand.Rand, n int, democrat bool) County {
	state := g.states[r.Intn(len(g.states))]

	base := 5 + r.Float64()*80
	if democrat {
		base = -base
	}
	m2020 := base + r.NormFloat64()*3
	m2024 := base + r.NormFloat64()*4

	if democrat {
		m2020 = clip(m2020, -95, -1)
		m2024 = clip(m2024, -95, -1)
	} else {
		m2020 = clip(m2020, 1, 95)
		m2024 = clip(m2024, 1, 95)
	}

	party := PartyRepublican
	if democrat {
		party = PartyDemocrat
	}

	return County{
		Name:       fmt.Sprintf("County %d", n),
		State:      state,
		Margin2020: round1(m2020),
		Margin2024: round1(m2024),
		TotalVotes: 100 + r.Intn(79900),
		Party:      party,
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
