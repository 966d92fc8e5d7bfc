package elections

import "sort"

// StateAll is the wildcard state selection
const StateAll = "All"

// Criteria is the conjunctive predicate set applied by Filter. All
// predicates must hold for a county to pass.
type Criteria struct {
	// State matches exactly; "" or "All" matches every state
	State string
	// MinVotes is an inclusive lower bound on total votes
	MinVotes int
	// Parties is the allowed party set; a county passes only if its party
	// is present. An empty set passes nothing.
	Parties []string
}

// AllParties returns the full party set
func AllParties() []string {
	return []string{PartyRepublican, PartyDemocrat}
}

// matches reports whether the county passes every predicate
func (c Criteria) matches(county County) bool {
	if c.State != "" && c.State != StateAll && county.State != c.State {
		return false
	}
	if county.TotalVotes < c.MinVotes {
		return false
	}
	for _, p := range c.Parties {
		if county.Party == p {
			return true
		}
	}
	return false
}

// Filter returns the counties passing all criteria, in input order. The
// source slice is never mutated; an empty result is valid.
func Filter(counties []County, c Criteria) []County {
	out := make([]County, 0, len(counties))
	for _, county := range counties {
		if c.matches(county) {
			out = append(out, county)
		}
	}
	return out
}

// States returns the sorted distinct states present in the dataset
func States(counties []County) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range counties {
		if _, ok := seen[c.State]; ok {
			continue
		}
		seen[c.State] = struct{}{}
		out = append(out, c.State)
	}
	sort.Strings(out)
	return out
}
