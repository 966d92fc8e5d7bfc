package elections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCounties() []County {
	return []County{
		{Name: "County 1", State: "Texas", Margin2020: 20, Margin2024: 25, TotalVotes: 5000, Party: PartyRepublican},
		{Name: "County 2", State: "Ohio", Margin2020: 10, Margin2024: 8, TotalVotes: 60000, Party: PartyRepublican},
		{Name: "County 3", State: "Texas", Margin2020: -30, Margin2024: -28, TotalVotes: 200, Party: PartyDemocrat},
		{Name: "County 4", State: "Georgia", Margin2020: -15, Margin2024: -22, TotalVotes: 45000, Party: PartyDemocrat},
	}
}

func TestFilterIdentityWithPermissiveCriteria(t *testing.T) {
	counties := sampleCounties()

	out := Filter(counties, Criteria{State: StateAll, MinVotes: 0, Parties: AllParties()})
	assert.Equal(t, counties, out)
}

func TestFilterImpossibleThresholdYieldsEmpty(t *testing.T) {
	out := Filter(sampleCounties(), Criteria{State: StateAll, MinVotes: 1 << 30, Parties: AllParties()})
	assert.Empty(t, out)
}

func TestFilterByState(t *testing.T) {
	out := Filter(sampleCounties(), Criteria{State: "Texas", Parties: AllParties()})
	require.Len(t, out, 2)
	for _, c := range out {
		assert.Equal(t, "Texas", c.State)
	}
}

func TestFilterMinVotesInclusive(t *testing.T) {
	out := Filter(sampleCounties(), Criteria{State: StateAll, MinVotes: 45000, Parties: AllParties()})
	require.Len(t, out, 2)
	assert.Equal(t, "County 2", out[0].Name)
	assert.Equal(t, "County 4", out[1].Name)
}

func TestFilterPartyMembership(t *testing.T) {
	out := Filter(sampleCounties(), Criteria{State: StateAll, Parties: []string{PartyDemocrat}})
	require.Len(t, out, 2)
	for _, c := range out {
		assert.Equal(t, PartyDemocrat, c.Party)
	}
}

func TestFilterEmptyPartySetPassesNothing(t *testing.T) {
	out := Filter(sampleCounties(), Criteria{State: StateAll})
	assert.Empty(t, out)
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	counties := sampleCounties()
	_ = Filter(counties, Criteria{State: "Texas", Parties: []string{PartyRepublican}})
	assert.Equal(t, sampleCounties(), counties)
}

func TestStates(t *testing.T) {
	got := States(sampleCounties())
	assert.Equal(t, []string{"Georgia", "Ohio", "Texas"}, got)
}
