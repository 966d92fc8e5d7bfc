package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinentClassification(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"United Kingdom", "Europe"},
		{"united kingdom", "Europe"},
		{"  France ", "Europe"},
		{"China", "Asia"},
		{"Brazil", "South America"},
		{"United States", "North America"},
		{"Australia", "Oceania"},
		{"Nigeria", "Africa"},
		{"Atlantis", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Continent(tt.country), tt.country)
	}
}

func TestEnrichKeepsUnmatchedRows(t *testing.T) {
	rows := []CombinedRow{
		{ISOCode: "GBR", Country: "United Kingdom", Year: 2000},
		{ISOCode: "ZZZ", Country: "Atlantis", Year: 2000},
	}

	out := Enrich(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "Europe", out[0].Continent)
	assert.Empty(t, out[1].Continent)
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	rows := []CombinedRow{{ISOCode: "GBR", Country: "United Kingdom", Year: 2000}}
	_ = Enrich(rows)
	assert.Empty(t, rows[0].Continent)
}
