package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePriceStats(t *testing.T) {
	plates := []PricedPlate{
		{Number: "7", Price: 1000000},
		{Number: "55", Price: 40000},
		{Number: "88", Price: 60000},
		{Number: "12345", Price: 8000},
	}

	stats := ComputePriceStats(plates)

	assert.Equal(t, 4, stats.TotalPlates)
	assert.Equal(t, 1108000, stats.TotalValue)
	assert.Equal(t, 277000, stats.AvgPrice)
	assert.Equal(t, 8000, stats.MinPrice)
	assert.Equal(t, 1000000, stats.MaxPrice)

	require.Len(t, stats.ByDigits, 3)
	one := stats.ByDigits["1"]
	assert.Equal(t, 1, one.Count)
	assert.Equal(t, 1000000, one.Avg)

	two := stats.ByDigits["2"]
	assert.Equal(t, 2, two.Count)
	assert.Equal(t, 50000, two.Avg)
	assert.Equal(t, 40000, two.Min)
	assert.Equal(t, 60000, two.Max)
}

func TestComputePriceStatsExcludesUnpricedPlates(t *testing.T) {
	plates := []PricedPlate{
		{Number: "7", Price: 0},
		{Number: "55", Price: -1},
		{Number: "88", Price: 500},
	}

	stats := ComputePriceStats(plates)

	assert.Equal(t, 3, stats.TotalPlates)
	assert.Equal(t, 500, stats.TotalValue)
	assert.Equal(t, 500, stats.MinPrice)
	require.Len(t, stats.ByDigits, 1)
	assert.Equal(t, 1, stats.ByDigits["2"].Count)
}

func TestComputePriceStatsEmpty(t *testing.T) {
	stats := ComputePriceStats(nil)

	assert.Equal(t, 0, stats.TotalPlates)
	assert.Equal(t, 0, stats.TotalValue)
	assert.Empty(t, stats.ByDigits)
}
