package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrifin/cropadvisor/internal/model"
)

func recsWithProfits(profits ...float64) []model.Recommendation {
	recs := make([]model.Recommendation, len(profits))
	for i, p := range profits {
		recs[i] = model.Recommendation{Crop: string(rune('A' + i)), ExpectedProfit: p}
	}
	return recs
}

func TestRankTopThreeByProfit(t *testing.T) {
	t.Parallel()

	got := Rank(recsWithProfits(50, 200, 75, 10))

	require.Len(t, got, 3)
	assert.InDelta(t, 200, got[0].ExpectedProfit, 0.001)
	assert.InDelta(t, 75, got[1].ExpectedProfit, 0.001)
	assert.InDelta(t, 50, got[2].ExpectedProfit, 0.001)
}

func TestRankFewerThanThree(t *testing.T) {
	t.Parallel()

	got := Rank(recsWithProfits(10, 30))
	require.Len(t, got, 2)
	assert.InDelta(t, 30, got[0].ExpectedProfit, 0.001)
}

func TestRankEmptyIsValid(t *testing.T) {
	t.Parallel()

	got := Rank(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRankStableOnTies(t *testing.T) {
	t.Parallel()

	recs := []model.Recommendation{
		{Crop: "First", ExpectedProfit: 100},
		{Crop: "Second", ExpectedProfit: 100},
		{Crop: "Third", ExpectedProfit: 100},
	}

	got := Rank(recs)
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Crop)
	assert.Equal(t, "Second", got[1].Crop)
	assert.Equal(t, "Third", got[2].Crop)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	recs := recsWithProfits(10, 50, 30)
	Rank(recs)
	assert.InDelta(t, 10, recs[0].ExpectedProfit, 0.001)
}
