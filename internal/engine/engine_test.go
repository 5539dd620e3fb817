package engine

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrifin/cropadvisor/internal/catalog"
	"github.com/agrifin/cropadvisor/internal/model"
	"github.com/agrifin/cropadvisor/internal/predictor"
)

// quoteSource is a stub PriceSource backed by a fixed quote set.
type quoteSource struct {
	quotes []model.PriceQuote
	err    error
}

func (s quoteSource) FetchQuotes(context.Context) ([]model.PriceQuote, error) {
	return s.quotes, s.err
}

func fixedYield(y float64) predictor.Predictor {
	return predictor.Func(func(context.Context, predictor.Features) (float64, error) {
		return y, nil
	})
}

func validConditions() model.FieldConditions {
	return model.FieldConditions{
		District:   "Mandya",
		Season:     "Kharif",
		Soil:       "Red",
		Irrigation: "Borewell",
		RainfallMM: 800,
		LandArea:   2,
	}
}

func TestRecommendEndToEnd(t *testing.T) {
	t.Parallel()

	crops := []model.CropRecord{
		{ID: 1, Name: "Ragi", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
	}
	source := quoteSource{quotes: []model.PriceQuote{
		{Commodity: "Ragi (Finger Millet)", ModalPrice: "2000"},
	}}

	eng := New(crops, catalog.DefaultRainfallTable(), source, fixedYield(5))
	result, err := eng.Recommend(context.Background(), validConditions())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.False(t, result.Degraded)
	assert.Equal(t, 1, result.Candidates)

	rec := result.Recommendations[0]
	assert.Equal(t, "Ragi", rec.Crop)
	assert.InDelta(t, 5, rec.PredictedYield, 0.001)
	assert.InDelta(t, 2000, rec.MarketPrice, 0.001)
	assert.InDelta(t, 20000, rec.Investment, 0.001)
	assert.InDelta(t, 0, rec.ExpectedProfit, 0.001)
	assert.InDelta(t, 0, rec.ROIPercent, 0.001)
	assert.Equal(t, RiskStable, rec.RiskLevel)
}

func TestRecommendValidatesInput(t *testing.T) {
	t.Parallel()

	eng := New(nil, catalog.DefaultRainfallTable(), quoteSource{}, fixedYield(1))

	bad := validConditions()
	bad.Season = ""
	_, err := eng.Recommend(context.Background(), bad)
	assert.Error(t, err)
}

func TestRecommendDegradesOnPriceFeedFailure(t *testing.T) {
	t.Parallel()

	crops := []model.CropRecord{
		{ID: 1, Name: "Ragi", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
	}
	source := quoteSource{err: eris.New("feed unreachable")}

	eng := New(crops, catalog.DefaultRainfallTable(), source, fixedYield(5))
	result, err := eng.Recommend(context.Background(), validConditions())

	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.DegradedReason)
	assert.Empty(t, result.Recommendations)
}

func TestRecommendSkipsUnresolvedPrices(t *testing.T) {
	t.Parallel()

	crops := []model.CropRecord{
		{ID: 1, Name: "Ragi", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
		{ID: 2, Name: "Onion", CostPerAcre: 15000, SeasonKharif: true, SoilRed: true},
	}
	// Only onion has a market quote.
	source := quoteSource{quotes: []model.PriceQuote{
		{Commodity: "Onion", ModalPrice: "1800"},
	}}

	eng := New(crops, catalog.DefaultRainfallTable(), source, fixedYield(5))
	result, err := eng.Recommend(context.Background(), validConditions())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Onion", result.Recommendations[0].Crop)
	assert.Equal(t, 2, result.Candidates)
}

func TestRecommendSkipsPredictorFailures(t *testing.T) {
	t.Parallel()

	crops := []model.CropRecord{
		{ID: 1, Name: "Ragi", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
		{ID: 2, Name: "Onion", CostPerAcre: 15000, SeasonKharif: true, SoilRed: true},
	}
	source := quoteSource{quotes: []model.PriceQuote{
		{Commodity: "Ragi", ModalPrice: "2800"},
		{Commodity: "Onion", ModalPrice: "1800"},
	}}

	flaky := predictor.Func(func(_ context.Context, f predictor.Features) (float64, error) {
		if f.CropID == 1 {
			return 0, eris.New("model exploded")
		}
		return 4, nil
	})

	eng := New(crops, catalog.DefaultRainfallTable(), source, flaky)
	result, err := eng.Recommend(context.Background(), validConditions())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "Onion", result.Recommendations[0].Crop)
}

func TestRecommendEmptyFeedYieldsEmptyResult(t *testing.T) {
	t.Parallel()

	crops := []model.CropRecord{
		{ID: 1, Name: "Ragi", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
	}

	eng := New(crops, catalog.DefaultRainfallTable(), quoteSource{}, fixedYield(5))
	result, err := eng.Recommend(context.Background(), validConditions())

	require.NoError(t, err)
	assert.False(t, result.Degraded) // feed answered, it was just empty
	assert.Empty(t, result.Recommendations)
}

func TestRecommendFilterClosure(t *testing.T) {
	t.Parallel()

	// Soil matches but the crop is not a kharif crop; it must never
	// appear regardless of prices or predictions.
	crops := []model.CropRecord{
		{ID: 1, Name: "Wheat", CostPerAcre: 10000, SeasonRabi: true, SoilRed: true},
	}
	source := quoteSource{quotes: []model.PriceQuote{
		{Commodity: "Wheat", ModalPrice: "2200"},
	}}

	eng := New(crops, catalog.DefaultRainfallTable(), source, fixedYield(10))
	result, err := eng.Recommend(context.Background(), validConditions())

	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Zero(t, result.Candidates)
}

func TestRecommendRanksAcrossCandidates(t *testing.T) {
	t.Parallel()

	crops := []model.CropRecord{
		{ID: 1, Name: "Ragi", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
		{ID: 2, Name: "Onion", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
		{ID: 3, Name: "Maize", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
		{ID: 4, Name: "Cotton", CostPerAcre: 10000, SeasonKharif: true, SoilRed: true},
	}
	source := quoteSource{quotes: []model.PriceQuote{
		{Commodity: "Ragi", ModalPrice: "1000"},
		{Commodity: "Onion", ModalPrice: "4000"},
		{Commodity: "Maize", ModalPrice: "2000"},
		{Commodity: "Cotton", ModalPrice: "3000"},
	}}

	eng := New(crops, catalog.DefaultRainfallTable(), source, fixedYield(2))
	result, err := eng.Recommend(context.Background(), validConditions())

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, "Onion", result.Recommendations[0].Crop)
	assert.Equal(t, "Cotton", result.Recommendations[1].Crop)
	assert.Equal(t, "Maize", result.Recommendations[2].Crop)
}
