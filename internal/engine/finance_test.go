package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agrifin/cropadvisor/internal/model"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	crop := model.CropRecord{Name: "Ragi", CostPerAcre: 10000}

	rec := Evaluate(crop, 5, 2000, 2)

	assert.Equal(t, "Ragi", rec.Crop)
	assert.InDelta(t, 5, rec.PredictedYield, 0.001)
	assert.InDelta(t, 2000, rec.MarketPrice, 0.001)
	assert.InDelta(t, 20000, rec.Investment, 0.001)
	assert.InDelta(t, 0, rec.ExpectedProfit, 0.001) // revenue 5*2*2000 = investment
	assert.InDelta(t, 0, rec.ROIPercent, 0.001)
	assert.Equal(t, RiskStable, rec.RiskLevel)
}

func TestEvaluateZeroInvestment(t *testing.T) {
	t.Parallel()

	rec := Evaluate(model.CropRecord{Name: "Weeds", CostPerAcre: 0}, 5, 2000, 2)

	assert.InDelta(t, 0, rec.Investment, 0.001)
	assert.InDelta(t, 0, rec.ROIPercent, 0.001)
	assert.Equal(t, RiskStable, rec.RiskLevel)
}

func TestEvaluateRounding(t *testing.T) {
	t.Parallel()

	// investment = 10333.333, revenue = 3.333*1.5*1234.56 = 6172.16...
	rec := Evaluate(model.CropRecord{Name: "Onion", CostPerAcre: 6888.889}, 3.333, 1234.56, 1.5)

	assert.InDelta(t, 10333.33, rec.Investment, 0.005)
	assert.InDelta(t, 3.33, rec.PredictedYield, 0.005)
	assert.InDelta(t, 1234.56, rec.MarketPrice, 0.005)
}

func TestClassifyRiskBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		roi  float64
		want string
	}{
		{200.01, RiskHighReward},
		{200.0, RiskModerate}, // strictly greater-than
		{80.01, RiskModerate},
		{80.0, RiskStable}, // strictly greater-than
		{0, RiskStable},
		{-50, RiskStable},
		{1000, RiskHighReward},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyRisk(tt.roi), "roi=%v", tt.roi)
	}
}

func TestEvaluateRiskFromComputedROI(t *testing.T) {
	t.Parallel()

	// investment 10000, revenue 1*1*30100 -> profit 20100 -> roi 201%.
	rec := Evaluate(model.CropRecord{Name: "Turmeric", CostPerAcre: 10000}, 1, 30100, 1)
	assert.Equal(t, RiskHighReward, rec.RiskLevel)

	// investment 10000, revenue 19000 -> roi 90%.
	rec = Evaluate(model.CropRecord{Name: "Maize", CostPerAcre: 10000}, 1, 19000, 1)
	assert.Equal(t, RiskModerate, rec.RiskLevel)
}
