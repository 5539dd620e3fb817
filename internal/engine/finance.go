package engine

import (
	"math"

	"github.com/agrifin/cropadvisor/internal/model"
)

// Risk tier labels, assigned by ROI thresholds. Strictly-greater-than
// comparisons: an ROI of exactly 200 is still Moderate, exactly 80 is
// still Stable.
const (
	RiskHighReward = "High Reward (High Market Volatility)"
	RiskModerate   = "Moderate"
	RiskStable     = "Stable"

	roiHighRewardThreshold = 200
	roiModerateThreshold   = 80
)

// Evaluate computes the financials for one candidate crop. Internal math
// runs at full precision; outputs are rounded to two decimals for
// presentation. A non-positive investment yields ROI 0 rather than a
// division fault.
func Evaluate(crop model.CropRecord, predictedYield, price, landArea float64) model.Recommendation {
	investment := crop.CostPerAcre * landArea
	revenue := predictedYield * landArea * price
	expectedProfit := revenue - investment

	roi := 0.0
	if investment > 0 {
		roi = (expectedProfit / investment) * 100
	}

	return model.Recommendation{
		Crop:           crop.Name,
		PredictedYield: round2(predictedYield),
		MarketPrice:    round2(price),
		Investment:     round2(investment),
		ExpectedProfit: round2(expectedProfit),
		ROIPercent:     round2(roi),
		RiskLevel:      classifyRisk(roi),
	}
}

func classifyRisk(roi float64) string {
	switch {
	case roi > roiHighRewardThreshold:
		return RiskHighReward
	case roi > roiModerateThreshold:
		return RiskModerate
	default:
		return RiskStable
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
