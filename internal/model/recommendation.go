package model

import "time"

// PriceQuote is one raw market observation from the mandi feed. Prices
// arrive as strings and may be empty or unparseable; the aggregator
// decides what survives. Quotes are consumed immediately and never
// persisted.
type PriceQuote struct {
	Commodity  string `json:"commodity"`
	ModalPrice string `json:"modal_price"`
}

// Recommendation is one ranked crop suggestion. Monetary and yield
// figures are rounded to two decimals at construction; every
// recommendation carries a resolved, positive market price.
type Recommendation struct {
	Crop           string  `json:"crop"`
	PredictedYield float64 `json:"predicted_yield"`
	MarketPrice    float64 `json:"market_price_per_quintal"`
	Investment     float64 `json:"investment"`
	ExpectedProfit float64 `json:"expected_profit"`
	ROIPercent     float64 `json:"roi_percent"`
	RiskLevel      string  `json:"risk_level"`
}

// RunStatus represents the state of a recommendation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a recorded recommendation request, kept for history and
// diagnosis of degraded responses.
type Run struct {
	ID         string          `json:"id"`
	Conditions FieldConditions `json:"conditions"`
	Status     RunStatus       `json:"status"`
	Result     *RunResult      `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// RunResult is the recorded outcome of a run.
type RunResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Candidates      int              `json:"candidates"`
	Degraded        bool             `json:"degraded"`
	DegradedReason  string           `json:"degraded_reason,omitempty"`
	Error           string           `json:"error,omitempty"`
}
