package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agrifin/cropadvisor/internal/catalog"
	"github.com/agrifin/cropadvisor/internal/market"
	"github.com/agrifin/cropadvisor/internal/model"
	"github.com/agrifin/cropadvisor/internal/predictor"
)

// PriceSource supplies raw market quotes. On transport failure it
// returns an error; the engine degrades to an empty price set instead of
// failing the request.
type PriceSource interface {
	FetchQuotes(ctx context.Context) ([]model.PriceQuote, error)
}

// Result is the outcome of one recommendation request. Degraded marks
// responses produced without market data, so "feed was down" stays
// distinguishable from "no viable crops".
type Result struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Candidates      int                    `json:"candidates"`
	Degraded        bool                   `json:"degraded"`
	DegradedReason  string                 `json:"degraded_reason,omitempty"`
}

// Engine is the request-scoped recommendation pipeline over shared
// read-only state. The catalog and rainfall table are never mutated
// after construction; the predictor must be safe for concurrent use.
type Engine struct {
	catalog   []model.CropRecord
	rainfall  *catalog.RainfallTable
	prices    PriceSource
	predictor predictor.Predictor
}

// New creates an Engine. All collaborators are required.
func New(crops []model.CropRecord, rainfall *catalog.RainfallTable, prices PriceSource, pred predictor.Predictor) *Engine {
	return &Engine{
		catalog:   crops,
		rainfall:  rainfall,
		prices:    prices,
		predictor: pred,
	}
}

// Recommend runs the pipeline for one validated request: one price
// fetch and index build shared across all crops, then filter, predict,
// evaluate, and rank. Per-candidate failures (unresolved price,
// predictor error) skip that crop and never abort the batch.
func (e *Engine) Recommend(ctx context.Context, conditions model.FieldConditions) (*Result, error) {
	if err := conditions.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Recommendations: []model.Recommendation{}}

	start := time.Now()
	quotes, err := e.prices.FetchQuotes(ctx)
	if err != nil {
		// Price feed down: degrade to an empty index rather than fail.
		zap.L().Warn("engine: price fetch failed, degrading",
			zap.String("district", conditions.District),
			zap.Error(err),
		)
		quotes = nil
		result.Degraded = true
		result.DegradedReason = "market price feed unavailable"
	}
	index := market.BuildPriceIndex(quotes)

	candidates := FilterCatalog(e.catalog, conditions.Season, conditions.Soil)
	result.Candidates = len(candidates)

	districtMean := e.rainfall.Mean(conditions.District)

	var recs []model.Recommendation
	for _, crop := range candidates {
		features := predictor.BuildFeatures(conditions, crop, districtMean)

		yield, err := e.predictor.Predict(ctx, features)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			zap.L().Warn("engine: predictor failed, skipping crop",
				zap.String("crop", crop.Name),
				zap.Error(err),
			)
			continue
		}

		price, ok := market.ResolvePrice(crop.Name, index)
		if !ok {
			zap.L().Debug("engine: no resolvable price, skipping crop",
				zap.String("crop", crop.Name),
			)
			continue
		}

		recs = append(recs, Evaluate(crop, yield, price, conditions.LandArea))
	}

	result.Recommendations = Rank(recs)

	zap.L().Info("engine: recommendation complete",
		zap.String("district", conditions.District),
		zap.String("season", conditions.Season),
		zap.String("soil", conditions.Soil),
		zap.Int("candidates", result.Candidates),
		zap.Int("recommended", len(result.Recommendations)),
		zap.Bool("degraded", result.Degraded),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return result, nil
}
