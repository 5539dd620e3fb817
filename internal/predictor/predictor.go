// Package predictor defines the opaque yield model contract and the
// feature assembly for one crop/condition pair.
package predictor

import (
	"context"
	"strings"

	"github.com/agrifin/cropadvisor/internal/model"
)

// Features is the 11-dimensional input record the yield model was
// trained on. Field names match the training columns.
type Features struct {
	DistrictMeanRainfall float64 `json:"district_mean_rainfall"`
	RainfallMM           float64 `json:"rainfall_mm"`
	CropID               int     `json:"crop_id"`
	SoilBlack            int     `json:"soil_black"`
	SoilRed              int     `json:"soil_red"`
	SoilAlluvial         int     `json:"soil_alluvial"`
	IrrigationRainfed    int     `json:"irrigation_rainfed"`
	IrrigationBorewell   int     `json:"irrigation_borewell"`
	IrrigationCanal      int     `json:"irrigation_canal"`
	SeasonKharif         int     `json:"season_kharif"`
	SeasonRabi           int     `json:"season_rabi"`
}

// Predictor is the yield model seen as an opaque function. The model is
// an external collaborator; implementations must be safe for concurrent
// use if the engine serves concurrent requests.
type Predictor interface {
	Predict(ctx context.Context, features Features) (float64, error)
}

// Func adapts a plain function to the Predictor interface.
type Func func(ctx context.Context, features Features) (float64, error)

// Predict calls f.
func (f Func) Predict(ctx context.Context, features Features) (float64, error) {
	return f(ctx, features)
}

// BuildFeatures assembles the model input for one candidate crop.
// One-hot flags are derived from the lower-cased request strings; an
// unrecognized irrigation method legitimately yields an all-zero axis,
// and upstream filtering already constrains season and soil.
func BuildFeatures(conditions model.FieldConditions, crop model.CropRecord, districtMeanRainfall float64) Features {
	soil := strings.ToLower(conditions.Soil)
	irrigation := strings.ToLower(conditions.Irrigation)
	season := strings.ToLower(conditions.Season)

	return Features{
		DistrictMeanRainfall: districtMeanRainfall,
		RainfallMM:           conditions.RainfallMM,
		CropID:               crop.ID,
		SoilBlack:            oneHot(soil == "black"),
		SoilRed:              oneHot(soil == "red"),
		SoilAlluvial:         oneHot(soil == "alluvial"),
		IrrigationRainfed:    oneHot(irrigation == "rainfed"),
		IrrigationBorewell:   oneHot(irrigation == "borewell"),
		IrrigationCanal:      oneHot(irrigation == "canal"),
		SeasonKharif:         oneHot(season == "kharif"),
		SeasonRabi:           oneHot(season == "rabi"),
	}
}

func oneHot(b bool) int {
	if b {
		return 1
	}
	return 0
}
