// Package model holds the shared domain types for the crop advisor.
package model

// CropRecord is one catalog entry: a crop the advisor may recommend,
// with its per-acre cultivation cost and agronomic compatibility flags.
// Loaded once at startup and shared read-only across requests.
type CropRecord struct {
	ID           int     `json:"crop_id"`
	Name         string  `json:"crop_name"`
	CostPerAcre  float64 `json:"total_cost_per_acre"`
	SeasonKharif bool    `json:"season_kharif"`
	SeasonRabi   bool    `json:"season_rabi"`
	SoilBlack    bool    `json:"soil_black"`
	SoilRed      bool    `json:"soil_red"`
	SoilAlluvial bool    `json:"soil_alluvial"`
}

// GrowsIn reports whether the crop is flagged compatible with the given
// season. Unknown season names match nothing.
func (c CropRecord) GrowsIn(season string) bool {
	switch season {
	case "kharif":
		return c.SeasonKharif
	case "rabi":
		return c.SeasonRabi
	default:
		return false
	}
}

// ToleratesSoil reports whether the crop is flagged compatible with the
// given soil type. Unknown soil names match nothing.
func (c CropRecord) ToleratesSoil(soil string) bool {
	switch soil {
	case "black":
		return c.SoilBlack
	case "red":
		return c.SoilRed
	case "alluvial":
		return c.SoilAlluvial
	default:
		return false
	}
}
