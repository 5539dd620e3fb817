package model

import "github.com/rotisserie/eris"

// FieldConditions describes one farmer's stated field for a single
// recommendation request.
//
// Capital is accepted on the wire for forward compatibility (future
// affordability filtering) but is not used by the ranking logic.
type FieldConditions struct {
	District   string  `json:"district"`
	Season     string  `json:"season"`
	Soil       string  `json:"soil"`
	Irrigation string  `json:"irrigation"`
	RainfallMM float64 `json:"rainfall"`
	LandArea   float64 `json:"land_area"`
	Capital    float64 `json:"profit"`
}

// Validate checks that the request carries every field the engine needs.
// A non-nil error is a client-input error: the engine must not proceed
// with partial data.
func (fc FieldConditions) Validate() error {
	switch {
	case fc.District == "":
		return eris.New("conditions: district is required")
	case fc.Season == "":
		return eris.New("conditions: season is required")
	case fc.Soil == "":
		return eris.New("conditions: soil is required")
	case fc.Irrigation == "":
		return eris.New("conditions: irrigation is required")
	case fc.RainfallMM < 0:
		return eris.New("conditions: rainfall must not be negative")
	case fc.LandArea <= 0:
		return eris.New("conditions: land_area must be positive")
	case fc.Capital < 0:
		return eris.New("conditions: profit (available capital) must not be negative")
	}
	return nil
}
