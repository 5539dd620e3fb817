// Package engine runs the recommendation pipeline: agronomic filtering,
// per-crop yield prediction and financial evaluation, and ranking, over
// a single price index built per request.
package engine

import (
	"strings"

	"github.com/agrifin/cropadvisor/internal/model"
)

// FilterCatalog narrows the catalog to crops flagged compatible with
// both the requested season and soil. Matching is case-insensitive and
// fails closed: an unrecognized season or soil matches no flag, so every
// crop is excluded.
func FilterCatalog(catalog []model.CropRecord, season, soil string) []model.CropRecord {
	season = strings.ToLower(strings.TrimSpace(season))
	soil = strings.ToLower(strings.TrimSpace(soil))

	var kept []model.CropRecord
	for _, crop := range catalog {
		if crop.GrowsIn(season) && crop.ToleratesSoil(soil) {
			kept = append(kept, crop)
		}
	}
	return kept
}
