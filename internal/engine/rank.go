package engine

import (
	"sort"

	"github.com/agrifin/cropadvisor/internal/model"
)

// TopN is how many recommendations a request returns at most.
const TopN = 3

// Rank orders recommendations by expected profit, descending, and
// truncates to TopN. The sort is stable, so ties keep their evaluation
// order. An empty result is a valid outcome, not an error.
func Rank(recs []model.Recommendation) []model.Recommendation {
	ranked := make([]model.Recommendation, len(recs))
	copy(ranked, recs)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ExpectedProfit > ranked[j].ExpectedProfit
	})

	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}
