package market

import (
	"sort"
	"strings"
)

// ResolvePrice finds the market price for a catalog crop name by
// containment matching against the index's commodity names: the crop
// name must appear inside the commodity name, so "ragi" resolves against
// "ragi (finger millet)".
//
// Commodity names are scanned in ascending lexicographic order and the
// first match wins, which makes resolution deterministic when several
// commodities could match.
//
// Chilli disambiguation: a chilli query that does not itself say "dry"
// must never resolve against a dry-chilli commodity, since dry and green
// chilli trade at very different prices.
//
// The second return value is false when no commodity matches.
func ResolvePrice(cropName string, index PriceIndex) (float64, bool) {
	crop := strings.ToLower(strings.TrimSpace(cropName))
	if crop == "" || len(index) == 0 {
		return 0, false
	}

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	wantsGreenChilli := strings.Contains(crop, "chilli") && !strings.Contains(crop, "dry")

	for _, commodity := range keys {
		if wantsGreenChilli && strings.Contains(commodity, "dry") {
			continue
		}
		if strings.Contains(commodity, crop) {
			return index[commodity], true
		}
	}

	return 0, false
}
