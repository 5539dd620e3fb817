// Package market aggregates raw mandi price observations into a per-commodity
// price index and resolves catalog crop names against it.
package market

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/agrifin/cropadvisor/internal/model"
)

// Mandi feeds report in rupees per quintal. Quotes outside this band are
// data-entry noise and are dropped before aggregation.
const (
	MinPlausiblePrice = 100
	MaxPlausiblePrice = 30000
)

// PriceIndex maps a normalized (lower-cased, trimmed) commodity name to
// one representative price. Built fresh for every request; read-only
// once built.
type PriceIndex map[string]float64

// BuildPriceIndex reduces raw quotes to one median price per commodity.
// Quotes with a missing commodity or price, an unparseable price, or a
// price outside the plausible band are discarded.
func BuildPriceIndex(quotes []model.PriceQuote) PriceIndex {
	grouped := make(map[string][]float64)
	dropped := 0

	for _, q := range quotes {
		if q.Commodity == "" || q.ModalPrice == "" {
			dropped++
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(q.ModalPrice), 64)
		if err != nil {
			dropped++
			continue
		}
		if price < MinPlausiblePrice || price > MaxPlausiblePrice {
			dropped++
			continue
		}

		name := strings.ToLower(strings.TrimSpace(q.Commodity))
		grouped[name] = append(grouped[name], price)
	}

	index := make(PriceIndex, len(grouped))
	for name, prices := range grouped {
		index[name] = median(prices)
	}

	if dropped > 0 {
		zap.L().Debug("market: discarded quotes during aggregation",
			zap.Int("dropped", dropped),
			zap.Int("kept_commodities", len(index)),
		)
	}

	return index
}

// median returns the middle value of prices, averaging the two middle
// values for even counts. The median is used over the mean for outlier
// robustness on sparse, noisy feeds.
func median(prices []float64) float64 {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
