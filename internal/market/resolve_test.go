package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePrice(t *testing.T) {
	t.Parallel()

	index := PriceIndex{
		"dry chilli":           9500,
		"green chilli":         3200,
		"ragi (finger millet)": 2900,
		"onion":                1800,
	}

	tests := []struct {
		name      string
		crop      string
		wantPrice float64
		wantOK    bool
	}{
		{"exact match", "Onion", 1800, true},
		{"containment match", "ragi", 2900, true},
		{"chilli query skips dry and resolves green", "chilli", 3200, true},
		{"explicit green chilli", "green chilli", 3200, true},
		{"dry chilli query may match dry commodity", "dry chilli", 9500, true},
		{"no match", "sugarcane", 0, false},
		{"empty crop name", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			price, ok := ResolvePrice(tt.crop, index)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.wantPrice, price, 0.001)
		})
	}
}

func TestResolvePriceDryOnlyIndex(t *testing.T) {
	t.Parallel()

	// When the feed carries only dry chilli, a plain chilli query must
	// not resolve at all rather than price against the wrong commodity.
	index := PriceIndex{
		"dry chilli": 9500,
		"onion":      1800,
	}

	_, ok := ResolvePrice("chilli", index)
	assert.False(t, ok)
}

func TestResolvePriceDeterministicOrder(t *testing.T) {
	t.Parallel()

	// Both commodities contain "chilli"; sorted scan order makes the
	// lexicographically first one win every time.
	index := PriceIndex{
		"green chilli":       3200,
		"byadgi chilli (red)": 12000,
	}

	for range 50 {
		price, ok := ResolvePrice("chilli", index)
		assert.True(t, ok)
		assert.InDelta(t, 12000, price, 0.001)
	}
}

func TestResolvePriceEmptyIndex(t *testing.T) {
	t.Parallel()
	_, ok := ResolvePrice("onion", PriceIndex{})
	assert.False(t, ok)
}
