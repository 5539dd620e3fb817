package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultMeanRainfall is assumed for districts missing from the table.
const DefaultMeanRainfall = 800

// RainfallTable maps a district name to its long-run mean annual
// rainfall in millimetres. Immutable once built.
type RainfallTable struct {
	byDistrict map[string]float64
}

// Mean returns the district's long-run mean rainfall, or
// DefaultMeanRainfall for an unknown district.
func (t *RainfallTable) Mean(district string) float64 {
	if t != nil {
		if mm, ok := t.byDistrict[district]; ok {
			return mm
		}
	}
	return DefaultMeanRainfall
}

// Districts returns the number of districts in the table.
func (t *RainfallTable) Districts() int {
	if t == nil {
		return 0
	}
	return len(t.byDistrict)
}

// DefaultRainfallTable returns the built-in Karnataka district means.
func DefaultRainfallTable() *RainfallTable {
	return &RainfallTable{byDistrict: map[string]float64{
		"Mandya":           806,
		"Mysuru":           798,
		"Hassan":           1031,
		"Chikkamagaluru":   1925,
		"Shivamogga":       1813,
		"Kodagu":           2718,
		"Udupi":            4119,
		"Dakshina Kannada": 3975,
		"Uttara Kannada":   2835,
		"Belagavi":         808,
		"Dharwad":          772,
		"Haveri":           753,
		"Tumakuru":         688,
		"Raichur":          621,
		"Bagalkote":        562,
		"Vijayapura":       578,
		"Kolar":            744,
		"Bengaluru Rural":  885,
		"Ballari":          636,
		"Gulbarga":         777,
	}}
}

// LoadRainfallTable reads a district→mm YAML mapping from path. An empty
// path returns the built-in defaults.
func LoadRainfallTable(path string) (*RainfallTable, error) {
	if path == "" {
		return DefaultRainfallTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read rainfall table")
	}

	byDistrict := make(map[string]float64)
	if err := yaml.Unmarshal(data, &byDistrict); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse rainfall table %s", path)
	}
	if len(byDistrict) == 0 {
		return nil, eris.Errorf("catalog: rainfall table %s is empty", path)
	}

	zap.L().Info("catalog: loaded rainfall table",
		zap.String("path", path),
		zap.Int("districts", len(byDistrict)),
	)
	return &RainfallTable{byDistrict: byDistrict}, nil
}
