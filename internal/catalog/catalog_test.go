package catalog

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `crop_id,crop_name,total_cost_per_acre,season_kharif,season_rabi,soil_black,soil_red,soil_alluvial
1,Ragi,12000,1,0,0,1,0
2,Onion,18000.50,1,1,1,1,0
3,Wheat,15000,0,1,1,0,1
`

func TestParse(t *testing.T) {
	t.Parallel()

	crops, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, crops, 3)

	ragi := crops[0]
	assert.Equal(t, 1, ragi.ID)
	assert.Equal(t, "Ragi", ragi.Name)
	assert.InDelta(t, 12000, ragi.CostPerAcre, 0.001)
	assert.True(t, ragi.SeasonKharif)
	assert.False(t, ragi.SeasonRabi)
	assert.True(t, ragi.SoilRed)
	assert.False(t, ragi.SoilBlack)

	onion := crops[1]
	assert.InDelta(t, 18000.50, onion.CostPerAcre, 0.001)
	assert.True(t, onion.SeasonRabi)
}

func TestParseColumnOrderIndependent(t *testing.T) {
	t.Parallel()

	reordered := `crop_name,crop_id,soil_red,soil_black,soil_alluvial,season_rabi,season_kharif,total_cost_per_acre
Maize,7,1,0,0,0,1,9500
`
	crops, err := Parse(strings.NewReader(reordered))
	require.NoError(t, err)
	require.Len(t, crops, 1)
	assert.Equal(t, 7, crops[0].ID)
	assert.Equal(t, "Maize", crops[0].Name)
	assert.True(t, crops[0].SoilRed)
	assert.True(t, crops[0].SeasonKharif)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
	}{
		{"missing column", "crop_id,crop_name\n1,Ragi\n"},
		{"bad crop_id", strings.ReplaceAll(sampleCSV, "1,Ragi", "one,Ragi")},
		{"bad cost", strings.ReplaceAll(sampleCSV, "12000", "cheap")},
		{"no rows", "crop_id,crop_name,total_cost_per_acre,season_kharif,season_rabi,soil_black,soil_red,soil_alluvial\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestRainfallTable(t *testing.T) {
	t.Parallel()

	table := DefaultRainfallTable()
	assert.InDelta(t, 806, table.Mean("Mandya"), 0.001)
	assert.InDelta(t, 4119, table.Mean("Udupi"), 0.001)
	assert.InDelta(t, DefaultMeanRainfall, table.Mean("Atlantis"), 0.001)
	assert.Equal(t, 20, table.Districts())
}

func TestLoadRainfallTableFromYAML(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/rainfall.yaml"
	require.NoError(t, os.WriteFile(path, []byte("Mandya: 810\nKolar: 730\n"), 0o600))

	table, err := LoadRainfallTable(path)
	require.NoError(t, err)
	assert.InDelta(t, 810, table.Mean("Mandya"), 0.001)
	assert.InDelta(t, DefaultMeanRainfall, table.Mean("Udupi"), 0.001)
}

func TestLoadRainfallTableEmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	table, err := LoadRainfallTable("")
	require.NoError(t, err)
	assert.Equal(t, 20, table.Districts())
}
