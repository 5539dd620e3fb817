// Package catalog loads the static crop master dataset and the district
// rainfall table. Both are read once at startup and shared read-only.
package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrifin/cropadvisor/internal/model"
)

// Load reads the crop master CSV at path. The engine is non-functional
// without a catalog, so any parse failure is returned and should abort
// startup.
func Load(path string) ([]model.CropRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open crop master")
	}
	defer f.Close() //nolint:errcheck

	crops, err := Parse(f)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", path)
	}

	zap.L().Info("catalog: loaded crop master",
		zap.String("path", path),
		zap.Int("crops", len(crops)),
	)
	return crops, nil
}

// Parse reads crop records from CSV data. The first row must be a header
// naming at least crop_id, crop_name, total_cost_per_acre and the six
// compatibility flag columns; column order is free.
func Parse(r io.Reader) ([]model.CropRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{
		"crop_id", "crop_name", "total_cost_per_acre",
		"season_kharif", "season_rabi",
		"soil_black", "soil_red", "soil_alluvial",
	} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("catalog: missing column %q", required)
		}
	}

	var crops []model.CropRecord
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: read row %d", line)
		}
		line++

		crop, err := parseRow(record, col)
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: row %d", line)
		}
		crops = append(crops, crop)
	}

	if len(crops) == 0 {
		return nil, eris.New("catalog: no crop rows")
	}
	return crops, nil
}

func parseRow(record []string, col map[string]int) (model.CropRecord, error) {
	field := func(name string) string {
		i := col[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	id, err := strconv.Atoi(field("crop_id"))
	if err != nil {
		return model.CropRecord{}, eris.Wrap(err, "parse crop_id")
	}
	cost, err := strconv.ParseFloat(field("total_cost_per_acre"), 64)
	if err != nil {
		return model.CropRecord{}, eris.Wrap(err, "parse total_cost_per_acre")
	}
	name := field("crop_name")
	if name == "" {
		return model.CropRecord{}, eris.New("empty crop_name")
	}

	return model.CropRecord{
		ID:           id,
		Name:         name,
		CostPerAcre:  cost,
		SeasonKharif: field("season_kharif") == "1",
		SeasonRabi:   field("season_rabi") == "1",
		SoilBlack:    field("soil_black") == "1",
		SoilRed:      field("soil_red") == "1",
		SoilAlluvial: field("soil_alluvial") == "1",
	}, nil
}
