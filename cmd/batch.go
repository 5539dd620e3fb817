package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agrifin/cropadvisor/internal/engine"
	"github.com/agrifin/cropadvisor/internal/model"
)

var batchInput string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate many field scenarios from a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := os.Open(batchInput)
		if err != nil {
			return eris.Wrap(err, "open scenarios file")
		}
		defer f.Close() //nolint:errcheck

		scenarios, err := parseScenarios(f)
		if err != nil {
			return err
		}

		env, err := initAdvisor(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		outcomes, err := evaluateScenarios(ctx, env.Engine, scenarios, cfg.Batch.MaxConcurrentScenarios)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "scenarios CSV path (required)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// scenarioOutcome pairs one input scenario with its engine result.
type scenarioOutcome struct {
	Conditions model.FieldConditions `json:"conditions"`
	Result     *engine.Result        `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// parseScenarios reads field scenarios from CSV. The header must name
// district, season, soil, irrigation, rainfall, and land_area; a profit
// column (available capital) is optional.
func parseScenarios(r io.Reader) ([]model.FieldConditions, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"district", "season", "soil", "irrigation", "rainfall", "land_area"} {
		if _, ok := col[required]; !ok {
			return nil, eris.Errorf("batch: missing column %q", required)
		}
	}

	var scenarios []model.FieldConditions
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "batch: read row %d", line)
		}
		line++

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		num := func(name string) (float64, error) {
			s := field(name)
			if s == "" {
				return 0, nil
			}
			return strconv.ParseFloat(s, 64)
		}

		rainfall, err := num("rainfall")
		if err != nil {
			return nil, eris.Wrapf(err, "batch: row %d rainfall", line)
		}
		landArea, err := num("land_area")
		if err != nil {
			return nil, eris.Wrapf(err, "batch: row %d land_area", line)
		}
		capital, err := num("profit")
		if err != nil {
			return nil, eris.Wrapf(err, "batch: row %d profit", line)
		}

		scenarios = append(scenarios, model.FieldConditions{
			District:   field("district"),
			Season:     field("season"),
			Soil:       field("soil"),
			Irrigation: field("irrigation"),
			RainfallMM: rainfall,
			LandArea:   landArea,
			Capital:    capital,
		})
	}

	if len(scenarios) == 0 {
		return nil, eris.New("batch: no scenarios")
	}
	return scenarios, nil
}

// evaluateScenarios runs the engine over scenarios with bounded
// concurrency. A scenario's validation or engine failure is recorded in
// its outcome and never aborts the batch.
func evaluateScenarios(ctx context.Context, eng *engine.Engine, scenarios []model.FieldConditions, concurrency int) ([]scenarioOutcome, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	outcomes := make([]scenarioOutcome, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, sc := range scenarios {
		g.Go(func() error {
			outcomes[i].Conditions = sc

			result, err := eng.Recommend(gctx, sc)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				outcomes[i].Error = err.Error()
				zap.L().Warn("batch: scenario failed",
					zap.String("district", sc.District),
					zap.Error(err),
				)
				return nil
			}
			outcomes[i].Result = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: evaluate scenarios")
	}
	return outcomes, nil
}
