package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrifin/cropadvisor/internal/model"
)

var recommendFlags model.FieldConditions

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run one recommendation from the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := recommendFlags.Validate(); err != nil {
			return err
		}

		env, err := initAdvisor(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		run := recordRunStart(ctx, env, recommendFlags)

		result, err := env.Engine.Recommend(ctx, recommendFlags)
		if err != nil {
			recordRunEnd(env, run, model.RunStatusFailed, &model.RunResult{Error: err.Error()})
			return eris.Wrap(err, "recommend")
		}

		recordRunEnd(env, run, model.RunStatusComplete, &model.RunResult{
			Recommendations: result.Recommendations,
			Candidates:      result.Candidates,
			Degraded:        result.Degraded,
			DegradedReason:  result.DegradedReason,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	recommendCmd.Flags().StringVar(&recommendFlags.District, "district", "", "district name (required)")
	recommendCmd.Flags().StringVar(&recommendFlags.Season, "season", "", "season: kharif or rabi (required)")
	recommendCmd.Flags().StringVar(&recommendFlags.Soil, "soil", "", "soil type: black, red, or alluvial (required)")
	recommendCmd.Flags().StringVar(&recommendFlags.Irrigation, "irrigation", "", "irrigation method: rainfed, borewell, or canal (required)")
	recommendCmd.Flags().Float64Var(&recommendFlags.RainfallMM, "rainfall", 0, "observed rainfall in mm")
	recommendCmd.Flags().Float64Var(&recommendFlags.LandArea, "land-area", 0, "land area in acres (required)")
	recommendCmd.Flags().Float64Var(&recommendFlags.Capital, "capital", 0, "available capital (recorded, not used in ranking)")
	rootCmd.AddCommand(recommendCmd)
}
