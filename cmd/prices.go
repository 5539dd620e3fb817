package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrifin/cropadvisor/internal/market"
	"github.com/agrifin/cropadvisor/internal/model"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Fetch and aggregate the current mandi price index",
	Long:  "Operator tool: shows exactly the price index a recommendation request would see right now, for diagnosing degraded or empty responses.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAdvisor(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		records, err := env.Mandi.FetchPrices(ctx)
		if err != nil {
			zap.L().Warn("price fetch failed", zap.Error(err))
			records = nil
		}

		quotes := make([]model.PriceQuote, len(records))
		for i, r := range records {
			quotes[i] = model.PriceQuote{Commodity: r.Commodity, ModalPrice: r.ModalPrice}
		}
		index := market.BuildPriceIndex(quotes)

		type entry struct {
			Commodity string  `json:"commodity"`
			Price     float64 `json:"price_per_quintal"`
		}
		entries := make([]entry, 0, len(index))
		for commodity, price := range index {
			entries = append(entries, entry{Commodity: commodity, Price: price})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Commodity < entries[j].Commodity })

		out := struct {
			RawRecords  int     `json:"raw_records"`
			Commodities int     `json:"commodities"`
			Degraded    bool    `json:"degraded"`
			Index       []entry `json:"index"`
		}{
			RawRecords:  len(records),
			Commodities: len(entries),
			Degraded:    err != nil,
			Index:       entries,
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(pricesCmd)
}
