package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/affordability"
	"github.com/hearthside-group/prequal-cli/internal/cache"
	"github.com/hearthside-group/prequal-cli/internal/store"
)

var (
	affordIncome   float64
	affordDebt     float64
	affordFunds    float64
	affordMilitary bool
	affordLocation string
	affordJSON     bool
	affordSave     bool
)

var affordabilityCmd = &cobra.Command{
	Use:   "affordability",
	Short: "Compute affordability price bands for a home shopper",
	Long: `Searches for the maximum affordable home price under two budgets
(housing-only and total-debt) and prints Affordable / Stretch / Difficult
price bands.

Examples:
  prequal affordability --income 120000 --debt 500 --funds 60000
  prequal affordability --income 90000 --funds 40000 --military --location "Austin, TX"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		c := cache.New(cfg.Cache)
		defer c.Close() //nolint:errcheck

		calc := affordability.New(cfg.Search, cfg.Engine)

		key := cache.Key(affordIncome, affordDebt, affordFunds, affordMilitary)
		result, hit := c.Get(ctx, key)
		if hit {
			result.Location = affordLocation
		} else {
			var err error
			result, err = calc.ComputeBands(affordIncome, affordDebt, affordFunds, affordMilitary, affordLocation)
			if err != nil {
				return err
			}
			if err := c.Set(ctx, key, result); err != nil {
				zap.L().Warn("affordability: cache write failed", zap.Error(err))
			}
		}

		if affordSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			rec := store.AffordabilityRecord{
				Location:        affordLocation,
				AnnualIncome:    affordIncome,
				MonthlyDebt:     affordDebt,
				AvailableFunds:  affordFunds,
				MilitaryService: affordMilitary,
				Result:          result,
			}
			if err := st.RecordAffordability(ctx, rec); err != nil {
				return eris.Wrap(err, "affordability: record request")
			}
		}

		if affordJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if result.Message != "" {
			fmt.Println(result.Message)
			return nil
		}
		for _, band := range result.ResultRanges {
			fmt.Printf("%-10s %s - %s (%s)\n",
				band.Label, fmtUSD(band.MinPrice), fmtUSD(band.MaxPrice), band.BudgetStatus)
		}
		return nil
	},
}

func init() {
	affordabilityCmd.Flags().Float64Var(&affordIncome, "income", 0, "gross annual income (required)")
	affordabilityCmd.Flags().Float64Var(&affordDebt, "debt", 0, "monthly debt obligations")
	affordabilityCmd.Flags().Float64Var(&affordFunds, "funds", 0, "funds available for down payment")
	affordabilityCmd.Flags().BoolVar(&affordMilitary, "military", false, "eligible for VA financing")
	affordabilityCmd.Flags().StringVar(&affordLocation, "location", "", "shopping location label")
	affordabilityCmd.Flags().BoolVar(&affordJSON, "json", false, "print result as JSON")
	affordabilityCmd.Flags().BoolVar(&affordSave, "save", false, "record the request in the store")
	_ = affordabilityCmd.MarkFlagRequired("income")
	rootCmd.AddCommand(affordabilityCmd)
}
