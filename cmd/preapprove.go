package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/mortgage"
	"github.com/hearthside-group/prequal-cli/internal/notify"
	"github.com/hearthside-group/prequal-cli/internal/preapproval"
)

var (
	preapproveName      string
	preapproveEmail     string
	preapprovePhone     string
	preapproveIncome    string
	preapproveCredit    string
	preapproveDebt      string
	preapproveDownPct   int
	preapproveVeteran   bool
	preapproveHomeowner bool
	preapproveSelling   bool
	preapproveType      string
	preapproveUsage     string
	preapproveFunds     string
	preapproveJSON      bool
	preapproveSave      bool
)

var preapproveCmd = &cobra.Command{
	Use:   "preapprove",
	Short: "Run the pre-approval engine for a verified lead",
	Long: `Normalizes lead-form input (range labels, formatted amounts) into a
buyer profile, derives the rate policy, and solves for the maximum purchase
price the lead qualifies for.

Examples:
  prequal preapprove --income-range "$75,000 - $100,000" --credit-range "Excellent (720+)" --down-payment 20
  prequal preapprove --income-range "Greater than $100,000" --credit-range good --veteran --save --email lead@example.com`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		raw := preapproval.RawProfile{
			Name:             preapproveName,
			Email:            preapproveEmail,
			Phone:            preapprovePhone,
			IncomeRange:      preapproveIncome,
			CreditRange:      preapproveCredit,
			MonthlyDebt:      preapproveDebt,
			DownPaymentPct:   preapproveDownPct,
			MilitaryVeteran:  preapproveVeteran,
			CurrentHomeOwner: preapproveHomeowner,
			PlansToSellHome:  preapproveSelling,
			PropertyType:     preapproveType,
			PropertyUsage:    preapproveUsage,
			AvailableFunds:   preapproveFunds,
		}

		profile, err := preapproval.Normalize(raw)
		if err != nil {
			return err
		}

		rates, err := loadRates()
		if err != nil {
			return err
		}
		policy := mortgage.DerivePolicy(profile, cfg.Engine, rates)

		engine := preapproval.NewEngine(cfg.Engine)
		result, err := engine.Calculate(profile, policy)
		if err != nil {
			return err
		}

		if preapproveSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			lead, err := st.CreateLead(ctx, model.Lead{
				Name:    raw.Name,
				Email:   raw.Email,
				Phone:   raw.Phone,
				Profile: profile,
				Result:  result,
			})
			if err != nil {
				return err
			}
			zap.L().Info("preapprove: lead saved", zap.String("lead_id", lead.ID))

			notifier := notify.NewNotifier(cfg.Webhook)
			if notifier.Enabled() {
				if err := notifier.NotifyPreApproval(ctx, lead); err != nil {
					zap.L().Error("preapprove: webhook notify failed", zap.Error(err))
				}
			}
		}

		if preapproveJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(result)
		return nil
	},
}

func printResult(r *model.PreApprovalResult) {
	if r.Status == model.StatusDeclined {
		fmt.Printf("Status: %s\n", r.Status)
		fmt.Printf("Reason: %s\n", r.Reason)
		return
	}

	fmt.Printf("Status:               %s\n", r.Status)
	fmt.Printf("Max purchase price:   %s\n", fmtUSD(r.MaxPurchasePrice))
	fmt.Printf("Loan amount:          %s\n", fmtUSD(r.LoanAmount))
	fmt.Printf("Min down payment:     %s\n", fmtUSD(r.MinDownPaymentNeeded))
	fmt.Printf("Interest rate:        %s\n", r.InterestRate)
	fmt.Printf("Monthly payment:      %s\n", fmtUSD(r.MonthlyPayment.Total))
	fmt.Printf("  Principal+interest: %s\n", fmtUSD(r.MonthlyPayment.PrincipalAndInterest))
	fmt.Printf("  Taxes/ins/PMI:      %s\n", fmtUSD(r.MonthlyPayment.TaxesInsurancePMI))
}

func init() {
	preapproveCmd.Flags().StringVar(&preapproveName, "name", "", "lead name")
	preapproveCmd.Flags().StringVar(&preapproveEmail, "email", "", "lead email")
	preapproveCmd.Flags().StringVar(&preapprovePhone, "phone", "", "lead phone")
	preapproveCmd.Flags().StringVar(&preapproveIncome, "income-range", "", `income range label or amount (required)`)
	preapproveCmd.Flags().StringVar(&preapproveCredit, "credit-range", "", `credit range label or band name (required)`)
	preapproveCmd.Flags().StringVar(&preapproveDebt, "monthly-debt", "", "monthly consumer debt (blank uses the configured estimate)")
	preapproveCmd.Flags().IntVar(&preapproveDownPct, "down-payment", 0, "down payment percent (0-100)")
	preapproveCmd.Flags().BoolVar(&preapproveVeteran, "veteran", false, "military veteran (VA financing)")
	preapproveCmd.Flags().BoolVar(&preapproveHomeowner, "homeowner", false, "currently owns a home")
	preapproveCmd.Flags().BoolVar(&preapproveSelling, "selling", false, "plans to sell current home")
	preapproveCmd.Flags().StringVar(&preapproveType, "property-type", "Single Family Home", "property type")
	preapproveCmd.Flags().StringVar(&preapproveUsage, "property-usage", "Primary Residence", "property usage")
	preapproveCmd.Flags().StringVar(&preapproveFunds, "funds", "", "available funds")
	preapproveCmd.Flags().BoolVar(&preapproveJSON, "json", false, "print result as JSON")
	preapproveCmd.Flags().BoolVar(&preapproveSave, "save", false, "persist the lead and result")
	_ = preapproveCmd.MarkFlagRequired("income-range")
	_ = preapproveCmd.MarkFlagRequired("credit-range")
	rootCmd.AddCommand(preapproveCmd)
}
