package mortgage

import "github.com/hearthside-group/prequal-cli/internal/config"

// DefaultEngineConfig mirrors the viper defaults for callers that skip
// config loading (library use, tests).
func DefaultEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		LoanTermYears:       30,
		FrontEndRatio:       0.28,
		BackEndRatio:        0.36,
		BackEndRatioHigh:    0.43,
		HighIncomeThreshold: 100_000,
		AnnualTaxRate:       0.012,
		AnnualInsuranceRate: 0.005,
		PMIRate:             0.005,
		PMILTVThreshold:     0.80,
		MinDownPaymentPct:   0.05,
		EstConsumerDebt:     500,
		EstExistingMortgage: 1500,
	}
}
