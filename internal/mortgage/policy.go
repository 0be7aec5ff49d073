package mortgage

import (
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/config"
	"github.com/hearthside-group/prequal-cli/internal/model"
)

// DerivePolicy computes the underwriting parameters for a buyer profile.
//
// Military veterans qualify for VA terms: no down payment requirement and no
// mortgage insurance, regardless of the requested down payment. Mortgage
// insurance otherwise applies whenever the down payment leaves the
// loan-to-value above the PMI threshold.
func DerivePolicy(p model.BuyerProfile, cfg config.EngineConfig, rates RateTable) model.RatePolicy {
	backEnd := cfg.BackEndRatio
	if p.GrossAnnualIncome >= cfg.HighIncomeThreshold {
		backEnd = cfg.BackEndRatioHigh
	}

	downPct := p.DownPaymentPct
	if downPct < 0 {
		downPct = 0
	}
	if downPct > 100 {
		downPct = 100
	}
	down := float64(downPct) / 100
	if p.MilitaryVeteran {
		down = 0
	}

	var pmi float64
	if !p.MilitaryVeteran && down < 1-cfg.PMILTVThreshold {
		pmi = cfg.PMIRate
	}

	// Consumer debt defaults to the business-rule estimate when the lead
	// form supplied nothing. A buyer keeping their current home carries a
	// second assumed mortgage payment.
	debt := p.MonthlyConsumerDebt
	if debt <= 0 {
		debt = cfg.EstConsumerDebt
	}
	if p.CurrentHomeOwner && !p.PlansToSellHome {
		debt += cfg.EstExistingMortgage
	}

	policy := model.RatePolicy{
		AnnualInterestRate:  rates.SelectRate(p.CreditScore, p.PropertyUsage, p.PropertyType),
		PMIRate:             pmi,
		FrontEndRatio:       cfg.FrontEndRatio,
		BackEndRatio:        backEnd,
		DownPaymentRequired: down,
		MonthlyDebt:         debt,
	}

	zap.L().Debug("mortgage: derived policy",
		zap.Float64("rate", policy.AnnualInterestRate),
		zap.Float64("back_end_ratio", policy.BackEndRatio),
		zap.Float64("down_payment_required", policy.DownPaymentRequired),
		zap.Float64("pmi_rate", policy.PMIRate),
		zap.Float64("monthly_debt", policy.MonthlyDebt),
	)

	return policy
}
