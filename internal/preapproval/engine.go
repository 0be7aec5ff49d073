// Package preapproval implements the verified-lead pre-approval engine: a
// closed-form solve for the maximum purchase price a buyer qualifies for,
// plus the normalization of raw lead-form input into a buyer profile.
package preapproval

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/config"
	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/mortgage"
)

// DeclineReasonDTI explains a declined verdict caused by the debt load.
const DeclineReasonDTI = "debt-to-income too high or debt exceeds income"

// Engine computes pre-approval verdicts. It is stateless and safe for
// concurrent use.
type Engine struct {
	cfg config.EngineConfig
}

// NewEngine creates an Engine with the given constants.
func NewEngine(cfg config.EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Calculate solves for the maximum purchase price algebraically from the
// binding budget constraint:
//
//	maxPrice = maxMonthlyPayment / (factor*(1-down) + expenseFactor)
//
// where expenseFactor folds taxes, insurance and PMI into a monthly rate per
// dollar of price. A non-positive budget yields a DECLINED result, not an
// error.
func (e *Engine) Calculate(p model.BuyerProfile, policy model.RatePolicy) (*model.PreApprovalResult, error) {
	if p.GrossAnnualIncome <= 0 {
		return nil, eris.Wrap(ErrInvalidInput, "gross annual income must be positive")
	}

	monthlyIncome := p.GrossAnnualIncome / 12
	maxHousingBudget := monthlyIncome * policy.FrontEndRatio
	maxTotalBudget := monthlyIncome*policy.BackEndRatio - policy.MonthlyDebt
	maxMonthlyPayment := math.Min(maxHousingBudget, maxTotalBudget)

	if maxMonthlyPayment <= 0 {
		zap.L().Info("preapproval: declined",
			zap.Float64("gross_annual_income", p.GrossAnnualIncome),
			zap.Float64("monthly_debt", policy.MonthlyDebt),
		)
		return &model.PreApprovalResult{
			Status:              model.StatusDeclined,
			Reason:              DeclineReasonDTI,
			MonthlyDebtIncluded: policy.MonthlyDebt,
		}, nil
	}

	factor := mortgage.MonthlyFactor(policy.AnnualInterestRate, e.cfg.LoanTermYears)
	expenseFactor := (e.cfg.AnnualTaxRate + e.cfg.AnnualInsuranceRate + policy.PMIRate) / 12

	denom := factor*(1-policy.DownPaymentRequired) + expenseFactor
	if denom <= 0 {
		return nil, eris.Wrap(ErrInvalidInput, "policy produces a degenerate payment equation")
	}

	maxPrice := maxMonthlyPayment / denom
	loanAmount := maxPrice * (1 - policy.DownPaymentRequired)

	result := &model.PreApprovalResult{
		Status:               model.StatusApproved,
		MaxPurchasePrice:     math.Floor(maxPrice),
		LoanAmount:           math.Floor(loanAmount),
		MinDownPaymentNeeded: math.Floor(maxPrice * policy.DownPaymentRequired),
		InterestRate:         fmt.Sprintf("%.2f%%", policy.AnnualInterestRate*100),
		MonthlyDebtIncluded:  policy.MonthlyDebt,
		MonthlyPayment: model.MonthlyPaymentDetails{
			Total:                math.Floor(maxMonthlyPayment),
			PrincipalAndInterest: math.Floor(loanAmount * factor),
			TaxesInsurancePMI:    math.Floor(maxPrice * expenseFactor),
		},
	}

	zap.L().Info("preapproval: approved",
		zap.Float64("max_purchase_price", result.MaxPurchasePrice),
		zap.Float64("loan_amount", result.LoanAmount),
		zap.String("interest_rate", result.InterestRate),
	)

	return result, nil
}
