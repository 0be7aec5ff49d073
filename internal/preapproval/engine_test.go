package preapproval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/mortgage"
)

func calcFor(t *testing.T, p model.BuyerProfile) (*model.PreApprovalResult, model.RatePolicy) {
	t.Helper()
	cfg := mortgage.DefaultEngineConfig()
	policy := mortgage.DerivePolicy(p, cfg, mortgage.DefaultRateTable())

	res, err := NewEngine(cfg).Calculate(p, policy)
	require.NoError(t, err)
	return res, policy
}

func TestCalculate_ApprovedStandardBuyer(t *testing.T) {
	p := model.BuyerProfile{
		GrossAnnualIncome: 90_000,
		CreditScore:       720,
		DownPaymentPct:    20,
	}
	res, _ := calcFor(t, p)

	assert.Equal(t, model.StatusApproved, res.Status)
	assert.Equal(t, "6.50%", res.InterestRate)
	assert.Empty(t, res.Reason)

	// The front-end ratio is never exceeded.
	monthlyIncome := p.GrossAnnualIncome / 12
	assert.LessOrEqual(t, res.MonthlyPayment.Total, monthlyIncome*0.28)

	// Outputs are floored whole dollars.
	for _, v := range []float64{res.MaxPurchasePrice, res.LoanAmount, res.MinDownPaymentNeeded} {
		assert.Equal(t, float64(int64(v)), v)
	}

	// 20% down finances 80% of the price.
	assert.InDelta(t, res.MaxPurchasePrice*0.8, res.LoanAmount, 1.0)
	assert.InDelta(t, res.MaxPurchasePrice*0.2, res.MinDownPaymentNeeded, 1.0)
}

func TestCalculate_ClosedFormSolution(t *testing.T) {
	// income $90k, 720 score, 20% down, no PMI:
	// maxPayment = min(7500*0.28, 7500*0.36-500) = 2100
	// factor ~= 0.0063207; expense = 0.017/12
	// maxPrice = 2100 / (factor*0.8 + 0.0014167) ~= 324,432
	p := model.BuyerProfile{GrossAnnualIncome: 90_000, CreditScore: 720, DownPaymentPct: 20}
	res, _ := calcFor(t, p)

	assert.InDelta(t, 324_400, res.MaxPurchasePrice, 200)
	assert.Equal(t, 2100.0, res.MonthlyPayment.Total)
}

func TestCalculate_VeteranWaiver(t *testing.T) {
	base := model.BuyerProfile{GrossAnnualIncome: 90_000, CreditScore: 720}

	veteran := base
	veteran.MilitaryVeteran = true

	vetRes, _ := calcFor(t, veteran)
	convRes, _ := calcFor(t, base)

	assert.Equal(t, model.StatusApproved, vetRes.Status)
	assert.Equal(t, 0.0, vetRes.MinDownPaymentNeeded)

	// At the same (zero) down payment the VA waiver drops PMI from the
	// expense factor, so the veteran affords strictly more.
	assert.Greater(t, vetRes.MaxPurchasePrice, convRes.MaxPurchasePrice)
}

func TestCalculate_DeclinedOnDebtLoad(t *testing.T) {
	// $20k income with a carried mortgage: back-end budget goes negative.
	p := model.BuyerProfile{
		GrossAnnualIncome: 20_000,
		CreditScore:       620,
		CurrentHomeOwner:  true,
		PlansToSellHome:   false,
	}
	res, policy := calcFor(t, p)

	assert.Equal(t, model.StatusDeclined, res.Status)
	assert.Equal(t, DeclineReasonDTI, res.Reason)
	assert.Equal(t, 0.0, res.MaxPurchasePrice)
	assert.Equal(t, policy.MonthlyDebt, res.MonthlyDebtIncluded)
}

func TestCalculate_HighIncomeBackEnd(t *testing.T) {
	// Income at the high-income threshold unlocks the 0.43 back-end ratio,
	// but the 0.28 front-end cap still binds with the estimated debt.
	p := model.BuyerProfile{GrossAnnualIncome: 120_000, CreditScore: 720, DownPaymentPct: 20}
	res, policy := calcFor(t, p)

	assert.InDelta(t, 0.43, policy.BackEndRatio, 1e-9)
	assert.Equal(t, model.StatusApproved, res.Status)
	assert.Equal(t, 2800.0, res.MonthlyPayment.Total)
}

func TestCalculate_InvestmentCondoRate(t *testing.T) {
	p := model.BuyerProfile{
		GrossAnnualIncome: 90_000,
		CreditScore:       720,
		DownPaymentPct:    20,
		PropertyUsage:     model.PropertyUsageInvestment,
		PropertyType:      model.PropertyTypeCondominium,
	}
	res, _ := calcFor(t, p)

	// 6.5% base + 0.5% investment + 0.25% condo.
	assert.Equal(t, "7.25%", res.InterestRate)
}

func TestCalculate_ZeroIncomeRejected(t *testing.T) {
	cfg := mortgage.DefaultEngineConfig()
	_, err := NewEngine(cfg).Calculate(model.BuyerProfile{}, model.RatePolicy{FrontEndRatio: 0.28, BackEndRatio: 0.36})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculate_Idempotent(t *testing.T) {
	p := model.BuyerProfile{GrossAnnualIncome: 75_000, CreditScore: 680, DownPaymentPct: 5}
	first, _ := calcFor(t, p)
	second, _ := calcFor(t, p)
	assert.Equal(t, first, second)
}

func TestCalculate_PaymentPartsSum(t *testing.T) {
	p := model.BuyerProfile{GrossAnnualIncome: 90_000, CreditScore: 720, DownPaymentPct: 20}
	res, _ := calcFor(t, p)

	// Flooring loses at most a dollar per part.
	sum := res.MonthlyPayment.PrincipalAndInterest + res.MonthlyPayment.TaxesInsurancePMI
	assert.InDelta(t, res.MonthlyPayment.Total, sum, 2.0)
}
