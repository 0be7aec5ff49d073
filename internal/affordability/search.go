// Package affordability implements the standalone affordability calculator:
// an iterative search for the maximum home price that fits a monthly PITI
// budget, partitioned into Affordable / Stretch / Difficult price bands.
package affordability

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hearthside-group/prequal-cli/internal/config"
	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/mortgage"
)

// ErrInvalidInput marks requests rejected before any calculation runs.
var ErrInvalidInput = eris.New("affordability: invalid input")

// DTIMessage explains an empty-ranges result.
const DTIMessage = "Monthly debt is too high relative to income to support a housing budget."

// Budget status tags attached to each band.
const (
	statusComfortable = "comfortable"
	statusStretch     = "stretch"
	statusAggressive  = "aggressive"
)

// Calculator runs the affordability search. It is stateless and safe for
// concurrent use.
type Calculator struct {
	search config.SearchConfig
	engine config.EngineConfig
}

// New creates a Calculator from the two constant sets. The search keeps its
// own tax+insurance rate (combined 1.7%) which intentionally differs from the
// pre-approval engine's split 1.2% + 0.5%.
func New(search config.SearchConfig, engine config.EngineConfig) *Calculator {
	return &Calculator{search: search, engine: engine}
}

// DefaultSearchConfig mirrors the viper defaults for callers that skip
// config loading.
func DefaultSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		FixedRate:          0.065,
		AnnualTaxInsurance: 0.017,
		BackEndRatio:       0.36,
		StretchBandFactor:  0.85,
		StepSize:           1000,
		Floor:              100_000,
		Ceiling:            5_000_000,
	}
}

// FindMaxAffordablePrice walks candidate loan amounts upward and returns the
// largest home price whose full PITI payment fits the monthly budget,
// rounded down to the nearest $1,000. All available funds are assumed to go
// to the down payment. Returns 0 when nothing is affordable.
//
// The walk stops at the first unaffordable candidate: a larger loan never
// becomes affordable again once payments exceed the budget.
func (c *Calculator) FindMaxAffordablePrice(maxMonthlyPITI, availableFunds float64, isVA bool) float64 {
	var best float64

	for loan := c.search.Floor; loan <= c.search.Ceiling; loan += c.search.StepSize {
		price := loan + availableFunds

		minDown := price * c.engine.MinDownPaymentPct
		if isVA {
			minDown = 0
		}
		if availableFunds < minDown {
			continue
		}

		taxesInsurance := price * c.search.AnnualTaxInsurance / 12

		var mortgageInsurance float64
		if !isVA && loan/price > c.engine.PMILTVThreshold {
			mortgageInsurance = loan * c.engine.PMIRate / 12
		}

		maxPI := maxMonthlyPITI - taxesInsurance - mortgageInsurance
		if mortgage.RequiredPI(loan, c.search.FixedRate, c.engine.LoanTermYears) <= maxPI {
			best = price
			continue
		}
		break
	}

	return math.Floor(best/1000) * 1000
}

// ComputeBands runs the search against two PITI budgets (housing-only and
// total-debt) and partitions the results into three price bands. Bands whose
// max does not exceed their min are dropped. A debt load that consumes the
// entire back-end budget yields an empty-ranges result with a message, not
// an error.
func (c *Calculator) ComputeBands(annualIncome, monthlyDebt, availableFunds float64, militaryService bool, location string) (*model.AffordabilityResult, error) {
	if annualIncome <= 0 {
		return nil, eris.Wrap(ErrInvalidInput, "annual income must be positive")
	}
	if monthlyDebt < 0 || availableFunds < 0 {
		return nil, eris.Wrap(ErrInvalidInput, "monetary values must be non-negative")
	}

	monthlyIncome := annualIncome / 12
	maxPITIAffordable := monthlyIncome * c.engine.FrontEndRatio
	maxPITIDifficult := monthlyIncome*c.search.BackEndRatio - monthlyDebt

	if maxPITIDifficult <= 0 {
		zap.L().Info("affordability: debt exceeds back-end budget",
			zap.Float64("annual_income", annualIncome),
			zap.Float64("monthly_debt", monthlyDebt),
		)
		return &model.AffordabilityResult{
			Location:     location,
			ResultRanges: []model.PriceRange{},
			Message:      DTIMessage,
		}, nil
	}

	affordableMax := c.FindMaxAffordablePrice(maxPITIAffordable, availableFunds, militaryService)
	difficultMax := c.FindMaxAffordablePrice(maxPITIDifficult, availableFunds, militaryService)

	affordableMaxRange := math.Min(affordableMax, math.Round(affordableMax*c.search.StretchBandFactor))
	floorPrice := math.Round(availableFunds/1000) * 1000

	bands := []model.PriceRange{
		{Label: model.BandAffordable, MinPrice: floorPrice, MaxPrice: affordableMaxRange, BudgetStatus: statusComfortable},
		{Label: model.BandStretch, MinPrice: affordableMaxRange + 1, MaxPrice: affordableMax, BudgetStatus: statusStretch},
		{Label: model.BandDifficult, MinPrice: affordableMax + 1, MaxPrice: difficultMax, BudgetStatus: statusAggressive},
	}

	ranges := make([]model.PriceRange, 0, len(bands))
	for _, b := range bands {
		if b.MaxPrice <= b.MinPrice {
			continue
		}
		ranges = append(ranges, b)
	}

	zap.L().Info("affordability: bands computed",
		zap.String("location", location),
		zap.Float64("affordable_max", affordableMax),
		zap.Float64("difficult_max", difficultMax),
		zap.Int("bands", len(ranges)),
	)

	return &model.AffordabilityResult{
		Location:     location,
		ResultRanges: ranges,
	}, nil
}
