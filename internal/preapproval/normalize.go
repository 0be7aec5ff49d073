package preapproval

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/hearthside-group/prequal-cli/internal/model"
)

// ErrInvalidInput marks lead input rejected before the engine runs. The
// original product silently coerced malformed numbers to zero; rejecting
// explicitly is a deliberate behavior change so bad leads surface as 4xx
// instead of silent declines.
var ErrInvalidInput = eris.New("preapproval: invalid input")

// RawProfile is the lead form payload as submitted: range labels and
// comma-formatted amounts, already email-verified by the caller.
type RawProfile struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	IncomeRange      string `json:"income_range"`
	CreditRange      string `json:"credit_range"`
	MonthlyDebt      string `json:"monthly_debt,omitempty"`
	DownPaymentPct   int    `json:"down_payment_pct"`
	MilitaryVeteran  bool   `json:"military_veteran"`
	CurrentHomeOwner bool   `json:"current_home_owner"`
	PlansToSellHome  bool   `json:"plans_to_sell_home"`
	PropertyType     string `json:"property_type"`
	PropertyUsage    string `json:"property_usage"`
	AvailableFunds   string `json:"available_funds,omitempty"`
}

// incomeFloors maps the lead-form income range labels to conservative
// representative floors.
var incomeFloors = map[string]float64{
	"Greater than $100,000": 100_000,
	"$75,000 - $100,000":    75_000,
	"$50,000 - $75,000":     50_000,
	"$25,000 - $50,000":     25_000,
	"Less than $25,000":     20_000,
}

// creditFloors maps the lead-form credit range labels to representative
// scores.
var creditFloors = map[string]int{
	"Excellent (720+)": 720,
	"Good (680-719)":   680,
	"Fair (620-679)":   620,
	"Poor (below 620)": 580,
}

// NormalizeIncomeRange converts an income range label to its numeric floor.
// Plain numeric strings (with or without commas) are accepted as-is.
func NormalizeIncomeRange(label string) (float64, error) {
	if v, ok := incomeFloors[strings.TrimSpace(label)]; ok {
		return v, nil
	}
	v, err := ParseAmount(label)
	if err != nil {
		return 0, eris.Wrapf(ErrInvalidInput, "unrecognized income range %q", label)
	}
	return v, nil
}

// NormalizeCreditRange converts a credit range label to a representative
// score. Bare band names ("excellent") are accepted too.
func NormalizeCreditRange(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	if v, ok := creditFloors[trimmed]; ok {
		return v, nil
	}
	switch model.CreditBand(strings.ToLower(trimmed)) {
	case model.CreditExcellent, model.CreditGood, model.CreditFair, model.CreditPoor:
		return model.CreditBand(strings.ToLower(trimmed)).Score(), nil
	}
	return 0, eris.Wrapf(ErrInvalidInput, "unrecognized credit range %q", label)
}

// ParseAmount parses a dollar amount that may carry a currency symbol and
// comma grouping. Negative and malformed amounts are rejected.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, eris.Wrap(ErrInvalidInput, "empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, eris.Wrapf(ErrInvalidInput, "malformed amount %q", s)
	}
	if v < 0 {
		return 0, eris.Wrapf(ErrInvalidInput, "negative amount %q", s)
	}
	return v, nil
}

// Normalize converts a raw lead form into a numeric buyer profile, failing
// fast on malformed input. Empty optional amounts normalize to zero so the
// policy layer can substitute its estimates.
func Normalize(raw RawProfile) (model.BuyerProfile, error) {
	income, err := NormalizeIncomeRange(raw.IncomeRange)
	if err != nil {
		return model.BuyerProfile{}, err
	}
	score, err := NormalizeCreditRange(raw.CreditRange)
	if err != nil {
		return model.BuyerProfile{}, err
	}

	var debt float64
	if strings.TrimSpace(raw.MonthlyDebt) != "" {
		if debt, err = ParseAmount(raw.MonthlyDebt); err != nil {
			return model.BuyerProfile{}, err
		}
	}

	var funds float64
	if strings.TrimSpace(raw.AvailableFunds) != "" {
		if funds, err = ParseAmount(raw.AvailableFunds); err != nil {
			return model.BuyerProfile{}, err
		}
	}

	if raw.DownPaymentPct < 0 || raw.DownPaymentPct > 100 {
		return model.BuyerProfile{}, eris.Wrapf(ErrInvalidInput, "down payment percent %d out of range", raw.DownPaymentPct)
	}

	return model.BuyerProfile{
		GrossAnnualIncome:   income,
		CreditScore:         score,
		MonthlyConsumerDebt: debt,
		DownPaymentPct:      raw.DownPaymentPct,
		MilitaryVeteran:     raw.MilitaryVeteran,
		CurrentHomeOwner:    raw.CurrentHomeOwner,
		PlansToSellHome:     raw.PlansToSellHome,
		PropertyType:        raw.PropertyType,
		PropertyUsage:       raw.PropertyUsage,
		AvailableFunds:      funds,
	}, nil
}
