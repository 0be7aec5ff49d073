package model

// CreditBand is the credit score range a buyer self-reports on the lead form.
type CreditBand string

const (
	CreditExcellent CreditBand = "excellent"
	CreditGood      CreditBand = "good"
	CreditFair      CreditBand = "fair"
	CreditPoor      CreditBand = "poor"
)

// Score returns the conservative representative score for the band.
func (b CreditBand) Score() int {
	switch b {
	case CreditExcellent:
		return 720
	case CreditGood:
		return 680
	case CreditFair:
		return 620
	default:
		return 580
	}
}

// Property attributes that carry rate surcharges.
const (
	PropertyUsageInvestment = "Investment Property"
	PropertyTypeCondominium = "Condominium"
)

// BuyerProfile is the normalized financial profile of a prospective buyer.
// All monetary values are annual or monthly dollars as named. Persisted as a
// JSON column inside the lead row.
type BuyerProfile struct {
	GrossAnnualIncome   float64 `json:"gross_annual_income"`
	CreditScore         int     `json:"credit_score"`
	MonthlyConsumerDebt float64 `json:"monthly_consumer_debt"`
	DownPaymentPct      int     `json:"down_payment_pct"`
	MilitaryVeteran     bool    `json:"military_veteran"`
	CurrentHomeOwner    bool    `json:"current_home_owner"`
	PlansToSellHome     bool    `json:"plans_to_sell_home"`
	PropertyType        string  `json:"property_type"`
	PropertyUsage       string  `json:"property_usage"`
	AvailableFunds      float64 `json:"available_funds"`
}

// RatePolicy holds the underwriting parameters derived from a buyer profile.
// It is computed fresh per calculation and never cached across requests.
type RatePolicy struct {
	AnnualInterestRate  float64 `json:"annual_interest_rate"`
	PMIRate             float64 `json:"pmi_rate"`
	FrontEndRatio       float64 `json:"front_end_ratio"`
	BackEndRatio        float64 `json:"back_end_ratio"`
	DownPaymentRequired float64 `json:"down_payment_required"`
	MonthlyDebt         float64 `json:"monthly_debt"`
}
