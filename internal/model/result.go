package model

import "time"

// PreApprovalStatus is the verdict of the pre-approval engine.
type PreApprovalStatus string

const (
	StatusApproved PreApprovalStatus = "APPROVED"
	StatusDeclined PreApprovalStatus = "DECLINED"
)

// MonthlyPaymentDetails breaks the maximum monthly payment into its parts.
// All values are floored to whole dollars.
type MonthlyPaymentDetails struct {
	Total                float64 `json:"total"`
	PrincipalAndInterest float64 `json:"principal_and_interest"`
	TaxesInsurancePMI    float64 `json:"taxes_insurance_pmi"`
}

// PreApprovalResult is the payload persisted as a pre_approvals record and
// rendered back to the user.
type PreApprovalResult struct {
	Status               PreApprovalStatus     `json:"status"`
	Reason               string                `json:"reason,omitempty"`
	MaxPurchasePrice     float64               `json:"max_purchase_price"`
	LoanAmount           float64               `json:"loan_amount"`
	MinDownPaymentNeeded float64               `json:"min_down_payment_needed"`
	InterestRate         string                `json:"interest_rate"`
	MonthlyDebtIncluded  float64               `json:"monthly_debt_included"`
	MonthlyPayment       MonthlyPaymentDetails `json:"monthly_payment_details"`
}

// Band labels for the standalone affordability calculator.
const (
	BandAffordable = "Affordable"
	BandStretch    = "Stretch"
	BandDifficult  = "Difficult"
)

// PriceRange is one affordability band.
type PriceRange struct {
	Label        string  `json:"label"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	BudgetStatus string  `json:"budget_status"`
}

// AffordabilityResult holds the banded output of the standalone calculator.
// Ranges are monotonically increasing and non-overlapping; Message is set
// instead of ranges when the debt-to-income ratio leaves no housing budget.
type AffordabilityResult struct {
	Location     string       `json:"location"`
	ResultRanges []PriceRange `json:"result_ranges"`
	Message      string       `json:"message,omitempty"`
}

// Lead couples the raw contact fields captured by the marketplace form with
// the buyer profile and, once calculated, the pre-approval result.
type Lead struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone,omitempty"`
	Profile   BuyerProfile       `json:"profile"`
	Result    *PreApprovalResult `json:"result,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
