// Package mortgage provides the shared amortization math, interest rate
// selection, and underwriting policy derivation used by both calculators.
package mortgage

import "math"

// MonthlyFactor returns the standard amortizing-loan payment factor
// r*(1+r)^n / ((1+r)^n - 1) where r is the monthly rate and n the number of
// payments. A zero rate degenerates to straight-line payoff (1/n).
func MonthlyFactor(annualRate float64, termYears int) float64 {
	n := float64(termYears) * 12
	if n <= 0 {
		return 0
	}
	if annualRate == 0 {
		return 1 / n
	}
	r := annualRate / 12
	pow := math.Pow(1+r, n)
	return r * pow / (pow - 1)
}

// RequiredPI returns the monthly principal-and-interest payment for the given
// loan. Non-positive loan amounts cost nothing.
func RequiredPI(loanAmount, annualRate float64, termYears int) float64 {
	if loanAmount <= 0 {
		return 0
	}
	return loanAmount * MonthlyFactor(annualRate, termYears)
}
