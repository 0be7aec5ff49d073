package mortgage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyFactor_StandardRate(t *testing.T) {
	// 6.5% over 30 years: r = 0.065/12, n = 360.
	// Known value: factor ~= 0.0063207.
	got := MonthlyFactor(0.065, 30)
	assert.InDelta(t, 0.0063207, got, 0.0000005)
}

func TestMonthlyFactor_ZeroRate(t *testing.T) {
	// Zero rate degenerates to straight-line payoff.
	got := MonthlyFactor(0, 30)
	assert.InDelta(t, 1.0/360.0, got, 1e-12)
}

func TestMonthlyFactor_ZeroTerm(t *testing.T) {
	assert.Equal(t, 0.0, MonthlyFactor(0.065, 0))
}

func TestMonthlyFactor_DecreasesWithTerm(t *testing.T) {
	// Longer terms spread principal over more payments.
	assert.Greater(t, MonthlyFactor(0.07, 15), MonthlyFactor(0.07, 30))
}

func TestRequiredPI_CompositionIdentity(t *testing.T) {
	loans := []float64{50_000, 250_000, 1_000_000}
	rates := []float64{0.065, 0.07, 0.085}
	for _, loan := range loans {
		for _, rate := range rates {
			want := loan * MonthlyFactor(rate, 30)
			assert.InDelta(t, want, RequiredPI(loan, rate, 30), 1e-9)
		}
	}
}

func TestRequiredPI_NonPositiveLoan(t *testing.T) {
	assert.Equal(t, 0.0, RequiredPI(0, 0.065, 30))
	assert.Equal(t, 0.0, RequiredPI(-1000, 0.065, 30))
}

func TestRequiredPI_KnownPayment(t *testing.T) {
	// $300,000 at 6.5% over 30 years is about $1,896.20/mo.
	got := RequiredPI(300_000, 0.065, 30)
	assert.InDelta(t, 1896.20, got, 0.5)
}
