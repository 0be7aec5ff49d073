package affordability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside-group/prequal-cli/internal/model"
	"github.com/hearthside-group/prequal-cli/internal/mortgage"
)

func newCalculator() *Calculator {
	return New(DefaultSearchConfig(), mortgage.DefaultEngineConfig())
}

func TestFindMaxAffordablePrice_RoundedDown(t *testing.T) {
	c := newCalculator()
	price := c.FindMaxAffordablePrice(2800, 60_000, false)

	assert.Greater(t, price, 0.0)
	assert.Equal(t, 0.0, float64(int64(price)%1000), "price must be rounded to the nearest $1,000")
}

func TestFindMaxAffordablePrice_MonotoneInBudget(t *testing.T) {
	c := newCalculator()

	budgets := []float64{1500, 2000, 2500, 3000, 4000}
	prev := c.FindMaxAffordablePrice(budgets[0], 50_000, false)
	for _, b := range budgets[1:] {
		cur := c.FindMaxAffordablePrice(b, 50_000, false)
		assert.GreaterOrEqual(t, cur, prev, "budget %v", b)
		prev = cur
	}
}

func TestFindMaxAffordablePrice_VANeverTighter(t *testing.T) {
	c := newCalculator()

	for _, funds := range []float64{0, 5_000, 30_000, 100_000} {
		va := c.FindMaxAffordablePrice(2500, funds, true)
		conventional := c.FindMaxAffordablePrice(2500, funds, false)
		assert.GreaterOrEqual(t, va, conventional, "funds %v", funds)
	}
}

func TestFindMaxAffordablePrice_NoFundsConventional(t *testing.T) {
	c := newCalculator()

	// With zero cash a conventional buyer can never meet the 5% minimum down.
	assert.Equal(t, 0.0, c.FindMaxAffordablePrice(3000, 0, false))
	// A VA buyer can.
	assert.Greater(t, c.FindMaxAffordablePrice(3000, 0, true), 0.0)
}

func TestFindMaxAffordablePrice_TinyBudget(t *testing.T) {
	c := newCalculator()
	assert.Equal(t, 0.0, c.FindMaxAffordablePrice(100, 50_000, false))
}

func TestFindMaxAffordablePrice_Idempotent(t *testing.T) {
	c := newCalculator()
	first := c.FindMaxAffordablePrice(2800, 60_000, false)
	second := c.FindMaxAffordablePrice(2800, 60_000, false)
	assert.Equal(t, first, second)
}

func TestFindMaxAffordablePrice_CeilingBound(t *testing.T) {
	c := newCalculator()

	// A budget large enough to afford anything caps at ceiling + funds.
	price := c.FindMaxAffordablePrice(1_000_000, 500_000, true)
	assert.LessOrEqual(t, price, c.search.Ceiling+500_000)
	assert.Greater(t, price, c.search.Ceiling)
}

func TestComputeBands_ThreeBands(t *testing.T) {
	c := newCalculator()

	// income $120k/yr, debt $500/mo, funds $60k, conventional.
	res, err := c.ComputeBands(120_000, 500, 60_000, false, "Austin, TX")
	require.NoError(t, err)

	require.Len(t, res.ResultRanges, 3)
	assert.Equal(t, "Austin, TX", res.Location)
	assert.Empty(t, res.Message)

	affordable, stretch, difficult := res.ResultRanges[0], res.ResultRanges[1], res.ResultRanges[2]
	assert.Equal(t, model.BandAffordable, affordable.Label)
	assert.Equal(t, model.BandStretch, stretch.Label)
	assert.Equal(t, model.BandDifficult, difficult.Label)

	// Floor of the affordable band is the rounded available funds.
	assert.InDelta(t, 60_000, affordable.MinPrice, 1e-9)
}

func TestComputeBands_Ordering(t *testing.T) {
	c := newCalculator()

	res, err := c.ComputeBands(150_000, 300, 80_000, false, "")
	require.NoError(t, err)
	require.Len(t, res.ResultRanges, 3)

	for i := 1; i < len(res.ResultRanges); i++ {
		prev, cur := res.ResultRanges[i-1], res.ResultRanges[i]
		assert.Equal(t, prev.MaxPrice+1, cur.MinPrice, "bands must be adjacent and non-overlapping")
		assert.Greater(t, cur.MaxPrice, cur.MinPrice)
	}
}

func TestComputeBands_DebtTooHigh(t *testing.T) {
	c := newCalculator()

	// income $30k/yr => $900 back-end budget, debt $1,200/mo eats it all.
	res, err := c.ComputeBands(30_000, 1_200, 10_000, false, "")
	require.NoError(t, err)

	assert.Empty(t, res.ResultRanges)
	assert.Equal(t, DTIMessage, res.Message)
}

func TestComputeBands_InvalidInput(t *testing.T) {
	c := newCalculator()

	_, err := c.ComputeBands(0, 500, 10_000, false, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = c.ComputeBands(50_000, -1, 10_000, false, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComputeBands_Idempotent(t *testing.T) {
	c := newCalculator()

	first, err := c.ComputeBands(95_000, 400, 40_000, true, "Denver, CO")
	require.NoError(t, err)
	second, err := c.ComputeBands(95_000, 400, 40_000, true, "Denver, CO")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
