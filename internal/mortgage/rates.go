package mortgage

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/hearthside-group/prequal-cli/internal/model"
)

// RateTier maps an inclusive minimum credit score to an assumed annual rate.
type RateTier struct {
	MinScore int     `yaml:"min_score"`
	Rate     float64 `yaml:"rate"`
}

// RateTable holds the credit-tier base rates and the additive surcharges for
// property usage and type. Surcharges stack.
type RateTable struct {
	Tiers           []RateTier         `yaml:"tiers"`
	FallbackRate    float64            `yaml:"fallback_rate"`
	UsageSurcharges map[string]float64 `yaml:"usage_surcharges"`
	TypeSurcharges  map[string]float64 `yaml:"type_surcharges"`
}

// DefaultRateTable returns the built-in rate assumptions.
func DefaultRateTable() RateTable {
	return RateTable{
		Tiers: []RateTier{
			{MinScore: 720, Rate: 0.065},
			{MinScore: 680, Rate: 0.07},
			{MinScore: 620, Rate: 0.08},
		},
		FallbackRate: 0.085,
		UsageSurcharges: map[string]float64{
			model.PropertyUsageInvestment: 0.005,
		},
		TypeSurcharges: map[string]float64{
			model.PropertyTypeCondominium: 0.0025,
		},
	}
}

// LoadRateTable reads a rate table override from a YAML file.
func LoadRateTable(path string) (RateTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RateTable{}, eris.Wrapf(err, "mortgage: read rate table %s", path)
	}

	var t RateTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return RateTable{}, eris.Wrapf(err, "mortgage: parse rate table %s", path)
	}
	if len(t.Tiers) == 0 {
		return RateTable{}, eris.Errorf("mortgage: rate table %s has no tiers", path)
	}
	if t.FallbackRate <= 0 {
		return RateTable{}, eris.Errorf("mortgage: rate table %s has no fallback rate", path)
	}

	// Highest tier first so SelectRate can take the first match.
	sort.Slice(t.Tiers, func(i, j int) bool { return t.Tiers[i].MinScore > t.Tiers[j].MinScore })
	return t, nil
}

// SelectRate returns the assumed annual interest rate for a credit score and
// property attributes. It always returns a positive rate.
func (t RateTable) SelectRate(creditScore int, usage, propertyType string) float64 {
	rate := t.FallbackRate
	for _, tier := range t.Tiers {
		if creditScore >= tier.MinScore {
			rate = tier.Rate
			break
		}
	}

	rate += t.UsageSurcharges[usage]
	rate += t.TypeSurcharges[propertyType]
	return rate
}
