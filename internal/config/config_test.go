package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Engine.LoanTermYears)
	assert.InDelta(t, 0.28, cfg.Engine.FrontEndRatio, 0.001)
	assert.InDelta(t, 0.36, cfg.Engine.BackEndRatio, 0.001)
	assert.InDelta(t, 0.43, cfg.Engine.BackEndRatioHigh, 0.001)
	assert.InDelta(t, 100_000, cfg.Engine.HighIncomeThreshold, 0.001)
	assert.InDelta(t, 0.012, cfg.Engine.AnnualTaxRate, 1e-6)
	assert.InDelta(t, 0.005, cfg.Engine.AnnualInsuranceRate, 1e-6)
	assert.InDelta(t, 0.005, cfg.Engine.PMIRate, 1e-6)
	assert.InDelta(t, 0.80, cfg.Engine.PMILTVThreshold, 1e-6)
	assert.InDelta(t, 0.05, cfg.Engine.MinDownPaymentPct, 1e-6)
	assert.InDelta(t, 500, cfg.Engine.EstConsumerDebt, 0.001)
	assert.InDelta(t, 1500, cfg.Engine.EstExistingMortgage, 0.001)

	assert.InDelta(t, 0.065, cfg.Search.FixedRate, 1e-6)
	assert.InDelta(t, 0.017, cfg.Search.AnnualTaxInsurance, 1e-6)
	assert.InDelta(t, 0.85, cfg.Search.StretchBandFactor, 1e-6)
	assert.InDelta(t, 1000, cfg.Search.StepSize, 0.001)
	assert.InDelta(t, 100_000, cfg.Search.Floor, 0.001)
	assert.InDelta(t, 5_000_000, cfg.Search.Ceiling, 0.001)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrentLeads)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/prequal
log:
  level: debug
  format: console
engine:
  loan_term_years: 15
search:
  stretch_band_factor: 0.9
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 15, cfg.Engine.LoanTermYears)
	assert.InDelta(t, 0.9, cfg.Search.StretchBandFactor, 1e-6)
	// Untouched keys keep their defaults.
	assert.InDelta(t, 0.28, cfg.Engine.FrontEndRatio, 0.001)
}

func TestLoadFromEnv(t *testing.T) {
	chTempDir(t)
	t.Setenv("PREQUAL_STORE_DRIVER", "postgres")
	t.Setenv("PREQUAL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "verbose"})
	require.Error(t, err)
}
