package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Rates   RatesConfig   `yaml:"rates" mapstructure:"rates"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Webhook WebhookConfig `yaml:"webhook" mapstructure:"webhook"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// EngineConfig holds the underwriting constants used by the pre-approval
// engine and the policy derivation shared by both calculators.
//
// The tax and insurance rates here are split (1.2% + 0.5%) while the
// standalone search uses a combined 1.7%. The two sets diverged in the
// original product and are deliberately kept independent.
type EngineConfig struct {
	LoanTermYears       int     `yaml:"loan_term_years" mapstructure:"loan_term_years"`
	FrontEndRatio       float64 `yaml:"front_end_ratio" mapstructure:"front_end_ratio"`
	BackEndRatio        float64 `yaml:"back_end_ratio" mapstructure:"back_end_ratio"`
	BackEndRatioHigh    float64 `yaml:"back_end_ratio_high_income" mapstructure:"back_end_ratio_high_income"`
	HighIncomeThreshold float64 `yaml:"high_income_threshold" mapstructure:"high_income_threshold"`
	AnnualTaxRate       float64 `yaml:"annual_tax_rate" mapstructure:"annual_tax_rate"`
	AnnualInsuranceRate float64 `yaml:"annual_insurance_rate" mapstructure:"annual_insurance_rate"`
	PMIRate             float64 `yaml:"pmi_rate" mapstructure:"pmi_rate"`
	PMILTVThreshold     float64 `yaml:"pmi_ltv_threshold" mapstructure:"pmi_ltv_threshold"`
	MinDownPaymentPct   float64 `yaml:"min_down_payment_pct" mapstructure:"min_down_payment_pct"`
	EstConsumerDebt     float64 `yaml:"est_consumer_debt" mapstructure:"est_consumer_debt"`
	EstExistingMortgage float64 `yaml:"est_existing_mortgage" mapstructure:"est_existing_mortgage"`
}

// SearchConfig configures the standalone affordability search.
type SearchConfig struct {
	FixedRate          float64 `yaml:"fixed_rate" mapstructure:"fixed_rate"`
	AnnualTaxInsurance float64 `yaml:"annual_tax_insurance" mapstructure:"annual_tax_insurance"`
	BackEndRatio       float64 `yaml:"back_end_ratio" mapstructure:"back_end_ratio"`
	StretchBandFactor  float64 `yaml:"stretch_band_factor" mapstructure:"stretch_band_factor"`
	StepSize           float64 `yaml:"step_size" mapstructure:"step_size"`
	Floor              float64 `yaml:"floor" mapstructure:"floor"`
	Ceiling            float64 `yaml:"ceiling" mapstructure:"ceiling"`
}

// RatesConfig configures the interest rate selector.
type RatesConfig struct {
	TablePath string `yaml:"table_path" mapstructure:"table_path"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CacheConfig configures the optional redis result cache.
// Caching is disabled when RedisAddr is empty.
type CacheConfig struct {
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
	TTLHours  int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// WebhookConfig configures the result notification webhook.
type WebhookConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// BatchConfig configures batch lead processing.
type BatchConfig struct {
	MaxConcurrentLeads int `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PREQUAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("engine.loan_term_years", 30)
	v.SetDefault("engine.front_end_ratio", 0.28)
	v.SetDefault("engine.back_end_ratio", 0.36)
	v.SetDefault("engine.back_end_ratio_high_income", 0.43)
	v.SetDefault("engine.high_income_threshold", 100000)
	v.SetDefault("engine.annual_tax_rate", 0.012)
	v.SetDefault("engine.annual_insurance_rate", 0.005)
	v.SetDefault("engine.pmi_rate", 0.005)
	v.SetDefault("engine.pmi_ltv_threshold", 0.80)
	v.SetDefault("engine.min_down_payment_pct", 0.05)
	v.SetDefault("engine.est_consumer_debt", 500)
	v.SetDefault("engine.est_existing_mortgage", 1500)
	v.SetDefault("search.fixed_rate", 0.065)
	v.SetDefault("search.annual_tax_insurance", 0.017)
	v.SetDefault("search.back_end_ratio", 0.36)
	v.SetDefault("search.stretch_band_factor", 0.85)
	v.SetDefault("search.step_size", 1000)
	v.SetDefault("search.floor", 100000)
	v.SetDefault("search.ceiling", 5000000)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "prequal.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("webhook.timeout_secs", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 5)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("batch.max_concurrent_leads", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
