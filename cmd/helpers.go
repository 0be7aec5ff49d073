package main

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hearthside-group/prequal-cli/internal/mortgage"
	"github.com/hearthside-group/prequal-cli/internal/store"
)

// usd formats dollar amounts with comma grouping for CLI output.
var usd = message.NewPrinter(language.AmericanEnglish)

// initStore opens the configured database backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "prequal.db"
		}
		st, err = store.NewSQLite(dsn)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// loadRates returns the configured rate table, falling back to the built-in
// defaults when no override file is set.
func loadRates() (mortgage.RateTable, error) {
	if cfg.Rates.TablePath == "" {
		return mortgage.DefaultRateTable(), nil
	}
	return mortgage.LoadRateTable(cfg.Rates.TablePath)
}

// fmtUSD renders a whole-dollar amount like "$324,000".
func fmtUSD(v float64) string {
	return usd.Sprintf("$%.0f", v)
}
