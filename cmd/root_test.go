package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside-group/prequal-cli/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"affordability", "preapprove", "batch", "leads", "serve", "migrate"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "prequal", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAffordabilityCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"income", "debt", "funds", "military", "location", "json", "save"} {
		flag := affordabilityCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "affordability should have --%s flag", flagName)
	}
}

func TestPreapproveCommand_Flags(t *testing.T) {
	flag := preapproveCmd.Flags().Lookup("income-range")
	require.NotNil(t, flag, "preapprove should have --income-range flag")

	creditFlag := preapproveCmd.Flags().Lookup("credit-range")
	require.NotNil(t, creditFlag, "preapprove should have --credit-range flag")

	typeFlag := preapproveCmd.Flags().Lookup("property-type")
	require.NotNil(t, typeFlag)
	assert.Equal(t, "Single Family Home", typeFlag.DefValue)
}

func TestBatchCommand_Flags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("csv")
	require.NotNil(t, flag, "batch should have --csv flag")

	limitFlag := batchCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "0", limitFlag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestFmtUSD(t *testing.T) {
	assert.Equal(t, "$324,000", fmtUSD(324_000))
	assert.Equal(t, "$0", fmtUSD(0))
	assert.Equal(t, "$1,500,000", fmtUSD(1_500_000))
}

func TestInitStore_SQLite(t *testing.T) {
	old := cfg
	t.Cleanup(func() { cfg = old })
	cfg = &config.Config{
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "test.db"),
		},
	}

	st, err := initStore(context.Background())
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestInitStore_UnknownDriver(t *testing.T) {
	old := cfg
	t.Cleanup(func() { cfg = old })
	cfg = &config.Config{Store: config.StoreConfig{Driver: "oracle"}}

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}
