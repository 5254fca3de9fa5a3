package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/parser"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"EXTRACTOR_OUTDIR", "EXTRACTOR_ACCOUNT_PAGES", "EXTRACTOR_LARGE_WITHDRAWAL",
		"EXTRACTOR_LARGE_DEPOSIT", "EXTRACTOR_WATCHLIST", "LOG_LEVEL", "LOG_PRETTY",
		"SERVER_ADDR", "REPORT_NAME", "REPORT_EMAIL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "output", cfg.Extraction.OutDir)
	assert.Equal(t, parser.DefaultAccountPages, cfg.Extraction.AccountPages)
	assert.True(t, cfg.Flags.WithdrawalThreshold.Equal(flags.DefaultWithdrawalThreshold))
	assert.True(t, cfg.Flags.DepositThreshold.Equal(flags.DefaultDepositThreshold))
	assert.Equal(t, flags.DefaultEntities, cfg.Flags.Entities)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Report.Name)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("EXTRACTOR_OUTDIR", "/tmp/out")
	t.Setenv("EXTRACTOR_ACCOUNT_PAGES", "5")
	t.Setenv("EXTRACTOR_LARGE_WITHDRAWAL", "20,000")
	t.Setenv("EXTRACTOR_LARGE_DEPOSIT", "100000.50")
	t.Setenv("EXTRACTOR_WATCHLIST", " acme , ,Globex ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("REPORT_NAME", "A. Analyst")
	t.Setenv("REPORT_EMAIL", "analyst@example.com")

	cfg := Load()

	assert.Equal(t, "/tmp/out", cfg.Extraction.OutDir)
	assert.Equal(t, 5, cfg.Extraction.AccountPages)
	assert.True(t, cfg.Flags.WithdrawalThreshold.Equal(decimal.NewFromInt(20000)))
	assert.True(t, cfg.Flags.DepositThreshold.Equal(decimal.RequireFromString("100000.50")))
	assert.Equal(t, []string{"acme", "Globex"}, cfg.Flags.Entities)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "A. Analyst", cfg.Report.Name)
	assert.Equal(t, "analyst@example.com", cfg.Report.Email)
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	t.Setenv("EXTRACTOR_ACCOUNT_PAGES", "-2")
	assert.Equal(t, 3, getEnvAsInt("EXTRACTOR_ACCOUNT_PAGES", 3))

	t.Setenv("EXTRACTOR_ACCOUNT_PAGES", "lots")
	assert.Equal(t, 3, getEnvAsInt("EXTRACTOR_ACCOUNT_PAGES", 3))
}

func TestGetEnvAsDecimal_Invalid(t *testing.T) {
	def := decimal.NewFromInt(7)
	t.Setenv("EXTRACTOR_LARGE_DEPOSIT", "abc")
	assert.True(t, getEnvAsDecimal("EXTRACTOR_LARGE_DEPOSIT", def).Equal(def))

	t.Setenv("EXTRACTOR_LARGE_DEPOSIT", "-5")
	assert.True(t, getEnvAsDecimal("EXTRACTOR_LARGE_DEPOSIT", def).Equal(def))
}
