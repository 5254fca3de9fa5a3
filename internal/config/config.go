package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/parser"
)

// Config holds all application configuration
type Config struct {
	Extraction ExtractionConfig
	Flags      flags.Config
	Report     ReportConfig
	Log        LogConfig
	Server     ServerConfig
}

type ExtractionConfig struct {
	OutDir       string
	AccountPages int
}

type ReportConfig struct {
	Name  string
	Email string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type ServerConfig struct {
	Addr string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Extraction: ExtractionConfig{
			OutDir:       getEnv("EXTRACTOR_OUTDIR", "output"),
			AccountPages: getEnvAsInt("EXTRACTOR_ACCOUNT_PAGES", parser.DefaultAccountPages),
		},
		Flags: flags.Config{
			WithdrawalThreshold: getEnvAsDecimal("EXTRACTOR_LARGE_WITHDRAWAL", flags.DefaultWithdrawalThreshold),
			DepositThreshold:    getEnvAsDecimal("EXTRACTOR_LARGE_DEPOSIT", flags.DefaultDepositThreshold),
			Entities:            getEnvAsList("EXTRACTOR_WATCHLIST", flags.DefaultEntities),
		},
		Report: ReportConfig{
			Name:  getEnv("REPORT_NAME", ""),
			Email: getEnv("REPORT_EMAIL", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", true),
		},
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8080"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	valueStr := strings.ReplaceAll(os.Getenv(key), ",", "")
	if value, err := decimal.NewFromString(valueStr); err == nil && value.IsPositive() {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
