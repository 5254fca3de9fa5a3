package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/bank-statement-extractor/internal/config"
	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/logger"
	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"github.com/insightdelivered/bank-statement-extractor/internal/statement"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	// CLI flags; defaults come from the environment
	pdfFlag := flag.String("pdf", "", "Path to the statement PDF (required)")
	outdirFlag := flag.String("outdir", cfg.Extraction.OutDir, "Output folder")
	nameFlag := flag.String("name", cfg.Report.Name, "Your name for the report")
	emailFlag := flag.String("email", cfg.Report.Email, "Your email for the report")
	pagesFlag := flag.Int("pages", cfg.Extraction.AccountPages, "Number of leading pages searched for account details")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Extractor
by Insight Delivered (QEA AutoLens)

Extracts account details and transactions from a text-based bank statement
PDF, flags large DD withdrawals, large RTGS deposits and watched names, and
writes CSVs, a timeline workbook and a short report.

Usage:
  bank-statement-extractor --pdf <statement.pdf> [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  bank-statement-extractor --pdf statement.pdf
  bank-statement-extractor --pdf statement.pdf --outdir out --name "A. Analyst" --email a@example.com

Outputs (in --outdir):
  account_info.csv   account number, holder, type, IFSC, MICR, bank, address
  transactions.csv   one row per transaction with flag columns
  timeline.xlsx      daily deposits and withdrawals with a chart
  report.md          methodology, account info, flag counts and totals
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("bank-statement-extractor v%s\n", version)
		os.Exit(0)
	}

	if *pdfFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	svc := statement.New(flags.New(cfg.Flags), log, statement.WithAccountPages(*pagesFlag))

	report := statement.ReportOptions{Name: *nameFlag, Email: *emailFlag}
	if err := processFile(svc, *pdfFlag, *outdirFlag, report); err != nil {
		fatalf("Error processing %s: %v\n", *pdfFlag, err)
	}
}

func processFile(svc *statement.Service, inputPath, outDir string, report statement.ReportOptions) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	stmt, err := svc.ProcessFile(context.Background(), inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("  Strategy: %s\n", stmt.Diagnostics.Strategy)
	if stmt.Diagnostics.FallbackReason != "" {
		fmt.Printf("  Fallback: %s\n", stmt.Diagnostics.FallbackReason)
	}
	fmt.Printf("  Found %d transaction(s)\n", len(stmt.Transactions))

	if len(stmt.Transactions) == 0 {
		fmt.Println("  Warning: No transactions extracted. Check if the PDF is a scanned image (OCR required) or the layout is unknown.")
	}

	arts, err := svc.WriteArtifacts(stmt, outDir, report)
	if err != nil {
		return fmt.Errorf("writing output failed: %w", err)
	}

	fmt.Printf("  Output: %s, %s\n", arts.Account, arts.Transactions)
	if arts.Timeline != "" {
		fmt.Printf("  Timeline: %s\n", arts.Timeline)
	}
	if arts.Report != "" {
		fmt.Printf("  Report: %s\n", arts.Report)
	}

	printAccount(stmt.Account)
	s := flags.Summarize(stmt.Transactions)
	fmt.Printf("  Flags: %d DD withdrawal(s), %d RTGS deposit(s), %d entity match(es)\n",
		s.LargeWithdrawals, s.LargeDeposits, s.EntityMatches)

	fmt.Println("  Done.")
	return nil
}

func printAccount(info models.AccountInfo) {
	if info.AccountHolderName != "" {
		fmt.Printf("  Account holder: %s\n", info.AccountHolderName)
	}
	if info.AccountNumber != "" {
		fmt.Printf("  Account number: %s\n", info.AccountNumber)
	}
	if info.IFSC != "" {
		fmt.Printf("  IFSC: %s\n", info.IFSC)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
