// Package statement runs a full extraction: account info, transactions,
// flags and the output artifacts.
package statement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/bank-statement-extractor/internal/extractor"
	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/logger"
	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"github.com/insightdelivered/bank-statement-extractor/internal/parser"
	"github.com/insightdelivered/bank-statement-extractor/internal/writer"
)

// NoTransactionsWarning is recorded when a document yields no transactions.
const NoTransactionsWarning = "no transactions extracted; the PDF may be a scanned image or use an unknown layout"

// Opener turns a file into a Document.
type Opener func(path string) (*models.Document, error)

// Service processes statements. It is safe for concurrent use; each call
// runs on its own.
type Service struct {
	open         Opener
	extractor    *parser.Extractor
	flags        *flags.Engine
	accountPages int
	log          zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithOpener replaces the PDF reader.
func WithOpener(open Opener) Option {
	return func(s *Service) { s.open = open }
}

// WithAccountPages sets how many leading pages are searched for account
// metadata.
func WithAccountPages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.accountPages = n
		}
	}
}

// New returns a Service using engine for flags.
func New(engine *flags.Engine, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		open:         extractor.Open,
		extractor:    parser.New(log),
		flags:        engine,
		accountPages: parser.DefaultAccountPages,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessFile reads the PDF at path and extracts its statement. Only an
// unreadable document is an error.
func (s *Service) ProcessFile(ctx context.Context, path string) (models.Statement, error) {
	if err := ctx.Err(); err != nil {
		return models.Statement{}, err
	}
	doc, err := s.open(path)
	if err != nil {
		return models.Statement{}, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return s.ProcessDocument(ctx, doc), nil
}

// ProcessPages extracts a statement from page text alone. With no
// candidate tables, transactions always come from line scanning.
func (s *Service) ProcessPages(ctx context.Context, pages []string) models.Statement {
	return s.ProcessDocument(ctx, &models.Document{Pages: pages})
}

// ProcessDocument extracts account info and flagged transactions from doc.
func (s *Service) ProcessDocument(ctx context.Context, doc *models.Document) models.Statement {
	account := parser.ExtractAccountInfo(doc.Pages, s.accountPages)
	txns, diag := s.extractor.Extract(doc)
	txns = s.flags.Apply(txns)

	log := s.logger(ctx).With().Str("run_id", diag.RunID).Logger()
	if len(txns) == 0 {
		diag.Warnings = append(diag.Warnings, NoTransactionsWarning)
		log.Warn().Msg(NoTransactionsWarning)
	}
	log.Info().
		Str("strategy", string(diag.Strategy)).
		Int("pages", len(doc.Pages)).
		Int("tables", len(doc.Tables)).
		Int("transactions", len(txns)).
		Msg("statement processed")

	return models.Statement{
		Account:      account,
		Transactions: txns,
		Diagnostics:  diag,
	}
}

// logger prefers a request-scoped logger carried by ctx.
func (s *Service) logger(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(logger.LoggerKey).(zerolog.Logger); ok {
		return l
	}
	return s.log
}

// ReportOptions identifies the analyst in the report.
type ReportOptions struct {
	Name  string
	Email string
}

// Artifacts lists the files written for a statement. Empty paths were not
// written.
type Artifacts struct {
	Account      string
	Transactions string
	Timeline     string
	Report       string
}

// WriteArtifacts writes the CSVs, the timeline workbook and the report into
// outDir. CSV failures are returned. Timeline and report failures are
// logged and leave the files already written in place.
func (s *Service) WriteArtifacts(stmt models.Statement, outDir string, report ReportOptions) (Artifacts, error) {
	var out Artifacts
	log := s.log.With().Str("run_id", stmt.Diagnostics.RunID).Logger()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return out, fmt.Errorf("failed to create output directory %q: %w", outDir, err)
	}

	accountPath := filepath.Join(outDir, writer.AccountFile)
	if err := writer.WriteAccountCSV(accountPath, stmt.Account); err != nil {
		return out, err
	}
	out.Account = accountPath

	txnPath := filepath.Join(outDir, writer.TransactionsFile)
	if err := writer.WriteTransactionsCSV(txnPath, stmt.Transactions); err != nil {
		return out, err
	}
	out.Transactions = txnPath
	log.Info().Str("dir", outDir).Msg("saved account_info.csv and transactions.csv")

	timelinePath := filepath.Join(outDir, writer.TimelineFile)
	if err := (&writer.TimelineWriter{}).WriteToFile(timelinePath, stmt.Transactions); err != nil {
		log.Error().Err(err).Msg("could not create timeline")
	} else {
		out.Timeline = timelinePath
		log.Info().Str("path", timelinePath).Msg("timeline saved")
	}

	rw := &writer.ReportWriter{
		Name:                report.Name,
		Email:               report.Email,
		WithdrawalThreshold: s.flags.WithdrawalThreshold(),
		DepositThreshold:    s.flags.DepositThreshold(),
		Entities:            s.flags.Entities(),
	}
	if out.Timeline != "" {
		rw.Timeline = writer.TimelineFile
	}
	reportPath := filepath.Join(outDir, writer.ReportFile)
	if err := rw.WriteToFile(reportPath, stmt); err != nil {
		log.Error().Err(err).Msg("could not create report")
	} else {
		out.Report = reportPath
		log.Info().Str("path", reportPath).Msg("report saved")
	}

	return out, nil
}
