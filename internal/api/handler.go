package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/bank-statement-extractor/internal/extractor"
	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/logger"
	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"github.com/insightdelivered/bank-statement-extractor/internal/statement"
	"github.com/insightdelivered/bank-statement-extractor/internal/writer"
)

// PageBreak separates pages in pre-extracted text sent by the browser.
const PageBreak = "\n---PAGE_BREAK---\n"

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success         bool                 `json:"success"`
	Error           string               `json:"error,omitempty"`
	Account         *models.AccountInfo  `json:"account,omitempty"`
	Transactions    []models.Transaction `json:"transactions"`
	Flags           flags.Summary        `json:"flags"`
	Diagnostics     *models.Diagnostics  `json:"diagnostics,omitempty"`
	CSV             string               `json:"csv,omitempty"`
	TotalWithdrawal decimal.Decimal      `json:"totalWithdrawal"`
	TotalDeposit    decimal.Decimal      `json:"totalDeposit"`
	Count           int                  `json:"count"`
	Version         string               `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	svc     *statement.Service
	log     zerolog.Logger
	version string

	registry    *prometheus.Registry
	extractions *prometheus.CounterVec
	duration    prometheus.Histogram
	txnCount    prometheus.Counter
}

// NewHandler returns a Handler backed by svc. Metrics are kept in a
// registry of their own.
func NewHandler(svc *statement.Service, log zerolog.Logger, version string) *Handler {
	h := &Handler{
		svc:      svc,
		log:      log,
		version:  version,
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_extractions_total",
			Help: "Statements processed, by the strategy that produced the transactions.",
		}, []string{"strategy"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "statement_extraction_duration_seconds",
			Help:    "Time taken to process one statement.",
			Buckets: prometheus.DefBuckets,
		}),
		txnCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_transactions_total",
			Help: "Transactions extracted across all statements.",
		}),
	}
	h.registry.MustRegister(h.extractions, h.duration, h.txnCount)
	return h
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/extract", h.HandleExtract)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})))
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.version,
	})
}

// HandleExtract accepts either a PDF upload in the "file" field or page text
// in the "extractedText" field, pages separated by PageBreak. The text
// takes precedence when both are sent.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	start := time.Now()
	reqLog := h.log.With().Str("request_id", uuid.NewString()).Logger()
	ctx := logger.WithContext(c.UserContext(), reqLog)

	includeHeader := c.FormValue("header") != "false"

	var stmt models.Statement
	if pages := splitPages(c.FormValue("extractedText")); len(pages) > 0 {
		if !extractor.IsReadableText(pages) {
			return writeError(c, fiber.StatusUnprocessableEntity, "The extracted text does not look like a bank statement.")
		}
		stmt = h.svc.ProcessPages(ctx, pages)
	} else {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'extractedText'.")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
		}

		tmpDir, err := os.MkdirTemp("", "statement-*")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
		}
		defer os.RemoveAll(tmpDir)

		tmpPath := filepath.Join(tmpDir, "upload.pdf")
		if err := c.SaveFile(fh, tmpPath); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
		}

		stmt, err = h.svc.ProcessFile(ctx, tmpPath)
		if err != nil {
			reqLog.Warn().Err(err).Str("file", fh.Filename).Msg("extraction failed")
			if errors.Is(err, extractor.ErrUnreadableDocument) {
				return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
			}
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := csvWriter.WriteTransactions(&csvBuf, stmt.Transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	h.observe(stmt, time.Since(start))

	resp := ExtractResponse{
		Success:      true,
		Transactions: stmt.Transactions,
		Flags:        flags.Summarize(stmt.Transactions),
		Diagnostics:  &stmt.Diagnostics,
		CSV:          csvBuf.String(),
		Count:        len(stmt.Transactions),
		Version:      h.version,
	}
	resp.TotalWithdrawal, resp.TotalDeposit = totals(stmt.Transactions)
	if !stmt.Account.IsEmpty() {
		resp.Account = &stmt.Account
	}
	return c.JSON(resp)
}

func (h *Handler) observe(stmt models.Statement, elapsed time.Duration) {
	strategy := string(stmt.Diagnostics.Strategy)
	if strategy == "" {
		strategy = "none"
	}
	h.extractions.WithLabelValues(strategy).Inc()
	h.duration.Observe(elapsed.Seconds())
	h.txnCount.Add(float64(len(stmt.Transactions)))
}

func splitPages(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var pages []string
	for _, page := range strings.Split(text, PageBreak) {
		if page = strings.TrimSpace(page); page != "" {
			pages = append(pages, page)
		}
	}
	return pages
}

func totals(txns []models.Transaction) (withdrawal, deposit decimal.Decimal) {
	for _, txn := range txns {
		if txn.Withdrawal.Valid {
			withdrawal = withdrawal.Add(txn.Withdrawal.Decimal)
		}
		if txn.Deposit.Valid {
			deposit = deposit.Add(txn.Deposit.Decimal)
		}
	}
	return withdrawal, deposit
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
