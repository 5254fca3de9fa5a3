package parser

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"github.com/rs/zerolog"
)

// Strategy defines the interface for transaction extraction strategies.
type Strategy interface {
	// Extract returns raw records in document order. Details about the
	// attempt may be recorded in diag.
	Extract(doc *models.Document, diag *models.Diagnostics) ([]models.RawTransaction, error)
	// Name identifies the strategy in diagnostics.
	Name() models.Strategy
}

// Extractor runs the primary strategy and falls back to the secondary one
// when the primary fails or finds nothing. Results are never merged.
type Extractor struct {
	primary  Strategy
	fallback Strategy
	log      zerolog.Logger
}

// New returns an Extractor that tries candidate tables first and falls back
// to line scanning.
func New(log zerolog.Logger) *Extractor {
	return &Extractor{
		primary:  &TableStrategy{},
		fallback: &TextStrategy{},
		log:      log,
	}
}

// NewWithStrategies returns an Extractor with custom strategies.
func NewWithStrategies(primary, fallback Strategy, log zerolog.Logger) *Extractor {
	return &Extractor{primary: primary, fallback: fallback, log: log}
}

// Extract returns the normalized transactions of doc and a report of how
// they were obtained. It does not fail: a document with no recognizable
// transactions yields an empty slice.
func (e *Extractor) Extract(doc *models.Document) ([]models.Transaction, models.Diagnostics) {
	diag := models.Diagnostics{
		RunID:            uuid.NewString(),
		TablesConsidered: len(doc.Tables),
		SelectedTable:    -1,
	}

	raw, err := e.primary.Extract(doc, &diag)
	if err == nil && len(raw) > 0 {
		diag.Strategy = e.primary.Name()
		e.log.Debug().
			Str("run_id", diag.RunID).
			Str("strategy", string(diag.Strategy)).
			Int("records", len(raw)).
			Msg("extracted transactions")
		return NormalizeAll(raw), diag
	}

	reason := fmt.Sprintf("%s strategy produced no rows", e.primary.Name())
	if err != nil {
		reason = fmt.Sprintf("%s strategy failed: %v", e.primary.Name(), err)
	}
	diag.FallbackReason = reason
	diag.Warnings = append(diag.Warnings, reason)
	e.log.Warn().
		Str("run_id", diag.RunID).
		Str("fallback", string(e.fallback.Name())).
		Msg(reason)

	raw, err = e.fallback.Extract(doc, &diag)
	diag.Strategy = e.fallback.Name()
	if err != nil {
		msg := fmt.Sprintf("%s strategy failed: %v", e.fallback.Name(), err)
		diag.Warnings = append(diag.Warnings, msg)
		e.log.Error().Str("run_id", diag.RunID).Msg(msg)
		return []models.Transaction{}, diag
	}

	e.log.Debug().
		Str("run_id", diag.RunID).
		Str("strategy", string(diag.Strategy)).
		Int("records", len(raw)).
		Msg("extracted transactions")
	return NormalizeAll(raw), diag
}
