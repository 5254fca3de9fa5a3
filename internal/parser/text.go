package parser

import (
	"strings"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

// Line results recorded in the debug trace.
const (
	lineAnchor       = "anchor"
	lineContinuation = "continuation"
	lineDiscarded    = "discarded"
)

const maxDebugText = 120

// TextStrategy rebuilds transactions from plain page text. A line starting
// with a date opens a record; the lines after it, up to the next dated
// line, extend its description.
type TextStrategy struct{}

func (s *TextStrategy) Name() models.Strategy {
	return models.StrategyText
}

func (s *TextStrategy) Extract(doc *models.Document, diag *models.Diagnostics) ([]models.RawTransaction, error) {
	records, trace := ParseText(doc.Pages)
	diag.DebugLines = trace
	return records, nil
}

// ParseText scans page text line by line and returns the records in the
// order they appear, together with a per-line trace.
func ParseText(pages []string) ([]models.RawTransaction, []models.DebugLine) {
	var (
		records []models.RawTransaction
		trace   []models.DebugLine
		current *models.RawTransaction
	)

	for i, line := range splitLines(pages) {
		line = strings.TrimRight(line, " \t")
		dl := models.DebugLine{LineNum: i + 1, Text: truncate(line)}

		if loc := anchorDatePattern.FindStringSubmatchIndex(line); loc != nil {
			if current != nil {
				records = append(records, *current)
			}
			rec, tokens := openRecord(line, loc)
			current = &rec
			dl.Result = lineAnchor
			dl.Tokens = tokens
			trace = append(trace, dl)
			continue
		}

		text := strings.TrimSpace(line)
		if current == nil || text == "" {
			dl.Result = lineDiscarded
			trace = append(trace, dl)
			continue
		}

		if current.Description == "" {
			current.Description = text
		} else {
			current.Description += " " + text
		}
		dl.Result = lineContinuation
		trace = append(trace, dl)
	}

	if current != nil {
		records = append(records, *current)
	}
	return records, trace
}

// openRecord starts a record from an anchor line. Amounts come from this
// line only, after the date.
func openRecord(line string, loc []int) (models.RawTransaction, int) {
	after := strings.TrimSpace(line[loc[1]:])
	rec := models.RawTransaction{
		DateText:    strPtr(line[loc[2]:loc[3]]),
		Description: after,
	}

	tokens := findAmountTokens(after)
	rec.WithdrawalText, rec.DepositText, rec.BalanceText = mapAmountTokens(tokens)
	return rec, len(tokens)
}

// mapAmountTokens assigns numeric tokens by position, rightmost first:
//
//	3+ tokens: withdrawal, deposit, balance (last three)
//	2 tokens:  deposit, balance
//	1 token:   balance
//
// Two tokens cannot tell a withdrawal from a deposit; they are always read
// as deposit and balance.
func mapAmountTokens(tokens []string) (withdrawal, deposit, balance *string) {
	n := len(tokens)
	switch {
	case n >= 3:
		return amountText(tokens[n-3]), amountText(tokens[n-2]), amountText(tokens[n-1])
	case n == 2:
		return nil, amountText(tokens[0]), amountText(tokens[1])
	case n == 1:
		return nil, nil, amountText(tokens[0])
	default:
		return nil, nil, nil
	}
}

func truncate(line string) string {
	if len(line) > maxDebugText {
		return line[:maxDebugText] + "..."
	}
	return line
}
