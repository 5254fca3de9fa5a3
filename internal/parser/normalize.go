package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"github.com/shopspring/decimal"
)

var (
	creditDebitMarker = regexp.MustCompile(`(?i)cr|dr`)
	nonAmountChars    = regexp.MustCompile(`[^\d.]`)
)

// dateLayouts are tried in order; the first match wins. Go's "2" and "1"
// accept both padded and unpadded day and month.
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2-1-06",
	"2/1/06",
	"2006-01-02",
}

// CleanAmount converts a string like "1,234.56 Cr" or "-25.00" to a
// non-negative decimal. Markers, signs and separators are dropped; anything
// that still does not parse yields a null decimal.
func CleanAmount(raw string) decimal.NullDecimal {
	s := creditDebitMarker.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, ",", "")
	s = nonAmountChars.ReplaceAllString(s, "")
	if s == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseDate parses a day-first date. It returns nil when raw is not a date.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t)
		}
	}

	if t, ok := parseDatePermissive(s); ok {
		return dateOnly(t)
	}
	return nil
}

// parseDatePermissive is the last resort for layouts like "15 Jan 2024".
func parseDatePermissive(s string) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	t, err := dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// Normalize converts a raw record into the canonical transaction shape.
func Normalize(raw models.RawTransaction) models.Transaction {
	txn := models.Transaction{
		Description: strings.TrimSpace(raw.Description),
	}
	if raw.DateText != nil {
		txn.Date = ParseDate(*raw.DateText)
	}
	if raw.WithdrawalText != nil {
		txn.Withdrawal = CleanAmount(*raw.WithdrawalText)
	}
	if raw.DepositText != nil {
		txn.Deposit = CleanAmount(*raw.DepositText)
	}
	if raw.BalanceText != nil {
		txn.Balance = CleanAmount(*raw.BalanceText)
	}
	return txn
}

// NormalizeAll normalizes records in order. It never returns nil.
func NormalizeAll(raws []models.RawTransaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

// amountText cleans a raw amount and returns its canonical text, or nil.
func amountText(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d := CleanAmount(raw)
	if !d.Valid {
		return nil
	}
	return strPtr(d.Decimal.String())
}
