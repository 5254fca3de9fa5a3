package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

// ErrNoTransactionTable is returned when no candidate table has a date column.
var ErrNoTransactionTable = errors.New("no candidate table has a date column")

// minDateHits is how many dated cells column 0 needs before a table is
// treated as the transaction table.
const minDateHits = 2

// TableStrategy reads transactions from candidate tables found by the
// document provider.
//
// The transaction table is expected to look like:
//
//	Date | Narration ... | Withdrawal | Deposit | Balance
//
// Narration may span any number of columns.
type TableStrategy struct{}

func (s *TableStrategy) Name() models.Strategy {
	return models.StrategyTable
}

func (s *TableStrategy) Extract(doc *models.Document, diag *models.Diagnostics) ([]models.RawTransaction, error) {
	idx := SelectTransactionTable(doc.Tables)
	if idx < 0 {
		return nil, ErrNoTransactionTable
	}
	diag.SelectedTable = idx

	records, err := ExtractTable(doc.Tables[idx])
	if err != nil {
		return nil, fmt.Errorf("table %d (page %d): %w", idx, doc.Tables[idx].Page, err)
	}
	return records, nil
}

// SelectTransactionTable returns the index of the first table whose first
// column holds at least two dates, or -1.
func SelectTransactionTable(tables []models.CandidateTable) int {
	for i, t := range tables {
		hits := 0
		for r := 0; r < t.NumRows(); r++ {
			cell, err := t.Cell(r, 0)
			if err != nil {
				continue
			}
			if _, ok := findCellDate(cell); ok {
				hits++
			}
		}
		if hits >= minDateHits {
			return i
		}
	}
	return -1
}

// ExtractTable maps the rows of a transaction table to raw records.
// It is all or nothing: if any dated row cannot be read, no rows are
// returned.
func ExtractTable(t models.CandidateTable) (records []models.RawTransaction, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("table processing crashed: %v", r)
		}
	}()

	cols := t.NumCols()
	var out []models.RawTransaction
	for r := 0; r < t.NumRows(); r++ {
		row := t.Row(r)
		if len(row) == 0 {
			continue
		}
		date, ok := findCellDate(strings.TrimSpace(row[0]))
		if !ok {
			continue
		}

		rec, err := tableRow(t, r, cols)
		if err != nil {
			return nil, err
		}
		rec.DateText = strPtr(date)
		out = append(out, rec)
	}
	return out, nil
}

// tableRow assigns column roles for one dated row.
func tableRow(t models.CandidateTable, r, cols int) (models.RawTransaction, error) {
	var rec models.RawTransaction

	if cols >= 4 {
		desc, err := cellRange(t, r, 1, cols-3)
		if err != nil {
			return rec, err
		}
		tail, err := cellRange(t, r, cols-3, cols)
		if err != nil {
			return rec, err
		}
		rec.Description = joinNonEmpty(desc)
		rec.WithdrawalText = amountText(tail[0])
		rec.DepositText = amountText(tail[1])
		rec.BalanceText = amountText(tail[2])
		return rec, nil
	}

	rest, err := cellRange(t, r, 1, cols)
	if err != nil {
		return rec, err
	}
	rec.Description = joinNonEmpty(rest)
	if nums := findAmountTokens(rec.Description); len(nums) >= 3 {
		n := len(nums)
		rec.WithdrawalText = amountText(nums[n-3])
		rec.DepositText = amountText(nums[n-2])
		rec.BalanceText = amountText(nums[n-1])
	}
	return rec, nil
}

// cellRange reads cells [from, to) of row r.
func cellRange(t models.CandidateTable, r, from, to int) ([]string, error) {
	cells := make([]string, 0, to-from)
	for c := from; c < to; c++ {
		cell, err := t.Cell(r, c)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	return cells, nil
}
