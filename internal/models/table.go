package models

import (
	"errors"
	"fmt"
)

// ErrCellOutOfRange is returned when a cell is read past the end of a row.
var ErrCellOutOfRange = errors.New("cell out of range")

// Document is what the document provider hands to the parser: ordered page
// texts and any candidate tables detected on those pages.
type Document struct {
	Pages  []string
	Tables []CandidateTable
}

// CandidateTable is a grid of text cells found by a table detection pass.
// Rows may be ragged; reading past the end of a short row is an error.
type CandidateTable struct {
	Origin string // detection method, e.g. "layout"
	Page   int    // 1-based page number, 0 if unknown
	rows   [][]string
}

// NewCandidateTable copies rows into a new table.
func NewCandidateTable(origin string, page int, rows [][]string) CandidateTable {
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return CandidateTable{Origin: origin, Page: page, rows: cp}
}

// NumRows returns the number of rows.
func (t CandidateTable) NumRows() int {
	return len(t.rows)
}

// NumCols returns the width of the widest row.
func (t CandidateTable) NumCols() int {
	n := 0
	for _, r := range t.rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// Row returns a copy of row i, or nil if i is out of range.
func (t CandidateTable) Row(i int) []string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return append([]string(nil), t.rows[i]...)
}

// Cell returns the text at (row, col).
func (t CandidateTable) Cell(row, col int) (string, error) {
	if row < 0 || row >= len(t.rows) {
		return "", fmt.Errorf("row %d of %d: %w", row, len(t.rows), ErrCellOutOfRange)
	}
	r := t.rows[row]
	if col < 0 || col >= len(r) {
		return "", fmt.Errorf("row %d col %d of %d: %w", row, col, len(r), ErrCellOutOfRange)
	}
	return r[col], nil
}
