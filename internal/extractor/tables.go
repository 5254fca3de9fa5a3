package extractor

import (
	"sort"
	"strings"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

// TableOrigin marks tables found by column alignment on a page.
const TableOrigin = "layout"

const (
	// minTableCells is the fewest cells a row needs to count as tabular.
	minTableCells = 3
	// minTableRows is the fewest tabular rows that make a table.
	minTableRows = 2
)

// span is a horizontal range occupied by a column.
type span struct {
	x, right float64
}

// detectTables finds at most one candidate table on a page. Columns are the
// horizontal ranges that the cells of tabular rows cover; the whitespace
// between them separates columns, so right-aligned amounts still land in
// one column. Every row between the first and last tabular row is mapped
// onto those columns, which keeps the table rectangular.
func detectTables(rows [][]cell, page int) []models.CandidateTable {
	first, last := -1, -1
	var tabular [][]cell
	for i, row := range rows {
		if len(row) < minTableCells {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		tabular = append(tabular, row)
	}
	if len(tabular) < minTableRows {
		return nil
	}

	columns := columnSpans(tabular)
	if len(columns) < minTableCells {
		return nil
	}

	grid := make([][]string, 0, last-first+1)
	for _, row := range rows[first : last+1] {
		grid = append(grid, assignColumns(row, columns))
	}
	return []models.CandidateTable{models.NewCandidateTable(TableOrigin, page, grid)}
}

// columnSpans merges the horizontal extents of all cells into disjoint
// spans, sorted left to right.
func columnSpans(rows [][]cell) []span {
	var all []span
	for _, row := range rows {
		for _, c := range row {
			all = append(all, span{x: c.x, right: c.right})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].x < all[j].x })

	var merged []span
	for _, s := range all {
		if n := len(merged); n > 0 && s.x <= merged[n-1].right {
			if s.right > merged[n-1].right {
				merged[n-1].right = s.right
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// assignColumns places each cell in the column containing its centre, or
// the nearest column. Cells sharing a column are joined with a space.
func assignColumns(row []cell, columns []span) []string {
	out := make([]string, len(columns))
	for _, c := range row {
		i := nearestColumn((c.x+c.right)/2, columns)
		if out[i] == "" {
			out[i] = c.text
		} else {
			out[i] += " " + c.text
		}
	}
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

func nearestColumn(centre float64, columns []span) int {
	best, bestDist := 0, -1.0
	for i, col := range columns {
		var d float64
		switch {
		case centre < col.x:
			d = col.x - centre
		case centre > col.right:
			d = centre - col.right
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
