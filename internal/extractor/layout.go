package extractor

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// cellGap is the horizontal gap, in points, that separates two cells.
	cellGap = 12.0
	// minWordGap separates words inside a cell when the font size is unknown.
	minWordGap = 1.5
)

// cell is a run of glyphs on one row with no large gap inside it.
type cell struct {
	x, right float64
	text     string
}

// pageRows groups glyphs into rows, top to bottom, and each row into cells,
// left to right. Glyphs whose rounded Y matches share a row.
func pageRows(texts []pdf.Text) [][]cell {
	byY := make(map[int][]pdf.Text)
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		byY[y] = append(byY[y], t)
	}

	ys := make([]int, 0, len(byY))
	for y := range byY {
		ys = append(ys, y)
	}
	// PDF Y grows upwards
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	rows := make([][]cell, 0, len(ys))
	for _, y := range ys {
		glyphs := byY[y]
		sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })
		rows = append(rows, mergeCells(glyphs))
	}
	return rows
}

// mergeCells joins sorted glyphs into cells, inserting a space between
// words and starting a new cell at every gap wider than cellGap.
func mergeCells(glyphs []pdf.Text) []cell {
	var (
		cells []cell
		cur   *cell
		sb    strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.text = strings.TrimSpace(sb.String())
			cells = append(cells, *cur)
		}
		sb.Reset()
	}

	for _, g := range glyphs {
		right := g.X + g.W
		if cur == nil {
			cur = &cell{x: g.X, right: right}
			sb.WriteString(g.S)
			continue
		}

		gap := g.X - cur.right
		switch {
		case gap > cellGap:
			flush()
			cur = &cell{x: g.X, right: right}
		case gap > wordGap(g):
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		if right > cur.right {
			cur.right = right
		}
	}
	flush()
	return cells
}

func wordGap(g pdf.Text) float64 {
	if g.FontSize > 0 {
		return math.Max(minWordGap, g.FontSize*0.2)
	}
	return minWordGap
}

// rowsText renders rows as plain text, cells separated by two spaces.
func rowsText(rows [][]cell) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		parts := make([]string, 0, len(row))
		for _, c := range row {
			parts = append(parts, c.text)
		}
		if line := strings.TrimSpace(strings.Join(parts, "  ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
