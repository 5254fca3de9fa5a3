package parser

import (
	"regexp"
	"strings"
)

// Date and amount patterns shared by both extraction strategies.
var (
	// DD-MM-YYYY, DD/MM/YY and mixed separators, anywhere in a table cell
	cellDatePattern = regexp.MustCompile(`\d{2}[-/]\d{2}[-/]\d{2,4}`)
	// the same shape at the start of a line, after optional whitespace
	anchorDatePattern = regexp.MustCompile(`^\s*(\d{2}[/-]\d{2}[/-]\d{2,4})\b`)
	// digit groups with optional thousands separators (1,234 or 1,23,456) and decimals
	amountTokenPattern = regexp.MustCompile(`\d+(?:,\d{2,3})*(?:\.\d+)?`)
)

// findCellDate returns the first date-shaped substring of a table cell.
func findCellDate(cell string) (string, bool) {
	m := cellDatePattern.FindString(cell)
	return m, m != ""
}

// findAmountTokens returns every numeric token in s, left to right.
func findAmountTokens(s string) []string {
	return amountTokenPattern.FindAllString(s, -1)
}

// splitLines joins pages and splits them into physical lines.
func splitLines(pages []string) []string {
	text := strings.Join(pages, "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// joinNonEmpty trims each part and joins the non-empty ones with a space.
func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func strPtr(s string) *string {
	return &s
}
