package extractor

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"unicode"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"github.com/ledongthuc/pdf"
)

// ErrUnreadableDocument is returned when no readable text can be taken from
// a document. Scanned statements end up here.
var ErrUnreadableDocument = errors.New("document has no readable text layer")

// Open reads a PDF file and returns the text of each page plus the candidate
// tables found on them. Text comes from the ledongthuc/pdf library; when
// that fails or returns garbage, the external pdftotext command is tried.
func Open(filePath string) (*models.Document, error) {
	doc, libErr := readWithLibrary(filePath)
	if libErr == nil && isReadableText(doc.Pages) {
		return doc, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && isReadableText(popplerPages) {
		// pdftotext has no glyph positions; keep whatever tables the library found
		var tables []models.CandidateTable
		if doc != nil {
			tables = doc.Tables
		}
		return &models.Document{Pages: popplerPages, Tables: tables}, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, libErr)
	}
	return nil, fmt.Errorf("%w: the file may be image-based/scanned or use font encodings that cannot be decoded", ErrUnreadableDocument)
}

// readWithLibrary extracts page text and candidate tables with ledongthuc/pdf.
func readWithLibrary(filePath string) (doc *models.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	doc = &models.Document{}
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows := pageRows(page.Content().Text)
		text := pageTextByRow(page)
		if strings.TrimSpace(text) == "" {
			text = rowsText(rows)
		}
		doc.Pages = append(doc.Pages, text)
		doc.Tables = append(doc.Tables, detectTables(rows, i)...)
	}
	return doc, nil
}

// pageTextByRow uses GetTextByRow, which keeps the layout of well-structured
// PDFs best.
func pageTextByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	var lines []string
	for _, row := range rows {
		var parts []string
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// extractWithPdftotext uses the pdftotext command from poppler-utils.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	numPages := pdfinfoPageCount(filePath)
	if numPages == 0 {
		numPages = 1
	}

	// one call per page keeps page boundaries
	var pages []string
	for i := 1; i <= numPages; i++ {
		n := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", n, "-l", n, filePath, "-").Output()
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimRight(string(out), "\f\n "))
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// pdfinfoPageCount returns the page count reported by pdfinfo, or 0.
func pdfinfoPageCount(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil {
				return n
			}
		}
	}
	return 0
}

// textQuality returns the share of characters that are plain ASCII letters,
// digits, whitespace or common punctuation. Identity-encoded fonts decode
// to accented garbage, so unicode.IsLetter is too broad here.
func textQuality(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) ||
				unicode.IsSpace(r) || strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r)) {
				readable++
			} else if r == '₹' || r == '£' || r == '€' {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually every bank statement. Text with none of
// them is most likely garbage.
var commonWords = []string{
	"bank", "account", "balance", "date", "statement", "withdrawal",
	"deposit", "narration", "particulars", "credit", "debit", "ifsc",
	"branch", "transaction", "cheque", "amount", "total", "opening",
	"closing", "transfer", "page",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires more than 50 characters, more than 60% readable
// characters and at least one common statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

// IsReadableText reports whether pages look like a usable text layer.
func IsReadableText(pages []string) bool {
	return isReadableText(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
