package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultAccountPages is how many leading pages are searched for account
// metadata.
const DefaultAccountPages = 3

const (
	holderScanLines = 10
	holderMinLen    = 6
	holderMaxLen    = 50
)

var (
	accountNumberPattern = regexp.MustCompile(`(?i)Account(?:\s+No\.?|\s+number|\s*[:\-])\s*[:\-]?\s*([A-Za-z0-9\-]{6,})`)
	ifscPattern          = regexp.MustCompile(`(?i)IFSC(?:\s+Code)?\s*[:\-]?\s*([A-Z0-9]{11})`)
	micrPattern          = regexp.MustCompile(`(?i)MICR(?:\s+Code)?\s*[:\-]?\s*([0-9]{6,9})`)
	honorificPattern     = regexp.MustCompile(`(?m)^[ \t]*(?:MRS|MR|MS|Mrs|Mr|Ms)(?:\.[ \t]*|[ \t]+)[A-Z][A-Za-z .&-]{2,}`)
	addressPattern       = regexp.MustCompile(`(?is)Address[ \t]*[:\-]?[ \t]*(.+?)\n[ \t]*\n`)
	accountTypePattern   = regexp.MustCompile(`(?i)\b(Savings|Current)\b`)
)

// fieldStrategy recognizes one account field in header text, returning ""
// when the field is not there.
type fieldStrategy func(text string) string

// holderStrategies are tried in order; the first non-empty result wins.
var holderStrategies = []fieldStrategy{
	holderFromHonorific,
	holderFromUppercaseLine,
}

// ExtractAccountInfo reads account metadata from the first maxPages pages.
// Each field is recognized on its own; a miss leaves that field empty.
func ExtractAccountInfo(pages []string, maxPages int) models.AccountInfo {
	if maxPages <= 0 {
		maxPages = DefaultAccountPages
	}
	n := min(maxPages, len(pages))
	text := normalizeNewlines(strings.Join(pages[:n], "\n"))

	var firstPage string
	if len(pages) > 0 {
		firstPage = normalizeNewlines(pages[0])
	}

	return models.AccountInfo{
		AccountNumber:     findAccountNumber(text),
		AccountHolderName: firstMatch(text, holderStrategies...),
		AccountType:       findAccountType(text),
		IFSC:              findIFSC(text),
		MICR:              findMICR(text),
		BankName:          bankNameFromFirstLine(firstPage),
		Address:           findAddress(text),
	}
}

func firstMatch(text string, strategies ...fieldStrategy) string {
	for _, s := range strategies {
		if v := s(text); v != "" {
			return v
		}
	}
	return ""
}

func findAccountNumber(text string) string {
	return submatch(accountNumberPattern, text)
}

func findIFSC(text string) string {
	return strings.ToUpper(submatch(ifscPattern, text))
}

func findMICR(text string) string {
	return submatch(micrPattern, text)
}

// holderFromHonorific finds a line starting with Mr., Mrs. or Ms.
func holderFromHonorific(text string) string {
	return strings.TrimSpace(honorificPattern.FindString(text))
}

// holderFromUppercaseLine takes the first short all-caps line near the top.
func holderFromUppercaseLine(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if seen++; seen > holderScanLines {
			break
		}
		if len(line) < holderMinLen || len(line) > holderMaxLen {
			continue
		}
		if hasLetter(line) && strings.ToUpper(line) == line {
			return line
		}
	}
	return ""
}

// bankNameFromFirstLine returns the first non-blank line of page one.
func bankNameFromFirstLine(page string) string {
	for _, line := range strings.Split(page, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// findAddress returns the text after an "Address" label up to the next
// blank line, with its lines joined by ", ".
func findAddress(text string) string {
	m := addressPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	var parts []string
	for _, line := range strings.Split(m[1], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, ", ")
}

func findAccountType(text string) models.AccountType {
	m := accountTypePattern.FindStringSubmatch(text)
	if m == nil {
		return models.AccountUnknown
	}
	return models.AccountType(cases.Title(language.English).String(m[1]))
}

func submatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
