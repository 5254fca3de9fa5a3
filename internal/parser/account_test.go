package parser

import (
	"testing"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

const sbiHeader = `STATE BANK OF INDIA
Branch: MG ROAD, BENGALURU
MR. RAJESH KUMAR
Account No. : 30123456789
Account Type: SAVINGS ACCOUNT
IFSC Code: sbin0001234
MICR Code: 560002017
Address: 12 LAKE VIEW ROAD
BENGALURU 560001

Statement from 01-04-2023 to 30-04-2023`

func TestExtractAccountInfo(t *testing.T) {
	info := ExtractAccountInfo([]string{sbiHeader}, 0)

	want := models.AccountInfo{
		AccountNumber:     "30123456789",
		AccountHolderName: "MR. RAJESH KUMAR",
		AccountType:       models.AccountSavings,
		IFSC:              "SBIN0001234",
		MICR:              "560002017",
		BankName:          "STATE BANK OF INDIA",
		Address:           "12 LAKE VIEW ROAD, BENGALURU 560001",
	}
	if info != want {
		t.Errorf("got  %+v\nwant %+v", info, want)
	}
}

func TestExtractAccountInfo_Empty(t *testing.T) {
	info := ExtractAccountInfo(nil, 3)
	if !info.IsEmpty() {
		t.Errorf("expected empty info, got %+v", info)
	}
}

func TestExtractAccountInfo_PageLimit(t *testing.T) {
	pages := []string{"BANK HEADER", "nothing here", "IFSC: HDFC0000123"}

	if got := ExtractAccountInfo(pages, 2).IFSC; got != "" {
		t.Errorf("IFSC on page 3 should be ignored with a 2 page limit, got %q", got)
	}
	if got := ExtractAccountInfo(pages, 3).IFSC; got != "HDFC0000123" {
		t.Errorf("got %q, want HDFC0000123", got)
	}
}

func TestFindAccountNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Account No: 1234567890", "1234567890"},
		{"Account Number 0012-3456-78", "0012-3456-78"},
		{"account: ABC123456", "ABC123456"},
		{"Account No. 12345", ""},
		{"Your account summary", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := findAccountNumber(tt.input); got != tt.expected {
				t.Errorf("findAccountNumber(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHolderStrategies(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"honorific with dot", "Bank\nMrs. Anita Sharma\n", "Mrs. Anita Sharma"},
		{"honorific without dot", "Bank\nMR ARIF KHAN\n", "MR ARIF KHAN"},
		{"uppercase line fallback", "Welcome\nPRIYA NAIR\nAccount No: 123456", "PRIYA NAIR"},
		{"short uppercase lines skipped", "ABC\nDEVI PRASAD", "DEVI PRASAD"},
		{"nothing", "welcome to your statement", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstMatch(tt.input, holderStrategies...); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHolderFromUppercaseLine_ScanLimit(t *testing.T) {
	text := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nLATE UPPERCASE NAME"
	if got := holderFromUppercaseLine(text); got != "" {
		t.Errorf("line 11 should not be considered, got %q", got)
	}
}

func TestFindAccountType(t *testing.T) {
	tests := []struct {
		input    string
		expected models.AccountType
	}{
		{"Type: SAVINGS", models.AccountSavings},
		{"current account", models.AccountCurrent},
		{"Savingsplus", models.AccountUnknown},
		{"", models.AccountUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := findAccountType(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBankNameFromFirstLine(t *testing.T) {
	if got := bankNameFromFirstLine("\n\n  HDFC BANK  \nother"); got != "HDFC BANK" {
		t.Errorf("got %q, want %q", got, "HDFC BANK")
	}
	if got := bankNameFromFirstLine(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
