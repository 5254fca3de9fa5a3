package parser

import (
	"reflect"
	"testing"
)

func TestFindCellDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"01-04-2023", "01-04-2023", true},
		{"01/04/23", "01/04/23", true},
		{"Txn 15-01-2024 10:32", "15-01-2024", true},
		{"1/4/2023", "", false},
		{"Date", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := findCellDate(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("findCellDate(%q): got (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestFindAmountTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"NEFT SALARY 25,000.00 1,25,000.00", []string{"25,000.00", "1,25,000.00"}},
		{"ATM WDL 500 0.00 9,500.50", []string{"500", "0.00", "9,500.50"}},
		{"1,234,567.89", []string{"1,234,567.89"}},
		{"no numbers here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := findAmountTokens(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("findAmountTokens(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines([]string{"a\r\nb", "c\rd"})
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJoinNonEmpty(t *testing.T) {
	got := joinNonEmpty([]string{" UPI ", "", "  ", "PAYMENT"})
	if got != "UPI PAYMENT" {
		t.Errorf("got %q, want %q", got, "UPI PAYMENT")
	}
}
