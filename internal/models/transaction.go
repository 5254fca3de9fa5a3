package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a transaction as one extraction strategy saw it,
// before any normalization. Nil pointers mean the field was not found.
type RawTransaction struct {
	DateText       *string `json:"dateText"`
	Description    string  `json:"description"`
	WithdrawalText *string `json:"withdrawalText"`
	DepositText    *string `json:"depositText"`
	BalanceText    *string `json:"balanceText"`
}

// Flags holds the compliance flags attached by the flag engine.
type Flags struct {
	LargeWithdrawal bool `json:"largeWithdrawal"` // DD withdrawal over threshold
	LargeDeposit    bool `json:"largeDeposit"`    // RTGS deposit over threshold
	EntityMatch     bool `json:"entityMatch"`     // description names a watched entity
}

// Transaction represents a single normalized bank statement transaction.
// Amounts are never negative; a null amount means the column was empty or
// could not be read.
type Transaction struct {
	Date        *time.Time          `json:"date"`
	Description string              `json:"description"`
	Withdrawal  decimal.NullDecimal `json:"withdrawalAmount"`
	Deposit     decimal.NullDecimal `json:"depositAmount"`
	Balance     decimal.NullDecimal `json:"balance"`
	Flags       Flags               `json:"flags"`
}

// Strategy names the extraction strategy that produced a statement's
// transactions.
type Strategy string

const (
	StrategyNone  Strategy = ""
	StrategyTable Strategy = "table"
	StrategyText  Strategy = "text"
)

// DebugLine captures what the text parser did with each input line.
type DebugLine struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"` // "anchor", "continuation", "discarded"
	Tokens  int    `json:"tokens,omitempty"`
}

// Diagnostics reports which strategy ran and why, alongside the result.
type Diagnostics struct {
	RunID            string      `json:"runId"`
	Strategy         Strategy    `json:"strategy"`
	FallbackReason   string      `json:"fallbackReason,omitempty"`
	TablesConsidered int         `json:"tablesConsidered"`
	SelectedTable    int         `json:"selectedTable"` // -1 when no table was selected
	Warnings         []string    `json:"warnings,omitempty"`
	DebugLines       []DebugLine `json:"debugLines,omitempty"`
}

// Statement holds everything extracted from one document.
type Statement struct {
	Account      AccountInfo   `json:"account"`
	Transactions []Transaction `json:"transactions"`
	Diagnostics  Diagnostics   `json:"diagnostics"`
}
