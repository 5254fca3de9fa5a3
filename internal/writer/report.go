package writer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

// ReportFile is the markdown summary written next to the CSVs.
const ReportFile = "report.md"

// ReportWriter renders a short markdown summary of an extraction run.
type ReportWriter struct {
	Name  string
	Email string

	// Timeline is the workbook file name to reference, if one was written.
	Timeline string

	WithdrawalThreshold decimal.Decimal
	DepositThreshold    decimal.Decimal
	Entities            []string
}

type reportField struct {
	Label, Value string
}

type reportData struct {
	Name, Email     string
	Strategy        string
	FallbackReason  string
	Account         []reportField
	Flags           []reportField
	Totals          []reportField
	NumTransactions int
	Timeline        string
}

var reportTemplate = template.Must(template.New("report").Parse(`# Bank Statement Extraction Report

Name: {{.Name}}
Email: {{.Email}}

## Methodology

1. Read transactions from the first detected table whose first column holds dates.
2. If that fails, scan the page text line by line: a line starting with a date opens a transaction, following lines extend its description, and amounts are read from the right.
3. Normalize dates and amounts, then apply the flagging rules.

Strategy used: {{.Strategy}}
{{- if .FallbackReason}}
Fallback reason: {{.FallbackReason}}
{{- end}}

## Account Info

| Field | Value |
|---|---|
{{- range .Account}}
| {{.Label}} | {{.Value}} |
{{- end}}

## Flags Summary

| Flag | Count |
|---|---|
{{- range .Flags}}
| {{.Label}} | {{.Value}} |
{{- end}}

## Totals

Transactions: {{.NumTransactions}}

| Total | Amount |
|---|---|
{{- range .Totals}}
| {{.Label}} | {{.Value}} |
{{- end}}
{{- if .Timeline}}

## Timeline

Daily deposits and withdrawals are plotted in [{{.Timeline}}]({{.Timeline}}).
{{- end}}
`))

// Write renders the report for stmt to out.
func (w *ReportWriter) Write(out io.Writer, stmt models.Statement) error {
	return reportTemplate.Execute(out, w.data(stmt))
}

// WriteToFile renders the report for stmt to path.
func (w *ReportWriter) WriteToFile(path string, stmt models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %q: %w", path, err)
	}
	if err := w.Write(f, stmt); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}

func (w *ReportWriter) data(stmt models.Statement) reportData {
	acc := stmt.Account
	summary := flags.Summarize(stmt.Transactions)

	withdrawalThreshold := w.WithdrawalThreshold
	if withdrawalThreshold.IsZero() {
		withdrawalThreshold = flags.DefaultWithdrawalThreshold
	}
	depositThreshold := w.DepositThreshold
	if depositThreshold.IsZero() {
		depositThreshold = flags.DefaultDepositThreshold
	}
	entities := w.Entities
	if entities == nil {
		entities = flags.DefaultEntities
	}

	var deposits, withdrawals decimal.Decimal
	for _, txn := range stmt.Transactions {
		if txn.Deposit.Valid {
			deposits = deposits.Add(txn.Deposit.Decimal)
		}
		if txn.Withdrawal.Valid {
			withdrawals = withdrawals.Add(txn.Withdrawal.Decimal)
		}
	}

	strategy := string(stmt.Diagnostics.Strategy)
	if strategy == "" {
		strategy = "none"
	}

	return reportData{
		Name:           w.Name,
		Email:          w.Email,
		Strategy:       strategy,
		FallbackReason: stmt.Diagnostics.FallbackReason,
		Account: []reportField{
			{"Account number", orDash(acc.AccountNumber)},
			{"Account holder", orDash(acc.AccountHolderName)},
			{"Account type", orDash(string(acc.AccountType))},
			{"IFSC", orDash(acc.IFSC)},
			{"MICR", orDash(acc.MICR)},
			{"Bank", orDash(acc.BankName)},
			{"Address", orDash(acc.Address)},
		},
		Flags: []reportField{
			{fmt.Sprintf("DD large withdrawals (>%s)", FormatINR(withdrawalThreshold)), fmt.Sprint(summary.LargeWithdrawals)},
			{fmt.Sprintf("RTGS large deposits (>%s)", FormatINR(depositThreshold)), fmt.Sprint(summary.LargeDeposits)},
			{fmt.Sprintf("Named entities (%s)", strings.Join(entities, ", ")), fmt.Sprint(summary.EntityMatches)},
		},
		Totals: []reportField{
			{"Deposits", FormatINR(deposits)},
			{"Withdrawals", FormatINR(withdrawals)},
		},
		NumTransactions: len(stmt.Transactions),
		Timeline:        w.Timeline,
	}
}

// FormatINR renders an amount in rupees with thousands separators, such as
// ₹125,000.00.
func FormatINR(d decimal.Decimal) string {
	paise := d.Shift(2).Round(0).IntPart()
	return money.New(paise, money.INR).Display()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	// a pipe would split the table cell
	return strings.ReplaceAll(s, "|", "/")
}
