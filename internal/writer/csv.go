package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

// Output file names inside the output directory.
const (
	AccountFile      = "account_info.csv"
	TransactionsFile = "transactions.csv"
)

const csvDateLayout = "2006-01-02"

// TransactionRow is one line of transactions.csv. Null amounts and dates
// are written as empty cells.
type TransactionRow struct {
	Date              string `csv:"transaction_date"`
	Description       string `csv:"description"`
	Withdrawal        string `csv:"withdrawal_amount"`
	Deposit           string `csv:"deposit_amount"`
	Balance           string `csv:"balance"`
	DDLargeWithdrawal bool   `csv:"flag_DD_large_withdrawal"`
	RTGSLargeDeposit  bool   `csv:"flag_RTGS_large_deposit"`
	EntityMatch       bool   `csv:"flag_entities"`
}

// AccountRow is the single line of account_info.csv.
type AccountRow struct {
	AccountNumber     string `csv:"account_number"`
	AccountHolderName string `csv:"account_holder_name"`
	AccountType       string `csv:"account_type"`
	IFSC              string `csv:"ifsc"`
	MICR              string `csv:"micr"`
	BankName          string `csv:"bank_name"`
	Address           string `csv:"address"`
}

// CSVWriter writes account info and transactions as CSV.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteTransactions writes txns in order to out.
func (w *CSVWriter) WriteTransactions(out io.Writer, txns []models.Transaction) error {
	rows := make([]TransactionRow, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, NewTransactionRow(txn))
	}
	return w.marshal(out, &rows)
}

// WriteAccount writes info as a single row to out.
func (w *CSVWriter) WriteAccount(out io.Writer, info models.AccountInfo) error {
	rows := []AccountRow{NewAccountRow(info)}
	return w.marshal(out, &rows)
}

func (w *CSVWriter) marshal(out io.Writer, rows any) error {
	if w.IncludeHeader {
		return gocsv.Marshal(rows, out)
	}
	return gocsv.MarshalWithoutHeaders(rows, out)
}

// WriteTransactionsCSV writes txns to a CSV file at path.
func WriteTransactionsCSV(path string, txns []models.Transaction) error {
	return writeFile(path, func(f io.Writer) error {
		return (&CSVWriter{IncludeHeader: true}).WriteTransactions(f, txns)
	})
}

// WriteAccountCSV writes info to a CSV file at path.
func WriteAccountCSV(path string, info models.AccountInfo) error {
	return writeFile(path, func(f io.Writer) error {
		return (&CSVWriter{IncludeHeader: true}).WriteAccount(f, info)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return f.Close()
}

// NewTransactionRow converts a transaction to its CSV form.
func NewTransactionRow(txn models.Transaction) TransactionRow {
	row := TransactionRow{
		Description:       txn.Description,
		Withdrawal:        formatAmount(txn.Withdrawal),
		Deposit:           formatAmount(txn.Deposit),
		Balance:           formatAmount(txn.Balance),
		DDLargeWithdrawal: txn.Flags.LargeWithdrawal,
		RTGSLargeDeposit:  txn.Flags.LargeDeposit,
		EntityMatch:       txn.Flags.EntityMatch,
	}
	if txn.Date != nil {
		row.Date = txn.Date.Format(csvDateLayout)
	}
	return row
}

// NewAccountRow converts account info to its CSV form.
func NewAccountRow(info models.AccountInfo) AccountRow {
	return AccountRow{
		AccountNumber:     info.AccountNumber,
		AccountHolderName: info.AccountHolderName,
		AccountType:       string(info.AccountType),
		IFSC:              info.IFSC,
		MICR:              info.MICR,
		BankName:          info.BankName,
		Address:           info.Address,
	}
}

// formatAmount renders a nullable amount with two decimals, or "" for null.
func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
