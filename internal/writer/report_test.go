package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

func sampleStatement() models.Statement {
	return models.Statement{
		Account: models.AccountInfo{
			AccountNumber: "12345678901",
			AccountType:   models.AccountSavings,
			IFSC:          "SBIN0001234",
		},
		Transactions: sampleTransactions(),
		Diagnostics: models.Diagnostics{
			Strategy:       models.StrategyText,
			FallbackReason: "table strategy produced no rows",
		},
	}
}

func TestReportWriter_Write(t *testing.T) {
	w := &ReportWriter{Name: "A. Analyst", Email: "analyst@example.com", Timeline: TimelineFile}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, sampleStatement()))
	out := buf.String()

	assert.Contains(t, out, "# Bank Statement Extraction Report")
	assert.Contains(t, out, "Name: A. Analyst")
	assert.Contains(t, out, "Email: analyst@example.com")
	assert.Contains(t, out, "Strategy used: text")
	assert.Contains(t, out, "Fallback reason: table strategy produced no rows")
	assert.Contains(t, out, "| Account number | 12345678901 |")
	assert.Contains(t, out, "| Account type | Savings |")
	assert.Contains(t, out, "| MICR | - |")
	assert.Contains(t, out, "| DD large withdrawals (>₹10,000.00) | 1 |")
	assert.Contains(t, out, "| RTGS large deposits (>₹50,000.00) | 0 |")
	assert.Contains(t, out, "| Named entities (guddu, prabhat, arif, coal india) | 1 |")
	assert.Contains(t, out, "Transactions: 3")
	assert.Contains(t, out, "| Deposits | ₹25,000.00 |")
	assert.Contains(t, out, "| Withdrawals | ₹15,000.50 |")
	assert.Contains(t, out, "[timeline.xlsx](timeline.xlsx)")
}

func TestReportWriter_NoTimeline(t *testing.T) {
	w := &ReportWriter{
		WithdrawalThreshold: decimal.NewFromInt(20000),
		Entities:            []string{"acme"},
	}
	stmt := sampleStatement()
	stmt.Diagnostics = models.Diagnostics{Strategy: models.StrategyTable}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, stmt))
	out := buf.String()

	assert.NotContains(t, out, "## Timeline")
	assert.NotContains(t, out, "Fallback reason")
	assert.Contains(t, out, "Strategy used: table\n\n## Account Info")
	assert.Contains(t, out, "DD large withdrawals (>₹20,000.00)")
	assert.Contains(t, out, "Named entities (acme)")
}

func TestReportWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ReportFile)
	require.NoError(t, (&ReportWriter{}).WriteToFile(path, models.Statement{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Bank Statement Extraction Report"))
	assert.Contains(t, string(data), "Strategy used: none")
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "₹0.00"},
		{"1234.5", "₹1,234.50"},
		{"125000", "₹125,000.00"},
		{"0.005", "₹0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatINR(decimal.RequireFromString(tt.input)))
		})
	}
}
