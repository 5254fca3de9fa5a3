package writer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/bank-statement-extractor/internal/models"
)

// TimelineFile is the workbook written next to the CSVs.
const TimelineFile = "timeline.xlsx"

// ErrNoTimelineData is returned when no transaction has a date.
var ErrNoTimelineData = errors.New("no dated transactions to plot")

const timelineSheet = "Daily"

// DailyTotal is the sum of deposits and withdrawals on one date.
type DailyTotal struct {
	Date        time.Time
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
}

// DailyTotals groups txns by date, oldest first. Undated transactions are
// left out; null amounts count as zero.
func DailyTotals(txns []models.Transaction) []DailyTotal {
	byDate := make(map[time.Time]*DailyTotal)
	for _, txn := range txns {
		if txn.Date == nil {
			continue
		}
		day := *txn.Date
		dt, ok := byDate[day]
		if !ok {
			dt = &DailyTotal{Date: day}
			byDate[day] = dt
		}
		if txn.Deposit.Valid {
			dt.Deposits = dt.Deposits.Add(txn.Deposit.Decimal)
		}
		if txn.Withdrawal.Valid {
			dt.Withdrawals = dt.Withdrawals.Add(txn.Withdrawal.Decimal)
		}
	}

	out := make([]DailyTotal, 0, len(byDate))
	for _, dt := range byDate {
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// TimelineWriter writes daily totals to a workbook with a line chart of
// deposits and withdrawals.
type TimelineWriter struct{}

// Write writes the workbook for txns to out.
func (w *TimelineWriter) Write(out io.Writer, txns []models.Transaction) error {
	f, err := w.build(DailyTotals(txns))
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(out)
}

// WriteToFile writes the workbook for txns to path.
func (w *TimelineWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := w.build(DailyTotals(txns))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %q: %w", path, err)
	}
	return nil
}

func (w *TimelineWriter) build(totals []DailyTotal) (*excelize.File, error) {
	if len(totals) == 0 {
		return nil, ErrNoTimelineData
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", timelineSheet); err != nil {
		f.Close()
		return nil, err
	}

	header := []any{"Date", "Deposits", "Withdrawals"}
	if err := f.SetSheetRow(timelineSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	for i, dt := range totals {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			dt.Date.Format(csvDateLayout),
			dt.Deposits.InexactFloat64(),
			dt.Withdrawals.InexactFloat64(),
		}
		if err := f.SetSheetRow(timelineSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	last := len(totals) + 1
	series := func(col string) excelize.ChartSeries {
		return excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", timelineSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", timelineSheet, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", timelineSheet, col, col, last),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
		}
	}
	chart := &excelize.Chart{
		Type:   excelize.Line,
		Series: []excelize.ChartSeries{series("B"), series("C")},
		Title:  []excelize.RichTextRun{{Text: "Daily deposits and withdrawals"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Date"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Amount (INR)"}}},
		Dimension: excelize.ChartDimension{
			Width:  960,
			Height: 384,
		},
	}
	if err := f.AddChart(timelineSheet, "E2", chart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to add chart: %w", err)
	}
	return f, nil
}
