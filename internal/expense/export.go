package expense

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// exportRow is the flat shape written to CSV and XLSX exports
type exportRow struct {
	Date          string `csv:"date"`
	Description   string `csv:"description"`
	Category      string `csv:"category"`
	PaymentMethod string `csv:"payment_method"`
	Amount        string `csv:"amount"`
	Currency      string `csv:"currency"`
	Display       string `csv:"display"`
	ReceiptID     string `csv:"receipt_id"`

	value    decimal.Decimal // Amount as a number, for spreadsheet cells
	fraction int32
}

func (s *Service) exportRows(filter Filter) ([]*exportRow, error) {
	expenses, err := s.ListExpenses(filter)
	if err != nil {
		return nil, err
	}

	rows := make([]*exportRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, &exportRow{
			Date:          e.Date.Format(dateLayout),
			Description:   e.Description,
			Category:      string(e.Category),
			PaymentMethod: string(e.PaymentMethod),
			Amount:        decimalString(e.Amount, e.Currency),
			Currency:      e.Currency,
			Display:       displayAmount(e.Amount, e.Currency),
			ReceiptID:     e.ReceiptID,
			value:         decimal.New(e.Amount, -fraction(e.Currency)),
			fraction:      fraction(e.Currency),
		})
	}
	return rows, nil
}

// ExportCSV returns the matching expenses as CSV
func (s *Service) ExportCSV(filter Filter) ([]byte, error) {
	rows, err := s.exportRows(filter)
	if err != nil {
		return nil, err
	}
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	return data, nil
}

// amountStyle shows the currency's fraction digits, e.g. "0.00" for PKR and "0" for JPY
func amountStyle(f *excelize.File, digits int32) (int, error) {
	format := "0"
	if digits > 0 {
		format += "." + strings.Repeat("0", int(digits))
	}
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, fmt.Errorf("creating amount style: %w", err)
	}
	return style, nil
}

var xlsxHeaders = []string{"Date", "Description", "Category", "Payment Method", "Amount", "Currency", "Receipt"}

// ExportXLSX returns the matching expenses as an XLSX workbook
func (s *Service) ExportXLSX(filter Filter) ([]byte, error) {
	start := time.Now()

	rows, err := s.exportRows(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	amountStyles := make(map[int32]int)
	for r, row := range rows {
		values := []any{row.Date, row.Description, row.Category, row.PaymentMethod, row.value.InexactFloat64(), row.Currency, row.ReceiptID}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}

		style, ok := amountStyles[row.fraction]
		if !ok {
			if style, err = amountStyle(f, row.fraction); err != nil {
				return nil, err
			}
			amountStyles[row.fraction] = style
		}
		cell, _ := excelize.CoordinatesToCellName(5, r+2)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 36)
	_ = f.SetColWidth(sheet, "C", "D", 16)
	_ = f.SetColWidth(sheet, "G", "G", 38)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	slog.Info("Exported expenses", "format", "xlsx", "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
