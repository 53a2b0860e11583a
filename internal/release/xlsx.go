package release

import (
	"fmt"
	"io"

	"procurement/internal/approval"
	"procurement/models"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const comparisonSheet = "Bids"

var comparisonHeaders = []string{"Vendor", "Email", "Amount", "Currency", "Delivery", "Bid Status", "Submitted", "Decision", "Tier", "Decided By"}

// ComparisonFileName имя файла сравнения предложений
func ComparisonFileName(r models.Requisition) string {
	return fmt.Sprintf("bids_%s.xlsx", Reference(r.ID))
}

// RenderBidComparison выгружает предложения по заявке в XLSX со сводкой
// и уровнем одобрения по максимальной сумме.
func RenderBidComparison(w io.Writer, r models.Requisition, bids []models.BidView) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", comparisonSheet); err != nil {
		return err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#1E3A8A", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	f.SetCellValue(comparisonSheet, "A1", Reference(r.ID)+": "+r.Title)
	f.SetCellStyle(comparisonSheet, "A1", "A1", boldStyle)

	const headerRow = 3
	for i, h := range comparisonHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(comparisonSheet, cell, h)
		f.SetCellStyle(comparisonSheet, cell, cell, boldStyle)
	}

	row := headerRow + 1
	for _, b := range bids {
		amount, _ := b.BidAmount.Float64()
		values := []any{
			b.VendorName,
			b.VendorEmail,
			amount,
			b.Currency,
			fmt.Sprintf("%d %s", b.DeliveryTime, b.DeliveryUnit),
			string(b.Status),
			b.BidTimestamp.Format("2006-01-02 15:04"),
			lo.Ternary(b.ApprovalStatus != nil, string(lo.FromPtr(b.ApprovalStatus)), "pending"),
			lo.FromPtr(b.ApprovalTier),
			lo.FromPtr(b.ApprovedBy),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(comparisonSheet, cell, v)
		}
		f.SetCellStyle(comparisonSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), amountStyle)
		row++
	}

	row++
	summary := summarize(bids)
	for _, line := range summary {
		f.SetCellValue(comparisonSheet, fmt.Sprintf("A%d", row), line.label)
		f.SetCellStyle(comparisonSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
		f.SetCellValue(comparisonSheet, fmt.Sprintf("C%d", row), line.value)
		row++
	}

	for i, width := range []float64{28, 30, 14, 10, 14, 12, 18, 12, 20, 20} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(comparisonSheet, col, col, width)
	}

	_, err = f.WriteTo(w)
	return err
}

type summaryLine struct {
	label string
	value any
}

func summarize(bids []models.BidView) []summaryLine {
	if len(bids) == 0 {
		return []summaryLine{{"Bid Count", 0}}
	}
	amounts := lo.Map(bids, func(b models.BidView, _ int) decimal.Decimal { return b.BidAmount })
	lowest := decimal.Min(amounts[0], amounts[1:]...)
	highest := decimal.Max(amounts[0], amounts[1:]...)
	average := decimal.Avg(amounts[0], amounts[1:]...).Round(2)

	return []summaryLine{
		{"Bid Count", len(bids)},
		{"Lowest Bid", lowest.StringFixed(2)},
		{"Highest Bid", highest.StringFixed(2)},
		{"Average Bid", average.StringFixed(2)},
		{"Required Tier", approval.Classify(highest).Name},
	}
}
