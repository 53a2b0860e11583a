package release

import (
	"fmt"
	"io"
	"time"

	"procurement/models"

	"github.com/jung-kurt/gofpdf"
)

type rgb struct{ r, g, b int }

var (
	blueDark   = rgb{30, 58, 138}
	blueMedium = rgb{59, 130, 246}
	grayLight  = rgb{240, 240, 240}
	grayText   = rgb{75, 85, 99}
	black      = rgb{0, 0, 0}
)

var Terms = []string{
	"1. All requisitions must be approved before procurement.",
	"2. Items will be procured based on company policies and procedures.",
	"3. Delivery timelines depend on item availability and supplier terms.",
	"4. For any questions regarding this requisition, please contact the procurement department.",
}

// Reference номер заявки в документах
func Reference(id int) string {
	return fmt.Sprintf("REQ-%04d", id)
}

// FileName имя файла документа заявки
func FileName(r models.Requisition) string {
	return fmt.Sprintf("requisition_%d.pdf", r.ID)
}

type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (d *document) text(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *document) fill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *document) draw(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }

func (d *document) sectionTitle(title string) {
	d.pdf.SetFont("Arial", "B", 12)
	d.fill(blueMedium)
	d.text(rgb{255, 255, 255})
	d.pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	d.pdf.Ln(2)
}

func (d *document) field(label, value string) {
	d.pdf.SetFont("Arial", "B", 10)
	d.text(blueDark)
	d.pdf.CellFormat(40, 8, label+":", "", 0, "", false, 0, "")

	d.pdf.SetFont("Arial", "", 10)
	d.text(black)
	value = d.tr(value)
	if len(value) > 50 || label == "Description" {
		d.pdf.Ln(-1)
		d.pdf.SetX(20)
		d.fill(grayLight)
		d.pdf.MultiCell(90, 6, value, "", "L", true)
		d.pdf.Ln(2)
		return
	}
	d.pdf.CellFormat(50, 8, value, "", 1, "", false, 0, "")
}

func (d *document) signatureLine(x, y float64, label string, size float64) {
	d.pdf.Line(x, y, x+65, y)
	d.pdf.SetXY(x, y+2)
	d.pdf.SetFont("Arial", "", size)
	d.pdf.CellFormat(65, 5, label, "", 0, "C", false, 0, "")
}

// RenderRequisition формирует PDF-документ заявки для выпуска
func RenderRequisition(w io.Writer, r models.Requisition, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetAutoPageBreak(true, 15)
	pdf.SetMargins(10, 10, 10)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		d.fill(blueDark)
		pdf.Rect(10, 10, 190, 20, "F")
		pdf.SetFont("Arial", "B", 16)
		d.text(rgb{255, 255, 255})
		pdf.SetXY(15, 15)
		pdf.CellFormat(180, 10, "MATERIAL REQUISITION", "", 0, "C", false, 0, "")

		pdf.SetFont("Arial", "I", 10)
		d.text(grayText)
		pdf.SetXY(10, 32)
		pdf.CellFormat(190, 6, "Requisition Management System", "", 0, "C", false, 0, "")

		d.draw(blueMedium)
		pdf.SetLineWidth(0.5)
		pdf.Line(10, 40, 200, 40)
		pdf.SetY(45)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		d.text(grayText)
		pdf.CellFormat(95, 10, "Generated on "+now.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 10)
	d.text(blueDark)
	pdf.CellFormat(0, 8, "Reference: "+Reference(r.ID), "", 1, "R", false, 0, "")
	pdf.Ln(5)

	d.sectionTitle("REQUISITION DETAILS")
	d.field("Title", r.Title)
	d.field("Description", r.Description)
	d.field("Quantity", fmt.Sprintf("%d %s", r.Quantity, r.Unit))
	pdf.Ln(5)
	d.field("Request Date", r.RequestDate.String())
	d.field("Timestamp", r.Timestamp.Format("2006-01-02 15:04:05"))

	pdf.Ln(15)
	pdf.SetFont("Arial", "B", 11)
	d.text(blueDark)
	pdf.CellFormat(0, 10, "SIGNATURES", "", 1, "L", false, 0, "")

	d.draw(blueMedium)
	sigY := pdf.GetY() + 15
	d.signatureLine(20, sigY, "Requested By", 9)
	d.signatureLine(115, sigY, "Approved By", 9)
	d.signatureLine(20, sigY+15, "Date", 8)
	d.signatureLine(115, sigY+15, "Date", 8)
	pdf.SetY(sigY + 22)

	pdf.Ln(25)
	d.sectionTitle("TERMS AND CONDITIONS")
	pdf.SetFont("Arial", "", 9)
	d.fill(blueMedium)
	for _, line := range Terms {
		pdf.MultiCell(0, 6, line, "", "L", true)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render requisition %d: %w", r.ID, err)
	}
	return pdf.Output(w)
}
