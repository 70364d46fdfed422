package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0
	pdfMinCol    = 12.0
)

// PDFExporter renders each sheet as a table on its own landscape page.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with the workbook title on every page and one table per sheet.
func (e *PDFExporter) Render(book Workbook) ([]byte, error) {
	if err := book.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, sheet := range book.Sheets {
		pdf.AddPage()
		if book.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, tr(strings.ToUpper(book.Title)), "", 1, "C", false, 0, "")
		}
		if sheet.Name != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(0, 8, tr(sheet.Name), "", 1, "L", false, 0, "")
			pdf.Ln(2)
		}

		widths := pdfColumnWidths(sheet)
		pdf.SetFont("Arial", "B", 8)
		for i, header := range sheet.Headers {
			pdf.CellFormat(widths[i], 7, tr(fit(pdf, header, widths[i])), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 7)
		for _, row := range sheet.Rows {
			for i, value := range sheet.record(row) {
				pdf.CellFormat(widths[i], 6, tr(fit(pdf, value, widths[i])), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfColumnWidths distributes the printable width proportionally to the character widths.
func pdfColumnWidths(sheet Sheet) []float64 {
	chars := sheet.ColumnWidths()
	total := 0
	for _, n := range chars {
		total += n
	}
	out := make([]float64, len(chars))
	for i, n := range chars {
		w := pdfPageWidth * float64(n) / float64(total)
		if w < pdfMinCol {
			w = pdfMinCol
		}
		out[i] = w
	}
	return out
}

// fit truncates value so that it renders inside width millimetres.
func fit(pdf *gofpdf.Fpdf, value string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(value) <= limit {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
