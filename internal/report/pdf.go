package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMarginX     = 14.0
	pdfFontFamily  = "Helvetica"
	pdfGoalsMinPts = 6.0
	pdfBodyPts     = 9.0
)

// Column widths in millimetres, summing to the printable A4 width.
var pdfColumnWidths = [len(Columns)]float64{24, 42, 18, 42, 56}

type PDFRenderer struct {
	layout Layout
}

func NewPDFRenderer(layout Layout) *PDFRenderer {
	return &PDFRenderer{layout: layout}
}

func (r *PDFRenderer) Format() Format      { return FormatPDF }
func (r *PDFRenderer) Extension() string   { return "pdf" }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("league-results", true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(pdfFontFamily, "B", 18)
	pdf.Text(pdfMarginX, 22, tr(doc.Title))
	pdf.SetFont(pdfFontFamily, "", 10)
	pdf.Text(pdfMarginX, 30, tr("Generated at "+doc.GeneratedAt.Format("02.01.2006 15:04")))

	page := 1
	for _, section := range doc.Sections {
		for page < section.Page {
			pdf.AddPage()
			page++
		}
		r.drawSection(pdf, tr, section)
	}

	if pdf.Err() {
		return fmt.Errorf("render pdf: %w", pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) drawSection(pdf *fpdf.Fpdf, tr func(string) string, section Section) {
	pdf.SetFont(pdfFontFamily, "B", 14)
	pdf.Text(pdfMarginX, section.Top, tr(section.Heading))

	y := section.Top + r.layout.HeadingHeight
	pdf.SetXY(pdfMarginX, y)
	pdf.SetFont(pdfFontFamily, "B", pdfBodyPts)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for i, title := range Columns {
		pdf.CellFormat(pdfColumnWidths[i], r.layout.RowHeight, tr(title), "1", 0, "C", true, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	for rowIdx, row := range section.Rows {
		y += r.layout.RowHeight
		pdf.SetXY(pdfMarginX, y)
		fill := rowIdx%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for i, cell := range row.Cells() {
			align := "L"
			if i == 0 || i == 2 {
				align = "C"
			}
			width := pdfColumnWidths[i] - 2
			size := fitFontSize(pdf, tr(cell), width, pdfBodyPts)
			pdf.SetFont(pdfFontFamily, "", size)
			pdf.CellFormat(pdfColumnWidths[i], r.layout.RowHeight, truncateToWidth(pdf, tr, cell, width), "1", 0, align, fill, 0, "")
		}
	}
}

// fitFontSize shrinks the font until text fits the width or the minimum size is reached.
func fitFontSize(pdf *fpdf.Fpdf, text string, width, size float64) float64 {
	for size > pdfGoalsMinPts {
		pdf.SetFont(pdfFontFamily, "", size)
		if pdf.GetStringWidth(text) <= width {
			return size
		}
		size -= 0.5
	}
	return pdfGoalsMinPts
}

// truncateToWidth cuts on rune boundaries of the UTF-8 input and returns translated text.
func truncateToWidth(pdf *fpdf.Fpdf, tr func(string) string, text string, width float64) string {
	if out := tr(text); pdf.GetStringWidth(out) <= width {
		return out
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := tr(string(runes) + "...")
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
