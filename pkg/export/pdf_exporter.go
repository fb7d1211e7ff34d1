package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Section is one titled block of a Document: free-form lines, an optional
// table, or both.
type Section struct {
	Heading string
	Lines   []string
	Table   *Dataset
}

// Document is a sectioned report layout.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// PDFExporter renders Documents into A4 PDFs.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF bytes for a document.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, translate(strings.ToUpper(doc.Title)), "", 1, "C", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, translate(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, translate(section.Heading), "", 1, "L", false, 0, "")
		}

		pdf.SetFont("Arial", "", 10)
		for _, line := range section.Lines {
			pdf.CellFormat(0, 6, translate(line), "", 1, "L", false, 0, "")
		}

		if section.Table != nil && len(section.Table.Headers) > 0 {
			pdf.SetFont("Arial", "B", 10)
			colWidth := 190.0 / float64(len(section.Table.Headers))
			for _, header := range section.Table.Headers {
				pdf.CellFormat(colWidth, 8, translate(header), "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)

			pdf.SetFont("Arial", "", 9)
			for _, row := range section.Table.Rows {
				for _, header := range section.Table.Headers {
					pdf.CellFormat(colWidth, 7, translate(row[header]), "1", 0, "", false, 0, "")
				}
				pdf.Ln(-1)
			}
		}

		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
