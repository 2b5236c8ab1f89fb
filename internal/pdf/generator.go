package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/procure-recon/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a single-PO reconciliation statement: header block,
// summary pairs, then the linked invoice and receipt tables.
func (g *Generator) Generate(statement model.POStatement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Purchase Order Reconciliation Statement", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("PO %s dated %s", statement.PONumber, statement.PODate), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", statement.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.partyBlock(pdf, "Buyer", statement.BuyerName, statement.Site, statement.City)
	pdf.Ln(2)
	g.partyBlock(pdf, "Seller", statement.SellerName, "", "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Reconciliation Summary", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	for _, pair := range statement.Summary {
		pdf.CellFormat(70, 6, pair.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, pair.Value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	g.table(pdf, "Linked Invoices", statement.InvoiceHeaders, statement.Invoices,
		[]float64{35, 25, 25, 30, 30, 35})
	pdf.Ln(4)
	g.table(pdf, "Linked Goods Receipts", statement.GRNHeaders, statement.GRNs,
		[]float64{35, 25, 25, 25, 25, 45})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) partyBlock(pdf *gofpdf.Fpdf, title, name, site, city string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, 5, name, "", "L", false)
	if site != "" {
		pdf.MultiCell(0, 5, fmt.Sprintf("Site: %s", site), "", "L", false)
	}
	if city != "" {
		pdf.MultiCell(0, 5, fmt.Sprintf("City: %s", city), "", "L", false)
	}
}

func (g *Generator) table(pdf *gofpdf.Fpdf, title string, headers []string, rows [][]string, widths []float64) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	if len(rows) == 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 6, "None", "", 1, "L", false, 0, "")
		return
	}

	g.tableRow(pdf, headers, widths, true)
	for _, row := range rows {
		g.tableRow(pdf, row, widths, false)
	}
}

func (g *Generator) tableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(g.fontName, style, 9)
	for i, col := range cols {
		width := 30.0
		if i < len(widths) {
			width = widths[i]
		}
		pdf.CellFormat(width, 6, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}
