package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/procure-recon/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate writes the export into a two-sheet workbook: a summary
// sheet with the filter and count blocks, and a data sheet with one
// row per document.
func (g *Generator) Generate(export model.WorkspaceExport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, export); err != nil {
		return nil, err
	}

	dataSheet := "Documents"
	file.NewSheet(dataSheet)
	if err := g.writeData(file, dataSheet, export); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, export model.WorkspaceExport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", export.Title)
	set("A2", "Generated")
	set("B2", export.GeneratedAt.Format("2006-01-02 15:04:05"))

	row := 4
	for _, pair := range export.Filters {
		set(fmt.Sprintf("A%d", row), pair.Label)
		set(fmt.Sprintf("B%d", row), pair.Value)
		row++
	}

	row++
	for _, pair := range export.Summary {
		set(fmt.Sprintf("A%d", row), pair.Label)
		set(fmt.Sprintf("B%d", row), pair.Value)
		row++
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func (g *Generator) writeData(file *excelize.File, sheet string, export model.WorkspaceExport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	for i, header := range export.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for r, row := range export.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			set(cell, value)
		}
	}

	if len(export.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(export.Headers))
		if err != nil {
			return err
		}
		_ = file.SetColWidth(sheet, "A", last, 18)
	}
	return nil
}
