// Package export renders administrator data dumps as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one tab of a workbook: a header row followed by data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// Workbook writes the sheets, in order, into a single xlsx file.
func Workbook(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("export: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("export: new sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	for col, header := range sheet.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
			return fmt.Errorf("export: %s header: %w", sheet.Name, err)
		}
	}
	if len(sheet.Headers) > 0 {
		endCell, _ := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
		if err := f.SetCellStyle(sheet.Name, "A1", endCell, headerStyle); err != nil {
			return fmt.Errorf("export: %s header style: %w", sheet.Name, err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(sheet.Headers))
		_ = f.SetColWidth(sheet.Name, "A", lastCol, 22)
	}

	for r, row := range sheet.Rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return fmt.Errorf("export: %s row %d: %w", sheet.Name, r+1, err)
			}
		}
	}
	return nil
}
