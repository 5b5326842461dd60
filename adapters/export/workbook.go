package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one tab of the summary workbook: a header row plus data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteWorkbook writes sheets to an xlsx file at path. The first sheet
// replaces the default tab so the workbook opens on real content.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("rename default sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet.Name, err)
			}
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	for j, h := range sheet.Header {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("header cell in %s: %w", sheet.Name, err)
		}
		if err := f.SetCellValue(sheet.Name, cell, h); err != nil {
			return fmt.Errorf("write header in %s: %w", sheet.Name, err)
		}
	}
	for i, row := range sheet.Rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("cell in %s: %w", sheet.Name, err)
			}
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return fmt.Errorf("write cell in %s: %w", sheet.Name, err)
			}
		}
	}
	return nil
}
