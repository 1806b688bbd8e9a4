package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"presentpack/internal/model"
)

// xlsxHeaders is the summary sheet header row, one region per data row.
var xlsxHeaders = []string{"Region", "Width", "Height", "Tiles", "Demand Cells", "Area", "Outcome", "Resolved By", "Elapsed"}

// ExportXLSX writes a summary workbook with one row per evaluated
// region. Unlike the PDF report it carries no layout diagrams, so it
// stays cheap for large runs.
func ExportXLSX(path string, result model.EvalResult, shapes map[int]model.Shape) error {
	if len(result.Results) == 0 {
		return fmt.Errorf("no regions to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, header := range xlsxHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	for i, rr := range result.Results {
		values := []interface{}{
			rr.Region.ID,
			rr.Region.Width,
			rr.Region.Height,
			rr.Region.TileCount(),
			rr.Region.DemandCells(shapes),
			rr.Region.Area(),
			rr.Outcome.String(),
			string(rr.ResolvedBy),
			rr.Elapsed.String(),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	// Totals row
	totalsRow := len(result.Results) + 3
	labelCell, err := excelize.CoordinatesToCellName(1, totalsRow)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, labelCell, "Regions that fit"); err != nil {
		return err
	}
	valueCell, err := excelize.CoordinatesToCellName(2, totalsRow)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, valueCell, result.FitCount()); err != nil {
		return err
	}

	return f.SaveAs(path)
}
