package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/deepnest-go/internal/nestmodel"
)

const bomSheetName = "BOM"

// ExportBOM writes a bill-of-materials spreadsheet listing every placed
// part (sheet, position, rotation) and every unplaced part, with a
// summary row of totals.
func ExportBOM(path string, result nestmodel.PlacementResult, pool nestmodel.Pool) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bomSheetName)
	if err != nil {
		return fmt.Errorf("failed to create BOM sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Part ID", "Name", "Area", "Sheet", "X", "Y", "Rotation", "Status"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(bomSheetName, cell, header)
	}

	row := 2
	for sheetIdx, sheet := range result.Sheets {
		for _, p := range sheet.Placements {
			part, _ := pool.PartByID(p.PartID)
			writeBOMRow(f, row, p.PartID, nestmodel.DescribePart(pool.NameForID(p.PartID), p.PartID), part.Area(),
				fmt.Sprintf("%d", sheetIdx+1), p.Position.X, p.Position.Y, p.Rotation, "placed")
			row++
		}
	}
	for _, id := range result.UnplacedIDs {
		part, _ := pool.PartByID(id)
		writeBOMRow(f, row, id, nestmodel.DescribePart(pool.NameForID(id), id), part.Area(), "-", 0, 0, 0, "unplaced")
		row++
	}

	summaryRow := row + 1
	f.SetCellValue(bomSheetName, fmt.Sprintf("A%d", summaryRow), "Total sheets used")
	f.SetCellValue(bomSheetName, fmt.Sprintf("B%d", summaryRow), len(result.Sheets))
	f.SetCellValue(bomSheetName, fmt.Sprintf("A%d", summaryRow+1), "Total parts placed")
	f.SetCellValue(bomSheetName, fmt.Sprintf("B%d", summaryRow+1), countPlaced(result))
	f.SetCellValue(bomSheetName, fmt.Sprintf("A%d", summaryRow+2), "Unplaced parts")
	f.SetCellValue(bomSheetName, fmt.Sprintf("B%d", summaryRow+2), len(result.UnplacedIDs))

	return f.SaveAs(path)
}

func writeBOMRow(f *excelize.File, row, partID int, name string, area float64, sheet string, x, y, rotation float64, status string) {
	f.SetCellValue(bomSheetName, fmt.Sprintf("A%d", row), partID)
	f.SetCellValue(bomSheetName, fmt.Sprintf("B%d", row), name)
	f.SetCellValue(bomSheetName, fmt.Sprintf("C%d", row), area)
	f.SetCellValue(bomSheetName, fmt.Sprintf("D%d", row), sheet)
	f.SetCellValue(bomSheetName, fmt.Sprintf("E%d", row), x)
	f.SetCellValue(bomSheetName, fmt.Sprintf("F%d", row), y)
	f.SetCellValue(bomSheetName, fmt.Sprintf("G%d", row), rotation)
	f.SetCellValue(bomSheetName, fmt.Sprintf("H%d", row), status)
}

func countPlaced(result nestmodel.PlacementResult) int {
	total := 0
	for _, s := range result.Sheets {
		total += len(s.Placements)
	}
	return total
}
