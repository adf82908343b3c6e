package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// ToXLSX writes one sheet per day, each with the same columns as the CSV
// export plus a totals row at the bottom.
func ToXLSX(days []state.Day, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for di := range days {
		d := &days[di]
		sheet := d.ID
		if di == 0 {
			// excelize always creates "Sheet1"; rename it instead of leaving
			// an empty first tab.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		for col, name := range header {
			if err := setCell(f, sheet, col+1, 1, name); err != nil {
				return err
			}
		}

		rowNum := 2
		totalPieces, totalMinutes := 0, 0
		for _, r := range dayRows(d) {
			values := []any{r.Function, r.Worker, r.Hour, r.Pieces, r.Reason, r.Detail, r.Minutes}
			for col, v := range values {
				if err := setCell(f, sheet, col+1, rowNum, v); err != nil {
					return err
				}
			}
			totalPieces += r.Pieces
			totalMinutes += r.Minutes
			rowNum++
		}

		for col, v := range []any{"Total", "", "", totalPieces, "", "", totalMinutes} {
			if err := setCell(f, sheet, col+1, rowNum, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write xlsx file: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell coordinates: %w", err)
	}
	return f.SetCellValue(sheet, cell, value)
}
