package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"jobtrack.com/jobtrack/timecard"
)

const xlsxSheet = "Timecards"

// BuildXLSX writes the payroll rows to a single-sheet workbook. Hour and
// production cells are numbers; the header row is bold.
func BuildXLSX(timecards []timecard.Timecard, weekStart string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	rows := PayrollRows(timecards, weekStart)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(xlsxSheet, cell, cellValue(r, c, value)); err != nil {
				return nil, fmt.Errorf("writing %s: %w", cell, err)
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(xlsxSheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(xlsxSheet, "A", "A", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(row, col int, value string) any {
	if row < 2 || value == "" || (col != colHours && col != colProduction) {
		return value
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
