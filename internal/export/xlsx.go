package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

const reportSheet = "Report"

// WriteReportXLSX writes the same rows as the CSV download into a single
// sheet workbook.
func WriteReportXLSX(w io.Writer, doc *model.ReportDocument) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	f.SetColWidth(reportSheet, "A", "A", 26)
	f.SetColWidth(reportSheet, "B", "B", 40)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	rows := reportRows(doc)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
		// Section titles are the single cell rows; the notes body is last.
		if len(row) == 1 && i < len(rows)-1 {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			f.SetCellStyle(reportSheet, cell, cell, headerStyle)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
