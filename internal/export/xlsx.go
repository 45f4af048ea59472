package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"veridoc/internal/domain"
)

const sheetName = "Extractions"

// WriteXLSX renders a batch summary as a single-sheet workbook with the same
// columns as the CSV export, plus a bold header row.
func WriteXLSX(w io.Writer, summary *domain.BatchSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = f.SetCellStyle(sheetName, "A1", endCell, styleID)
	}

	rowNum := 2
	for i := range summary.Results {
		if err := writeRow(f, rowNum, resultToRow(&summary.Results[i])); err != nil {
			return err
		}
		rowNum++
	}
	for _, e := range summary.Errors {
		row := make([]string, len(columns))
		row[0] = fmt.Sprintf("%d", e.Index+1)
		row[12] = "No"
		row[13] = e.Message
		if err := writeRow(f, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, rowNum int, row []string) error {
	vals := make([]interface{}, len(row))
	for i, v := range row {
		vals[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	return nil
}
