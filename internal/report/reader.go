package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/freightdesk/podrec/internal/common"
)

// ReadSection reads the data table back out of a previously written XLSX
// report. The header row is located by scanning for markerColumn, so the
// summary block above it is skipped. Rows come back as column-name keyed
// maps; blank rows are dropped.
func ReadSection(path, markerColumn string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewAppError("REPORT_ERROR", "open report: "+path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewAppError("REPORT_ERROR", "report has no sheets: "+path, common.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, common.NewAppError("REPORT_ERROR", "read report rows", err)
	}

	headerIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if cell == markerColumn {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, common.NewAppError("REPORT_ERROR",
			fmt.Sprintf("no %q header row found in %s", markerColumn, path), common.ErrNotFound)
	}

	header := rows[headerIdx]
	var out []map[string]string
	for _, row := range rows[headerIdx+1:] {
		rec := make(map[string]string, len(header))
		blank := true
		for i, col := range header {
			if col == "" {
				continue
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if val != "" {
				blank = false
			}
			rec[col] = val
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out, nil
}
