package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const maxColWidth = 50

// SaveXLSX writes the report as a styled workbook: title, summary block,
// bordered data table with a filled header row, optional per-row status
// fills and auto-fitted column widths.
func (r *Report) SaveXLSX(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(r.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{ColorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Border: thinBorder()})
	if err != nil {
		return err
	}

	set := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	style := func(col, row, styleID int) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellStyle(sheet, cell, cell, styleID)
	}

	rowNum := 1
	set(1, rowNum, r.Title)
	style(1, rowNum, titleStyle)
	rowNum += 2

	if len(r.Summary) > 0 {
		set(1, rowNum, "Summary")
		style(1, rowNum, sectionStyle)
		rowNum++
		for _, s := range r.Summary {
			set(1, rowNum, s.Label)
			set(2, rowNum, s.Value)
			rowNum++
		}
		rowNum++
	}

	headerRow := rowNum
	for i, col := range r.Columns {
		set(i+1, headerRow, col)
		style(i+1, headerRow, headerStyle)
	}
	rowNum++

	// Fill styles are built lazily, one per distinct color.
	fillStyles := map[string]int{}
	rowStyle := func(color string) (int, error) {
		if color == "" {
			return cellStyle, nil
		}
		if id, ok := fillStyles[color]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder(),
		})
		if err != nil {
			return 0, err
		}
		fillStyles[color] = id
		return id, nil
	}

	for _, row := range r.Rows {
		color := ""
		if r.FillFor != nil {
			color = r.FillFor(row)
		}
		styleID, err := rowStyle(color)
		if err != nil {
			return err
		}
		for i := range r.Columns {
			set(i+1, rowNum, cellOr(row, i))
			style(i+1, rowNum, styleID)
		}
		rowNum++
	}

	r.fitColumns(f, sheet)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// fitColumns sizes each data column to its longest cell, capped at
// maxColWidth. The summary block is excluded so a long summary value does
// not blow up column A.
func (r *Report) fitColumns(f *excelize.File, sheet string) {
	for i, col := range r.Columns {
		width := len(col)
		for _, row := range r.Rows {
			if l := len(cellOr(row, i)); l > width {
				width = l
			}
		}
		if width+2 > maxColWidth {
			width = maxColWidth - 2
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, float64(width+2))
	}
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}
}

// sheetName truncates a title to Excel's 31-character sheet name limit.
func sheetName(title string) string {
	if title == "" {
		return "Report"
	}
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
