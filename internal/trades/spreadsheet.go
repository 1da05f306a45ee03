package trades

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first worksheet of an Office Open XML workbook.
// Raw cell values are requested so date cells arrive as serial numbers.
func parseXLSX(data []byte) (*table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return buildTable(padRecords(records)), nil
}

// parseXLS reads the first worksheet of a legacy BIFF workbook.
// The BIFF reader panics on some malformed files; those surface as parse errors.
func parseXLS(data []byte) (t *table, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("malformed workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var records [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		records = append(records, cells)
	}
	return buildTable(padRecords(records)), nil
}

// padRecords widens every record to the header width. Spreadsheet readers drop trailing
// empty cells, which would otherwise look like short rows.
func padRecords(records [][]string) [][]string {
	width := 0
	for _, rec := range records {
		if !isBlankRecord(rec) {
			width = len(rec)
			break
		}
	}
	out := make([][]string, len(records))
	for i, rec := range records {
		if len(rec) < width {
			padded := make([]string, width)
			copy(padded, rec)
			rec = padded
		}
		out[i] = rec
	}
	return out
}

// normalizeSerialDate renders an Excel serial date as text the date parser understands.
// Values that already parse as dates, or are not numeric, are returned unchanged.
func normalizeSerialDate(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := ParseDate(s); ok {
		return s
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return s
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return s
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
