package trades

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/newthinker/fxagents/internal/core"
)

// Supported upload extensions
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// Dataset is one parsed upload. Rows are sorted ascending by date, ties keep file order,
// and rows whose date cannot be parsed trail at the end. A stored dataset is never mutated.
type Dataset struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Format    string    `json:"format"`
	Encoding  string    `json:"encoding,omitempty"`
	Separator string    `json:"separator,omitempty"`
	Rows      []Row     `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Columns returns the number of columns kept from the upload.
func (d *Dataset) Columns() int {
	return len(RequiredColumns)
}

// SeparatorLabel describes how fields were split, for display.
func (d *Dataset) SeparatorLabel() string {
	if d.Separator == "" {
		return "N/A"
	}
	return d.Separator
}

// Ingest validates and parses an uploaded file.
func Ingest(filename string, data []byte) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if filename == "" || !isSupported(ext) {
		return nil, core.WrapError(core.ErrUnsupportedFormat, fmt.Errorf("file %q", filename))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, core.WrapError(core.ErrEmptyInput, fmt.Errorf("file %q is empty", filename))
	}

	ds := &Dataset{
		Filename: filename,
		Format:   strings.TrimPrefix(ext, "."),
	}

	var (
		t   *table
		err error
	)
	switch ext {
	case ExtCSV:
		text, enc, ok := decodeText(data)
		if !ok {
			return nil, core.WrapError(core.ErrDecodeFailure, nil)
		}
		tbl, sep, ok := parseDelimited(text)
		if !ok {
			return nil, core.WrapError(core.ErrParseFailure, nil)
		}
		t, ds.Encoding, ds.Separator = tbl, enc, sep
	case ExtXLSX:
		t, err = parseXLSX(data)
	case ExtXLS:
		t, err = parseXLS(data)
	}
	if err != nil {
		return nil, core.WrapError(core.ErrParseFailure, err)
	}
	if t == nil || len(t.header) == 0 {
		return nil, core.WrapError(core.ErrEmptyInput, fmt.Errorf("file %q has no header", filename))
	}

	index, err := resolveColumns(t.header)
	if err != nil {
		return nil, err
	}

	ds.Rows = make([]Row, 0, len(t.rows))
	for _, cells := range t.rows {
		var row Row
		for _, col := range RequiredColumns {
			row.set(col, strings.TrimSpace(cells[index[col]]))
		}
		if ext != ExtCSV {
			row.Date = normalizeSerialDate(row.Date)
		}
		ds.Rows = append(ds.Rows, row)
	}
	if len(ds.Rows) == 0 {
		return nil, core.WrapError(core.ErrEmptyInput, fmt.Errorf("file %q has no data rows", filename))
	}

	sortByDate(ds.Rows)
	return ds, nil
}

func isSupported(ext string) bool {
	switch ext {
	case ExtCSV, ExtXLSX, ExtXLS:
		return true
	default:
		return false
	}
}

// sortByDate orders rows by parsed date; unparseable dates go last in file order.
func sortByDate(rows []Row) {
	keys := make([]time.Time, len(rows))
	valid := make([]bool, len(rows))
	for i, r := range rows {
		keys[i], valid[i] = ParseDate(r.Date)
	}

	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if valid[ia] != valid[ib] {
			return valid[ia]
		}
		return valid[ia] && keys[ia].Before(keys[ib])
	})

	sorted := make([]Row, len(rows))
	for i, j := range idx {
		sorted[i] = rows[j]
	}
	copy(rows, sorted)
}
