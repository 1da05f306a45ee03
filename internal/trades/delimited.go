package trades

import (
	"encoding/csv"
	"strings"
)

// table is a parsed upload: a header and data rows aligned to it.
type table struct {
	header []string
	rows   [][]string
}

// delimiter is one candidate field separator for text uploads.
type delimiter struct {
	name  string
	comma rune
}

// delimiters are tried in order; the first parse with at least two columns wins.
var delimiters = []delimiter{
	{name: "comma", comma: ','},
	{name: "semicolon", comma: ';'},
	{name: "tab", comma: '\t'},
	{name: "pipe", comma: '|'},
}

// parseDelimited returns the first successful parse and the name of its separator.
func parseDelimited(text string) (*table, string, bool) {
	for _, d := range delimiters {
		t, err := readDelimited(text, d.comma)
		if err != nil || len(t.header) < 2 {
			continue
		}
		return t, d.name, true
	}
	return nil, "", false
}

func readDelimited(text string, comma rune) (*table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return buildTable(records), nil
}

// buildTable takes the first record as header. Rows wider than the header are skipped,
// shorter rows are padded with empty cells.
func buildTable(records [][]string) *table {
	t := &table{}
	for len(records) > 0 && isBlankRecord(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return t
	}

	t.header = records[0]
	for _, rec := range records[1:] {
		if isBlankRecord(rec) || len(rec) > len(t.header) {
			continue
		}
		row := make([]string, len(t.header))
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
