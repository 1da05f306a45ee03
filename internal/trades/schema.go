package trades

import (
	"errors"
	"strings"

	"github.com/newthinker/fxagents/internal/core"
)

// MissingColumnsError lists the required columns absent from an upload.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return strings.Join(e.Columns, ", ")
}

// MissingColumns extracts the missing column names from a schema violation, if any.
func MissingColumns(err error) []string {
	var mc *MissingColumnsError
	if errors.As(err, &mc) {
		return mc.Columns
	}
	return nil
}

// canonicalColumn normalizes a header cell and resolves legacy aliases.
func canonicalColumn(header string) string {
	name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// resolveColumns maps each required column to its index in header.
// Every absent column is reported, in RequiredColumns order.
func resolveColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(RequiredColumns))
	for i, h := range header {
		name := canonicalColumn(h)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.WrapError(core.ErrSchemaViolation, &MissingColumnsError{Columns: missing})
	}
	return index, nil
}
