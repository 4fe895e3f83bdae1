package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrNoSheets          = errors.New("workbook has no sheets")
	ErrMissingColumn     = errors.New("required column missing")
)

// Table is one sheet read from a workbook. The first non-blank row is treated
// as the header row; Rows never include it.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Sheet is one sheet to be written. Cells may be strings or numbers.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

func newTable(name string, raw [][]string) Table {
	t := Table{Name: name}
	start := -1
	for i, row := range raw {
		if !isBlank(row) {
			start = i
			break
		}
	}
	if start == -1 {
		return t
	}

	t.Headers = make([]string, len(raw[start]))
	for i, h := range raw[start] {
		t.Headers[i] = strings.TrimSpace(h)
	}

	for _, row := range raw[start+1:] {
		if isBlank(row) {
			continue
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// Schema describes the columns a stage needs from an input sheet.
type Schema struct {
	Required []string
	Optional []string
}

// Columns maps a schema column name to its index in the table. Optional
// columns that are absent are not present in the map.
type Columns map[string]int

// Value returns the trimmed cell for the named column, or "" when the column
// is absent or the row is short.
func (c Columns) Value(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// MissingColumnError lists the required columns a sheet does not declare.
type MissingColumnError struct {
	Sheet   string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("sheet %q is missing required column(s) %s", e.Sheet, strings.Join(quoted, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Check resolves the schema against the table headers. Header matching is
// exact first, then case and whitespace insensitive.
func (s Schema) Check(t Table) (Columns, error) {
	exact := make(map[string]int, len(t.Headers))
	loose := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, dup := exact[h]; !dup {
			exact[h] = i
		}
		key := normalizeHeader(h)
		if _, dup := loose[key]; !dup {
			loose[key] = i
		}
	}

	lookup := func(name string) (int, bool) {
		if idx, ok := exact[name]; ok {
			return idx, true
		}
		idx, ok := loose[normalizeHeader(name)]
		return idx, ok
	}

	cols := make(Columns, len(s.Required)+len(s.Optional))
	var missing []string
	for _, name := range s.Required {
		idx, ok := lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Sheet: t.Name, Columns: missing}
	}

	for _, name := range s.Optional {
		if idx, ok := lookup(name); ok {
			cols[name] = idx
		}
	}
	return cols, nil
}
