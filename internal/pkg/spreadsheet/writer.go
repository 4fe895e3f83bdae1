package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLength is the Excel limit on sheet names.
const MaxSheetNameLength = 31

const defaultSheetName = "Sheet"

// SanitizeSheetName keeps letters, digits, spaces and "_-." and truncates the
// result to MaxSheetNameLength runes. It never returns an empty name.
func SanitizeSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	clean := strings.TrimSpace(b.String())
	clean = truncateRunes(clean, MaxSheetNameLength)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return defaultSheetName
	}
	return clean
}

// UniqueSheetName sanitizes name and appends a numeric suffix when the result
// is already taken. Comparison is case insensitive, as in Excel. The chosen
// name is recorded in used.
func UniqueSheetName(name string, used map[string]struct{}) string {
	base := SanitizeSheetName(name)
	candidate := base
	for n := 2; ; n++ {
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			break
		}
		suffix := "_" + strconv.Itoa(n)
		candidate = strings.TrimSpace(truncateRunes(base, MaxSheetNameLength-len(suffix))) + suffix
	}
	used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// WriteWorkbook writes one sheet per entry, in order, and returns the sheet
// names actually used.
func WriteWorkbook(w io.Writer, sheets []Sheet) ([]string, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	used := make(map[string]struct{}, len(sheets))
	names := make([]string, 0, len(sheets))
	defaultName := f.GetSheetName(0)

	for i, s := range sheets {
		name := UniqueSheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName(defaultName, name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, s, headerStyle); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return names, nil
}

func writeSheet(f *excelize.File, name string, s Sheet, headerStyle int) error {
	headers := s.Headers
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header of sheet %q: %w", name, err)
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of sheet %q: %w", name, err)
	}

	for i, row := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", i+2, name, err)
		}
	}

	if len(headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, "A", last, 16); err != nil {
			return fmt.Errorf("failed to size columns of sheet %q: %w", name, err)
		}
	}
	return nil
}
