package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows bounds legacy workbooks, whose row index is 16 bit.
const maxXLSRows = 65536

// IsSupported reports whether the file extension can be read.
func IsSupported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// ReadWorkbook reads every sheet of the workbook, in workbook order. The
// format is chosen from the file extension.
func ReadWorkbook(r io.Reader, filename string) ([]Table, error) {
	if !IsSupported(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var tables []Table
	if strings.ToLower(filepath.Ext(filename)) == ".xls" {
		tables, err = readXLS(data)
	} else {
		tables, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	if len(tables) == 0 {
		return nil, ErrNoSheets
	}
	return tables, nil
}

func readXLSX(data []byte) ([]Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	// Raw values keep date cells as serials whatever their number format.
	var tables []Table
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to get rows of sheet %q: %w", name, err)
		}
		tables = append(tables, newTable(name, rows))
	}
	return tables, nil
}

func readXLS(data []byte) ([]Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("no workbook stream")
	}

	var tables []Table
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}

		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow) && r < maxXLSRows; r++ {
			row := xlsRow(sheet, r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		tables = append(tables, newTable(sheet.Name, rows))
	}
	return tables, nil
}

// xlsRow returns nil for a row index the sheet never declared. Row
// dereferences the missing entry instead of reporting it.
func xlsRow(sheet *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(r)
}
