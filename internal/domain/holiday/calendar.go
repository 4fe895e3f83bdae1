package holiday

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/timeparse"
)

const (
	ColumnDate = "Date"
	ColumnName = "Holiday_Name"
)

var ErrEmptyCalendar = errors.New("holiday file has no usable rows")

// Schema is the column layout of a holiday file.
var Schema = spreadsheet.Schema{Required: []string{ColumnDate, ColumnName}}

// Calendar maps a calendar date (YYYY-MM-DD) to a holiday name. The nil
// Calendar is valid and empty.
type Calendar map[string]string

func key(d time.Time) string {
	return d.Format("2006-01-02")
}

// Add records a holiday. A second name on the same date is joined to the
// first.
func (c Calendar) Add(d time.Time, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	k := key(d)
	if existing, ok := c[k]; ok && existing != name {
		c[k] = existing + " / " + name
		return
	}
	c[k] = name
}

// Lookup returns the holiday name for the date of d.
func (c Calendar) Lookup(d time.Time) (string, bool) {
	name, ok := c[key(d)]
	return name, ok
}

func (c Calendar) Len() int {
	return len(c)
}

// Clone returns an independent copy, for handing to concurrent workers.
func (c Calendar) Clone() Calendar {
	out := make(Calendar, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// FromTable builds a calendar from a sheet with Date and Holiday_Name
// columns. Rows with an unreadable date or an empty name are skipped and
// counted.
func FromTable(t spreadsheet.Table) (Calendar, int, error) {
	cols, err := Schema.Check(t)
	if err != nil {
		return nil, 0, err
	}

	cal := make(Calendar)
	skipped := 0
	for _, row := range t.Rows {
		d, ok := timeparse.Date(cols.Value(row, ColumnDate))
		name := cols.Value(row, ColumnName)
		if !ok || name == "" {
			skipped++
			continue
		}
		cal.Add(d, name)
	}

	if cal.Len() == 0 {
		return nil, skipped, fmt.Errorf("sheet %q: %w", t.Name, ErrEmptyCalendar)
	}
	return cal, skipped, nil
}
