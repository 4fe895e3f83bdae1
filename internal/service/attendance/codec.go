package attendance

import (
	"fmt"
	"math"
	"strings"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/timeparse"
)

// Column names of the exchanged sheets.
const (
	ColumnPunchTime   = "Date/Time"
	ColumnName        = "Name"
	ColumnDepartment  = "Department"
	ColumnNumber      = "No."
	ColumnDate        = "Date"
	ColumnCheckIn     = "Check_In_Time"
	ColumnCheckOut    = "Check_Out_Time"
	ColumnEmployee    = "Employee Name"
	ColumnWorkedHours = "Worked_Hours"

	ColumnSummaryEmployee = "Employee"
	ColumnSummaryTotal    = "Total_Worked_Hours"
	ColumnSummaryDays     = "Worked_Days"

	SummarySheetName = "Summary"
)

var (
	punchSchema = spreadsheet.Schema{
		Required: []string{ColumnPunchTime},
		Optional: []string{ColumnName, ColumnDepartment, ColumnNumber},
	}

	attendanceSchema = spreadsheet.Schema{
		Required: []string{ColumnDate, ColumnCheckIn, ColumnCheckOut},
		Optional: []string{ColumnEmployee, ColumnWorkedHours},
	}

	summarySchema = spreadsheet.Schema{
		Required: []string{ColumnSummaryEmployee, ColumnSummaryTotal},
	}
)

// decodePunches reads a raw time-clock export. Rows whose timestamp cannot be
// parsed are kept with a zero Timestamp so the normalizer can count them.
func decodePunches(t spreadsheet.Table) ([]attendance.PunchRecord, error) {
	cols, err := punchSchema.Check(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", attendance.ErrMissingColumn, err)
	}

	punches := make([]attendance.PunchRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		raw := cols.Value(row, ColumnPunchTime)
		p := attendance.PunchRecord{
			Name:       cols.Value(row, ColumnName),
			Department: cols.Value(row, ColumnDepartment),
			Number:     cols.Value(row, ColumnNumber),
			Raw:        raw,
		}
		if ts, ok := timeparse.Timestamp(raw); ok {
			p.Timestamp = ts
		}
		punches = append(punches, p)
	}
	return punches, nil
}

// isSummaryTable recognises the summary sheet of an earlier reducer run.
func isSummaryTable(t spreadsheet.Table) bool {
	if _, err := summarySchema.Check(t); err != nil {
		return false
	}
	_, err := attendanceSchema.Check(t)
	return err != nil
}

// decodeAttendance reads a normalized sheet. Existing Total rows and any
// Worked_Hours column are ignored so that reducer output can be reduced
// again. A row with an unreadable date fails the whole sheet.
func decodeAttendance(t spreadsheet.Table) ([]attendance.DailyAttendance, error) {
	cols, err := attendanceSchema.Check(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", attendance.ErrMissingColumn, err)
	}

	days := make([]attendance.DailyAttendance, 0, len(t.Rows))
	for i, row := range t.Rows {
		rawDate := cols.Value(row, ColumnDate)
		if strings.EqualFold(rawDate, attendance.LabelTotal) {
			continue
		}
		date, ok := timeparse.Date(rawDate)
		if !ok {
			// header is row 1
			return nil, fmt.Errorf("%w: row %d has invalid date %q", attendance.ErrSheetProcessing, i+2, rawDate)
		}

		employee := cols.Value(row, ColumnEmployee)
		if employee == "" {
			employee = t.Name
		}
		days = append(days, attendance.DailyAttendance{
			Date:         date,
			CheckIn:      decodeClock(cols.Value(row, ColumnCheckIn)),
			CheckOut:     decodeClock(cols.Value(row, ColumnCheckOut)),
			EmployeeName: employee,
		})
	}
	return days, nil
}

func decodeClock(raw string) attendance.ClockValue {
	if raw == "" {
		return attendance.Label(attendance.LabelMissing)
	}
	if t, ok := timeparse.Clock(raw); ok {
		return attendance.At(t)
	}
	return attendance.Label(raw)
}

func encodeTimesheet(sheetName string, ts attendance.Timesheet) spreadsheet.Sheet {
	s := spreadsheet.Sheet{
		Name:    sheetName,
		Headers: []string{ColumnDate, ColumnCheckIn, ColumnCheckOut, ColumnEmployee},
		Rows:    make([][]interface{}, 0, len(ts.Days)),
	}
	for _, d := range ts.Days {
		s.Rows = append(s.Rows, []interface{}{
			d.Date.Format(attendance.DateFormat),
			d.CheckIn.String(),
			d.CheckOut.String(),
			d.EmployeeName,
		})
	}
	return s
}

func encodeHoursSheet(sheetName string, hs attendance.HoursSheet) spreadsheet.Sheet {
	s := spreadsheet.Sheet{
		Name:    sheetName,
		Headers: []string{ColumnDate, ColumnCheckIn, ColumnCheckOut, ColumnEmployee, ColumnWorkedHours},
		Rows:    make([][]interface{}, 0, len(hs.Rows)+1),
	}
	for _, r := range hs.Rows {
		var hours interface{} = ""
		if r.WorkedHours != nil {
			hours = roundHours(*r.WorkedHours)
		}
		s.Rows = append(s.Rows, []interface{}{
			r.Date.Format(attendance.DateFormat),
			r.CheckIn.String(),
			r.CheckOut.String(),
			r.EmployeeName,
			hours,
		})
	}
	s.Rows = append(s.Rows, []interface{}{attendance.LabelTotal, "", "", "", hs.TotalWorkedHours})
	return s
}

func encodeSummary(summaries []attendance.EmployeeSummary) spreadsheet.Sheet {
	s := spreadsheet.Sheet{
		Name:    SummarySheetName,
		Headers: []string{ColumnSummaryEmployee, ColumnSummaryTotal, ColumnSummaryDays},
		Rows:    make([][]interface{}, 0, len(summaries)),
	}
	for _, sum := range summaries {
		s.Rows = append(s.Rows, []interface{}{sum.Employee, sum.TotalWorkedHours, sum.WorkedDays})
	}
	return s
}

// roundHours keeps two decimals for display.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
