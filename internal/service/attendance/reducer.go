package attendance

import (
	"math"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/domain/holiday"
)

// Reducer derives worked hours from normalized attendance.
type Reducer struct {
	policy attendance.Policy
}

func NewReducer(policy attendance.Policy) *Reducer {
	return &Reducer{policy: policy}
}

// EmployeeDays is one employee's input sheet, already decoded.
type EmployeeDays struct {
	Employee string
	Days     []attendance.DailyAttendance
}

// ReduceSheet computes hours for every day where both check-in and check-out
// are times, then relabels non-working days and holidays for display. Days
// whose check-out precedes the check-in are counted as anomalies and carry no
// hours.
func (r *Reducer) ReduceSheet(employee string, days []attendance.DailyAttendance, holidays holiday.Calendar) attendance.HoursSheet {
	sheet := attendance.HoursSheet{
		Employee: employee,
		Rows:     make([]attendance.WorkedHoursRow, 0, len(days)),
	}

	var total float64
	for _, day := range days {
		row := attendance.WorkedHoursRow{
			Date:         day.Date,
			CheckIn:      day.CheckIn,
			CheckOut:     day.CheckOut,
			EmployeeName: day.EmployeeName,
		}

		if day.CheckIn.IsTime() && day.CheckOut.IsTime() {
			hours := day.CheckOut.Time.Sub(day.CheckIn.Time).Hours()
			if hours < 0 {
				sheet.Anomalies++
			} else {
				row.WorkedHours = &hours
				total += hours
				sheet.WorkedDays++
			}
		}

		row.CheckIn, row.CheckOut = r.displayLabels(row, holidays)
		sheet.Rows = append(sheet.Rows, row)
	}

	sheet.TotalWorkedHours = math.RoundToEven(total)
	return sheet
}

func (r *Reducer) displayLabels(row attendance.WorkedHoursRow, holidays holiday.Calendar) (attendance.ClockValue, attendance.ClockValue) {
	if name, ok := holidays.Lookup(row.Date); ok {
		return attendance.Label(name), attendance.Label(name)
	}
	if label, ok := r.policy.NonWorkingLabel(row.Date); ok {
		return attendance.Label(label), attendance.Label(label)
	}
	return row.CheckIn, row.CheckOut
}

// Reduce runs ReduceSheet over every employee, in order, and collects the
// summary rows.
func (r *Reducer) Reduce(sheets []EmployeeDays, holidays holiday.Calendar) ([]attendance.HoursSheet, []attendance.EmployeeSummary) {
	out := make([]attendance.HoursSheet, 0, len(sheets))
	summaries := make([]attendance.EmployeeSummary, 0, len(sheets))
	for _, s := range sheets {
		hs := r.ReduceSheet(s.Employee, s.Days, holidays)
		out = append(out, hs)
		summaries = append(summaries, Summarize(hs))
	}
	return out, summaries
}

func Summarize(hs attendance.HoursSheet) attendance.EmployeeSummary {
	return attendance.EmployeeSummary{
		Employee:         hs.Employee,
		TotalWorkedHours: hs.TotalWorkedHours,
		WorkedDays:       hs.WorkedDays,
	}
}
