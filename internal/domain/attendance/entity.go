package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/pkg/timeparse"
)

// Sentinel labels that stand in for a time of day.
const (
	LabelMissing    = "Missing"
	LabelNoCheckout = "No Checkout"
	LabelTotal      = "Total"
)

const clockFormat = "15:04:05"

// PunchRecord is one raw clock event. Timestamp is zero when the source cell
// could not be parsed.
type PunchRecord struct {
	Name       string
	Department string
	Number     string
	Raw        string
	Timestamp  time.Time
}

// ClockValue is either a concrete time of day or a sentinel label. The zero
// value is empty.
type ClockValue struct {
	Time  time.Time
	Label string
}

// At returns a ClockValue holding the time of day of t.
func At(t time.Time) ClockValue {
	return ClockValue{Time: timeparse.ClockOf(t)}
}

// Label returns a ClockValue holding a sentinel label.
func Label(label string) ClockValue {
	return ClockValue{Label: label}
}

// IsTime reports whether v holds a concrete time of day.
func (v ClockValue) IsTime() bool {
	return v.Label == "" && !v.Time.IsZero()
}

func (v ClockValue) IsEmpty() bool {
	return v.Label == "" && v.Time.IsZero()
}

func (v ClockValue) String() string {
	if v.Label != "" {
		return v.Label
	}
	if v.Time.IsZero() {
		return ""
	}
	return v.Time.Format(clockFormat)
}

// DailyAttendance is one employee's attendance for one calendar date.
type DailyAttendance struct {
	Date         time.Time
	CheckIn      ClockValue
	CheckOut     ClockValue
	EmployeeName string
}

// Timesheet is the normalized attendance of one employee over a period.
type Timesheet struct {
	EmployeeName string
	Department   string
	EmployeeNo   string
	Days         []DailyAttendance

	// Punches counts the punches inside the period, Dropped those discarded
	// for an unreadable timestamp.
	Punches int
	Dropped int
}

// WorkedHoursRow is a DailyAttendance row with its derived hours. WorkedHours
// is nil unless both check-in and check-out are times.
type WorkedHoursRow struct {
	Date         time.Time
	CheckIn      ClockValue
	CheckOut     ClockValue
	EmployeeName string
	WorkedHours  *float64
}

// HoursSheet is the reduced attendance of one employee.
type HoursSheet struct {
	Employee         string
	Rows             []WorkedHoursRow
	TotalWorkedHours float64
	WorkedDays       int
	// Anomalies counts days whose check-out precedes the check-in.
	Anomalies int
}

type EmployeeSummary struct {
	Employee         string  `json:"employee"`
	TotalWorkedHours float64 `json:"total_worked_hours"`
	WorkedDays       int     `json:"worked_days"`
}
