package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-processor/internal/pkg/timeparse"
)

// Normalizer turns raw punches into one row per date of a period.
type Normalizer struct {
	policy attendance.Policy
}

func NewNormalizer(policy attendance.Policy) *Normalizer {
	return &Normalizer{policy: policy}
}

type punchSpan struct {
	first time.Time
	last  time.Time
}

// Normalize groups punches by date, keeping the earliest as check-in and the
// latest as check-out, fills every date of the period and applies the
// sentinel labels. It returns attendance.ErrEmptyRange when no punch falls in
// the period.
func (n *Normalizer) Normalize(employee string, punches []attendance.PunchRecord, period attendance.Period, holidays holiday.Calendar) (attendance.Timesheet, error) {
	ts := attendance.Timesheet{EmployeeName: employee}
	spans := make(map[string]punchSpan)

	for _, p := range punches {
		if p.Timestamp.IsZero() {
			ts.Dropped++
			continue
		}
		day := timeparse.DateOf(p.Timestamp)
		if !period.Contains(day) {
			continue
		}
		ts.Punches++
		if ts.Department == "" {
			ts.Department = p.Department
		}
		if ts.EmployeeNo == "" {
			ts.EmployeeNo = p.Number
		}

		key := day.Format(attendance.DateFormat)
		clock := timeparse.ClockOf(p.Timestamp)
		span, seen := spans[key]
		if !seen {
			spans[key] = punchSpan{first: clock, last: clock}
			continue
		}
		if clock.Before(span.first) {
			span.first = clock
		}
		if clock.After(span.last) {
			span.last = clock
		}
		spans[key] = span
	}

	if ts.Punches == 0 {
		return ts, fmt.Errorf("%w: %s to %s", attendance.ErrEmptyRange,
			period.Start.Format(attendance.DateFormat), period.End.Format(attendance.DateFormat))
	}

	days := period.Days()
	ts.Days = make([]attendance.DailyAttendance, 0, len(days))
	for _, day := range days {
		span, seen := spans[day.Format(attendance.DateFormat)]
		in, out := n.resolve(day, span, seen, holidays)
		ts.Days = append(ts.Days, attendance.DailyAttendance{
			Date:         day,
			CheckIn:      in,
			CheckOut:     out,
			EmployeeName: employee,
		})
	}
	return ts, nil
}

// resolve applies the label precedence: holiday, then non-working weekday,
// then Missing, then the recorded times with the single-punch correction.
func (n *Normalizer) resolve(day time.Time, span punchSpan, seen bool, holidays holiday.Calendar) (attendance.ClockValue, attendance.ClockValue) {
	if name, ok := holidays.Lookup(day); ok {
		return attendance.Label(name), attendance.Label(name)
	}
	if label, ok := n.policy.NonWorkingLabel(day); ok {
		return attendance.Label(label), attendance.Label(label)
	}
	if !seen {
		return attendance.Label(attendance.LabelMissing), attendance.Label(attendance.LabelMissing)
	}

	in := attendance.At(span.first)
	if span.first.Equal(span.last) {
		return in, n.policy.SingleCheckout()
	}
	return in, attendance.At(span.last)
}
