package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/pkg/timeparse"
)

const DateFormat = "2006-01-02"

// DefaultMaxPeriodDays caps an explicitly requested period.
const DefaultMaxPeriodDays = 62

// Period is a closed range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod truncates both bounds to dates and rejects an end before the start.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: timeparse.DateOf(start), End: timeparse.DateOf(end)}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// Contains reports whether the date of d lies inside the period.
func (p Period) Contains(d time.Time) bool {
	d = timeparse.DateOf(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Len is the number of calendar dates in the period.
func (p Period) Len() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Days lists every calendar date of the period, in order.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DefaultPeriod runs from startDay of the month before now to endDay of the
// month of now. Days past the end of a short month are clamped.
func DefaultPeriod(now time.Time, startDay, endDay int) Period {
	y, m, _ := now.Date()
	prevY, prevM := y, m-1
	if prevM < time.January {
		prevY, prevM = y-1, time.December
	}
	return Period{
		Start: time.Date(prevY, prevM, clampDay(prevY, prevM, startDay), 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, m, clampDay(y, m, endDay), 0, 0, 0, 0, time.UTC),
	}
}

func clampDay(y int, m time.Month, day int) int {
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 {
		return 1
	}
	if day > last {
		return last
	}
	return day
}
