package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/pkg/validator"
)

// Policy holds the labelling rules shared by both stages.
type Policy struct {
	// NonWorkingDays are always rendered with the weekday name.
	NonWorkingDays []time.Weekday
	// SinglePunchCheckout replaces a check-out identical to the check-in.
	// An empty value means LabelNoCheckout.
	SinglePunchCheckout ClockValue
}

// DefaultPolicy labels Friday and Saturday and closes single punches at 17:00.
func DefaultPolicy() Policy {
	return Policy{
		NonWorkingDays:      []time.Weekday{time.Friday, time.Saturday},
		SinglePunchCheckout: At(time.Date(0, time.January, 1, 17, 0, 0, 0, time.UTC)),
	}
}

// NonWorkingLabel returns the weekday name when d is a designated
// non-working day.
func (p Policy) NonWorkingLabel(d time.Time) (string, bool) {
	wd := d.Weekday()
	for _, nw := range p.NonWorkingDays {
		if nw == wd {
			return wd.String(), true
		}
	}
	return "", false
}

// SingleCheckout is the check-out used when only one instant was recorded.
func (p Policy) SingleCheckout() ClockValue {
	if p.SinglePunchCheckout.IsEmpty() {
		return Label(LabelNoCheckout)
	}
	return p.SinglePunchCheckout
}

// ParseWeekdays parses a comma separated list of English weekday names.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		wd, ok := weekdayByName(part)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, wd)
	}
	return days, nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := wd.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:3]) {
			return wd, true
		}
	}
	return 0, false
}

// ParseSingleCheckout reads the single-punch check-out setting, an HH:MM
// time or "none" for the LabelNoCheckout marker.
func ParseSingleCheckout(s string) (ClockValue, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return ClockValue{}, nil
	}
	t, ok := validator.IsValidClock(s)
	if !ok {
		return ClockValue{}, fmt.Errorf("invalid check-out time %q", s)
	}
	return At(t), nil
}
