// Package timeparse reads the date and time representations found in
// time-clock exports: ISO and US layouts, 12 and 24 hour clocks, and Excel
// serial numbers as stored in date cells.
package timeparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Month-first layouts are tried before day-first ones; the time-clock exports
// and Excel's default formats are US style. Day-first slashes only match when
// the day is past 12.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/06 15:04",
	"1/2/06 3:04 PM",
	"01-02-06 15:04",
	"01-02-2006 15:04:05",
	"01-02-2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"01-02-2006",
	"01-02-06",
	"2/1/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04PM",
}

// Timestamp parses a date and time of day. The result is in UTC with the
// wall clock values of the input.
func Timestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return wall(t), true
		}
	}
	if f, ok := serial(s); ok && f >= 1 {
		return fromSerial(f)
	}
	return time.Time{}, false
}

// Date parses a calendar date, ignoring any time of day.
func Date(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	if t, ok := Timestamp(s); ok {
		return DateOf(t), true
	}
	return time.Time{}, false
}

// Clock parses a time of day. Full timestamps are accepted and their date is
// dropped. Bare numbers are only read as Excel day fractions in [0, 1).
func Clock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), true
		}
	}
	if f, ok := serial(s); ok {
		if f < 0 || f >= 1 {
			return time.Time{}, false
		}
		t, ok := fromSerial(f)
		if !ok {
			return time.Time{}, false
		}
		return ClockOf(t), true
	}
	if t, ok := Timestamp(s); ok {
		return ClockOf(t), true
	}
	return time.Time{}, false
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ClockOf keeps only the time of day of t, anchored on year 0 so that the
// zero time.Time never collides with midnight.
func ClockOf(t time.Time) time.Time {
	return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func wall(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func serial(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func fromSerial(f float64) (time.Time, bool) {
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return wall(t.Round(time.Second)), true
}
