package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-processor/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-processor/internal/domain/holiday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(hh, mm int) attendance.ClockValue {
	return attendance.At(time.Date(0, time.January, 1, hh, mm, 0, 0, time.UTC))
}

func worked(d time.Time, in, out attendance.ClockValue) attendance.DailyAttendance {
	return attendance.DailyAttendance{Date: d, CheckIn: in, CheckOut: out, EmployeeName: "Alice"}
}

// ===== REDUCER TESTS =====

func TestReducer_ReduceSheet_HoursAndMissing(t *testing.T) {
	r := NewReducer(attendance.DefaultPolicy())
	missing := attendance.Label(attendance.LabelMissing)
	days := []attendance.DailyAttendance{
		worked(date(2024, 6, 25), clock(9, 0), clock(17, 0)),
		worked(date(2024, 6, 26), missing, missing),
	}

	hs := r.ReduceSheet("Alice", days, nil)

	require.Len(t, hs.Rows, 2)
	require.NotNil(t, hs.Rows[0].WorkedHours)
	assert.Equal(t, 8.0, *hs.Rows[0].WorkedHours)
	assert.Nil(t, hs.Rows[1].WorkedHours)
	assert.Equal(t, attendance.LabelMissing, hs.Rows[1].CheckIn.String())
	assert.Equal(t, 8.0, hs.TotalWorkedHours)
	assert.Equal(t, 1, hs.WorkedDays)
	assert.Equal(t, 0, hs.Anomalies)
}

func TestReducer_ReduceSheet_TotalRoundsHalfToEven(t *testing.T) {
	r := NewReducer(attendance.DefaultPolicy())

	cases := []struct {
		name string
		days []attendance.DailyAttendance
		want float64
	}{
		{
			name: "8.5 rounds down",
			days: []attendance.DailyAttendance{worked(date(2024, 6, 25), clock(9, 0), clock(17, 30))},
			want: 8,
		},
		{
			name: "17.5 rounds up",
			days: []attendance.DailyAttendance{
				worked(date(2024, 6, 25), clock(9, 0), clock(17, 30)),
				worked(date(2024, 6, 26), clock(8, 0), clock(17, 0)),
			},
			want: 18,
		},
		{
			name: "7.75 rounds up",
			days: []attendance.DailyAttendance{worked(date(2024, 6, 25), clock(9, 0), clock(16, 45))},
			want: 8,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.ReduceSheet("Alice", tc.days, nil).TotalWorkedHours)
		})
	}
}

func TestReducer_ReduceSheet_CheckoutBeforeCheckin(t *testing.T) {
	r := NewReducer(attendance.DefaultPolicy())
	days := []attendance.DailyAttendance{
		worked(date(2024, 6, 25), clock(22, 0), clock(6, 0)),
		worked(date(2024, 6, 26), clock(9, 0), clock(10, 0)),
	}

	hs := r.ReduceSheet("Alice", days, nil)

	assert.Nil(t, hs.Rows[0].WorkedHours)
	assert.Equal(t, "22:00:00", hs.Rows[0].CheckIn.String())
	assert.Equal(t, 1, hs.Anomalies)
	assert.Equal(t, 1.0, hs.TotalWorkedHours)
	assert.Equal(t, 1, hs.WorkedDays)
}

func TestReducer_ReduceSheet_DisplayLabels(t *testing.T) {
	r := NewReducer(attendance.DefaultPolicy())
	holidays := holiday.Calendar{}
	holidays.Add(date(2024, 6, 26), "Company Day")
	holidays.Add(date(2024, 6, 28), "Independence Day")

	days := []attendance.DailyAttendance{
		worked(date(2024, 6, 26), clock(9, 0), clock(17, 0)),
		worked(date(2024, 6, 28), attendance.Label("Friday"), attendance.Label("Friday")),
		worked(date(2024, 6, 29), clock(10, 0), clock(12, 0)),
	}

	hs := r.ReduceSheet("Alice", days, holidays)

	// hours are computed from the recorded times before relabelling
	require.NotNil(t, hs.Rows[0].WorkedHours)
	assert.Equal(t, 8.0, *hs.Rows[0].WorkedHours)
	assert.Equal(t, "Company Day", hs.Rows[0].CheckIn.String())
	assert.Equal(t, "Company Day", hs.Rows[0].CheckOut.String())

	assert.Nil(t, hs.Rows[1].WorkedHours)
	assert.Equal(t, "Independence Day", hs.Rows[1].CheckIn.String())

	require.NotNil(t, hs.Rows[2].WorkedHours)
	assert.Equal(t, "Saturday", hs.Rows[2].CheckOut.String())

	assert.Equal(t, 10.0, hs.TotalWorkedHours)
}

func TestReducer_Reduce_SummaryInSheetOrder(t *testing.T) {
	r := NewReducer(attendance.DefaultPolicy())
	sheets := []EmployeeDays{
		{Employee: "Bob", Days: []attendance.DailyAttendance{worked(date(2024, 6, 25), clock(8, 0), clock(12, 0))}},
		{Employee: "Alice", Days: []attendance.DailyAttendance{worked(date(2024, 6, 25), clock(9, 0), clock(17, 0))}},
	}

	out, summaries := r.Reduce(sheets, nil)

	require.Len(t, out, 2)
	assert.Equal(t, []attendance.EmployeeSummary{
		{Employee: "Bob", TotalWorkedHours: 4, WorkedDays: 1},
		{Employee: "Alice", TotalWorkedHours: 8, WorkedDays: 1},
	}, summaries)
}
