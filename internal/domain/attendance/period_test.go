package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPeriod(t *testing.T) {
	p, err := NewPeriod(time.Date(2024, 6, 25, 13, 0, 0, 0, time.UTC), day(2024, 6, 26))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 25), p.Start)
	assert.Equal(t, day(2024, 6, 26), p.End)

	single, err := NewPeriod(day(2024, 6, 25), day(2024, 6, 25))
	require.NoError(t, err)
	assert.Len(t, single.Days(), 1)
}

func TestNewPeriod_Inverted(t *testing.T) {
	_, err := NewPeriod(day(2024, 6, 26), day(2024, 6, 25))
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
}

func TestPeriod_Days(t *testing.T) {
	p := Period{Start: day(2024, 6, 25), End: day(2024, 7, 26)}
	days := p.Days()

	require.Len(t, days, 32)
	assert.Equal(t, day(2024, 6, 25), days[0])
	assert.Equal(t, day(2024, 7, 26), days[len(days)-1])
	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i], "gap at index %d", i)
	}
}

func TestPeriod_Days_AcrossLeapDay(t *testing.T) {
	p := Period{Start: day(2024, 2, 25), End: day(2024, 3, 2)}
	assert.Len(t, p.Days(), 7)
	assert.Equal(t, 7, p.Len())
}

func TestPeriod_Len(t *testing.T) {
	assert.Equal(t, 1, Period{Start: day(2024, 6, 25), End: day(2024, 6, 25)}.Len())
	assert.Equal(t, 32, Period{Start: day(2024, 6, 25), End: day(2024, 7, 26)}.Len())
	assert.Equal(t, 366, Period{Start: day(2024, 1, 1), End: day(2024, 12, 31)}.Len())
}

func TestPeriod_Contains(t *testing.T) {
	p := Period{Start: day(2024, 6, 25), End: day(2024, 6, 26)}

	assert.True(t, p.Contains(time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 6, 26, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 6, 24, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(day(2024, 6, 27)))
}

func TestDefaultPeriod(t *testing.T) {
	cases := []struct {
		name      string
		now       time.Time
		startDay  int
		endDay    int
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid year",
			now:       time.Date(2024, 7, 10, 15, 0, 0, 0, time.UTC),
			startDay:  25,
			endDay:    26,
			wantStart: day(2024, 6, 25),
			wantEnd:   day(2024, 7, 26),
		},
		{
			name:      "january wraps to december",
			now:       time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC),
			startDay:  25,
			endDay:    26,
			wantStart: day(2023, 12, 25),
			wantEnd:   day(2024, 1, 26),
		},
		{
			name:      "short month is clamped",
			now:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			startDay:  31,
			endDay:    31,
			wantStart: day(2024, 2, 29),
			wantEnd:   day(2024, 3, 31),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultPeriod(tc.now, tc.startDay, tc.endDay)
			assert.Equal(t, tc.wantStart, p.Start)
			assert.Equal(t, tc.wantEnd, p.End)
		})
	}
}
