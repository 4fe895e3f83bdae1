package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_NonWorkingLabel(t *testing.T) {
	p := DefaultPolicy()

	label, ok := p.NonWorkingLabel(day(2024, 6, 28))
	require.True(t, ok)
	assert.Equal(t, "Friday", label)

	label, ok = p.NonWorkingLabel(day(2024, 6, 29))
	require.True(t, ok)
	assert.Equal(t, "Saturday", label)

	_, ok = p.NonWorkingLabel(day(2024, 6, 26))
	assert.False(t, ok, "2024-06-26 is a Wednesday")
}

func TestPolicy_SingleCheckout(t *testing.T) {
	assert.Equal(t, "17:00:00", DefaultPolicy().SingleCheckout().String())

	none := Policy{}
	assert.Equal(t, Label(LabelNoCheckout), none.SingleCheckout())
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays("Friday, sat")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, days)

	days, err = ParseWeekdays("")
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = ParseWeekdays("Friday,Funday")
	assert.Error(t, err)
}

func TestParseSingleCheckout(t *testing.T) {
	v, err := ParseSingleCheckout("17:30")
	require.NoError(t, err)
	assert.True(t, v.IsTime())
	assert.Equal(t, "17:30:00", v.String())

	for _, s := range []string{"none", "NONE", ""} {
		v, err = ParseSingleCheckout(s)
		require.NoError(t, err)
		assert.True(t, v.IsEmpty(), s)
	}

	_, err = ParseSingleCheckout("5pm")
	assert.Error(t, err)
}
