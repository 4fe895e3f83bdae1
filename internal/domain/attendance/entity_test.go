package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockValue(t *testing.T) {
	at := At(time.Date(2024, 6, 25, 9, 5, 0, 0, time.UTC))
	assert.True(t, at.IsTime())
	assert.False(t, at.IsEmpty())
	assert.Equal(t, "09:05:00", at.String())

	midnight := At(time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))
	assert.True(t, midnight.IsTime(), "midnight is a time, not an empty value")
	assert.Equal(t, "00:00:00", midnight.String())

	label := Label(LabelMissing)
	assert.False(t, label.IsTime())
	assert.False(t, label.IsEmpty())
	assert.Equal(t, "Missing", label.String())

	var empty ClockValue
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsTime())
	assert.Equal(t, "", empty.String())
}
