package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeRangeBounds(t *testing.T) {
	start, end := TimeRangeMorning.Bounds()
	assert.Equal(t, "06:00", start)
	assert.Equal(t, "08:00", end)

	start, end = TimeRangeAfternoon.Bounds()
	assert.Equal(t, "15:00", start)
	assert.Equal(t, "18:00", end)

	start, end = TimeRangeWeekend.Bounds()
	assert.Empty(t, start)
	assert.Empty(t, end)

	start, end = TimeRangeNone.Bounds()
	assert.Empty(t, start)
	assert.Empty(t, end)
}
