package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeRangeOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b TimeRange
		want bool
	}{
		{"disjoint", TimeRange{"08:00:00", "09:00:00"}, TimeRange{"10:00:00", "11:00:00"}, false},
		{"partial", TimeRange{"08:00:00", "10:00:00"}, TimeRange{"09:00:00", "11:00:00"}, true},
		{"contained", TimeRange{"08:00:00", "12:00:00"}, TimeRange{"09:00:00", "10:00:00"}, true},
		{"identical", TimeRange{"08:00:00", "09:00:00"}, TimeRange{"08:00:00", "09:00:00"}, true},
		{"touching bounds", TimeRange{"08:00:00", "09:00:00"}, TimeRange{"09:00:00", "10:00:00"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestIsWeekday(t *testing.T) {
	for _, day := range Weekdays {
		assert.True(t, IsWeekday(day), day)
	}
	assert.False(t, IsWeekday("Friday"))
	assert.False(t, IsWeekday("Saturday"))
	assert.False(t, IsWeekday("monday"))
	assert.False(t, IsWeekday(""))
}

func TestInvalidWeekdays(t *testing.T) {
	assert.Nil(t, InvalidWeekdays(nil))
	assert.Nil(t, InvalidWeekdays([]string{"Sunday", "Thursday"}))
	assert.Equal(t, []string{"Friday", "funday"}, InvalidWeekdays([]string{"Monday", "Friday", "funday"}))
}
