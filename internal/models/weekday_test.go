package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	cases := []struct {
		date string
		want Weekday
	}{
		{"2024-01-01", Monday},
		{"2024-01-03", Wednesday},
		{"2024-01-06", Saturday},
		{"2024-01-07", Sunday},
	}
	for _, tc := range cases {
		date, err := time.Parse("2006-01-02", tc.date)
		require.NoError(t, err)
		assert.Equal(t, tc.want, WeekdayOf(date), "weekday of %s", tc.date)
	}
}

func TestWeekdayOfIgnoresLocation(t *testing.T) {
	// Same calendar day in different zones maps to the same weekday.
	loc := time.FixedZone("UTC+12", 12*3600)
	sunday := time.Date(2024, 1, 7, 23, 0, 0, 0, loc)
	assert.Equal(t, Sunday, WeekdayOf(sunday))
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name     string
		schedule Schedule
		want     string
	}{
		{"empty", Schedule{}, ""},
		{"single day", Schedule{Wednesday}, "Wednesday"},
		{"full week", Schedule{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}, "every day"},
		{"several days", Schedule{Friday, Monday, Wednesday}, "Mon, Wed, Fri"},
		{"duplicates collapse", Schedule{Monday, Monday}, "Monday"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.schedule.Summarize())
		})
	}
}

func TestScheduleContains(t *testing.T) {
	s := Schedule{Monday, Friday}
	assert.True(t, s.Contains(Monday))
	assert.False(t, s.Contains(Tuesday))
}

func TestScheduleValueOrdersMondayFirst(t *testing.T) {
	v, err := Schedule{Sunday, Monday, Wednesday}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,3,7]", v)
}

func TestScheduleScanDropsOutOfRange(t *testing.T) {
	var s Schedule
	require.NoError(t, s.Scan("[0,1,3,8,42,7]"))
	assert.Equal(t, Schedule{Monday, Wednesday, Sunday}, s)
}

func TestScheduleScanRoundTrip(t *testing.T) {
	orig := Schedule{Tuesday, Thursday}
	v, err := orig.Value()
	require.NoError(t, err)

	var got Schedule
	require.NoError(t, got.Scan(v))
	assert.Equal(t, orig, got)
}

func TestScheduleScanNil(t *testing.T) {
	s := Schedule{Monday}
	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)
}
