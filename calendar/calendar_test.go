package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/generic"
)

func day(year int, month time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(year, month, d)
}

func TestProduction_DayTransfers(t *testing.T) {
	cal := calendar.Production()

	// Saturday declared a working day
	assert.False(t, cal.IsWeekendOrHoliday(day(2025, time.November, 1)))
	// Monday declared a rest day, but not a state holiday
	assert.True(t, cal.IsWeekendOrHoliday(day(2025, time.November, 3)))
	assert.False(t, cal.IsStateHoliday(day(2025, time.November, 3)))
	// Fixed holiday
	assert.True(t, cal.IsWeekendOrHoliday(day(2025, time.November, 4)))
	assert.True(t, cal.IsStateHoliday(day(2025, time.November, 4)))
	// Ordinary weekday and weekend
	assert.False(t, cal.IsWeekendOrHoliday(day(2025, time.November, 5)))
	assert.True(t, cal.IsWeekendOrHoliday(day(2025, time.November, 9)))
}

func TestProduction_FixedHolidaysRecurEveryYear(t *testing.T) {
	cal := calendar.Production()
	for _, year := range []int{2019, 2025, 2031} {
		assert.True(t, cal.IsStateHoliday(day(year, time.March, 8)), "year %d", year)
		assert.True(t, cal.IsStateHoliday(day(year, time.January, 7)), "year %d", year)
	}
}

func TestProduction_MonthNorm(t *testing.T) {
	cal := calendar.Production()

	tests := []struct {
		name  string
		year  int
		month time.Month
		want  string
	}{
		// 17 workdays after the New Year break
		{"january 2025", 2025, time.January, "122.4"},
		// 21 workdays, March 7 is a short day
		{"march 2025", 2025, time.March, "150.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.MonthNorm(tt.year, tt.month)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestStatic_SyntheticCalendar(t *testing.T) {
	// February 2026 is exactly four weeks: 20 weekdays
	empty := calendar.NewStatic(calendar.Tables{})
	assert.Equal(t, "144", empty.MonthNorm(2026, time.February).String())

	withShort := calendar.NewStatic(calendar.Tables{Short: []string{"2026-02-20"}})
	assert.Equal(t, "143", withShort.MonthNorm(2026, time.February).String())

	withRest := calendar.NewStatic(calendar.Tables{RestOnWorkday: []string{"2026-02-23"}})
	assert.True(t, withRest.IsWeekendOrHoliday(day(2026, time.February, 23)))
	assert.Equal(t, "136.8", withRest.MonthNorm(2026, time.February).String())
}

func TestStatic_Month(t *testing.T) {
	cal := calendar.Production()
	days := cal.Month(2025, time.March)

	assert.Len(t, days, 31)
	march7 := days[6]
	assert.Equal(t, "2025-03-07", march7.Date.String())
	assert.True(t, march7.IsShort)
	assert.False(t, march7.IsWeekendOrHoliday)

	march8 := days[7]
	assert.True(t, march8.IsStateHoliday)
	assert.True(t, march8.IsWeekendOrHoliday)
}
