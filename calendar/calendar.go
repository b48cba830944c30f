/*
Package calendar implements the production calendar used for payroll.

PURPOSE:
  Answers three questions for the wage engine and its consumers:
    - Is this date a day off? (weekend, holiday, transferred rest day)
    - Is this date a fixed state holiday? (double pay, applied externally)
    - How many norm hours does this month have? (overtime threshold)

RULES (IsWeekendOrHoliday), first match wins:
  1. Transferred workday (a Saturday/Sunday declared working) -> false
  2. Transferred rest day (a weekday declared off)             -> true
  3. Fixed holiday (recurring MM-DD)                           -> true
  4. Saturday or Sunday                                        -> true

MONTH NORM:
  norm = workdays * 7.2 - short workdays, rounded to one decimal, floored at 0.
  A 36-hour week (7.2h/day) is the statutory norm for this work category; each
  pre-holiday short day is one hour shorter.

SEE ALSO:
  - generic/time.go: HolidayCalendar interface
  - payroll/statement.go: Uses MonthNorm for overtime
*/
package calendar

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/generic"
)

// HoursPerWorkday is the norm length of a full working day.
var HoursPerWorkday = decimal.RequireFromString("7.2")

// Tables is the raw calendar data. Fixed entries are "MM-DD"; all others are
// ISO dates.
type Tables struct {
	Fixed         []string
	WorkOnWeekend []string
	RestOnWorkday []string
	Short         []string
}

// Static is a HolidayCalendar backed by lookup tables.
type Static struct {
	fixed         map[string]bool
	workOnWeekend map[string]bool
	restOnWorkday map[string]bool
	short         map[string]bool
}

var _ generic.HolidayCalendar = (*Static)(nil)

// NewStatic builds a calendar from tables.
func NewStatic(t Tables) *Static {
	return &Static{
		fixed:         set(t.Fixed),
		workOnWeekend: set(t.WorkOnWeekend),
		restOnWorkday: set(t.RestOnWorkday),
		short:         set(t.Short),
	}
}

// Production returns the built-in calendar (2024–2026 transfers).
func Production() *Static {
	return NewStatic(ProductionTables)
}

func (c *Static) IsWeekendOrHoliday(date generic.TimePoint) bool {
	iso := date.String()
	if c.workOnWeekend[iso] {
		return false
	}
	if c.restOnWorkday[iso] {
		return true
	}
	if c.fixed[date.MonthDay()] {
		return true
	}
	return date.IsWeekend()
}

func (c *Static) IsStateHoliday(date generic.TimePoint) bool {
	return c.fixed[date.MonthDay()]
}

// IsShortDay reports whether the date is a pre-holiday shortened workday.
func (c *Static) IsShortDay(date generic.TimePoint) bool {
	return c.short[date.String()]
}

func (c *Static) MonthNorm(year int, month time.Month) decimal.Decimal {
	workDays, shortDays := 0, 0
	for _, d := range generic.MonthPeriod(year, month).Days() {
		if c.IsWeekendOrHoliday(d) {
			continue
		}
		workDays++
		if c.IsShortDay(d) {
			shortDays++
		}
	}
	norm := HoursPerWorkday.Mul(decimal.NewFromInt(int64(workDays))).
		Sub(decimal.NewFromInt(int64(shortDays))).
		Round(1)
	if norm.IsNegative() {
		return decimal.Zero
	}
	return norm
}

// Day describes a single calendar day.
type Day struct {
	Date               generic.TimePoint
	IsWeekendOrHoliday bool
	IsStateHoliday     bool
	IsShort            bool
}

// Month lists every day of a month with its flags.
func (c *Static) Month(year int, month time.Month) []Day {
	var days []Day
	for _, d := range generic.MonthPeriod(year, month).Days() {
		days = append(days, Day{
			Date:               d,
			IsWeekendOrHoliday: c.IsWeekendOrHoliday(d),
			IsStateHoliday:     c.IsStateHoliday(d),
			IsShort:            c.IsShortDay(d),
		})
	}
	return days
}

func set(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
