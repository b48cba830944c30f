package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MinutesPerDay is the length of one wall-clock day.
const MinutesPerDay = 24 * 60

// DateLayout is the ISO date layout used by shift logs, the API and storage.
const DateLayout = "2006-01-02"

// =============================================================================
// TIME POINT - A calendar day (a shift's nominal date)
// =============================================================================

type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

func Today() TimePoint {
	return FromTime(time.Now())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return TimePoint{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (tp TimePoint) IsZero() bool { return tp.Time.IsZero() }

// MonthDay returns the "MM-DD" key used by recurring holiday tables.
func (tp TimePoint) MonthDay() string { return tp.Time.Format("01-02") }

func (tp TimePoint) String() string { return tp.Time.Format(DateLayout) }

// Ptr returns a pointer to a copy of tp.
func (tp TimePoint) Ptr() *TimePoint { return &tp }

// DayIndex is the number of whole days since the Unix epoch. Used to turn a
// (date, time-of-day) pair into an absolute minute offset.
func (tp TimePoint) DayIndex() int {
	return int(tp.Time.Unix() / 86400)
}

// DaysBetween returns the whole days from one date to another.
func DaysBetween(from, to TimePoint) int { return int(to.Time.Sub(from.Time).Hours() / 24) }

func StartOfMonth(year int, month time.Month) TimePoint {
	return NewTimePoint(year, month, 1)
}

func EndOfMonth(year int, month time.Month) TimePoint {
	return FromTime(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// =============================================================================
// TIME OF DAY - Wall-clock hour:minute
// =============================================================================

// TimeOfDay is a wall-clock time. Values are not range checked: a log that
// says "25:70" is carried through as-is.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour, minute int) TimeOfDay { return TimeOfDay{Hour: hour, Minute: minute} }

// ParseTimeOfDay accepts "H:MM", "HH:MM", "H.MM" or "HH.MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, ":.")
	if sep < 1 || sep > 2 || len(s)-sep-1 != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, err := strconv.Atoi(s[:sep])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	m, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// MustParseTimeOfDay panics on malformed input. Tests and literals only.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// MinuteOfDay returns hour*60+minute.
func (t TimeOfDay) MinuteOfDay() int { return t.Hour*60 + t.Minute }

// Valid reports whether the time is a real wall-clock time.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// String returns the zero-padded "HH:MM" form.
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// Ptr returns a pointer to a copy of t.
func (t TimeOfDay) Ptr() *TimeOfDay { return &t }

// Duration returns the minutes from start to end. An end earlier than start
// crosses midnight; equal times give 0. Out-of-range clock values still land
// in [0, MinutesPerDay).
func Duration(start, end TimeOfDay) int {
	return floorMod(end.MinuteOfDay()-start.MinuteOfDay(), MinutesPerDay)
}

// DurationOf is Duration for optional bounds; 0 unless both are present.
func DurationOf(start, end *TimeOfDay) int {
	if start == nil || end == nil {
		return 0
	}
	return Duration(*start, *end)
}

// =============================================================================
// HOLIDAY CALENDAR - Production calendar lookups
// =============================================================================

// HolidayCalendar provides the calendar predicates payroll depends on.
// Implementations are read-only and safe for concurrent use.
type HolidayCalendar interface {
	// IsWeekendOrHoliday reports whether the date is a day off (weekend,
	// public holiday or transferred rest day, minus transferred workdays).
	IsWeekendOrHoliday(date TimePoint) bool

	// IsStateHoliday reports whether the date is a fixed public holiday.
	IsStateHoliday(date TimePoint) bool

	// MonthNorm returns the month's norm hours.
	MonthNorm(year int, month time.Month) decimal.Decimal
}
