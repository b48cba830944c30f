/*
Package generic provides the domain-agnostic primitives of the payroll engine.

PURPOSE:
  Shift parsing, linking and wage calculation all reason about the same few
  things: calendar days, wall-clock times that roll over midnight, minute
  intervals that must be intersected with daily windows, and money. This
  package owns those primitives so domain packages (shift, payroll) never
  re-implement rollover arithmetic.

KEY CONCEPTS IN THIS FILE (types.go):
  - PersonID/EntryID/RunID: Type-safe identifiers
  - Money helpers: decimal construction and minute-to-money conversion

DESIGN PRINCIPLES:
  1. Precision: Money uses decimal.Decimal to avoid floating-point drift
  2. Permissive input: garbage times produce garbage numbers, never panics
  3. Type Safety: Strong typing for IDs prevents mixing person/entry IDs

SEE ALSO:
  - time.go: TimePoint, TimeOfDay, HolidayCalendar
  - interval.go: Span and Window overlap
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PersonID string
type EntryID string
type RunID string

// =============================================================================
// MONEY
// =============================================================================

// MinutesPerHour is the divisor used for every minutes-to-hours conversion.
var MinutesPerHour = decimal.NewFromInt(60)

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Percent returns p/100.
func Percent(p int64) decimal.Decimal {
	return decimal.New(p, -2)
}

// MinutesToHours converts whole minutes to decimal hours.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(MinutesPerHour)
}

// MinutesMoney returns minutes/60 * rate. The multiplication happens before the
// division so whole-hour results stay exact.
func MinutesMoney(minutes int, rate decimal.Decimal) decimal.Decimal {
	if minutes == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(minutes)).Mul(rate).Div(MinutesPerHour)
}

// SumDecimals adds all values.
func SumDecimals(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
