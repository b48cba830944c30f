/*
Package payroll computes the itemized wage breakdown of a single shift.

PURPOSE:
  Maps one (already linked) shift.Record plus a person's Settings to a
  Breakdown: every minute of the shift allocated to a tariff bucket (Line,
  Reserve, Base), evening/night differentials per bucket, split premium and
  the percentage bonuses, with dirty and net totals.

RATES:
  The configured hourly rate is the "line" rate and already includes a 12%
  hazard loading. Everything else derives from it:
    line    = rate
    base    = line / 1.12    (unloaded)
    reserve = base * 1.08    (8% reserve loading)

PURITY:
  Calculate never mutates its input and never fails; non-billable or
  incomplete shifts return nil. Only the seniority step depends on the clock,
  which is injected (Calculator.Now).

SEE ALSO:
  - shift/linker.go: Sets IsSplit / IsFullNight before calculation
  - payroll/calculator.go: The allocation algorithm
  - payroll/statement.go: Batch (month) flow
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/generic"
)

// Settings is a person's pay profile.
type Settings struct {
	// Rate is the hourly line rate.
	Rate decimal.Decimal

	// ClassPercent is the qualification class bonus, in percent.
	ClassPercent decimal.Decimal

	// PremiumPercent is consumed by month-level aggregation, not by the
	// per-shift calculation.
	PremiumPercent decimal.Decimal

	// StartDate drives the seniority percent; nil means unknown (0%).
	StartDate *generic.TimePoint

	Senior bool
	Mentor bool
	Union  bool
}

// Validate rejects settings that cannot produce meaningful amounts.
func (s Settings) Validate() error {
	if s.Rate.IsNegative() {
		return fmt.Errorf("%w: negative rate %s", generic.ErrInvalidSettings, s.Rate)
	}
	if s.ClassPercent.IsNegative() {
		return fmt.Errorf("%w: negative class percent %s", generic.ErrInvalidSettings, s.ClassPercent)
	}
	if s.PremiumPercent.IsNegative() {
		return fmt.Errorf("%w: negative premium percent %s", generic.ErrInvalidSettings, s.PremiumPercent)
	}
	return nil
}

// =============================================================================
// RATES
// =============================================================================

var (
	lineLoading    = decimal.RequireFromString("1.12")
	reserveLoading = decimal.RequireFromString("1.08")
)

// Rates are the three hourly rates derived from Settings.Rate.
type Rates struct {
	Line    decimal.Decimal
	Base    decimal.Decimal
	Reserve decimal.Decimal
}

// DeriveRates computes the base and reserve rates from the line rate.
func DeriveRates(rate decimal.Decimal) Rates {
	base := rate.Div(lineLoading)
	return Rates{
		Line:    rate,
		Base:    base,
		Reserve: base.Mul(reserveLoading),
	}
}

// For returns the rate of a bucket.
func (r Rates) For(b Bucket) decimal.Decimal {
	switch b {
	case BucketLine:
		return r.Line
	case BucketReserve:
		return r.Reserve
	default:
		return r.Base
	}
}
