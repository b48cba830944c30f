package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/shift"
)

// =============================================================================
// BUCKETS
// =============================================================================

// Bucket is a tariff category. Every billed minute lands in exactly one.
type Bucket int

const (
	BucketLine    Bucket = iota // on-road duty, line rate
	BucketReserve               // standby, reserve rate
	BucketBase                  // medical point / restriction, base rate

	NumBuckets = 3
)

// AllBuckets in ledger order.
var AllBuckets = [NumBuckets]Bucket{BucketLine, BucketReserve, BucketBase}

func (b Bucket) String() string {
	switch b {
	case BucketLine:
		return "line"
	case BucketReserve:
		return "reserve"
	case BucketBase:
		return "base"
	}
	return "unknown"
}

// Part is one ledger line: the minutes it covers and its money.
type Part struct {
	Minutes int
	Money   decimal.Decimal
}

func (p Part) Hours() decimal.Decimal { return generic.MinutesToHours(p.Minutes) }

func (p Part) IsZero() bool { return p.Minutes == 0 && p.Money.IsZero() }

// Buckets holds one Part per Bucket.
type Buckets [NumBuckets]Part

// Money sums the money of all buckets.
func (b Buckets) Money() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b {
		total = total.Add(p.Money)
	}
	return total
}

// Minutes sums the minutes of all buckets.
func (b Buckets) Minutes() int {
	total := 0
	for _, p := range b {
		total += p.Minutes
	}
	return total
}

// =============================================================================
// BREAKDOWN
// =============================================================================

// Breakdown is the itemized result for one shift. It is never mutated after
// Calculate returns it.
type Breakdown struct {
	Date  generic.TimePoint
	Type  shift.Type
	Rates Rates

	// TotalMinutes is the paid duration, post-trip allowance included.
	TotalMinutes int

	Tariff  Buckets
	Split   Buckets
	Evening Buckets
	Night   Buckets

	Class     Part
	Seniority Part
	Mentor    Part
	Tech      Part

	// Study and Med receive the line tariff of Training and MedCheck shifts.
	Study Part
	Med   Part

	// SeniorityPercent is the tenure step applied (senior-operator bonus
	// excluded).
	SeniorityPercent int

	// Hours is the tariff time used for month-norm comparison.
	Hours decimal.Decimal

	// HolidayHours is the part of the shift worked on a state holiday: the
	// whole shift when it starts on one, or the tail past midnight of a shift
	// starting on December 31. Only set when the Calculator has a calendar.
	HolidayHours decimal.Decimal

	Dirty decimal.Decimal
	Net   decimal.Decimal

	IsSick        bool
	IsVacation    bool
	IsDonor       bool
	IsSplit       bool
	IsFullNight   bool
	IsTech        bool
	IsFullMedical bool

	// Calendar predicates for the shift's date, for external holiday pay.
	// Only set when the Calculator has a calendar.
	IsWeekendOrHoliday bool
	IsStateHoliday     bool
}

// IsAbsence reports whether this is a sick/vacation/donor placeholder.
func (b *Breakdown) IsAbsence() bool {
	return b.IsSick || b.IsVacation || b.IsDonor
}

// Bonuses sums class, seniority, mentor and tech money.
func (b *Breakdown) Bonuses() decimal.Decimal {
	return generic.SumDecimals(b.Class.Money, b.Seniority.Money, b.Mentor.Money, b.Tech.Money)
}

// sum adds every money line of the breakdown.
func (b *Breakdown) sum() decimal.Decimal {
	return generic.SumDecimals(
		b.Tariff.Money(), b.Split.Money(), b.Evening.Money(), b.Night.Money(),
		b.Bonuses(), b.Study.Money, b.Med.Money,
	)
}
