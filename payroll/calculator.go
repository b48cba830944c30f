package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/shift"
)

// PostTripMinutes is the fixed allowance added for a post-trip inspection.
const PostTripMinutes = 10

var (
	eveningPercent   = generic.Percent(20)
	nightPercent     = generic.Percent(40)
	splitPercent     = generic.Percent(30)
	seniorPercent    = generic.Percent(10)
	mentorPercent    = generic.Percent(15)
	taxPercent       = generic.Percent(13)
	unionDuesPercent = generic.Percent(1)
	hundred          = decimal.NewFromInt(100)
	techHours        = decimal.NewFromInt(2)
)

// Calculator computes per-shift breakdowns.
type Calculator struct {
	// Now is the clock used for seniority. Defaults to time.Now.
	Now func() time.Time

	// Calendar, when set, fills the breakdown's calendar predicates and
	// enables month norms in statements.
	Calendar generic.HolidayCalendar
}

// NewCalculator returns a calculator on the wall clock.
func NewCalculator(cal generic.HolidayCalendar) *Calculator {
	return &Calculator{Now: time.Now, Calendar: cal}
}

// Clock returns the current time from Now, falling back to the wall clock.
func (c *Calculator) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Calculate returns the breakdown of one shift, or nil when there is nothing
// to bill: days off, unset type, or a billable type without a time interval.
func (c *Calculator) Calculate(rec *shift.Record, s Settings) *Breakdown {
	if rec == nil || rec.Type == "" || rec.Type == shift.TypeOther {
		return nil
	}

	b := &Breakdown{
		Date:          rec.Date,
		Type:          rec.Type,
		Rates:         DeriveRates(s.Rate),
		IsSplit:       rec.IsSplit,
		IsFullNight:   rec.IsFullNight,
		IsTech:        rec.IsTech,
		IsFullMedical: rec.IsFullMedical,
	}
	if c.Calendar != nil {
		b.IsWeekendOrHoliday = c.Calendar.IsWeekendOrHoliday(rec.Date)
		b.IsStateHoliday = c.Calendar.IsStateHoliday(rec.Date)
	}

	if rec.Type.IsAbsence() {
		b.IsSick = rec.Type == shift.TypeSick
		b.IsVacation = rec.Type == shift.TypeVacation
		b.IsDonor = rec.Type == shift.TypeDonor
		b.Hours = decimal.Zero
		b.HolidayHours = decimal.Zero
		b.Dirty = decimal.Zero
		b.Net = decimal.Zero
		return b
	}

	span, ok := rec.Span()
	if !ok || !rec.Type.IsBillable() {
		return nil
	}

	minutes := allocate(rec, span)
	b.TotalMinutes = minutes.total

	for _, bucket := range AllBuckets {
		b.Tariff[bucket] = Part{
			Minutes: minutes.bucket[bucket],
			Money:   generic.MinutesMoney(minutes.bucket[bucket], b.Rates.For(bucket)),
		}
	}
	b.Hours = generic.MinutesToHours(b.Tariff.Minutes())
	b.HolidayHours = c.holidayHours(rec, span, minutes.total)

	evening, night := differentialMinutes(rec, span, minutes)
	for _, bucket := range AllBuckets {
		rate := b.Rates.For(bucket)
		b.Evening[bucket] = Part{
			Minutes: evening[bucket],
			Money:   generic.MinutesMoney(evening[bucket], rate).Mul(eveningPercent),
		}
		b.Night[bucket] = Part{
			Minutes: night[bucket],
			Money:   generic.MinutesMoney(night[bucket], rate).Mul(nightPercent),
		}
	}

	if rec.IsSplit {
		for _, bucket := range AllBuckets {
			b.Split[bucket] = Part{
				Minutes: b.Tariff[bucket].Minutes,
				Money:   b.Tariff[bucket].Money.Mul(splitPercent),
			}
		}
	}

	c.applyBonuses(b, rec, s)
	redirect(b)

	b.Dirty = b.sum()
	b.Net = NetOf(b.Dirty, s.Union)
	return b
}

// holidayHours is zero without a calendar.
func (c *Calculator) holidayHours(rec *shift.Record, span generic.Span, total int) decimal.Decimal {
	if c.Calendar == nil {
		return decimal.Zero
	}
	if c.Calendar.IsStateHoliday(rec.Date) {
		return generic.MinutesToHours(total)
	}
	if rec.Date.Month() == time.December && rec.Date.Day() == 31 {
		return generic.MinutesToHours(max(0, span.End()-generic.MinutesPerDay))
	}
	return decimal.Zero
}

// NetOf applies the flat withholding approximation: 13% tax and, for union
// members, 1% dues.
func NetOf(dirty decimal.Decimal, union bool) decimal.Decimal {
	net := dirty.Sub(dirty.Mul(taxPercent))
	if union {
		net = net.Sub(dirty.Mul(unionDuesPercent))
	}
	return net
}

// =============================================================================
// MINUTE ALLOCATION
// =============================================================================

type allocation struct {
	total  int
	bucket [NumBuckets]int
}

// allocate splits the paid duration between the three tariff buckets.
func allocate(rec *shift.Record, span generic.Span) allocation {
	total := span.Length
	if rec.IsPostTrip {
		total += PostTripMinutes
	}

	tp := generic.DurationOf(rec.TPStart, rec.TPEnd)

	line := 0
	switch {
	case rec.IsFullMedical:
	case rec.IsReserve():
		// On-road time cannot exceed the shift.
		line = min(generic.DurationOf(rec.LineStart, rec.LineEnd), max(0, total-tp))
	default:
		line = max(0, total-tp)
	}

	reserve := max(0, total-line-tp)
	base := tp
	if rec.IsFullMedical {
		base += reserve
		reserve = 0
	}

	return allocation{
		total:  total,
		bucket: [NumBuckets]int{BucketLine: line, BucketReserve: reserve, BucketBase: base},
	}
}

// differentialMinutes attributes evening and night minutes to buckets.
//
// The medical-point interval and the line interval are hard anchors: the part
// of each that lies inside both the shift and the window is attributed to
// their bucket. Whatever is left of the whole span's overlap goes to reserve
// (base when fully medical), so per-bucket minutes always add up to the
// span's overlap.
//
// A full-night shift is paid at night rate for its whole duration instead.
func differentialMinutes(rec *shift.Record, span generic.Span, a allocation) (evening, night [NumBuckets]int) {
	if rec.IsFullNight {
		return evening, a.bucket
	}
	return windowMinutes(rec, span, shift.EveningWindow), windowMinutes(rec, span, shift.NightWindow)
}

func windowMinutes(rec *shift.Record, span generic.Span, w generic.Window) [NumBuckets]int {
	total := span.Overlap(w)

	base := 0
	if tp, ok := generic.SpanOfPtr(rec.TPStart, rec.TPEnd); ok {
		base = min(span.OverlapWithin(tp, w), total)
	}

	line := 0
	switch {
	case rec.IsFullMedical:
	case rec.IsReserve():
		if ls, ok := generic.SpanOfPtr(rec.LineStart, rec.LineEnd); ok {
			line = min(span.OverlapWithin(ls, w), total-base)
		}
	default:
		// Implicit anchor: the whole span minus the medical point.
		line = total - base
	}

	rest := max(0, total-line-base)

	var out [NumBuckets]int
	out[BucketLine] = line
	if rec.IsFullMedical {
		out[BucketBase] = base + rest
	} else {
		out[BucketBase] = base
		out[BucketReserve] = rest
	}
	return out
}

// =============================================================================
// BONUSES
// =============================================================================

func (c *Calculator) applyBonuses(b *Breakdown, rec *shift.Record, s Settings) {
	tariffSum := b.Tariff.Money()

	if s.ClassPercent.IsPositive() {
		b.Class = Part{Money: tariffSum.Mul(s.ClassPercent).Div(hundred)}
	}

	b.SeniorityPercent = SeniorityPercent(s.StartDate, c.Clock())
	seniority := tariffSum.Mul(decimal.NewFromInt(int64(b.SeniorityPercent))).Div(hundred)
	if override(rec.CustomSenior, s.Senior) {
		seniority = seniority.Add(tariffSum.Mul(seniorPercent))
	}
	b.Seniority = Part{Money: seniority}

	if override(rec.CustomMentor, s.Mentor) && !rec.IsFullMedical {
		mentored := b.Tariff[BucketLine].Money.Add(b.Tariff[BucketReserve].Money)
		b.Mentor = Part{Money: mentored.Mul(mentorPercent)}
	}

	if rec.IsTech {
		b.Tech = Part{Minutes: 120, Money: b.Rates.Line.Mul(techHours)}
	}
}

// redirect moves the line tariff of training and medical-check shifts to
// their own ledger lines. Differentials and bonuses were already computed from
// the tariff, so only the line it is reported under changes.
func redirect(b *Breakdown) {
	var target *Part
	switch b.Type {
	case shift.TypeTraining:
		target = &b.Study
	case shift.TypeMedCheck:
		target = &b.Med
	default:
		return
	}
	*target = b.Tariff[BucketLine]
	b.Tariff[BucketLine] = Part{Money: decimal.Zero}
}

func override(custom *bool, fallback bool) bool {
	if custom != nil {
		return *custom
	}
	return fallback
}
