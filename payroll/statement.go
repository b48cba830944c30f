package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/shift"
)

// Statement is a person's month: one breakdown per billable or absence day
// plus the running totals.
type Statement struct {
	Year  int
	Month time.Month

	Shifts []*Breakdown

	SickDays     int
	VacationDays int
	DonorDays    int

	Hours decimal.Decimal
	Dirty decimal.Decimal
	Net   decimal.Decimal

	// Norm and Overtime are only meaningful when HasNorm is set, which needs
	// a calendar.
	HasNorm       bool
	Norm          decimal.Decimal
	OvertimeHours decimal.Decimal
	Overtime      Overtime
}

// Statement links all records, then calculates those dated in the given
// month. Records from neighbouring months still take part in linking, so a
// night shift on the last day of the previous month can mark the first shift
// of this one as split.
//
// Link mutates the records' flags.
func (c *Calculator) Statement(records []*shift.Record, s Settings, year int, month time.Month) *Statement {
	st := &Statement{
		Year:          year,
		Month:         month,
		Hours:         decimal.Zero,
		Dirty:         decimal.Zero,
		Net:           decimal.Zero,
		Norm:          decimal.Zero,
		OvertimeHours: decimal.Zero,
		Overtime:      OvertimePay(decimal.Zero, s),
	}

	period := generic.MonthPeriod(year, month)
	for _, rec := range shift.Link(records) {
		if !period.Contains(rec.Date) {
			continue
		}
		b := c.Calculate(rec, s)
		if b == nil {
			continue
		}
		st.add(b)
	}

	if c.Calendar != nil {
		st.HasNorm = true
		st.Norm = c.Calendar.MonthNorm(year, month)
		st.OvertimeHours = decimal.Max(decimal.Zero, st.Hours.Sub(st.Norm))
		st.Overtime = OvertimePay(st.OvertimeHours, s)
	}
	return st
}

func (st *Statement) add(b *Breakdown) {
	st.Shifts = append(st.Shifts, b)
	switch {
	case b.IsSick:
		st.SickDays++
	case b.IsVacation:
		st.VacationDays++
	case b.IsDonor:
		st.DonorDays++
	}
	st.Hours = st.Hours.Add(b.Hours)
	st.Dirty = st.Dirty.Add(b.Dirty)
	st.Net = st.Net.Add(b.Net)
}

// Worked counts the billable shifts of the statement.
func (st *Statement) Worked() int {
	n := 0
	for _, b := range st.Shifts {
		if !b.IsAbsence() {
			n++
		}
	}
	return n
}
