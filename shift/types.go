// Package shift turns free-text shift-log lines into typed shift records and
// links consecutive records into duty blocks.
package shift

import "github.com/warp/shift-payroll/generic"

// =============================================================================
// SHIFT TYPE
// =============================================================================

// Type classifies a shift. The zero value means "unset".
type Type string

const (
	TypeWork     Type = "work"
	TypeSick     Type = "sick"
	TypeVacation Type = "vacation"
	TypeDonor    Type = "donor"
	TypeTraining Type = "training"
	TypeMedCheck Type = "med_check"
	TypeReserve  Type = "reserve"
	TypeOther    Type = "other"
)

// Types lists every shift type in classification priority order, with Work
// (the fallback) last.
var Types = []Type{
	TypeSick, TypeVacation, TypeDonor, TypeTraining, TypeMedCheck, TypeReserve, TypeOther, TypeWork,
}

// ParseType maps a stored/API value back to a Type; ok is false for unknown values.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// IsAbsence reports whether the type is paid through average earnings
// (sick leave, vacation, donor day) rather than by the hour.
func (t Type) IsAbsence() bool {
	return t == TypeSick || t == TypeVacation || t == TypeDonor
}

// IsBillable reports whether the type is paid by the minute.
func (t Type) IsBillable() bool {
	switch t {
	case TypeWork, TypeReserve, TypeTraining, TypeMedCheck:
		return true
	}
	return false
}

// Linkable reports whether the type takes part in sequence linking.
func (t Type) Linkable() bool {
	return t == TypeWork || t == TypeReserve
}

// =============================================================================
// RECORD
// =============================================================================

// Record is one workday's entry.
//
// Created by the Parser, flags mutated by Link, then read by the payroll
// calculator. Nothing but IsSplit and IsFullNight changes after parsing.
type Record struct {
	Date         generic.TimePoint
	OriginalText string
	Type         Type

	// Start and End are nil when the text carried no time pair. End may be
	// earlier than Start: the shift crosses midnight.
	Start *generic.TimeOfDay
	End   *generic.TimeOfDay

	// Actual on-road time within a Reserve shift.
	LineStart *generic.TimeOfDay
	LineEnd   *generic.TimeOfDay

	// Medical-point interval, always billed at the base rate.
	TPStart *generic.TimeOfDay
	TPEnd   *generic.TimeOfDay

	IsFullMedical bool
	IsPostTrip    bool
	IsTech        bool

	// Set by Link only.
	IsSplit     bool
	IsFullNight bool

	// Per-shift overrides of the settings-level flags; nil defers to settings.
	CustomSenior *bool
	CustomMentor *bool
}

func (r *Record) IsReserve() bool { return r.Type == TypeReserve }

// HasInterval reports whether both start and end are known.
func (r *Record) HasInterval() bool { return r.Start != nil && r.End != nil }

// Duration is the rollover-aware length of [Start, End] in minutes, 0 if the
// interval is missing.
func (r *Record) Duration() int { return generic.DurationOf(r.Start, r.End) }

// Span returns the shift's interval; ok is false if it is missing.
func (r *Record) Span() (generic.Span, bool) { return generic.SpanOfPtr(r.Start, r.End) }

// NightMinutes is the overlap of the shift with the night window.
func (r *Record) NightMinutes() int {
	span, ok := r.Span()
	if !ok {
		return 0
	}
	return span.Overlap(NightWindow)
}

// startOffset and endOffset are absolute minutes since the epoch day.
func (r *Record) startOffset() int {
	return r.Date.DayIndex()*generic.MinutesPerDay + r.Start.MinuteOfDay()
}

func (r *Record) endOffset() int {
	return r.startOffset() + r.Duration()
}

// =============================================================================
// DAILY WINDOWS
// =============================================================================

var (
	// EveningWindow is 18:00–22:00.
	EveningWindow = generic.Window{From: 18 * 60, To: 22 * 60}
	// NightWindow is 22:00–06:00 and wraps midnight.
	NightWindow = generic.Window{From: 22 * 60, To: 6 * 60}
)
