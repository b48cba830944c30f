package shift

import (
	"sort"
)

// Labor-rule thresholds for consecutive shifts.
const (
	// LinkWindowMinutes: a successor starting less than 8h after a shift ends
	// belongs to the same duty block.
	LinkWindowMinutes = 8 * 60

	// SplitGapMinutes: a break of 2.5h or more inside a duty block is paid
	// as a split shift.
	SplitGapMinutes = 150
)

// A shift (or linked pair) with at least fullNightNum/fullNightDen of its
// minutes in the night window is paid entirely at the night rate.
const (
	fullNightNum = 1
	fullNightDen = 2
)

// Link sorts records by date and start time, then sets IsSplit and
// IsFullNight on every Work/Reserve record with a known interval.
//
// The slice is sorted and its records mutated in place; it is also returned
// for chaining. Flags are cleared first, so linking twice gives the same result.
func Link(records []*Record) []*Record {
	sort.SliceStable(records, func(i, j int) bool {
		return less(records[i], records[j])
	})

	for _, r := range records {
		r.IsSplit = false
		r.IsFullNight = false
	}

	for i := 0; i < len(records); {
		curr := records[i]
		if !eligible(curr) {
			i++
			continue
		}

		if i+1 < len(records) && eligible(records[i+1]) {
			next := records[i+1]
			if gap := Gap(curr, next); gap >= 0 && gap < LinkWindowMinutes {
				linkPair(curr, next, gap)
				i += 2
				continue
			}
		}

		curr.IsFullNight = isFullNight(curr.NightMinutes(), curr.Duration())
		i++
	}
	return records
}

// Gap returns the minutes between a's end and b's start, using absolute
// offsets (date plus time of day, end rolled past midnight when needed).
// Both records must have an interval.
func Gap(a, b *Record) int {
	return b.startOffset() - a.endOffset()
}

func linkPair(curr, next *Record, gap int) {
	night := curr.NightMinutes() + next.NightMinutes()
	duration := curr.Duration() + next.Duration()

	if isFullNight(night, duration) {
		curr.IsFullNight = true
		next.IsFullNight = true
	} else {
		curr.IsFullNight = isFullNight(curr.NightMinutes(), curr.Duration())
		next.IsFullNight = isFullNight(next.NightMinutes(), next.Duration())
	}

	if gap >= SplitGapMinutes {
		curr.IsSplit = true
		next.IsSplit = true
	}
}

// isFullNight is night/duration >= 1/2 in integer arithmetic.
func isFullNight(night, duration int) bool {
	if duration <= 0 {
		return false
	}
	return night*fullNightDen >= duration*fullNightNum
}

func eligible(r *Record) bool {
	return r.Type.Linkable() && r.HasInterval()
}

// less orders by date, then start time. Records without a start time sort
// after the timed ones of their date and keep their input order.
func less(a, b *Record) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	switch {
	case a.Start == nil:
		return false
	case b.Start == nil:
		return true
	}
	return a.Start.MinuteOfDay() < b.Start.MinuteOfDay()
}
