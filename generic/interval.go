package generic

// =============================================================================
// SPAN - A rollover-aware minute interval anchored at a time of day
// =============================================================================

// Span is the half-open interval [Start, Start+Length) in minutes, where Start
// is a minute of day. Length may push the span past midnight.
type Span struct {
	Start  int
	Length int
}

// SpanOf builds the span between two wall-clock times.
func SpanOf(start, end TimeOfDay) Span {
	return Span{Start: start.MinuteOfDay(), Length: Duration(start, end)}
}

// SpanOfPtr is SpanOf for optional bounds; ok is false unless both are set.
func SpanOfPtr(start, end *TimeOfDay) (Span, bool) {
	if start == nil || end == nil {
		return Span{}, false
	}
	return SpanOf(*start, *end), true
}

// End is the exclusive end minute, which may exceed MinutesPerDay.
func (s Span) End() int { return s.Start + s.Length }

// Pieces folds the span onto a single day, splitting at midnight. Every
// returned piece satisfies 0 <= lo < hi <= MinutesPerDay.
func (s Span) Pieces() []Range {
	var out []Range
	start := s.Start
	remaining := s.Length
	for remaining > 0 {
		day := floorMod(start, MinutesPerDay)
		n := MinutesPerDay - day
		if n > remaining {
			n = remaining
		}
		out = append(out, Range{Lo: day, Hi: day + n})
		start += n
		remaining -= n
	}
	return out
}

// Overlap returns the minutes of the span that fall inside the window.
func (s Span) Overlap(w Window) int {
	total := 0
	for _, p := range s.Pieces() {
		for _, q := range w.Ranges() {
			total += p.Intersect(q)
		}
	}
	return total
}

// OverlapWithin returns the minutes that fall inside s, o and w at once.
func (s Span) OverlapWithin(o Span, w Window) int {
	total := 0
	for _, p := range s.Pieces() {
		for _, q := range o.Pieces() {
			common := Range{Lo: max(p.Lo, q.Lo), Hi: min(p.Hi, q.Hi)}
			if common.Hi <= common.Lo {
				continue
			}
			for _, r := range w.Ranges() {
				total += common.Intersect(r)
			}
		}
	}
	return total
}

// =============================================================================
// RANGE / WINDOW - Non-wrapping pieces and daily windows
// =============================================================================

// Range is a non-wrapping half-open minute range [Lo, Hi) within one day.
type Range struct {
	Lo int
	Hi int
}

// Intersect returns the overlap length of two ranges.
func (r Range) Intersect(o Range) int {
	lo := max(r.Lo, o.Lo)
	hi := min(r.Hi, o.Hi)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Window is a daily minute-of-day window [From, To). A window with To <= From
// wraps past midnight.
type Window struct {
	From int
	To   int
}

// Ranges splits a wrapping window into two non-wrapping ranges.
func (w Window) Ranges() []Range {
	if w.From < w.To {
		return []Range{{Lo: w.From, Hi: w.To}}
	}
	return []Range{{Lo: w.From, Hi: MinutesPerDay}, {Lo: 0, Hi: w.To}}
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
