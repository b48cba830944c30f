package generic_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/generic/store"
)

// =============================================================================
// TIME OF DAY
// =============================================================================

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9:00", "09:00", false},
		{"09.30", "09:30", false},
		{" 23:59 ", "23:59", false},
		{"930", "", true},
		{"9:0", "", true},
		{"ab:cd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := generic.ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, generic.ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDuration_CrossesMidnight(t *testing.T) {
	at := generic.MustParseTimeOfDay

	assert.Equal(t, 720, generic.Duration(at("09:00"), at("21:00")))
	assert.Equal(t, 480, generic.Duration(at("23:00"), at("07:00")))
	assert.Equal(t, 0, generic.Duration(at("08:00"), at("08:00")))
	assert.Equal(t, 0, generic.DurationOf(nil, at("08:00").Ptr()))
}

func TestDuration_OutOfRangeClockStaysWithinADay(t *testing.T) {
	// GIVEN: an unvalidated start of 99:99 (minute 6039)
	// THEN: the duration is still taken modulo one day

	at := generic.MustParseTimeOfDay

	got := generic.Duration(at("99:99"), at("00:00"))
	assert.Equal(t, 1161, got)
	assert.Equal(t, 279, generic.Duration(at("00:00"), at("99:99")))

	span := generic.SpanOf(at("99:99"), at("00:00"))
	pieces := span.Pieces()
	require.Len(t, pieces, 1)
	assert.Equal(t, generic.Range{Lo: 279, Hi: 24 * 60}, pieces[0])
}

// =============================================================================
// SPAN
// =============================================================================

func TestSpan_OverlapWithWrappingWindow(t *testing.T) {
	// GIVEN: 20:00-04:00 and the night window 22:00-06:00
	// THEN: 6 of the 8 hours are night
	span := generic.SpanOf(generic.MustParseTimeOfDay("20:00"), generic.MustParseTimeOfDay("04:00"))
	night := generic.Window{From: 22 * 60, To: 6 * 60}

	assert.Equal(t, 480, span.Length)
	assert.Equal(t, 28*60, span.End())
	assert.Equal(t, 360, span.Overlap(night))

	pieces := span.Pieces()
	require.Len(t, pieces, 2)
	assert.Equal(t, generic.Range{Lo: 20 * 60, Hi: 24 * 60}, pieces[0])
	assert.Equal(t, generic.Range{Lo: 0, Hi: 4 * 60}, pieces[1])
}

func TestSpan_OverlapWithinAnotherSpan(t *testing.T) {
	// GIVEN: a 08:00-20:00 shift and a 19:00-23:00 sub-interval
	// THEN: only 19:00-20:00 is inside both and the evening window

	at := generic.MustParseTimeOfDay
	shiftSpan := generic.SpanOf(at("08:00"), at("20:00"))
	sub := generic.SpanOf(at("19:00"), at("23:00"))
	evening := generic.Window{From: 18 * 60, To: 22 * 60}
	night := generic.Window{From: 22 * 60, To: 6 * 60}

	assert.Equal(t, 180, sub.Overlap(evening))
	assert.Equal(t, 60, shiftSpan.OverlapWithin(sub, evening))
	assert.Equal(t, 0, shiftSpan.OverlapWithin(sub, night))

	// Both spans wrap midnight.
	overnight := generic.SpanOf(at("18:00"), at("06:00"))
	late := generic.SpanOf(at("23:00"), at("02:00"))
	assert.Equal(t, 180, overnight.OverlapWithin(late, night))
}

func TestSpanOfPtr(t *testing.T) {
	_, ok := generic.SpanOfPtr(nil, nil)
	assert.False(t, ok)

	span, ok := generic.SpanOfPtr(generic.NewTimeOfDay(8, 0).Ptr(), generic.NewTimeOfDay(10, 30).Ptr())
	assert.True(t, ok)
	assert.Equal(t, generic.Span{Start: 480, Length: 150}, span)
}

// =============================================================================
// PERIOD
// =============================================================================

func TestMonthPeriod(t *testing.T) {
	feb := generic.MonthPeriod(2024, time.February)

	assert.Equal(t, "[2024-02-01, 2024-02-29]", feb.String())
	assert.Len(t, feb.Days(), 29)
	assert.True(t, feb.Contains(generic.NewTimePoint(2024, time.February, 29)))
	assert.False(t, feb.Contains(generic.NewTimePoint(2024, time.March, 1)))
}

func TestPeriod_WidenAndPrevious(t *testing.T) {
	jan := generic.MonthOf(time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))

	wide := jan.Widen(1)
	assert.Equal(t, "2024-12-31", wide.Start.String())
	assert.Equal(t, "2025-02-01", wide.End.String())

	dec := jan.PreviousMonth()
	assert.Equal(t, "[2024-12-01, 2024-12-31]", dec.String())
}

// =============================================================================
// MONEY
// =============================================================================

func TestMinutesMoney(t *testing.T) {
	rate := decimal.NewFromInt(1000)

	assert.Equal(t, "12000", generic.MinutesMoney(720, rate).String())
	assert.Equal(t, "16.67", generic.MinutesMoney(1, rate).StringFixed(2))
	assert.True(t, generic.MinutesMoney(0, rate).IsZero())
	assert.Equal(t, "1.5", generic.MinutesToHours(90).String())
}

// =============================================================================
// MEMORY STORE
// =============================================================================

func TestMemoryStore_EntriesOrderedByDateThenInsertion(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	day := func(d int) generic.TimePoint { return generic.NewTimePoint(2025, time.March, d) }

	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "b", PersonID: "p", Date: day(5), Text: "second"}))
	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "a", PersonID: "p", Date: day(3), Text: "first"}))
	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "c", PersonID: "p", Date: day(5), Text: "third"}))
	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "x", PersonID: "other", Date: day(4)}))

	entries, err := s.ListEntries(ctx, "p", day(1), day(31))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []generic.EntryID{"a", "b", "c"}, []generic.EntryID{entries[0].ID, entries[1].ID, entries[2].ID})

	entries, err = s.ListEntries(ctx, "p", day(4), day(4))
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, s.DeleteEntry(ctx, "b"))
	assert.ErrorIs(t, s.DeleteEntry(ctx, "b"), generic.ErrEntryNotFound)
}

func TestMemoryStore_SaveEntryReplacesByID(t *testing.T) {
	// GIVEN: an entry saved, then saved again with new text and a new date
	// THEN: one entry remains, carrying the latest values

	ctx := context.Background()
	s := store.NewMemory()
	day := func(d int) generic.TimePoint { return generic.NewTimePoint(2025, time.March, d) }

	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "a", PersonID: "p", Date: day(3), Text: "08:00-20:00"}))
	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "b", PersonID: "p", Date: day(4), Text: "вых"}))
	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "a", PersonID: "p", Date: day(5), Text: "09:00-21:00"}))

	entries, err := s.ListEntries(ctx, "p", day(1), day(31))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, generic.EntryID("b"), entries[0].ID)
	assert.Equal(t, generic.EntryID("a"), entries[1].ID)
	assert.Equal(t, "09:00-21:00", entries[1].Text)

	// Moving an entry to another person leaves no copy behind.
	require.NoError(t, s.SaveEntry(ctx, generic.Entry{ID: "b", PersonID: "q", Date: day(4), Text: "вых"}))
	entries, err = s.ListEntries(ctx, "p", day(1), day(31))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestMemoryStore_PeopleAndRuns(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := s.GetPerson(ctx, "nobody")
	assert.True(t, generic.IsNotFound(err))

	require.NoError(t, s.SavePerson(ctx, generic.Person{ID: "p", Name: "Ivan"}))
	p, err := s.GetPerson(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "Ivan", p.Name)

	require.NoError(t, s.SaveRun(ctx, generic.Run{ID: "r1", PersonID: "p", Month: time.February}))
	require.NoError(t, s.SaveRun(ctx, generic.Run{ID: "r2", PersonID: "p", Month: time.March}))

	runs, err := s.ListRuns(ctx, "p")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, generic.RunID("r2"), runs[0].ID, "newest first")
}
