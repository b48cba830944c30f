package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(2025, month, day)
}

func seedPerson(t *testing.T, store *sqlite.Store, id generic.PersonID) {
	t.Helper()
	require.NoError(t, store.SavePerson(context.Background(), generic.Person{
		ID:           id,
		Name:         "Operator " + string(id),
		SettingsJSON: `{"rate":"1000"}`,
	}))
}

// =============================================================================
// PEOPLE
// =============================================================================

func TestPeople_SaveGetUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedPerson(t, store, "p1")

	p, err := store.GetPerson(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Operator p1", p.Name)
	assert.JSONEq(t, `{"rate":"1000"}`, p.SettingsJSON)
	assert.False(t, p.CreatedAt.IsZero())
	created := p.CreatedAt

	p.SettingsJSON = `{"rate":"1200"}`
	require.NoError(t, store.SavePerson(ctx, *p))

	updated, err := store.GetPerson(ctx, "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate":"1200"}`, updated.SettingsJSON)
	assert.Equal(t, created, updated.CreatedAt)
}

func TestPeople_NotFound(t *testing.T) {
	_, err := newTestStore(t).GetPerson(context.Background(), "ghost")
	assert.ErrorIs(t, err, generic.ErrPersonNotFound)
	assert.True(t, generic.IsNotFound(err))
}

func TestPeople_ListOrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePerson(ctx, generic.Person{ID: "b", Name: "Zoya"}))
	require.NoError(t, store.SavePerson(ctx, generic.Person{ID: "a", Name: "Anna"}))

	people, err := store.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Anna", people[0].Name)
	assert.Equal(t, "{}", people[1].SettingsJSON)
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestEntries_RoundTripAndRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedPerson(t, store, "p1")

	yes := true
	entries := []generic.Entry{
		{ID: "e3", PersonID: "p1", Date: date(time.April, 1), Text: "09:00-21:00"},
		{ID: "e1", PersonID: "p1", Date: date(time.March, 3), Text: "рез 8:00-20:00",
			LineStart: "10:00", LineEnd: "12:00", TPStart: "8:00", TPEnd: "8:30",
			PostTrip: true, CustomMentor: &yes},
		{ID: "e2", PersonID: "p1", Date: date(time.March, 31), Text: "бл"},
	}
	for _, e := range entries {
		require.NoError(t, store.SaveEntry(ctx, e))
	}

	got, err := store.ListEntries(ctx, "p1", date(time.March, 1), date(time.March, 31))
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, generic.EntryID("e1"), first.ID)
	assert.True(t, first.Date.Equal(date(time.March, 3)))
	assert.Equal(t, "10:00", first.LineStart)
	assert.Equal(t, "8:30", first.TPEnd)
	assert.True(t, first.PostTrip)
	assert.False(t, first.FullMedical)
	assert.Nil(t, first.CustomSenior)
	require.NotNil(t, first.CustomMentor)
	assert.True(t, *first.CustomMentor)

	assert.Equal(t, generic.EntryID("e2"), got[1].ID, "range end is inclusive")
	assert.Empty(t, got[1].LineStart)
}

func TestEntries_SameDayKeepsInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedPerson(t, store, "p1")

	require.NoError(t, store.SaveEntry(ctx, generic.Entry{ID: "z", PersonID: "p1", Date: date(time.March, 3), Text: "08:00-12:00"}))
	require.NoError(t, store.SaveEntry(ctx, generic.Entry{ID: "a", PersonID: "p1", Date: date(time.March, 3), Text: "15:00-19:00"}))

	got, err := store.ListEntries(ctx, "p1", date(time.March, 1), date(time.March, 31))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, generic.EntryID("z"), got[0].ID)
	assert.Equal(t, generic.EntryID("a"), got[1].ID)
}

func TestEntries_UnknownPerson(t *testing.T) {
	err := newTestStore(t).SaveEntry(context.Background(), generic.Entry{
		ID: "e1", PersonID: "ghost", Date: date(time.March, 3), Text: "09:00-21:00",
	})
	assert.ErrorIs(t, err, generic.ErrPersonNotFound)
}

func TestEntries_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedPerson(t, store, "p1")
	require.NoError(t, store.SaveEntry(ctx, generic.Entry{ID: "e1", PersonID: "p1", Date: date(time.March, 3), Text: "вых"}))

	require.NoError(t, store.DeleteEntry(ctx, "e1"))
	assert.ErrorIs(t, store.DeleteEntry(ctx, "e1"), generic.ErrEntryNotFound)

	got, err := store.ListEntries(ctx, "p1", date(time.January, 1), date(time.December, 31))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEntries_GeneratesID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedPerson(t, store, "p1")

	require.NoError(t, store.SaveEntry(ctx, generic.Entry{PersonID: "p1", Date: date(time.March, 3), Text: "вых"}))

	got, err := store.ListEntries(ctx, "p1", date(time.March, 3), date(time.March, 3))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
}

// =============================================================================
// RUNS
// =============================================================================

func TestRuns_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedPerson(t, store, "p1")

	base := time.Date(2025, time.April, 1, 3, 0, 0, 0, time.UTC)
	for i, m := range []time.Month{time.February, time.March} {
		require.NoError(t, store.SaveRun(ctx, generic.Run{
			PersonID:   "p1",
			Year:       2025,
			Month:      m,
			Shifts:     10 + i,
			Hours:      decimal.RequireFromString("120.5"),
			Norm:       decimal.RequireFromString("150.2"),
			Overtime:   decimal.Zero,
			Dirty:      decimal.RequireFromString("125000.123"),
			Net:        decimal.RequireFromString("108750.107"),
			ComputedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.ListRuns(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, time.March, runs[0].Month)
	assert.Equal(t, 11, runs[0].Shifts)
	assert.NotEmpty(t, runs[0].ID)
	assert.Equal(t, "125000.123", runs[0].Dirty.String())
	assert.Equal(t, "150.2", runs[0].Norm.String())
	assert.True(t, runs[0].ComputedAt.Equal(base.Add(time.Hour)))
	assert.Equal(t, time.February, runs[1].Month)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedPerson(t, store, "p1")

	require.NoError(t, store.Reset(ctx))

	people, err := store.ListPeople(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)
}
