/*
handlers_test.go - Tests for API handlers and the statement scheduler

Tests for:
- Stateless engine endpoints (parse, calculate, overtime, calendar)
- People, entries and settings round trips
- Statement computation, run storage and error mapping
- Scheduler runs for the previous month
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/generic/store"
	"github.com/warp/shift-payroll/metrics"
	"github.com/warp/shift-payroll/shift"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var fixedNow = time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := NewHandler(store.NewMemory(), shift.NewParser(), metrics.New("payroll_test"), log)
	h.Calculator.Now = func() time.Time { return fixedNow }
	return h, NewRouter(h, nil)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

var profile = map[string]any{"rate": "1000"}

func createPerson(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/people", map[string]any{
		"id": id, "name": "Driver " + id, "settings": profile,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func addEntry(t *testing.T, router http.Handler, personID, date, text string) EntryDTO {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/people/"+personID+"/entries", EntryRequest{Date: date, Text: text})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[EntryDTO](t, rec)
}

// =============================================================================
// ENGINE ENDPOINTS
// =============================================================================

func TestParse(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/parse", ParseRequest{Text: "рез 08:00-20:00", Date: "2025-03-10"})

	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[ShiftDTO](t, rec)
	assert.Equal(t, "2025-03-10", dto.Date)
	assert.Equal(t, "08:00", dto.Start)
	assert.Equal(t, "20:00", dto.End)
	assert.Equal(t, 720, dto.Minutes)
}

func TestParse_EmptyTextIsNull(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/parse", ParseRequest{Text: "   ", Date: "2025-03-10"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(bytes.TrimSpace(rec.Body.Bytes())))
}

func TestParse_InvalidDate(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/parse", ParseRequest{Text: "09:00-21:00", Date: "10.03.2025"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid date", decode[ErrorResponse](t, rec).Error)
}

func TestCalculate_DayShift(t *testing.T) {
	// GIVEN: A 12h day shift at rate 1000
	// WHEN: Calculating it statelessly
	// THEN: Dirty is 12600 and net is 10962 (13% tax)

	h, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/calculate", map[string]any{
		"settings": profile,
		"entries":  []EntryRequest{{Date: "2025-03-10", Text: "09:00-21:00"}},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[CalculateResponse](t, rec)
	require.Len(t, resp.Shifts, 1)
	require.NotNil(t, resp.Shifts[0].Breakdown)
	assert.Equal(t, "12600.00", resp.Shifts[0].Breakdown.Dirty)
	assert.Equal(t, "12600.00", resp.Dirty)
	assert.Equal(t, "10962.00", resp.Net)
	assert.Equal(t, "12.00", resp.Hours)

	runs, err := h.Store.ListRuns(context.Background(), "anyone")
	require.NoError(t, err)
	assert.Empty(t, runs, "stateless calculation stores nothing")
}

func TestCalculate_LinksOvernightPair(t *testing.T) {
	// GIVEN: An evening shift to midnight and its after-midnight continuation
	// WHEN: Calculating
	// THEN: Both halves are billed and the pair is paid as a full night

	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/calculate", map[string]any{
		"settings": profile,
		"entries": []EntryRequest{
			{Date: "2025-03-11", Text: "00:00-04:00"},
			{Date: "2025-03-10", Text: "20:00-00:00"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[CalculateResponse](t, rec)
	require.Len(t, resp.Shifts, 2)
	assert.Equal(t, "2025-03-10", resp.Shifts[0].Shift.Date, "sorted by date")
	for _, s := range resp.Shifts {
		require.NotNil(t, s.Breakdown)
		assert.True(t, s.Breakdown.IsFullNight)
		assert.False(t, s.Breakdown.IsSplit)
	}
	assert.Equal(t, "8.00", resp.Hours)
}

func TestCalculate_InvalidSettings(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/calculate", map[string]any{
		"settings": map[string]any{"rate": "-5"},
		"entries":  []EntryRequest{},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid settings", decode[ErrorResponse](t, rec).Error)
}

func TestOvertime(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/overtime", map[string]any{"hours": "4", "settings": profile})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decode[OvertimeDTO](t, rec)
	assert.Equal(t, "1000.00", dto.Tier1Money)
	assert.Equal(t, "2000.00", dto.Tier2Money)
	assert.Equal(t, "3000.00", dto.Total)
}

func TestCalendarMonth(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/api/calendar/2025/1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[CalendarMonthDTO](t, rec)
	require.Len(t, dto.Days, 31)
	assert.True(t, dto.Days[0].IsStateHoliday, "January 1st")
	assert.NotEmpty(t, dto.Norm)

	rec = do(t, router, http.MethodGet, "/api/calendar/2025/13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// PEOPLE AND ENTRIES
// =============================================================================

func TestPeople_CreateGetUpdate(t *testing.T) {
	_, router := newTestServer(t)
	createPerson(t, router, "p1")

	rec := do(t, router, http.MethodGet, "/api/people/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	person := decode[PersonDTO](t, rec)
	assert.Equal(t, "Driver p1", person.Name)
	assert.Equal(t, "1000", person.Settings.Rate.String())

	rec = do(t, router, http.MethodPut, "/api/people/p1/settings", map[string]any{
		"rate": "1200", "union": true, "start_date": "2015-01-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	person = decode[PersonDTO](t, rec)
	assert.Equal(t, "1200", person.Settings.Rate.String())
	assert.True(t, person.Settings.Union)
	assert.Equal(t, "2015-01-01", person.Settings.StartDate)

	rec = do(t, router, http.MethodGet, "/api/people", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PersonDTO](t, rec), 1)
}

func TestPeople_Validation(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodPost, "/api/people", map[string]any{"settings": profile})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "name is required")

	rec = do(t, router, http.MethodPost, "/api/people", map[string]any{
		"name": "X", "settings": map[string]any{"rate": "1000", "start_date": "yesterday"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/people/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEntries_CreateListDelete(t *testing.T) {
	_, router := newTestServer(t)
	createPerson(t, router, "p1")

	first := addEntry(t, router, "p1", "2025-03-03", "09:00-21:00")
	addEntry(t, router, "p1", "2025-03-04", "вых")
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "p1", first.PersonID)

	rec := do(t, router, http.MethodGet, "/api/people/p1/entries?from=2025-03-01&to=2025-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]EntryDTO](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "09:00-21:00", entries[0].Text)

	rec = do(t, router, http.MethodDelete, "/api/entries/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/entries/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/people/p1/entries?from=2025-03-01&to=2025-03-31", nil)
	assert.Len(t, decode[[]EntryDTO](t, rec), 1)
}

func TestEntries_Rejected(t *testing.T) {
	_, router := newTestServer(t)
	createPerson(t, router, "p1")

	rec := do(t, router, http.MethodPost, "/api/people/p1/entries", EntryRequest{Date: "2025-13-01", Text: "вых"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "bad date")

	rec = do(t, router, http.MethodPost, "/api/people/p1/entries", EntryRequest{
		Date: "2025-03-03", Text: "рез 08:00-20:00", LineStart: "10h", LineEnd: "12:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed line start")

	rec = do(t, router, http.MethodPost, "/api/people/ghost/entries", EntryRequest{Date: "2025-03-03", Text: "вых"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// STATEMENTS
// =============================================================================

func TestStatement_ComputesAndStoresRun(t *testing.T) {
	// GIVEN: Two March day shifts, a sick day, and a shift in April
	// WHEN: Requesting the March statement
	// THEN: Only March is billed, a norm is attached, and a run is stored

	h, router := newTestServer(t)
	createPerson(t, router, "p1")
	addEntry(t, router, "p1", "2025-03-03", "09:00-21:00")
	addEntry(t, router, "p1", "2025-03-04", "09:00-21:00")
	addEntry(t, router, "p1", "2025-03-05", "больничный")
	addEntry(t, router, "p1", "2025-04-01", "09:00-21:00")

	rec := do(t, router, http.MethodGet, "/api/people/p1/statement?year=2025&month=3", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decode[StatementDTO](t, rec)
	assert.Equal(t, 2, st.Worked)
	assert.Equal(t, 1, st.SickDays)
	assert.Equal(t, "24.00", st.Hours)
	assert.Equal(t, "25200.00", st.Dirty)
	assert.NotNil(t, st.Norm)
	assert.NotEmpty(t, st.RunID)

	rec = do(t, router, http.MethodGet, "/api/people/p1/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]RunDTO](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, st.RunID, runs[0].ID)
	assert.Equal(t, 2, runs[0].Shifts)
	assert.Equal(t, "25200.00", runs[0].Dirty)

	assert.Equal(t, 3, countSamples(t, h.Metrics, "payroll_test_shifts_calculated_total"), "sick day included")
}

func TestStatement_LinksAcrossMonthBoundary(t *testing.T) {
	// GIVEN: A night shift on the last day of February and a short morning
	//        shift on March 1st, 4h later
	// WHEN: Requesting March
	// THEN: The March shift inherits split and full-night from its February
	//       predecessor, which itself is not billed

	_, router := newTestServer(t)
	createPerson(t, router, "p1")
	addEntry(t, router, "p1", "2025-02-28", "20:00-02:00")
	addEntry(t, router, "p1", "2025-03-01", "06:00-08:00")

	rec := do(t, router, http.MethodGet, "/api/people/p1/statement?year=2025&month=3", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decode[StatementDTO](t, rec)
	require.Len(t, st.Shifts, 1)
	assert.Equal(t, "2025-03-01", st.Shifts[0].Date)
	assert.True(t, st.Shifts[0].IsSplit)
	assert.True(t, st.Shifts[0].IsFullNight)
	assert.Equal(t, "2.00", st.Hours)
}

func TestStatement_Errors(t *testing.T) {
	_, router := newTestServer(t)

	rec := do(t, router, http.MethodGet, "/api/people/ghost/statement?year=2025&month=3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createPerson(t, router, "p1")
	rec = do(t, router, http.MethodGet, "/api/people/p1/statement?year=2025&month=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SCHEDULER
// =============================================================================

func TestScheduler_RunOnceComputesPreviousMonth(t *testing.T) {
	// GIVEN: Two people with March shifts, and the clock in early April
	// WHEN: The scheduler runs
	// THEN: Each person gets a March run

	h, router := newTestServer(t)
	createPerson(t, router, "p1")
	createPerson(t, router, "p2")
	addEntry(t, router, "p1", "2025-03-03", "09:00-21:00")
	addEntry(t, router, "p2", "2025-03-10", "рез 08:00-20:00")

	s := NewStatementScheduler(h, "")
	saved := s.RunOnce(context.Background())

	assert.Equal(t, 2, saved)
	for _, id := range []generic.PersonID{"p1", "p2"} {
		runs, err := h.Store.ListRuns(context.Background(), id)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, 2025, runs[0].Year)
		assert.Equal(t, time.March, runs[0].Month)
		assert.Equal(t, 1, runs[0].Shifts)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	h, _ := newTestServer(t)

	disabled := NewStatementScheduler(h, "")
	require.NoError(t, disabled.Start())
	disabled.Stop()

	bad := NewStatementScheduler(h, "not a schedule")
	assert.Error(t, bad.Start())

	s := NewStatementScheduler(h, "0 3 1 * *")
	require.NoError(t, s.Start())
	s.Stop()
}

// =============================================================================
// CORS
// =============================================================================

func fromOrigin(router http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/people", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCORS_DefaultAllowsOnlyLocalOrigins(t *testing.T) {
	// GIVEN: a router built without configured origins
	// THEN: a local frontend is allowed with credentials, others get nothing

	_, router := newTestServer(t)

	rec := fromOrigin(router, "http://localhost:5173")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = fromOrigin(router, "http://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_WildcardNeverAllowsCredentials(t *testing.T) {
	h, _ := newTestServer(t)
	router := NewRouter(h, []string{"*"})

	rec := fromOrigin(router, "http://evil.example")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

// =============================================================================
// METRICS
// =============================================================================

func TestMetricsEndpoint(t *testing.T) {
	_, router := newTestServer(t)
	do(t, router, http.MethodPost, "/api/parse", ParseRequest{Text: "09:00-21:00", Date: "2025-03-10"})

	rec := do(t, router, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payroll_test_shifts_parsed_total")
}

func countSamples(t *testing.T, m *metrics.Metrics, name string) int {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return int(total)
}
