/*
handlers.go - HTTP API handlers for the shift payroll engine

PURPOSE:
  Exposes the parser, linker and wage calculator via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Engine (stateless):
    POST   /api/parse                      Classify one log line
    POST   /api/calculate                  Link and price a batch of entries
    POST   /api/overtime                   Price overtime hours
    GET    /api/calendar/{year}/{month}    Production calendar month

  People:
    GET    /api/people                     List people
    POST   /api/people                     Create person with settings
    GET    /api/people/{id}                Get person
    PUT    /api/people/{id}/settings       Replace settings

  Entries:
    GET    /api/people/{id}/entries        List entries (?from=&to=)
    POST   /api/people/{id}/entries        Add entry
    DELETE /api/entries/{id}               Delete entry

  Statements:
    GET    /api/people/{id}/statement      Compute month (?year=&month=), stored as a run
    GET    /api/people/{id}/runs           Stored runs, newest first

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Persistence of raw entries and runs
  - Parser / Calculator: The engine
  - Calendar: Production calendar (norms, holiday predicates)
  - Metrics / Log: Observability

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (dates, times, settings)
  - 404: Person or entry not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Cron-driven statement runs
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/factory"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/metrics"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/shift"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           generic.Store
	Parser          *shift.Parser
	Calculator      *payroll.Calculator
	Calendar        *calendar.Static
	SettingsFactory *factory.SettingsFactory
	Metrics         *metrics.Metrics
	Log             logrus.FieldLogger
}

// NewHandler creates a handler on the production calendar.
func NewHandler(store generic.Store, parser *shift.Parser, m *metrics.Metrics, log logrus.FieldLogger) *Handler {
	cal := calendar.Production()
	return &Handler{
		Store:           store,
		Parser:          parser,
		Calculator:      payroll.NewCalculator(cal),
		Calendar:        cal,
		SettingsFactory: factory.NewSettingsFactory(),
		Metrics:         m,
		Log:             log,
	}
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// Parse classifies a single log line.
// POST /api/parse
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	rec, err := h.Parser.Parse(req.Text, date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift text", err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	h.Metrics.ShiftsParsed.WithLabelValues(string(rec.Type)).Inc()
	writeJSON(w, http.StatusOK, toShiftDTO(rec))
}

// Calculate links and prices a batch of entries without storing them.
// POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.SettingsFactory.FromJSON(req.Settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	entries := make([]generic.Entry, 0, len(req.Entries))
	for i, er := range req.Entries {
		e, err := toEntry("", er)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid entry %d", i), err)
			return
		}
		entries = append(entries, e)
	}

	records, err := h.Parser.FromEntries(entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}

	start := time.Now()
	resp := CalculateResponse{Shifts: make([]CalculatedShiftDTO, 0, len(records))}
	hours, dirty, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, rec := range shift.Link(records) {
		h.Metrics.ShiftsParsed.WithLabelValues(string(rec.Type)).Inc()
		item := CalculatedShiftDTO{Shift: toShiftDTO(rec)}
		if b := h.Calculator.Calculate(rec, settings); b != nil {
			h.Metrics.ShiftsCalculated.WithLabelValues(string(b.Type)).Inc()
			dto := toBreakdownDTO(b)
			item.Breakdown = &dto
			hours = hours.Add(b.Hours)
			dirty = dirty.Add(b.Dirty)
			net = net.Add(b.Net)
		} else {
			h.Metrics.NullResults.Inc()
		}
		resp.Shifts = append(resp.Shifts, item)
	}
	h.Metrics.CalculationTime.Observe(time.Since(start).Seconds())

	resp.Hours = money(hours)
	resp.Dirty = money(dirty)
	resp.Net = money(net)
	writeJSON(w, http.StatusOK, resp)
}

// Overtime prices overtime hours.
// POST /api/overtime
func (h *Handler) Overtime(w http.ResponseWriter, r *http.Request) {
	var req OvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settings, err := h.SettingsFactory.FromJSON(req.Settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	writeJSON(w, http.StatusOK, toOvertimeDTO(payroll.OvertimePay(req.Hours, settings)))
}

// GetCalendarMonth returns the day flags and hour norm of a month.
// GET /api/calendar/{year}/{month}
func (h *Handler) GetCalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year or month", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalendarMonthDTO(year, month, h.Calendar))
}

// =============================================================================
// PEOPLE HANDLERS
// =============================================================================

// ListPeople returns all people.
// GET /api/people
func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.ListPeople(r.Context())
	if err != nil {
		h.internalError(w, "list_people", "Failed to list people", err)
		return
	}

	dtos := make([]PersonDTO, 0, len(people))
	for _, p := range people {
		dto, err := h.toPersonDTO(p)
		if err != nil {
			h.internalError(w, "list_people", "Stored settings are corrupt", err)
			return
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePerson creates a person with a settings profile.
// POST /api/people
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	settingsJSON, ok := h.encodeSettings(w, req.Settings)
	if !ok {
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	person := generic.Person{
		ID:           generic.PersonID(id),
		Name:         req.Name,
		SettingsJSON: settingsJSON,
		CreatedAt:    time.Now(),
	}
	if err := h.Store.SavePerson(r.Context(), person); err != nil {
		h.internalError(w, "create_person", "Failed to create person", err)
		return
	}

	h.Log.WithField("person_id", id).Info("person created")
	dto, _ := h.toPersonDTO(person)
	writeJSON(w, http.StatusCreated, dto)
}

// GetPerson returns a person.
// GET /api/people/{id}
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}
	dto, err := h.toPersonDTO(*person)
	if err != nil {
		h.internalError(w, "get_person", "Stored settings are corrupt", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpdateSettings replaces a person's settings.
// PUT /api/people/{id}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	var req factory.SettingsJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	settingsJSON, ok := h.encodeSettings(w, req)
	if !ok {
		return
	}
	person.SettingsJSON = settingsJSON
	if err := h.Store.SavePerson(r.Context(), *person); err != nil {
		h.internalError(w, "update_settings", "Failed to save settings", err)
		return
	}

	dto, _ := h.toPersonDTO(*person)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns a person's raw entries, by default for the current month.
// GET /api/people/{id}/entries?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	month := generic.MonthOf(h.Calculator.Clock())
	from, to := month.Start, month.End
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = generic.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = generic.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
	}

	entries, err := h.Store.ListEntries(r.Context(), person.ID, from, to)
	if err != nil {
		h.internalError(w, "list_entries", "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, toEntryDTO(e))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEntry stores a raw log line after checking that it parses.
// POST /api/people/{id}/entries
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := toEntry(person.ID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if _, err := h.Parser.FromEntry(entry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}

	entry.ID = generic.EntryID(uuid.NewString())
	entry.CreatedAt = time.Now()
	if err := h.Store.SaveEntry(r.Context(), entry); err != nil {
		h.storeError(w, "create_entry", "Failed to save entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

// DeleteEntry removes an entry.
// DELETE /api/entries/{id}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := generic.EntryID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteEntry(r.Context(), id); err != nil {
		h.storeError(w, "delete_entry", "Failed to delete entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STATEMENT HANDLERS
// =============================================================================

// GetStatement computes a person's month and stores it as a run.
// GET /api/people/{id}/statement?year=YYYY&month=M
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	now := h.Calculator.Clock()
	year, month := now.Year(), now.Month()
	if y, m := r.URL.Query().Get("year"), r.URL.Query().Get("month"); y != "" || m != "" {
		var err error
		if year, month, err = parseYearMonth(y, m); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year or month", err)
			return
		}
	}

	personID := generic.PersonID(chi.URLParam(r, "id"))
	st, run, err := h.RunStatement(r.Context(), personID, year, month)
	if err != nil {
		h.storeError(w, "statement", "Failed to compute statement", err)
		return
	}

	writeJSON(w, http.StatusOK, toStatementDTO(personID, run.ID, st))
}

// ListRuns returns a person's stored statement runs.
// GET /api/people/{id}/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	person, ok := h.loadPerson(w, r)
	if !ok {
		return
	}

	runs, err := h.Store.ListRuns(r.Context(), person.ID)
	if err != nil {
		h.internalError(w, "list_runs", "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RunStatement loads a person's entries around the month, computes the
// statement and stores its summary. Entries from the last day of the previous
// month and the first day of the next take part in linking only.
func (h *Handler) RunStatement(ctx context.Context, personID generic.PersonID, year int, month time.Month) (*payroll.Statement, generic.Run, error) {
	person, err := h.Store.GetPerson(ctx, personID)
	if err != nil {
		return nil, generic.Run{}, err
	}
	settings, err := h.SettingsFactory.ParseSettings(person.SettingsJSON)
	if err != nil {
		return nil, generic.Run{}, fmt.Errorf("person %s: %w", personID, err)
	}

	window := generic.MonthPeriod(year, month).Widen(1)
	entries, err := h.Store.ListEntries(ctx, personID, window.Start, window.End)
	if err != nil {
		return nil, generic.Run{}, err
	}
	records, err := h.Parser.FromEntries(entries)
	if err != nil {
		return nil, generic.Run{}, err
	}

	start := time.Now()
	st := h.Calculator.Statement(records, settings, year, month)
	h.Metrics.CalculationTime.Observe(time.Since(start).Seconds())
	for _, b := range st.Shifts {
		h.Metrics.ShiftsCalculated.WithLabelValues(string(b.Type)).Inc()
	}

	run := generic.Run{
		ID:         generic.RunID(uuid.NewString()),
		PersonID:   personID,
		Year:       year,
		Month:      month,
		Shifts:     st.Worked(),
		Hours:      st.Hours,
		Norm:       st.Norm,
		Overtime:   st.Overtime.Total,
		Dirty:      st.Dirty,
		Net:        st.Net,
		ComputedAt: h.Calculator.Clock(),
	}
	if err := h.Store.SaveRun(ctx, run); err != nil {
		return nil, generic.Run{}, err
	}
	h.Metrics.StatementsSaved.Inc()

	h.Log.WithFields(logrus.Fields{
		"person_id": personID,
		"year":      year,
		"month":     int(month),
		"shifts":    run.Shifts,
		"dirty":     money(st.Dirty),
	}).Info("statement computed")

	return st, run, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadPerson(w http.ResponseWriter, r *http.Request) (*generic.Person, bool) {
	id := generic.PersonID(chi.URLParam(r, "id"))
	person, err := h.Store.GetPerson(r.Context(), id)
	if err != nil {
		h.storeError(w, "get_person", "Failed to get person", err)
		return nil, false
	}
	return person, true
}

func (h *Handler) encodeSettings(w http.ResponseWriter, sj factory.SettingsJSON) (string, bool) {
	settings, err := h.SettingsFactory.FromJSON(sj)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return "", false
	}
	encoded, err := h.SettingsFactory.EncodeSettings(settings)
	if err != nil {
		h.internalError(w, "encode_settings", "Failed to encode settings", err)
		return "", false
	}
	return encoded, true
}

func (h *Handler) toPersonDTO(p generic.Person) (PersonDTO, error) {
	settings, err := h.SettingsFactory.ParseSettings(p.SettingsJSON)
	if err != nil {
		return PersonDTO{}, err
	}
	return PersonDTO{
		ID:        string(p.ID),
		Name:      p.Name,
		Settings:  h.SettingsFactory.ToJSON(settings),
		CreatedAt: formatTimestamp(p.CreatedAt),
	}, nil
}

// storeError maps domain errors to 4xx and everything else to 500.
func (h *Handler) storeError(w http.ResponseWriter, op, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.internalError(w, op, message, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op, message string, err error) {
	h.Metrics.ErrorsCount.WithLabelValues(op).Inc()
	h.Log.WithError(err).WithField("operation", op).Error(message)
	writeError(w, http.StatusInternalServerError, message, err)
}

func parseYearMonth(y, m string) (int, time.Month, error) {
	year, err := strconv.Atoi(y)
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("%w: year %q", generic.ErrInvalidDate, y)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %q", generic.ErrInvalidDate, m)
	}
	return year, time.Month(month), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
