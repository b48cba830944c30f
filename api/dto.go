/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: money and hours
  travel as fixed-point strings, times as "HH:MM", dates as "YYYY-MM-DD".

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  People:     PersonDTO, CreatePersonRequest
  Entries:    EntryDTO, EntryRequest
  Shifts:     ParseRequest, ShiftDTO
  Payroll:    CalculateRequest, CalculateResponse, BreakdownDTO, PartDTO
  Overtime:   OvertimeRequest, OvertimeDTO
  Statements: StatementDTO, RunDTO
  Calendar:   CalendarMonthDTO, CalendarDayDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/settings.go: SettingsJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/factory"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/shift"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// PersonDTO represents a person in API responses.
type PersonDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Settings  factory.SettingsJSON `json:"settings"`
	CreatedAt string               `json:"created_at,omitempty"`
}

// CreatePersonRequest is the request to create a person.
type CreatePersonRequest struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Settings factory.SettingsJSON `json:"settings"`
}

// EntryRequest is one raw shift-log line as submitted by a client.
type EntryRequest struct {
	Date         string `json:"date"`
	Text         string `json:"text"`
	LineStart    string `json:"line_start,omitempty"`
	LineEnd      string `json:"line_end,omitempty"`
	TPStart      string `json:"tp_start,omitempty"`
	TPEnd        string `json:"tp_end,omitempty"`
	FullMedical  bool   `json:"full_medical,omitempty"`
	PostTrip     bool   `json:"post_trip,omitempty"`
	CustomSenior *bool  `json:"custom_senior,omitempty"`
	CustomMentor *bool  `json:"custom_mentor,omitempty"`
}

// EntryDTO represents a stored entry in API responses.
type EntryDTO struct {
	ID       string `json:"id"`
	PersonID string `json:"person_id"`
	EntryRequest
	CreatedAt string `json:"created_at,omitempty"`
}

// ParseRequest is the request to classify a single log line.
type ParseRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// ShiftDTO is a parsed (and possibly linked) shift record.
type ShiftDTO struct {
	Date          string `json:"date"`
	Text          string `json:"text"`
	Type          string `json:"type"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
	Minutes       int    `json:"minutes"`
	LineStart     string `json:"line_start,omitempty"`
	LineEnd       string `json:"line_end,omitempty"`
	TPStart       string `json:"tp_start,omitempty"`
	TPEnd         string `json:"tp_end,omitempty"`
	IsTech        bool   `json:"is_tech"`
	IsSplit       bool   `json:"is_split"`
	IsFullNight   bool   `json:"is_full_night"`
	IsFullMedical bool   `json:"is_full_medical"`
	IsPostTrip    bool   `json:"is_post_trip"`
}

// CalculateRequest runs the engine over entries without storing anything.
type CalculateRequest struct {
	Settings factory.SettingsJSON `json:"settings"`
	Entries  []EntryRequest       `json:"entries"`
}

// CalculatedShiftDTO pairs a shift with its breakdown (nil when unbilled).
type CalculatedShiftDTO struct {
	Shift     ShiftDTO      `json:"shift"`
	Breakdown *BreakdownDTO `json:"breakdown"`
}

// CalculateResponse is the result of a stateless calculation.
type CalculateResponse struct {
	Shifts []CalculatedShiftDTO `json:"shifts"`
	Hours  string               `json:"hours"`
	Dirty  string               `json:"dirty"`
	Net    string               `json:"net"`
}

// PartDTO is one ledger line.
type PartDTO struct {
	Minutes int    `json:"minutes"`
	Hours   string `json:"hours"`
	Money   string `json:"money"`
}

// BucketsDTO is one ledger line per tariff bucket.
type BucketsDTO struct {
	Line    PartDTO `json:"line"`
	Reserve PartDTO `json:"reserve"`
	Base    PartDTO `json:"base"`
}

// RatesDTO holds the derived hourly rates.
type RatesDTO struct {
	Line    string `json:"line"`
	Base    string `json:"base"`
	Reserve string `json:"reserve"`
}

// BreakdownDTO is the itemized wage of one shift.
type BreakdownDTO struct {
	Date             string     `json:"date"`
	Type             string     `json:"type"`
	Rates            RatesDTO   `json:"rates"`
	TotalMinutes     int        `json:"total_minutes"`
	Tariff           BucketsDTO `json:"tariff"`
	Split            BucketsDTO `json:"split"`
	Evening          BucketsDTO `json:"evening"`
	Night            BucketsDTO `json:"night"`
	Class            PartDTO    `json:"class"`
	Seniority        PartDTO    `json:"seniority"`
	SeniorityPercent int        `json:"seniority_percent"`
	Mentor           PartDTO    `json:"mentor"`
	Tech             PartDTO    `json:"tech"`
	Study            PartDTO    `json:"study"`
	Med              PartDTO    `json:"med"`
	Hours            string     `json:"hours"`
	HolidayHours     string     `json:"holiday_hours"`
	Dirty            string     `json:"dirty"`
	Net              string     `json:"net"`

	IsSick             bool `json:"is_sick"`
	IsVacation         bool `json:"is_vacation"`
	IsDonor            bool `json:"is_donor"`
	IsSplit            bool `json:"is_split"`
	IsFullNight        bool `json:"is_full_night"`
	IsTech             bool `json:"is_tech"`
	IsFullMedical      bool `json:"is_full_medical"`
	IsWeekendOrHoliday bool `json:"is_weekend_or_holiday"`
	IsStateHoliday     bool `json:"is_state_holiday"`
}

// OvertimeRequest prices overtime hours for a profile.
type OvertimeRequest struct {
	Hours    decimal.Decimal      `json:"hours"`
	Settings factory.SettingsJSON `json:"settings"`
}

// OvertimeDTO is the two-tier overtime pay.
type OvertimeDTO struct {
	Tier1Hours string `json:"tier1_hours"`
	Tier1Money string `json:"tier1_money"`
	Tier2Hours string `json:"tier2_hours"`
	Tier2Money string `json:"tier2_money"`
	Total      string `json:"total"`
}

// StatementDTO is a person's computed month.
type StatementDTO struct {
	PersonID      string         `json:"person_id"`
	RunID         string         `json:"run_id,omitempty"`
	Year          int            `json:"year"`
	Month         int            `json:"month"`
	Shifts        []BreakdownDTO `json:"shifts"`
	Worked        int            `json:"worked"`
	SickDays      int            `json:"sick_days"`
	VacationDays  int            `json:"vacation_days"`
	DonorDays     int            `json:"donor_days"`
	Hours         string         `json:"hours"`
	Dirty         string         `json:"dirty"`
	Net           string         `json:"net"`
	Norm          *string        `json:"norm,omitempty"`
	OvertimeHours string         `json:"overtime_hours"`
	Overtime      OvertimeDTO    `json:"overtime"`
}

// RunDTO is a stored statement summary.
type RunDTO struct {
	ID         string `json:"id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Shifts     int    `json:"shifts"`
	Hours      string `json:"hours"`
	Norm       string `json:"norm"`
	Overtime   string `json:"overtime"`
	Dirty      string `json:"dirty"`
	Net        string `json:"net"`
	ComputedAt string `json:"computed_at"`
}

// CalendarDayDTO is one day of a production-calendar month.
type CalendarDayDTO struct {
	Date               string `json:"date"`
	IsWeekendOrHoliday bool   `json:"is_weekend_or_holiday"`
	IsStateHoliday     bool   `json:"is_state_holiday"`
	IsShort            bool   `json:"is_short"`
}

// CalendarMonthDTO is a production-calendar month with its hour norm.
type CalendarMonthDTO struct {
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Norm  string           `json:"norm"`
	Days  []CalendarDayDTO `json:"days"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func timeString(t *generic.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toEntry(personID generic.PersonID, req EntryRequest) (generic.Entry, error) {
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		return generic.Entry{}, err
	}
	return generic.Entry{
		PersonID:     personID,
		Date:         date,
		Text:         req.Text,
		LineStart:    req.LineStart,
		LineEnd:      req.LineEnd,
		TPStart:      req.TPStart,
		TPEnd:        req.TPEnd,
		FullMedical:  req.FullMedical,
		PostTrip:     req.PostTrip,
		CustomSenior: req.CustomSenior,
		CustomMentor: req.CustomMentor,
	}, nil
}

func toEntryDTO(e generic.Entry) EntryDTO {
	return EntryDTO{
		ID:       string(e.ID),
		PersonID: string(e.PersonID),
		EntryRequest: EntryRequest{
			Date:         e.Date.String(),
			Text:         e.Text,
			LineStart:    e.LineStart,
			LineEnd:      e.LineEnd,
			TPStart:      e.TPStart,
			TPEnd:        e.TPEnd,
			FullMedical:  e.FullMedical,
			PostTrip:     e.PostTrip,
			CustomSenior: e.CustomSenior,
			CustomMentor: e.CustomMentor,
		},
		CreatedAt: formatTimestamp(e.CreatedAt),
	}
}

func toShiftDTO(r *shift.Record) ShiftDTO {
	return ShiftDTO{
		Date:          r.Date.String(),
		Text:          r.OriginalText,
		Type:          string(r.Type),
		Start:         timeString(r.Start),
		End:           timeString(r.End),
		Minutes:       r.Duration(),
		LineStart:     timeString(r.LineStart),
		LineEnd:       timeString(r.LineEnd),
		TPStart:       timeString(r.TPStart),
		TPEnd:         timeString(r.TPEnd),
		IsTech:        r.IsTech,
		IsSplit:       r.IsSplit,
		IsFullNight:   r.IsFullNight,
		IsFullMedical: r.IsFullMedical,
		IsPostTrip:    r.IsPostTrip,
	}
}

func toPartDTO(p payroll.Part) PartDTO {
	return PartDTO{Minutes: p.Minutes, Hours: money(p.Hours()), Money: money(p.Money)}
}

func toBucketsDTO(b payroll.Buckets) BucketsDTO {
	return BucketsDTO{
		Line:    toPartDTO(b[payroll.BucketLine]),
		Reserve: toPartDTO(b[payroll.BucketReserve]),
		Base:    toPartDTO(b[payroll.BucketBase]),
	}
}

func toBreakdownDTO(b *payroll.Breakdown) BreakdownDTO {
	return BreakdownDTO{
		Date: b.Date.String(),
		Type: string(b.Type),
		Rates: RatesDTO{
			Line:    money(b.Rates.Line),
			Base:    money(b.Rates.Base),
			Reserve: money(b.Rates.Reserve),
		},
		TotalMinutes:       b.TotalMinutes,
		Tariff:             toBucketsDTO(b.Tariff),
		Split:              toBucketsDTO(b.Split),
		Evening:            toBucketsDTO(b.Evening),
		Night:              toBucketsDTO(b.Night),
		Class:              toPartDTO(b.Class),
		Seniority:          toPartDTO(b.Seniority),
		SeniorityPercent:   b.SeniorityPercent,
		Mentor:             toPartDTO(b.Mentor),
		Tech:               toPartDTO(b.Tech),
		Study:              toPartDTO(b.Study),
		Med:                toPartDTO(b.Med),
		Hours:              money(b.Hours),
		HolidayHours:       money(b.HolidayHours),
		Dirty:              money(b.Dirty),
		Net:                money(b.Net),
		IsSick:             b.IsSick,
		IsVacation:         b.IsVacation,
		IsDonor:            b.IsDonor,
		IsSplit:            b.IsSplit,
		IsFullNight:        b.IsFullNight,
		IsTech:             b.IsTech,
		IsFullMedical:      b.IsFullMedical,
		IsWeekendOrHoliday: b.IsWeekendOrHoliday,
		IsStateHoliday:     b.IsStateHoliday,
	}
}

func toOvertimeDTO(o payroll.Overtime) OvertimeDTO {
	return OvertimeDTO{
		Tier1Hours: money(o.Tier1Hours),
		Tier1Money: money(o.Tier1Money),
		Tier2Hours: money(o.Tier2Hours),
		Tier2Money: money(o.Tier2Money),
		Total:      money(o.Total),
	}
}

func toStatementDTO(personID generic.PersonID, runID generic.RunID, st *payroll.Statement) StatementDTO {
	dto := StatementDTO{
		PersonID:      string(personID),
		RunID:         string(runID),
		Year:          st.Year,
		Month:         int(st.Month),
		Shifts:        make([]BreakdownDTO, 0, len(st.Shifts)),
		Worked:        st.Worked(),
		SickDays:      st.SickDays,
		VacationDays:  st.VacationDays,
		DonorDays:     st.DonorDays,
		Hours:         money(st.Hours),
		Dirty:         money(st.Dirty),
		Net:           money(st.Net),
		OvertimeHours: money(st.OvertimeHours),
		Overtime:      toOvertimeDTO(st.Overtime),
	}
	for _, b := range st.Shifts {
		dto.Shifts = append(dto.Shifts, toBreakdownDTO(b))
	}
	if st.HasNorm {
		norm := money(st.Norm)
		dto.Norm = &norm
	}
	return dto
}

func toRunDTO(r generic.Run) RunDTO {
	return RunDTO{
		ID:         string(r.ID),
		Year:       r.Year,
		Month:      int(r.Month),
		Shifts:     r.Shifts,
		Hours:      money(r.Hours),
		Norm:       money(r.Norm),
		Overtime:   money(r.Overtime),
		Dirty:      money(r.Dirty),
		Net:        money(r.Net),
		ComputedAt: formatTimestamp(r.ComputedAt),
	}
}

func toCalendarMonthDTO(year int, month time.Month, cal *calendar.Static) CalendarMonthDTO {
	dto := CalendarMonthDTO{
		Year:  year,
		Month: int(month),
		Norm:  cal.MonthNorm(year, month).String(),
	}
	for _, d := range cal.Month(year, month) {
		dto.Days = append(dto.Days, CalendarDayDTO{
			Date:               d.Date.String(),
			IsWeekendOrHoliday: d.IsWeekendOrHoliday,
			IsStateHoliday:     d.IsStateHoliday,
			IsShort:            d.IsShort,
		})
	}
	return dto
}
