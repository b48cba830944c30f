/*
store.go - Persistence interfaces for people, shift-log entries and statement runs

PURPOSE:
  Defines the interface between the payroll engine and the database.
  The engine itself is pure; persistence only keeps the raw inputs (free-text
  log lines plus caller-supplied sub-intervals and flags) and the results of
  statement runs. Parsed records are never stored: they are re-derived from
  the raw text every time so a parser fix applies retroactively.

KEY INTERFACES:
  PersonStore: People and their settings documents
  EntryStore:  Raw shift-log entries
  RunStore:    Computed monthly statement runs (audit / cache)
  Store:       All of the above

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - shift/entry.go: Entry -> Record conversion
  - api/scheduler.go: Writes runs on a cron schedule
*/
package generic

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORDS
// =============================================================================

// Person is someone whose shifts are billed. SettingsJSON is decoded by the
// factory package; the store treats it as opaque.
type Person struct {
	ID           PersonID
	Name         string
	SettingsJSON string
	CreatedAt    time.Time
}

// Entry is one raw shift-log line. Sub-interval bounds are kept as the text
// the caller supplied ("" = absent).
type Entry struct {
	ID           EntryID
	PersonID     PersonID
	Date         TimePoint
	Text         string
	LineStart    string
	LineEnd      string
	TPStart      string
	TPEnd        string
	FullMedical  bool
	PostTrip     bool
	CustomSenior *bool
	CustomMentor *bool
	CreatedAt    time.Time
}

// Run is a stored monthly statement summary.
type Run struct {
	ID         RunID
	PersonID   PersonID
	Year       int
	Month      time.Month
	Shifts     int
	Hours      decimal.Decimal
	Norm       decimal.Decimal
	Overtime   decimal.Decimal
	Dirty      decimal.Decimal
	Net        decimal.Decimal
	ComputedAt time.Time
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

type PersonStore interface {
	// SavePerson inserts or updates a person.
	SavePerson(ctx context.Context, p Person) error

	// GetPerson returns ErrPersonNotFound if the person doesn't exist.
	GetPerson(ctx context.Context, id PersonID) (*Person, error)

	ListPeople(ctx context.Context) ([]Person, error)
}

type EntryStore interface {
	SaveEntry(ctx context.Context, e Entry) error

	// DeleteEntry returns ErrEntryNotFound if nothing was deleted.
	DeleteEntry(ctx context.Context, id EntryID) error

	// ListEntries returns a person's entries with Date in [from, to], ordered
	// by date then insertion.
	ListEntries(ctx context.Context, personID PersonID, from, to TimePoint) ([]Entry, error)
}

type RunStore interface {
	SaveRun(ctx context.Context, r Run) error

	// ListRuns returns a person's runs, newest first.
	ListRuns(ctx context.Context, personID PersonID) ([]Run, error)
}

// Store is the full persistence surface used by the API.
type Store interface {
	PersonStore
	EntryStore
	RunStore
}
