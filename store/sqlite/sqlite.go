/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.Store (people, shift-log entries, statement runs) using
  SQLite. Only raw inputs and run summaries are stored; parsed shift records
  and breakdowns are always recomputed from the entry text.

INTERFACES IMPLEMENTED:
  generic.PersonStore: People and their settings JSON
  generic.EntryStore:  Raw shift-log entries
  generic.RunStore:    Monthly statement summaries

KEY TABLES:
  people:          One row per person, settings kept as opaque JSON
  shift_entries:   Raw log lines with caller-supplied sub-intervals and flags
  statement_runs:  Append-only history of computed statements

INDEXES:
  - idx_entries_person_date: Month loading (hot path)
  - idx_runs_person_period:  Run history per person

ENCODING:
  Dates are stored as YYYY-MM-DD text so range queries compare lexically.
  Money and hours are stored as decimal strings, never REAL.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.
  In-memory databases are pinned to a single connection, since every
  connection to ":memory:" opens a separate empty database.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/shift-payroll/generic"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- People
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		settings_json TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	);

	-- Raw shift-log entries
	CREATE TABLE IF NOT EXISTS shift_entries (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		text TEXT NOT NULL,
		line_start TEXT,
		line_end TEXT,
		tp_start TEXT,
		tp_end TEXT,
		full_medical BOOLEAN NOT NULL DEFAULT FALSE,
		post_trip BOOLEAN NOT NULL DEFAULT FALSE,
		custom_senior BOOLEAN,
		custom_mentor BOOLEAN,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_person_date
		ON shift_entries(person_id, date);

	-- Statement runs (append-only)
	CREATE TABLE IF NOT EXISTS statement_runs (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		shifts INTEGER NOT NULL,
		hours TEXT NOT NULL,
		norm TEXT NOT NULL,
		overtime TEXT NOT NULL,
		dirty TEXT NOT NULL,
		net TEXT NOT NULL,
		computed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_person_period
		ON statement_runs(person_id, year, month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PERSON STORE (generic.PersonStore interface)
// =============================================================================

// SavePerson inserts or updates a person. CreatedAt is kept on update.
func (s *Store) SavePerson(ctx context.Context, p generic.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = generic.PersonID(uuid.NewString())
	}
	settings := p.SettingsJSON
	if settings == "" {
		settings = "{}"
	}

	query := `
		INSERT INTO people (id, name, settings_json, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			settings_json = excluded.settings_json
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, settings, timestamp(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: save person %s: %v", generic.ErrStoreFailed, p.ID, err)
	}
	return nil
}

// GetPerson retrieves a person by ID.
func (s *Store) GetPerson(ctx context.Context, id generic.PersonID) (*generic.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p generic.Person
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, settings_json, created_at FROM people WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.SettingsJSON, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get person %s: %v", generic.ErrStoreFailed, id, err)
	}

	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// ListPeople returns all people ordered by name.
func (s *Store) ListPeople(ctx context.Context) ([]generic.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, settings_json, created_at FROM people ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list people: %v", generic.ErrStoreFailed, err)
	}
	defer rows.Close()

	var people []generic.Person
	for rows.Next() {
		var p generic.Person
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.SettingsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		people = append(people, p)
	}
	return people, rows.Err()
}

// =============================================================================
// ENTRY STORE (generic.EntryStore interface)
// =============================================================================

// SaveEntry inserts or replaces an entry.
func (s *Store) SaveEntry(ctx context.Context, e generic.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = generic.EntryID(uuid.NewString())
	}

	query := `
		INSERT INTO shift_entries
		(id, person_id, date, text, line_start, line_end, tp_start, tp_end,
		 full_medical, post_trip, custom_senior, custom_mentor, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			text = excluded.text,
			line_start = excluded.line_start,
			line_end = excluded.line_end,
			tp_start = excluded.tp_start,
			tp_end = excluded.tp_end,
			full_medical = excluded.full_medical,
			post_trip = excluded.post_trip,
			custom_senior = excluded.custom_senior,
			custom_mentor = excluded.custom_mentor
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.PersonID,
		e.Date.String(),
		e.Text,
		nullString(e.LineStart),
		nullString(e.LineEnd),
		nullString(e.TPStart),
		nullString(e.TPEnd),
		e.FullMedical,
		e.PostTrip,
		nullBool(e.CustomSenior),
		nullBool(e.CustomMentor),
		timestamp(e.CreatedAt),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrPersonNotFound
		}
		return fmt.Errorf("%w: save entry %s: %v", generic.ErrStoreFailed, e.ID, err)
	}
	return nil
}

// DeleteEntry removes an entry.
func (s *Store) DeleteEntry(ctx context.Context, id generic.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM shift_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: delete entry %s: %v", generic.ErrStoreFailed, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrEntryNotFound
	}
	return nil
}

// ListEntries returns a person's entries dated within [from, to].
func (s *Store) ListEntries(ctx context.Context, personID generic.PersonID, from, to generic.TimePoint) ([]generic.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, person_id, date, text, line_start, line_end, tp_start, tp_end,
		       full_medical, post_trip, custom_senior, custom_mentor, created_at
		FROM shift_entries
		WHERE person_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query, personID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("%w: list entries: %v", generic.ErrStoreFailed, err)
	}
	defer rows.Close()

	var entries []generic.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (generic.Entry, error) {
	var (
		e            generic.Entry
		date         string
		lineStart    sql.NullString
		lineEnd      sql.NullString
		tpStart      sql.NullString
		tpEnd        sql.NullString
		customSenior sql.NullBool
		customMentor sql.NullBool
		createdAt    string
	)

	err := rows.Scan(
		&e.ID, &e.PersonID, &date, &e.Text,
		&lineStart, &lineEnd, &tpStart, &tpEnd,
		&e.FullMedical, &e.PostTrip, &customSenior, &customMentor, &createdAt,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.Date, err = generic.ParseDate(date)
	if err != nil {
		return e, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.LineStart = lineStart.String
	e.LineEnd = lineEnd.String
	e.TPStart = tpStart.String
	e.TPEnd = tpEnd.String
	e.CustomSenior = boolPtr(customSenior)
	e.CustomMentor = boolPtr(customMentor)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// =============================================================================
// RUN STORE (generic.RunStore interface)
// =============================================================================

// SaveRun appends a statement run.
func (s *Store) SaveRun(ctx context.Context, r generic.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = generic.RunID(uuid.NewString())
	}

	query := `
		INSERT INTO statement_runs
		(id, person_id, year, month, shifts, hours, norm, overtime, dirty, net, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.PersonID,
		r.Year,
		int(r.Month),
		r.Shifts,
		r.Hours.String(),
		r.Norm.String(),
		r.Overtime.String(),
		r.Dirty.String(),
		r.Net.String(),
		timestamp(r.ComputedAt),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrPersonNotFound
		}
		return fmt.Errorf("%w: save run: %v", generic.ErrStoreFailed, err)
	}
	return nil
}

// ListRuns returns a person's runs, newest first.
func (s *Store) ListRuns(ctx context.Context, personID generic.PersonID) ([]generic.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, person_id, year, month, shifts, hours, norm, overtime, dirty, net, computed_at
		FROM statement_runs
		WHERE person_id = ?
		ORDER BY computed_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("%w: list runs: %v", generic.ErrStoreFailed, err)
	}
	defer rows.Close()

	var runs []generic.Run
	for rows.Next() {
		var (
			r                                 generic.Run
			month                             int
			hours, norm, overtime, dirty, net string
			computedAt                        string
		)
		if err := rows.Scan(&r.ID, &r.PersonID, &r.Year, &month, &r.Shifts,
			&hours, &norm, &overtime, &dirty, &net, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Month = time.Month(month)
		r.Hours = generic.MustParseDecimal(hours)
		r.Norm = generic.MustParseDecimal(norm)
		r.Overtime = generic.MustParseDecimal(overtime)
		r.Dirty = generic.MustParseDecimal(dirty)
		r.Net = generic.MustParseDecimal(net)
		r.ComputedAt, _ = time.Parse(time.RFC3339, computedAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"statement_runs", "shift_entries", "people"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolPtr(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
