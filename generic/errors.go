/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculation core itself never fails: unparseable or non-billable input
  yields an absent (nil) result. Errors exist for the layers around it:
  strict parsing, storage and the API.

ERROR CATEGORIES:
  1. Input errors - malformed dates/times, invalid settings
  2. Lookup errors - missing people, entries
  3. Store errors - database-level failures

USAGE:
    if generic.IsNotFound(err) {
        writeError(w, http.StatusNotFound, "Person not found", err)
    }

SEE ALSO:
  - shift/parser.go: Strict mode returns InvalidTimeError
  - store/sqlite/sqlite.go: Wraps these errors
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTime is returned when a time of day cannot be parsed, or when
	// strict parsing rejects an out-of-range hour or minute.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidSettings is returned when a settings document cannot be decoded
	// or carries impossible values (negative rate).
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrPersonNotFound is returned when a referenced person doesn't exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrEntryNotFound is returned when a referenced shift-log entry doesn't exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrStoreFailed is returned when persistence fails.
	ErrStoreFailed = errors.New("store operation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidTimeError reports a time-like token rejected by strict parsing.
type InvalidTimeError struct {
	Text  string
	Token string
	Time  TimeOfDay
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time %q in %q", e.Token, e.Text)
}

func (e *InvalidTimeError) Unwrap() error {
	return ErrInvalidTime
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidSettings)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}
