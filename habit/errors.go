/*
errors.go - Centralized error types for the habit engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  The HTTP layer maps these kinds to response codes; the engine's
  obligation is only to signal the correct kind with enough detail
  (habit id, date, entry id) to construct a user-facing message.

ERROR CATEGORIES:
  1. Not-found errors  - Referenced habit / log / entry does not exist
  2. State errors      - Operation impossible given current data
  3. Validation errors - Malformed input, caller must correct and retry

STORAGE FAILURES:
  Anything else (e.g. the underlying store being unavailable) propagates
  unmodified. The engine never masks or retries storage failures; retry
  and backoff belong to the calling layer.

USAGE:
  if errors.Is(err, habit.ErrEntryNotFound) {
      // give a more specific message than a plain 404
  }

SEE ALSO:
  - ledger.go: Returns these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package habit

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrHabitNotFound is returned when a referenced habit doesn't exist.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrLogNotFound is returned when no DayRecord exists for the
	// (habitID, date) key the operation referenced.
	ErrLogNotFound = errors.New("habit log not found")

	// ErrEntryNotFound is returned when the referenced entry ID is not
	// present in the day's entry list. The parent record does exist;
	// this is distinguished from ErrLogNotFound so callers can report
	// which lookup failed.
	ErrEntryNotFound = errors.New("log entry not found")

	// ErrNoEntries is returned when removing the last entry from a day
	// that has none. The record exists, so this is a state error rather
	// than a not-found.
	ErrNoEntries = errors.New("no entries to remove")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports malformed input. Always recoverable by the caller
// correcting the input; never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NotFoundError wraps a sentinel with the identifiers that missed.
type NotFoundError struct {
	HabitID string
	Date    string
	EntryID string
	Kind    error // one of the sentinel errors above
}

func (e *NotFoundError) Error() string {
	switch {
	case e.EntryID != "":
		return fmt.Sprintf("%v: entry %s (habit %s, %s)", e.Kind, e.EntryID, e.HabitID, e.Date)
	case e.Date != "":
		return fmt.Sprintf("%v: habit %s, %s", e.Kind, e.HabitID, e.Date)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.HabitID)
	}
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing habit, log, or entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrHabitNotFound) ||
		errors.Is(err, ErrLogNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}

// IsInvalidState returns true if the operation was structurally valid but
// semantically impossible given current data.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrNoEntries)
}

// IsValidation returns true if the error is due to malformed client input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
