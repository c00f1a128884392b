/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Request types decouple
  the external contract from the internal domain model and carry validation
  tags; responses reuse the domain types directly (they already marshal the
  way clients expect).

NAMING CONVENTION:
  - *Request: Request body types from clients
  - ErrorResponse: Uniform error envelope

VALIDATION:
  Struct tags (go-playground/validator) cover shape-level constraints:
  required fields, numeric ranges, length limits, date format. Semantic
  validation (frequency variants, entry/count consistency) lives in the
  habit package.

SEE ALSO:
  - handlers.go: Uses these types
  - habit/types.go: Domain types returned in responses
*/
package api

import (
	"time"

	"github.com/cadence/habit-engine/habit"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateHabitRequest is the body of POST /api/habits.
type CreateHabitRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description,omitempty" validate:"max=500"`
	Category    string          `json:"category" validate:"required,oneof=health work learning social other"`
	Frequency   habit.Frequency `json:"frequency" validate:"required"`
}

// UpdateHabitRequest is the body of PATCH /api/habits/{id}. Nil fields are
// left untouched. Archived true stamps the archive time; false clears it.
type UpdateHabitRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,oneof=health work learning social other"`
	Frequency   *habit.Frequency `json:"frequency,omitempty"`
	SortOrder   *int             `json:"sortOrder,omitempty" validate:"omitempty,min=0"`
	Archived    *bool            `json:"archived,omitempty"`
}

// CreateLogRequest is the body of POST /api/habits/{id}/logs.
type CreateLogRequest struct {
	Date      string        `json:"date" validate:"required,datefmt"`
	Count     *int          `json:"count,omitempty" validate:"omitempty,min=0"`
	Goal      *int          `json:"goal,omitempty" validate:"omitempty,min=1"`
	Completed *bool         `json:"completed,omitempty"`
	Entries   []habit.Entry `json:"entries,omitempty"`
	Note      string        `json:"note,omitempty" validate:"max=500"`
}

// UpdateLogRequest is the body of PATCH /api/habits/{id}/logs/{date}.
type UpdateLogRequest struct {
	Count     *int          `json:"count,omitempty" validate:"omitempty,min=0"`
	Goal      *int          `json:"goal,omitempty" validate:"omitempty,min=1"`
	Completed *bool         `json:"completed,omitempty"`
	Entries   []habit.Entry `json:"entries,omitempty"`
	Note      *string       `json:"note,omitempty" validate:"omitempty,max=500"`
}

// IncrementRequest is the body of POST /api/habits/{id}/logs/increment.
type IncrementRequest struct {
	Date        string `json:"date" validate:"required,datefmt"`
	IncrementBy int    `json:"incrementBy" validate:"omitempty,min=1"`
}

// AddEntryRequest is the body of POST /api/habits/{id}/logs/{date}/entries.
type AddEntryRequest struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Note      string    `json:"note,omitempty" validate:"max=200"`
}

// UpdateEntryRequest is the body of
// PATCH /api/habits/{id}/logs/{date}/entries/{entryId}.
type UpdateEntryRequest struct {
	Note string `json:"note" validate:"max=200"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// HabitsResponse wraps habit listings.
type HabitsResponse struct {
	Habits []habit.Habit `json:"habits"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
