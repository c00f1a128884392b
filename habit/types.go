/*
Package habit provides the core habit-completion accounting engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking habit
  completions: converting a habit's frequency configuration into per-day
  goals, maintaining per-day completion records (count, goal, itemized
  entries), and deriving streak and completion-rate statistics.

KEY CONCEPTS IN THIS FILE (types.go):
  - Habit: A user-defined recurring activity with a frequency configuration
  - Frequency: Closed sum type over daily/weekly/custom scheduling variants
  - DayRecord: The per-(habit, date) completion record ("habit log")
  - Entry: One timestamped instance of progress within a DayRecord
  - DaySummary: The (date, completed) projection used by streak analysis

DESIGN PRINCIPLES:
  1. Consistency: completed is ALWAYS derived as count >= goal, never stored
     independently (the legacy boolean input is mapped onto count first)
  2. Closed variants: Frequency is a tagged union switched exhaustively in
     one place (goal.go); adding a frequency kind is a single-file change
  3. Count authority: count is the authoritative aggregate; entries are
     itemized detail that stays 1:1 with count only on the entry-mutating
     paths (see ledger.go)

USAGE:
  freq := habit.Frequency{Kind: habit.FrequencyDaily, TimesPerDay: 3}
  h := habit.Habit{ID: "habit-1", Frequency: freq}
  goal := habit.GoalFor(h, habit.Today())

SEE ALSO:
  - goal.go: Per-day goal derivation from frequency
  - ledger.go: DayRecord mutation operations
  - streak.go: Streak and completion-rate analysis
  - stats.go: Combined statistics report
*/
package habit

import (
	"time"
)

// =============================================================================
// FREQUENCY - Tagged union over scheduling variants
// =============================================================================

type FrequencyKind string

const (
	// FrequencyDaily targets TimesPerDay completions every day.
	FrequencyDaily FrequencyKind = "daily"
	// FrequencyWeekly targets TimesPerDay completions on the listed weekdays only.
	FrequencyWeekly FrequencyKind = "weekly"
	// FrequencyCustom spreads TargetDays active days across a PerWeeks*7-day
	// rolling period anchored to day-of-year.
	FrequencyCustom FrequencyKind = "custom"
)

// Frequency is a tagged union: exactly one variant is active, selected by Kind.
// Only the fields belonging to the active variant are meaningful.
type Frequency struct {
	Kind FrequencyKind `json:"type"`

	// daily, weekly
	TimesPerDay int `json:"timesPerDay,omitempty"`

	// weekly: day-of-week members, 0=Sunday..6=Saturday
	DaysOfWeek []int `json:"daysOfWeek,omitempty"`

	// custom
	TargetDays int `json:"targetDays,omitempty"`
	PerWeeks   int `json:"perWeeks,omitempty"`
}

// Validate checks that the active variant's fields are in range.
func (f Frequency) Validate() error {
	switch f.Kind {
	case FrequencyDaily:
		if f.TimesPerDay < 1 || f.TimesPerDay > 10 {
			return &ValidationError{Field: "timesPerDay", Reason: "must be between 1 and 10"}
		}
	case FrequencyWeekly:
		if f.TimesPerDay < 1 || f.TimesPerDay > 10 {
			return &ValidationError{Field: "timesPerDay", Reason: "must be between 1 and 10"}
		}
		if len(f.DaysOfWeek) == 0 {
			return &ValidationError{Field: "daysOfWeek", Reason: "select at least one day"}
		}
		for _, d := range f.DaysOfWeek {
			if d < 0 || d > 6 {
				return &ValidationError{Field: "daysOfWeek", Reason: "days must be between 0 and 6"}
			}
		}
	case FrequencyCustom:
		if f.TargetDays < 1 || f.TargetDays > 365 {
			return &ValidationError{Field: "targetDays", Reason: "must be between 1 and 365"}
		}
		if f.PerWeeks < 1 || f.PerWeeks > 52 {
			return &ValidationError{Field: "perWeeks", Reason: "must be between 1 and 52"}
		}
	default:
		return &ValidationError{Field: "type", Reason: "must be daily, weekly, or custom"}
	}
	return nil
}

// =============================================================================
// HABIT
// =============================================================================

type Category string

const (
	CategoryHealth   Category = "health"
	CategoryWork     Category = "work"
	CategoryLearning Category = "learning"
	CategorySocial   Category = "social"
	CategoryOther    Category = "other"
)

// Habit is a user-defined recurring activity. The completion engine consumes
// habits read-only; only ID and Frequency matter to the accounting logic.
type Habit struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    Category   `json:"category"`
	Frequency   Frequency  `json:"frequency"`
	SortOrder   int        `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

// Archived reports whether the habit has been soft-deleted.
func (h Habit) Archived() bool { return h.ArchivedAt != nil }

// =============================================================================
// DAY RECORD - Per-(habit, date) completion record
// =============================================================================

// Entry is one timestamped instance of progress toward a day's goal.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// DayRecord is the unit of completion accounting, unique per (HabitID, Date).
//
// INVARIANTS:
//   - Completed always equals Count >= Goal after any mutation.
//   - On the entry-synchronized mutation paths (AddEntry, RemoveLastEntry,
//     DeleteEntry), Count stays equal to len(Entries). Direct Count writes
//     (Overwrite, Increment, legacy boolean input) may diverge: Count is the
//     authoritative aggregate, Entries are informational itemization.
type DayRecord struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habitId"`
	Date      Date      `json:"date"`
	Count     int       `json:"count"`
	Goal      int       `json:"goal"`
	Completed bool      `json:"completed"`
	Entries   []Entry   `json:"entries"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary projects the record down to the shape streak analysis needs.
func (r DayRecord) Summary() DaySummary {
	return DaySummary{Date: r.Date, Completed: r.Completed}
}

// DaySummary is the (date, completed) pair consumed by the streak and
// completion-rate functions.
type DaySummary struct {
	Date      Date
	Completed bool
}

// =============================================================================
// LEDGER INPUTS
// =============================================================================

// CreateLogInput describes a createOrReplace operation. Count, Completed and
// Goal are optional; precedence for deriving the stored count is:
// explicit Count > legacy Completed boolean (goal or 0) > default 1.
type CreateLogInput struct {
	Date      string  `validate:"required"`
	Count     *int    `validate:"omitempty,min=0"`
	Goal      *int    `validate:"omitempty,min=1"`
	Completed *bool   `validate:"-"`
	Entries   []Entry `validate:"omitempty,dive"`
	Note      string  `validate:"max=500"`
}

// UpdateLogInput describes a direct field-level overwrite. Nil fields are
// left untouched.
type UpdateLogInput struct {
	Count     *int    `validate:"omitempty,min=0"`
	Goal      *int    `validate:"omitempty,min=1"`
	Completed *bool   `validate:"-"`
	Entries   []Entry `validate:"omitempty,dive"`
	Note      *string `validate:"omitempty,max=500"`
}

// EntryInput describes a new entry; the ledger assigns the ID.
type EntryInput struct {
	Timestamp time.Time `validate:"required"`
	Note      string    `validate:"max=200"`
}

// =============================================================================
// HABIT SERVICE INPUTS
// =============================================================================

type CreateHabitInput struct {
	Name        string    `validate:"required,max=100"`
	Description string    `validate:"max=500"`
	Category    Category  `validate:"required,oneof=health work learning social other"`
	Frequency   Frequency `validate:"required"`
}

type UpdateHabitInput struct {
	Name        *string    `validate:"omitempty,min=1,max=100"`
	Description *string    `validate:"omitempty,max=500"`
	Category    *Category  `validate:"omitempty,oneof=health work learning social other"`
	Frequency   *Frequency `validate:"-"`
	SortOrder   *int       `validate:"omitempty,min=0"`
	ArchivedAt  *time.Time `validate:"-"`
	// ClearArchived un-archives the habit; ArchivedAt is ignored when set.
	ClearArchived bool `validate:"-"`
}

// =============================================================================
// STATISTICS REPORT
// =============================================================================

// StatsReport combines a habit's full log history with derived statistics.
type StatsReport struct {
	HabitID             string      `json:"habitId"`
	Logs                []DayRecord `json:"logs"`
	CurrentStreak       int         `json:"currentStreak"`
	LongestStreak       int         `json:"longestStreak"`
	CompletionRate7Day  float64     `json:"completionRate7Day"`
	CompletionRate30Day float64     `json:"completionRate30Day"`
	TotalCompletions    int         `json:"totalCompletions"`
}
