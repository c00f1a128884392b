/*
store.go - Persistence interface for habits and day records

PURPOSE:
  Defines the interface between the engine and the database. Different
  implementations can use SQLite or in-memory storage.

UPSERT-BY-KEY CONTRACT:
  A DayRecord is exclusively owned by its (habitID, date) pair; only one
  record may exist per pair. UpsertLog replaces the whole row on conflict.

ATOMICITY:
  Every ledger mutation is a read-then-write sequence against one
  (habitID, date) key. The Store implementation must serialize concurrent
  writers on that key (row lock, transaction, or a coarse mutex); the
  engine assumes this and does not re-implement it in-process.

ABSENCE:
  GetHabit and GetLog return (nil, nil) when the row does not exist.
  Translating absence into ErrHabitNotFound / ErrLogNotFound is the
  ledger's job, not the store's.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - habit/store:  In-memory for testing

SEE ALSO:
  - ledger.go: Higher-level operations using Store
  - service.go: Habit CRUD using Store
*/
package habit

import "context"

// Store handles persistence of habits and their day records.
type Store interface {
	// SaveHabit inserts a habit.
	SaveHabit(ctx context.Context, h Habit) error

	// GetHabit returns a habit by ID, or (nil, nil) if absent.
	GetHabit(ctx context.Context, habitID string) (*Habit, error)

	// ListHabits returns a user's habits ordered by sort order then creation
	// time. Archived habits are excluded unless includeArchived is set.
	ListHabits(ctx context.Context, userID string, includeArchived bool) ([]Habit, error)

	// UpdateHabit overwrites a habit row.
	UpdateHabit(ctx context.Context, h Habit) error

	// DeleteHabit removes a habit and cascades to its day records.
	DeleteHabit(ctx context.Context, habitID string) error

	// UpsertLog inserts or fully replaces the record for (rec.HabitID, rec.Date).
	UpsertLog(ctx context.Context, rec DayRecord) error

	// GetLog returns the record for (habitID, date), or (nil, nil) if absent.
	GetLog(ctx context.Context, habitID string, date Date) (*DayRecord, error)

	// ListLogs returns all records for a habit, ordered by date descending.
	ListLogs(ctx context.Context, habitID string) ([]DayRecord, error)

	// ListLogsInRange returns records with from <= date <= to, date descending.
	ListLogsInRange(ctx context.Context, habitID string, from, to Date) ([]DayRecord, error)

	// DeleteLog removes the record for (habitID, date). Deleting an absent
	// record is not an error.
	DeleteLog(ctx context.Context, habitID string, date Date) error
}
