/*
Package sqlite provides a SQLite-backed implementation of habit.Store.

PURPOSE:
  Persists habits and their per-day completion records. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  habits:     Habit definitions (frequency stored as JSON)
  habit_logs: One row per (habit_id, date) completion record; the itemized
              entry list is stored as a JSON column on the row, matching
              the record's ownership model (entries never outlive the row)

UPSERT-BY-KEY:
  habit_logs carries UNIQUE(habit_id, date); UpsertLog uses
  INSERT .. ON CONFLICT DO UPDATE so exactly one row exists per key.

CONCURRENCY:
  A sync.Mutex serializes writers, making each ledger read-modify-write
  atomic per process. With PostgreSQL, row locks or transactions would
  take over this role.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) and foreign keys on.
  Deleting a habit cascades to its habit_logs rows.

USAGE:
  store, err := sqlite.New("./data/habits.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := habit.NewLedger(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - habit/store.go: Interface definition and atomicity contract
  - habit/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cadence/habit-engine/habit"
)

// Store implements habit.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
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
	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		frequency_json TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		archived_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_habits_user
		ON habits(user_id);

	CREATE TABLE IF NOT EXISTS habit_logs (
		id TEXT PRIMARY KEY,
		habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		goal INTEGER NOT NULL DEFAULT 1,
		completed INTEGER NOT NULL DEFAULT 0,
		entries_json TEXT NOT NULL DEFAULT '[]',
		note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(habit_id, date)
	);

	-- Hot path: history fetches and range queries, newest first
	CREATE INDEX IF NOT EXISTS idx_habit_logs_habit_date
		ON habit_logs(habit_id, date DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HABITS
// =============================================================================

func (s *Store) SaveHabit(ctx context.Context, h habit.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	freq, err := json.Marshal(h.Frequency)
	if err != nil {
		return fmt.Errorf("failed to encode frequency: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO habits (id, user_id, name, description, category, frequency_json,
			sort_order, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.UserID, h.Name, nullable(h.Description), string(h.Category), string(freq),
		h.SortOrder, h.CreatedAt.Format(time.RFC3339), h.UpdatedAt.Format(time.RFC3339),
		nullableTime(h.ArchivedAt),
	)
	return err
}

func (s *Store) GetHabit(ctx context.Context, habitID string) (*habit.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, category, frequency_json,
			sort_order, created_at, updated_at, archived_at
		FROM habits WHERE id = ?`, habitID)

	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context, userID string, includeArchived bool) ([]habit.Habit, error) {
	query := `
		SELECT id, user_id, name, description, category, frequency_json,
			sort_order, created_at, updated_at, archived_at
		FROM habits WHERE user_id = ?`
	if !includeArchived {
		query += ` AND archived_at IS NULL`
	}
	query += ` ORDER BY sort_order, created_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []habit.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(ctx context.Context, h habit.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	freq, err := json.Marshal(h.Frequency)
	if err != nil {
		return fmt.Errorf("failed to encode frequency: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, description = ?, category = ?, frequency_json = ?,
			sort_order = ?, updated_at = ?, archived_at = ?
		WHERE id = ?`,
		h.Name, nullable(h.Description), string(h.Category), string(freq),
		h.SortOrder, h.UpdatedAt.Format(time.RFC3339), nullableTime(h.ArchivedAt),
		h.ID,
	)
	return err
}

func (s *Store) DeleteHabit(ctx context.Context, habitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// habit_logs rows go with it via ON DELETE CASCADE
	_, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, habitID)
	return err
}

// =============================================================================
// DAY RECORDS
// =============================================================================

func (s *Store) UpsertLog(ctx context.Context, rec habit.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := json.Marshal(rec.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO habit_logs (id, habit_id, date, count, goal, completed,
			entries_json, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			count = excluded.count,
			goal = excluded.goal,
			completed = excluded.completed,
			entries_json = excluded.entries_json,
			note = excluded.note,
			updated_at = excluded.updated_at`,
		rec.ID, rec.HabitID, rec.Date.String(), rec.Count, rec.Goal, boolToInt(rec.Completed),
		string(entries), nullable(rec.Note),
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetLog(ctx context.Context, habitID string, date habit.Date) (*habit.DayRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, habit_id, date, count, goal, completed, entries_json, note,
			created_at, updated_at
		FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date.String())

	rec, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) ListLogs(ctx context.Context, habitID string) ([]habit.DayRecord, error) {
	return s.queryLogs(ctx, `
		SELECT id, habit_id, date, count, goal, completed, entries_json, note,
			created_at, updated_at
		FROM habit_logs WHERE habit_id = ?
		ORDER BY date DESC`, habitID)
}

func (s *Store) ListLogsInRange(ctx context.Context, habitID string, from, to habit.Date) ([]habit.DayRecord, error) {
	return s.queryLogs(ctx, `
		SELECT id, habit_id, date, count, goal, completed, entries_json, note,
			created_at, updated_at
		FROM habit_logs WHERE habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date DESC`, habitID, from.String(), to.String())
}

func (s *Store) DeleteLog(ctx context.Context, habitID string, date habit.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM habit_logs WHERE habit_id = ? AND date = ?`,
		habitID, date.String())
	return err
}

func (s *Store) queryLogs(ctx context.Context, query string, args ...any) ([]habit.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []habit.DayRecord
	for rows.Next() {
		rec, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (*habit.Habit, error) {
	var (
		h          habit.Habit
		desc       sql.NullString
		category   string
		freqJSON   string
		createdAt  string
		updatedAt  string
		archivedAt sql.NullString
	)
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &desc, &category, &freqJSON,
		&h.SortOrder, &createdAt, &updatedAt, &archivedAt)
	if err != nil {
		return nil, err
	}

	h.Description = desc.String
	h.Category = habit.Category(category)
	if err := json.Unmarshal([]byte(freqJSON), &h.Frequency); err != nil {
		return nil, fmt.Errorf("failed to decode frequency: %w", err)
	}
	if h.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if h.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}
	if archivedAt.Valid {
		t, err := time.Parse(time.RFC3339, archivedAt.String)
		if err != nil {
			return nil, err
		}
		h.ArchivedAt = &t
	}
	return &h, nil
}

func scanLog(row scanner) (*habit.DayRecord, error) {
	var (
		rec         habit.DayRecord
		dateStr     string
		completed   int
		entriesJSON string
		note        sql.NullString
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(&rec.ID, &rec.HabitID, &dateStr, &rec.Count, &rec.Goal,
		&completed, &entriesJSON, &note, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if rec.Date, err = habit.ParseDate(dateStr); err != nil {
		return nil, err
	}
	rec.Completed = completed != 0
	if err := json.Unmarshal([]byte(entriesJSON), &rec.Entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	if rec.Entries == nil {
		rec.Entries = []habit.Entry{}
	}
	rec.Note = note.String
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
