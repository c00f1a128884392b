/*
ledger.go - Completion ledger: per-day record mutation with consistency rules

PURPOSE:
  The Ledger owns the DayRecord for each (habitID, date) pair: creating it,
  incrementing its count, appending/removing/editing itemized entries, and
  overwriting fields directly. Every operation leaves the record satisfying
  the central invariant: Completed == (Count >= Goal).

TWO MUTATION PATHS FOR COUNT:
  1. Entry-synchronized: AddEntry, RemoveLastEntry, DeleteEntry move Count
     and the entry list together, exactly 1:1. Starting from an empty day
     and using only these operations, Count == len(Entries) always holds.
  2. Direct: CreateOrReplace, Increment, Overwrite write Count without
     touching entries. Count is the authoritative aggregate; entries are
     informational itemization and are NOT reconciled on this path.
  Both paths recompute Completed.

LEGACY BOOLEAN INPUT:
  CreateOrReplace still accepts a bare completed flag and maps it onto the
  count model: true -> count = goal, false -> count = 0. Completed is then
  derived from count like everywhere else.

GOAL DEFAULTING:
  When no explicit goal is supplied at creation, the goal is computed from
  the habit's frequency (see goal.go). A computed 0 means "not scheduled
  today"; the incremental paths treat such a record as having a goal of 1
  so a single completion still marks the day complete.

CONCURRENCY:
  Each operation is a read-then-write against one (habitID, date) key.
  Per-key serialization is the Store's responsibility; two concurrent
  Increments against the same key are a lost-update hazard without it.

SEE ALSO:
  - store.go: Persistence interface and its atomicity contract
  - goal.go: Goal derivation
  - stats.go: Statistics over ledger output
*/
package habit

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger provides all DayRecord operations for habits backed by a Store.
// Stateless between calls: the only process-wide state is the store handle.
type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// =============================================================================
// CREATE / REPLACE
// =============================================================================

// CreateOrReplace creates the record for (habitID, input.Date), or fully
// overwrites it if one exists. Count derivation precedence:
//
//	explicit Count > legacy Completed flag (goal or 0) > default 1
//
// The default of 1 means "one completion just happened". Goal defaults to
// the frequency-derived target for that date. Completed is always
// recomputed as count >= goal regardless of how count was derived.
func (l *Ledger) CreateOrReplace(ctx context.Context, habitID string, input CreateLogInput) (*DayRecord, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := validateEntryNotes(input.Entries); err != nil {
		return nil, err
	}
	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	h, err := l.store.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, &NotFoundError{HabitID: habitID, Kind: ErrHabitNotFound}
	}

	goal := GoalFor(*h, date).TargetOrZero()
	if input.Goal != nil {
		goal = *input.Goal
	}

	var count int
	switch {
	case input.Count != nil:
		count = *input.Count
	case input.Completed != nil:
		if *input.Completed {
			count = goal
		}
	default:
		count = 1
	}

	entries := input.Entries
	if entries == nil {
		entries = []Entry{}
	}

	now := time.Now().UTC()
	rec := DayRecord{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Date:      date,
		Count:     count,
		Goal:      goal,
		Completed: IsCompleted(count, goal),
		Entries:   entries,
		Note:      input.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := l.store.GetLog(ctx, habitID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	}

	if err := l.store.UpsertLog(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// =============================================================================
// INCREMENT
// =============================================================================

// Increment adds by to the day's count without touching entries. If no
// record exists yet, one is created with count = by.
func (l *Ledger) Increment(ctx context.Context, habitID, dateStr string, by int) (*DayRecord, error) {
	if by < 1 {
		return nil, &ValidationError{Field: "incrementBy", Reason: "must be at least 1"}
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	rec, err := l.store.GetLog(ctx, habitID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return l.CreateOrReplace(ctx, habitID, CreateLogInput{Date: dateStr, Count: &by})
	}

	rec.Count += by
	rec.Completed = IsCompleted(rec.Count, effectiveGoal(rec.Goal))
	rec.UpdatedAt = time.Now().UTC()

	if err := l.store.UpsertLog(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// =============================================================================
// ENTRY OPERATIONS - The count-synchronized path
// =============================================================================

// AddEntry appends a timestamped entry and increments count by exactly 1.
// One entry == one count unit on this path. If no record exists for the
// day, one is created holding the single entry with count = 1.
func (l *Ledger) AddEntry(ctx context.Context, habitID, dateStr string, input EntryInput) (*DayRecord, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if len(input.Note) > 200 {
		return nil, &ValidationError{Field: "note", Reason: "must be 200 characters or less"}
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Timestamp: input.Timestamp,
		Note:      input.Note,
	}

	rec, err := l.store.GetLog(ctx, habitID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		one := 1
		return l.CreateOrReplace(ctx, habitID, CreateLogInput{
			Date:    dateStr,
			Count:   &one,
			Entries: []Entry{entry},
		})
	}

	rec.Entries = append(rec.Entries, entry)
	rec.Count++
	rec.Completed = IsCompleted(rec.Count, effectiveGoal(rec.Goal))
	rec.UpdatedAt = time.Now().UTC()

	if err := l.store.UpsertLog(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RemoveLastEntry removes the entry with the latest timestamp and decrements
// count by 1, floored at 0. Fails with ErrLogNotFound when no record exists
// and ErrNoEntries when the record has an empty entry list.
func (l *Ledger) RemoveLastEntry(ctx context.Context, habitID, dateStr string) (*DayRecord, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	rec, err := l.store.GetLog(ctx, habitID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{HabitID: habitID, Date: dateStr, Kind: ErrLogNotFound}
	}
	if len(rec.Entries) == 0 {
		return nil, ErrNoEntries
	}

	// Newest first, then drop the head. The stored order is not meaningful,
	// so keeping the remainder timestamp-sorted is fine.
	sorted := make([]Entry, len(rec.Entries))
	copy(sorted, rec.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	rec.Entries = sorted[1:]

	if rec.Count > 0 {
		rec.Count--
	}
	rec.Completed = IsCompleted(rec.Count, effectiveGoal(rec.Goal))
	rec.UpdatedAt = time.Now().UTC()

	if err := l.store.UpsertLog(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateEntry replaces the note on one entry. Count and goal are untouched.
func (l *Ledger) UpdateEntry(ctx context.Context, habitID, dateStr, entryID, note string) (*DayRecord, error) {
	if len(note) > 200 {
		return nil, &ValidationError{Field: "note", Reason: "must be 200 characters or less"}
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	rec, err := l.store.GetLog(ctx, habitID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{HabitID: habitID, Date: dateStr, Kind: ErrLogNotFound}
	}

	found := false
	for i := range rec.Entries {
		if rec.Entries[i].ID == entryID {
			rec.Entries[i].Note = note
			found = true
			break
		}
	}
	if !found {
		return nil, &NotFoundError{HabitID: habitID, Date: dateStr, EntryID: entryID, Kind: ErrEntryNotFound}
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := l.store.UpsertLog(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteEntry removes one entry by ID and decrements count by 1, floored at 0.
func (l *Ledger) DeleteEntry(ctx context.Context, habitID, dateStr, entryID string) (*DayRecord, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	rec, err := l.store.GetLog(ctx, habitID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{HabitID: habitID, Date: dateStr, Kind: ErrLogNotFound}
	}

	remaining := rec.Entries[:0:0]
	for _, e := range rec.Entries {
		if e.ID != entryID {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == len(rec.Entries) {
		return nil, &NotFoundError{HabitID: habitID, Date: dateStr, EntryID: entryID, Kind: ErrEntryNotFound}
	}
	rec.Entries = remaining

	if rec.Count > 0 {
		rec.Count--
	}
	rec.Completed = IsCompleted(rec.Count, effectiveGoal(rec.Goal))
	rec.UpdatedAt = time.Now().UTC()

	if err := l.store.UpsertLog(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// =============================================================================
// OVERWRITE / DELETE
// =============================================================================

// Overwrite applies a direct field-level update to an existing record.
// Nil fields are untouched. When Count is present and Goal is not, the
// record's existing goal is used to recompute Completed; an explicit
// Completed flag is only honored when Count is absent (count wins).
func (l *Ledger) Overwrite(ctx context.Context, habitID, dateStr string, input UpdateLogInput) (*DayRecord, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := validateEntryNotes(input.Entries); err != nil {
		return nil, err
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}

	rec, err := l.store.GetLog(ctx, habitID, date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{HabitID: habitID, Date: dateStr, Kind: ErrLogNotFound}
	}

	if input.Goal != nil {
		rec.Goal = *input.Goal
	}
	if input.Count != nil {
		rec.Count = *input.Count
		goal := rec.Goal
		if input.Goal == nil {
			goal = effectiveGoal(rec.Goal)
		}
		rec.Completed = IsCompleted(rec.Count, goal)
	} else if input.Completed != nil {
		// Legacy passthrough when count is not part of the update.
		rec.Completed = *input.Completed
	}
	if input.Entries != nil {
		rec.Entries = input.Entries
	}
	if input.Note != nil {
		rec.Note = *input.Note
	}

	rec.UpdatedAt = time.Now().UTC()
	if err := l.store.UpsertLog(ctx, *rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record for (habitID, date). Idempotent: deleting an
// absent record is a no-op, not an error.
func (l *Ledger) Delete(ctx context.Context, habitID, dateStr string) error {
	date, err := ParseDate(dateStr)
	if err != nil {
		return &ValidationError{Field: "date", Reason: err.Error()}
	}
	return l.store.DeleteLog(ctx, habitID, date)
}

// =============================================================================
// QUERIES
// =============================================================================

// GetAll returns every record for a habit, date descending.
func (l *Ledger) GetAll(ctx context.Context, habitID string) ([]DayRecord, error) {
	return l.store.ListLogs(ctx, habitID)
}

// GetRange returns the records with start <= date <= end, date descending.
func (l *Ledger) GetRange(ctx context.Context, habitID, startStr, endStr string) ([]DayRecord, error) {
	start, err := ParseDate(startStr)
	if err != nil {
		return nil, &ValidationError{Field: "start", Reason: err.Error()}
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return nil, &ValidationError{Field: "end", Reason: err.Error()}
	}
	return l.store.ListLogsInRange(ctx, habitID, start, end)
}

// GetToday returns today's record for a habit, or (nil, nil) if none exists.
func (l *Ledger) GetToday(ctx context.Context, habitID string) (*DayRecord, error) {
	return l.store.GetLog(ctx, habitID, Today())
}

func validateEntryNotes(entries []Entry) error {
	for _, e := range entries {
		if len(e.Note) > 200 {
			return &ValidationError{Field: "entries", Reason: "entry note must be 200 characters or less"}
		}
	}
	return nil
}
