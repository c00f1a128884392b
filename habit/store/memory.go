// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cadence/habit-engine/habit"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	habits map[string]habit.Habit
	logs   map[logKey]habit.DayRecord
}

type logKey struct {
	HabitID string
	Date    string
}

func NewMemory() *Memory {
	return &Memory{
		habits: make(map[string]habit.Habit),
		logs:   make(map[logKey]habit.DayRecord),
	}
}

// =============================================================================
// HABITS
// =============================================================================

func (m *Memory) SaveHabit(_ context.Context, h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.habits[h.ID] = h
	return nil
}

func (m *Memory) GetHabit(_ context.Context, habitID string) (*habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[habitID]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (m *Memory) ListHabits(_ context.Context, userID string, includeArchived bool) ([]habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []habit.Habit
	for _, h := range m.habits {
		if h.UserID != userID {
			continue
		}
		if h.Archived() && !includeArchived {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) UpdateHabit(_ context.Context, h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.habits[h.ID] = h
	return nil
}

func (m *Memory) DeleteHabit(_ context.Context, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.habits, habitID)
	// Cascade to day records
	for k := range m.logs {
		if k.HabitID == habitID {
			delete(m.logs, k)
		}
	}
	return nil
}

// =============================================================================
// DAY RECORDS
// =============================================================================

func (m *Memory) UpsertLog(_ context.Context, rec habit.DayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[logKey{HabitID: rec.HabitID, Date: rec.Date.String()}] = rec
	return nil
}

func (m *Memory) GetLog(_ context.Context, habitID string, date habit.Date) (*habit.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.logs[logKey{HabitID: habitID, Date: date.String()}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) ListLogs(_ context.Context, habitID string) ([]habit.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(habitID, nil, nil), nil
}

func (m *Memory) ListLogsInRange(_ context.Context, habitID string, from, to habit.Date) ([]habit.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(habitID, &from, &to), nil
}

func (m *Memory) DeleteLog(_ context.Context, habitID string, date habit.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logs, logKey{HabitID: habitID, Date: date.String()})
	return nil
}

// collect returns a habit's records date-descending, optionally windowed.
// Callers hold the lock.
func (m *Memory) collect(habitID string, from, to *habit.Date) []habit.DayRecord {
	var out []habit.DayRecord
	for k, rec := range m.logs {
		if k.HabitID != habitID {
			continue
		}
		if from != nil && rec.Date.Before(*from) {
			continue
		}
		if to != nil && rec.Date.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}
