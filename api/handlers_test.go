package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadence/habit-engine/habit"
	"github.com/cadence/habit-engine/habit/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	return NewRouter(NewHandler(store.NewMemory()))
}

func doRequest(t *testing.T, router *chi.Mux, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out), "body: %s", rr.Body.String())
	return out
}

func createHabit(t *testing.T, router *chi.Mux, userID string) habit.Habit {
	t.Helper()
	rr := doRequest(t, router, http.MethodPost, "/api/habits", userID, map[string]any{
		"name":     "Drink water",
		"category": "health",
		"frequency": map[string]any{
			"type":        "daily",
			"timesPerDay": 8,
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())
	return decode[habit.Habit](t, rr)
}

// =============================================================================
// HABIT ROUTES
// =============================================================================

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(t, router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHabitRoutesRequireIdentity(t *testing.T) {
	router := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/habits"},
		{http.MethodPost, "/api/habits"},
		{http.MethodGet, "/api/habits/h1"},
		{http.MethodPatch, "/api/habits/h1"},
		{http.MethodDelete, "/api/habits/h1"},
	} {
		rr := doRequest(t, router, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCreateAndListHabits(t *testing.T) {
	router := newTestRouter(t)

	created := createHabit(t, router, "user-1")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, 8, created.Frequency.TimesPerDay)

	rr := doRequest(t, router, http.MethodGet, "/api/habits", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	listing := decode[HabitsResponse](t, rr)
	require.Len(t, listing.Habits, 1)
	assert.Equal(t, created.ID, listing.Habits[0].ID)

	// Another user sees an empty list, not an error
	rr = doRequest(t, router, http.MethodGet, "/api/habits", "user-2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[HabitsResponse](t, rr).Habits)
}

func TestCreateHabit_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	// Missing name
	rr := doRequest(t, router, http.MethodPost, "/api/habits", "user-1", map[string]any{
		"category":  "health",
		"frequency": map[string]any{"type": "daily", "timesPerDay": 1},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Frequency out of range survives tag validation but fails in the domain
	rr = doRequest(t, router, http.MethodPost, "/api/habits", "user-1", map[string]any{
		"name":      "Overdo it",
		"category":  "health",
		"frequency": map[string]any{"type": "daily", "timesPerDay": 99},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetHabit_NotFoundAndCrossUser(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")

	rr := doRequest(t, router, http.MethodGet, "/api/habits/nope", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/api/habits/"+created.ID, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code, "cross-user access reads as absence")
}

func TestArchiveViaPatch(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")

	rr := doRequest(t, router, http.MethodPatch, "/api/habits/"+created.ID, "user-1",
		map[string]any{"archived": true})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, decode[habit.Habit](t, rr).ArchivedAt)

	rr = doRequest(t, router, http.MethodPatch, "/api/habits/"+created.ID, "user-1",
		map[string]any{"archived": false})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[habit.Habit](t, rr).ArchivedAt)
}

func TestDeleteHabit(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")

	rr := doRequest(t, router, http.MethodDelete, "/api/habits/"+created.ID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/api/habits/"+created.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// =============================================================================
// LOG ROUTES
// =============================================================================

func TestLogLifecycle(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")
	logsPath := "/api/habits/" + created.ID + "/logs"

	// Create with an explicit count. Log routes carry no identity header.
	rr := doRequest(t, router, http.MethodPost, logsPath, "", map[string]any{
		"date":  "2025-03-10",
		"count": 3,
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())
	rec := decode[habit.DayRecord](t, rr)
	assert.Equal(t, 3, rec.Count)
	assert.Equal(t, 8, rec.Goal)
	assert.False(t, rec.Completed)

	// Increment to the goal
	rr = doRequest(t, router, http.MethodPost, logsPath+"/increment", "", map[string]any{
		"date":        "2025-03-10",
		"incrementBy": 5,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	rec = decode[habit.DayRecord](t, rr)
	assert.Equal(t, 8, rec.Count)
	assert.True(t, rec.Completed)

	// Field-level overwrite
	rr = doRequest(t, router, http.MethodPatch, logsPath+"/2025-03-10", "", map[string]any{
		"note": "long run",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "long run", decode[habit.DayRecord](t, rr).Note)

	// History listing
	rr = doRequest(t, router, http.MethodGet, logsPath, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	logs := decode[[]habit.DayRecord](t, rr)
	require.Len(t, logs, 1)

	// Delete, twice: idempotent
	rr = doRequest(t, router, http.MethodDelete, logsPath+"/2025-03-10", "", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = doRequest(t, router, http.MethodDelete, logsPath+"/2025-03-10", "", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestIncrementDefaultsToOne(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")

	rr := doRequest(t, router, http.MethodPost, "/api/habits/"+created.ID+"/logs/increment", "",
		map[string]any{"date": "2025-03-10"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[habit.DayRecord](t, rr).Count)
}

func TestLogErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")
	logsPath := "/api/habits/" + created.ID + "/logs"

	// Malformed date: 400
	rr := doRequest(t, router, http.MethodPost, logsPath, "", map[string]any{"date": "10-03-2025"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown habit: 404
	rr = doRequest(t, router, http.MethodPost, "/api/habits/nope/logs", "", map[string]any{"date": "2025-03-10"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Overwrite on a missing record: 404
	rr = doRequest(t, router, http.MethodPatch, logsPath+"/2025-03-10", "", map[string]any{"count": 1})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStatsQuery(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")
	logsPath := "/api/habits/" + created.ID + "/logs"

	rr := doRequest(t, router, http.MethodPost, logsPath, "", map[string]any{
		"date":  "2025-03-10",
		"count": 8,
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, router, http.MethodGet, logsPath+"?stats=true", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	report := decode[habit.StatsReport](t, rr)
	assert.Equal(t, created.ID, report.HabitID)
	require.Len(t, report.Logs, 1)
	assert.Equal(t, 1, report.TotalCompletions)
	assert.GreaterOrEqual(t, report.LongestStreak, 1)
}

// =============================================================================
// ENTRY ROUTES
// =============================================================================

func TestEntryLifecycle(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")
	entriesPath := "/api/habits/" + created.ID + "/logs/2025-03-10/entries"

	// First entry creates the day's record
	rr := doRequest(t, router, http.MethodPost, entriesPath, "", map[string]any{
		"timestamp": "2025-03-10T09:00:00Z",
		"note":      "morning glass",
	})
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())
	rec := decode[habit.DayRecord](t, rr)
	require.Len(t, rec.Entries, 1)
	assert.Equal(t, 1, rec.Count)
	entryID := rec.Entries[0].ID

	// Edit the note
	rr = doRequest(t, router, http.MethodPatch, entriesPath+"/"+entryID, "",
		map[string]any{"note": "first glass"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "first glass", decode[habit.DayRecord](t, rr).Entries[0].Note)

	// Remove the newest entry
	rr = doRequest(t, router, http.MethodDelete, entriesPath+"/last", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rec = decode[habit.DayRecord](t, rr)
	assert.Empty(t, rec.Entries)
	assert.Equal(t, 0, rec.Count)

	// Removing again conflicts with the now-empty entry list
	rr = doRequest(t, router, http.MethodDelete, entriesPath+"/last", "", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestEntryErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	created := createHabit(t, router, "user-1")
	entriesPath := "/api/habits/" + created.ID + "/logs/2025-03-10/entries"

	// No record for the day yet: 404
	rr := doRequest(t, router, http.MethodDelete, entriesPath+"/last", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Unknown entry ID on an existing record: 404
	rr = doRequest(t, router, http.MethodPost, entriesPath, "",
		map[string]any{"timestamp": "2025-03-10T09:00:00Z"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, router, http.MethodDelete, entriesPath+"/bogus", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
