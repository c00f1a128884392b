/*
handlers.go - HTTP API handlers for the habit tracking engine

PURPOSE:
  Exposes the habit engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Habits:
    GET    /api/habits                 List habits (?includeArchived=true)
    POST   /api/habits                 Create habit
    GET    /api/habits/{id}            Get habit
    PATCH  /api/habits/{id}            Update habit (incl. archive/unarchive)
    DELETE /api/habits/{id}            Delete habit and its logs

  Logs:
    GET    /api/habits/{id}/logs       List logs (?stats=true, ?start=&end=)
    POST   /api/habits/{id}/logs       Create or replace a day's log
    POST   /api/habits/{id}/logs/increment        Bump a day's count
    PATCH  /api/habits/{id}/logs/{date}           Field-level overwrite
    DELETE /api/habits/{id}/logs/{date}           Delete a day's log

  Entries:
    POST   /api/habits/{id}/logs/{date}/entries            Add entry
    DELETE /api/habits/{id}/logs/{date}/entries/last       Remove newest entry
    PATCH  /api/habits/{id}/logs/{date}/entries/{entryId}  Edit entry note
    DELETE /api/habits/{id}/logs/{date}/entries/{entryId}  Delete entry

IDENTITY:
  Habit definition routes require an X-User-Id header; there is no real
  authentication yet, the header is a placeholder for an auth provider.
  Log and entry routes operate purely on the habit ID - the engine is
  user-agnostic by design.

ERROR HANDLING:
  Domain error kinds map to HTTP status:
  - Validation errors             -> 400
  - Missing identity header       -> 401
  - Habit / log / entry not found -> 404
  - Invalid state (no entries)    -> 409
  - Everything else               -> 500

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - habit/errors.go: Error kinds and predicates
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cadence/habit-engine/habit"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Habits *habit.Service
	Ledger *habit.Ledger

	validate *validator.Validate
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store habit.Store) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	// YYYY-MM-DD shape check for date fields
	_ = v.RegisterValidation("datefmt", func(fl validator.FieldLevel) bool {
		_, err := habit.ParseDate(fl.Field().String())
		return err == nil
	})

	return &Handler{
		Habits:   habit.NewService(store),
		Ledger:   habit.NewLedger(store),
		validate: v,
	}
}

// decodeAndValidate parses the JSON body into dst and runs tag validation.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

// userID extracts the placeholder identity header.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

// =============================================================================
// HABIT HANDLERS
// =============================================================================

// ListHabits returns the caller's habits.
func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	includeArchived := r.URL.Query().Get("includeArchived") == "true"
	habits, err := h.Habits.List(r.Context(), uid, includeArchived)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list habits", err)
		return
	}
	if habits == nil {
		habits = []habit.Habit{}
	}

	writeJSON(w, http.StatusOK, HabitsResponse{Habits: habits})
}

// CreateHabit creates a new habit for the caller.
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req CreateHabitRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.Habits.Create(r.Context(), uid, habit.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    habit.Category(req.Category),
		Frequency:   req.Frequency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetHabit returns a single habit.
func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	found, err := h.Habits.Get(r.Context(), chi.URLParam(r, "id"), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// UpdateHabit applies a partial update to a habit.
func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req UpdateHabitRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input := habit.UpdateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		SortOrder:   req.SortOrder,
	}
	if req.Category != nil {
		cat := habit.Category(*req.Category)
		input.Category = &cat
	}
	if req.Archived != nil {
		if *req.Archived {
			now := time.Now().UTC()
			input.ArchivedAt = &now
		} else {
			input.ClearArchived = true
		}
	}

	updated, err := h.Habits.Update(r.Context(), chi.URLParam(r, "id"), uid, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteHabit permanently deletes a habit and its logs.
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	if err := h.Habits.Delete(r.Context(), chi.URLParam(r, "id"), uid); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LOG HANDLERS
// =============================================================================

// ListLogs returns a habit's log history. With ?stats=true the response is
// the combined statistics report; with ?start=&end= the history is windowed.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "id")
	q := r.URL.Query()

	if q.Get("stats") == "true" {
		report, err := h.Ledger.GetWithStats(r.Context(), habitID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
		return
	}

	var (
		logs []habit.DayRecord
		err  error
	)
	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		logs, err = h.Ledger.GetRange(r.Context(), habitID, start, end)
	} else {
		logs, err = h.Ledger.GetAll(r.Context(), habitID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if logs == nil {
		logs = []habit.DayRecord{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// CreateLog creates or fully replaces the log for one date.
func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var req CreateLogRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.Ledger.CreateOrReplace(r.Context(), chi.URLParam(r, "id"), habit.CreateLogInput{
		Date:      req.Date,
		Count:     req.Count,
		Goal:      req.Goal,
		Completed: req.Completed,
		Entries:   req.Entries,
		Note:      req.Note,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// IncrementLog bumps a day's count, creating the log if needed.
func (h *Handler) IncrementLog(w http.ResponseWriter, r *http.Request) {
	var req IncrementRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.IncrementBy == 0 {
		req.IncrementBy = 1
	}

	rec, err := h.Ledger.Increment(r.Context(), chi.URLParam(r, "id"), req.Date, req.IncrementBy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateLog applies a direct field-level update to an existing log.
func (h *Handler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	var req UpdateLogRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.Ledger.Overwrite(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "date"), habit.UpdateLogInput{
		Count:     req.Count,
		Goal:      req.Goal,
		Completed: req.Completed,
		Entries:   req.Entries,
		Note:      req.Note,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteLog removes the log for one date. Idempotent.
func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	err := h.Ledger.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "date"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// AddEntry appends a timestamped entry to a day's log.
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.Ledger.AddEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "date"), habit.EntryInput{
		Timestamp: req.Timestamp,
		Note:      req.Note,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// RemoveLastEntry removes the entry with the newest timestamp.
func (h *Handler) RemoveLastEntry(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Ledger.RemoveLastEntry(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "date"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateEntry replaces one entry's note.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntryRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.Ledger.UpdateEntry(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "date"), chi.URLParam(r, "entryId"), req.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteEntry removes one entry by ID.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Ledger.DeleteEntry(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "date"), chi.URLParam(r, "entryId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine error kinds to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve validator.ValidationErrors
	switch {
	case habit.IsValidation(err), errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case habit.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case habit.IsInvalidState(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
	}
}
