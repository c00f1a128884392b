/*
service.go - Habit definition management

PURPOSE:
  CRUD for habit definitions: create, list, fetch, partial update, archive
  (soft delete), and permanent delete. The completion ledger (ledger.go)
  only ever reads habits; all definition changes go through here.

OWNERSHIP:
  Every operation is scoped to a user: a habit that exists but belongs to
  someone else reads as not found. The ledger itself stays user-agnostic -
  identity is resolved before it is invoked.

ARCHIVING:
  Archive sets ArchivedAt instead of deleting. Archived habits keep their
  logs and are excluded from listings unless explicitly requested.
  Delete is permanent and cascades to the habit's day records.

SEE ALSO:
  - ledger.go: Completion accounting for a habit's days
  - store.go: Persistence interface
*/
package habit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service manages habit definitions.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create inserts a new habit for a user.
func (s *Service) Create(ctx context.Context, userID string, input CreateHabitInput) (*Habit, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if err := input.Frequency.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	h := Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Frequency:   input.Frequency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.SaveHabit(ctx, h); err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns a user's habits ordered by sort order then creation time.
func (s *Service) List(ctx context.Context, userID string, includeArchived bool) ([]Habit, error) {
	return s.store.ListHabits(ctx, userID, includeArchived)
}

// Get returns one habit. A habit owned by a different user reads as not found.
func (s *Service) Get(ctx context.Context, habitID, userID string) (*Habit, error) {
	h, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if h == nil || h.UserID != userID {
		return nil, &NotFoundError{HabitID: habitID, Kind: ErrHabitNotFound}
	}
	return h, nil
}

// Update applies a partial update. Nil fields are untouched.
func (s *Service) Update(ctx context.Context, habitID, userID string, input UpdateHabitInput) (*Habit, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	if input.Frequency != nil {
		if err := input.Frequency.Validate(); err != nil {
			return nil, err
		}
	}

	h, err := s.Get(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		h.Name = *input.Name
	}
	if input.Description != nil {
		h.Description = *input.Description
	}
	if input.Category != nil {
		h.Category = *input.Category
	}
	if input.Frequency != nil {
		h.Frequency = *input.Frequency
	}
	if input.SortOrder != nil {
		h.SortOrder = *input.SortOrder
	}
	if input.ClearArchived {
		h.ArchivedAt = nil
	} else if input.ArchivedAt != nil {
		h.ArchivedAt = input.ArchivedAt
	}
	h.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateHabit(ctx, *h); err != nil {
		return nil, err
	}
	return h, nil
}

// Archive soft-deletes a habit by stamping ArchivedAt.
func (s *Service) Archive(ctx context.Context, habitID, userID string) (*Habit, error) {
	now := time.Now().UTC()
	return s.Update(ctx, habitID, userID, UpdateHabitInput{ArchivedAt: &now})
}

// Delete permanently removes a habit and all of its day records.
func (s *Service) Delete(ctx context.Context, habitID, userID string) error {
	if _, err := s.Get(ctx, habitID, userID); err != nil {
		return err
	}
	return s.store.DeleteHabit(ctx, habitID)
}
