package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

// ShiftPersister mirrors committed shifts to durable storage.
type ShiftPersister interface {
	Insert(ctx context.Context, shift models.Shift) error
	Update(ctx context.Context, shift models.Shift) error
}

// ShiftStore owns the shift collection. All writes hold the write lock across
// check and commit, so the overlap invariant holds under concurrent callers.
// Reads return copies.
type ShiftStore struct {
	mu      sync.RWMutex
	order   []string
	shifts  map[string]models.Shift
	persist ShiftPersister
	newID   func() string
}

// NewShiftStore creates an empty store. persist may be nil for a memory-only store.
func NewShiftStore(persist ShiftPersister) *ShiftStore {
	return &ShiftStore{
		shifts:  make(map[string]models.Shift),
		persist: persist,
		newID:   uuid.NewString,
	}
}

// Load replaces the contents with seed, in order. The whole seed is rejected if
// any shift is malformed, duplicated or overlaps another. Nothing is persisted.
func (s *ShiftStore) Load(seed []models.Shift) error {
	order := make([]string, 0, len(seed))
	shifts := make(map[string]models.Shift, len(seed))
	for _, shift := range seed {
		if shift.ID == "" {
			shift.ID = s.newID()
		}
		if _, dup := shifts[shift.ID]; dup {
			return validationError("duplicate shift id %s", shift.ID)
		}
		if err := shift.Validate(); err != nil {
			return validationError("shift %s: %v", shift.ID, err)
		}
		for _, id := range order {
			if existing := shifts[id]; shift.Clashes(existing) {
				return conflictError(&models.ShiftConflictError{Candidate: shift, Existing: existing})
			}
		}
		order = append(order, shift.ID)
		shifts[shift.ID] = shift
	}

	s.mu.Lock()
	s.order, s.shifts = order, shifts
	s.mu.Unlock()
	return nil
}

// List returns shifts matching filter in insertion order.
func (s *ShiftStore) List(filter models.ShiftFilter) []models.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Shift, 0)
	for _, id := range s.order {
		if shift := s.shifts[id]; filter.Matches(shift) {
			result = append(result, shift)
		}
	}
	return result
}

// Unassigned returns the pool in insertion order.
func (s *ShiftStore) Unassigned() []models.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Shift, 0)
	for _, id := range s.order {
		if shift := s.shifts[id]; !shift.EmployeeID.IsAssigned() {
			result = append(result, shift)
		}
	}
	return result
}

func (s *ShiftStore) Get(id string) (models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shift, ok := s.shifts[id]
	if !ok {
		return models.Shift{}, notFoundError("shift", id)
	}
	return shift, nil
}

func (s *ShiftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Create adds a shift with a fresh id.
func (s *ShiftStore) Create(ctx context.Context, spec models.NewShift) (models.Shift, error) {
	shift := models.Shift{
		ID:         s.newID(),
		EmployeeID: spec.EmployeeID,
		Date:       spec.Date,
		Start:      spec.Start,
		End:        spec.End,
		Department: spec.Department,
	}
	if err := shift.Validate(); err != nil {
		return models.Shift{}, validationError("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureNoOverlap(shift); err != nil {
		return models.Shift{}, err
	}
	if s.persist != nil {
		if err := s.persist.Insert(ctx, shift); err != nil {
			return models.Shift{}, fmt.Errorf("persist shift %s: %w", shift.ID, err)
		}
	}
	s.order = append(s.order, shift.ID)
	s.shifts[shift.ID] = shift
	return shift, nil
}

// Commit is the only way to change an existing shift. mutate receives a copy of the
// current value; its result is validated and checked for overlap under the write
// lock, persisted, and only then applied. Any error leaves the store untouched.
func (s *ShiftStore) Commit(ctx context.Context, id string, mutate func(models.Shift) (models.Shift, error)) (models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.shifts[id]
	if !ok {
		return models.Shift{}, notFoundError("shift", id)
	}

	next, err := mutate(current)
	if err != nil {
		return models.Shift{}, err
	}
	if next.ID != id {
		return models.Shift{}, errors.New("shift id cannot change")
	}
	if err := next.Validate(); err != nil {
		return models.Shift{}, validationError("%v", err)
	}
	if next == current {
		return current, nil
	}
	if err := s.ensureNoOverlap(next); err != nil {
		return models.Shift{}, err
	}
	if s.persist != nil {
		if err := s.persist.Update(ctx, next); err != nil {
			return models.Shift{}, fmt.Errorf("persist shift %s: %w", id, err)
		}
	}
	s.shifts[id] = next
	return next, nil
}

// ensureNoOverlap must be called with the write lock held.
func (s *ShiftStore) ensureNoOverlap(candidate models.Shift) *appErrors.Error {
	if !candidate.EmployeeID.IsAssigned() {
		return nil
	}
	for _, id := range s.order {
		if existing := s.shifts[id]; candidate.Clashes(existing) {
			return conflictError(&models.ShiftConflictError{Candidate: candidate, Existing: existing})
		}
	}
	return nil
}
