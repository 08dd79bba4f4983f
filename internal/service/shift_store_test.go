package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

type recordingPersister struct {
	inserted []models.Shift
	updated  []models.Shift
	err      error
}

func (p *recordingPersister) Insert(_ context.Context, s models.Shift) error {
	if p.err != nil {
		return p.err
	}
	p.inserted = append(p.inserted, s)
	return nil
}

func (p *recordingPersister) Update(_ context.Context, s models.Shift) error {
	if p.err != nil {
		return p.err
	}
	p.updated = append(p.updated, s)
	return nil
}

func TestShiftStoreCreateRejectsOverlap(t *testing.T) {
	store := newStoreWith(newShift("S1", "E1", june3, "09:00", "17:00"))

	_, err := store.Create(context.Background(), models.NewShift{
		EmployeeID: models.AssignedTo("E1"),
		Date:       june3,
		Start:      tod("12:00"),
		End:        tod("20:00"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	var conflict *models.ShiftConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "S1", conflict.Existing.ID)
	assert.Equal(t, 1, store.Len())
}

func TestShiftStoreCreateAllowsAdjacentAndUnassigned(t *testing.T) {
	store := newStoreWith(newShift("S1", "E1", june3, "09:00", "17:00"))
	ctx := context.Background()

	adjacent, err := store.Create(ctx, models.NewShift{EmployeeID: models.AssignedTo("E1"), Date: june3, Start: tod("17:00"), End: tod("21:00")})
	require.NoError(t, err)
	assert.NotEmpty(t, adjacent.ID)

	_, err = store.Create(ctx, models.NewShift{Date: june3, Start: tod("09:00"), End: tod("17:00")})
	require.NoError(t, err)
	_, err = store.Create(ctx, models.NewShift{Date: june3, Start: tod("09:00"), End: tod("17:00")})
	require.NoError(t, err)

	assert.Equal(t, 4, store.Len())
	assert.Len(t, store.Unassigned(), 2)

	listed := store.List(models.ShiftFilter{})
	assert.Equal(t, "S1", listed[0].ID)
	assert.Equal(t, adjacent.ID, listed[1].ID)
}

func TestShiftStoreCreateValidatesShape(t *testing.T) {
	store := NewShiftStore(nil)
	_, err := store.Create(context.Background(), models.NewShift{Date: june3, Start: tod("17:00"), End: tod("09:00")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, store.Len())
}

func TestShiftStoreLoadRejectsClashingSeed(t *testing.T) {
	store := NewShiftStore(nil)
	err := store.Load([]models.Shift{
		newShift("S1", "E1", june3, "09:00", "17:00"),
		newShift("S2", "E1", june3, "16:00", "18:00"),
	})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Zero(t, store.Len())

	err = store.Load([]models.Shift{
		newShift("S1", "E1", june3, "09:00", "17:00"),
		newShift("S1", "E2", june3, "09:00", "17:00"),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestShiftStoreListFilters(t *testing.T) {
	kitchen := newShift("S3", "E2", june4, "06:00", "12:00")
	kitchen.Department = "Kitchen"
	store := newStoreWith(
		newShift("S1", "E1", june3, "09:00", "17:00"),
		newShift("S2", "E2", june3, "09:00", "17:00"),
		kitchen,
	)

	date := june3
	assert.Len(t, store.List(models.ShiftFilter{Date: &date}), 2)

	emp := "E2"
	dept := "kitchen"
	got := store.List(models.ShiftFilter{EmployeeID: &emp, Department: &dept})
	require.Len(t, got, 1)
	assert.Equal(t, "S3", got[0].ID)
}

func TestShiftStoreCommitPersistsBeforeApplying(t *testing.T) {
	persister := &recordingPersister{}
	store := NewShiftStore(persister)
	require.NoError(t, store.Load([]models.Shift{newShift("S1", "E1", june3, "09:00", "17:00")}))

	_, err := store.Commit(context.Background(), "S1", func(s models.Shift) (models.Shift, error) {
		s.Date = june4
		return s, nil
	})
	require.NoError(t, err)
	require.Len(t, persister.updated, 1)
	assert.Equal(t, june4, persister.updated[0].Date)

	persister.err = errors.New("db down")
	_, err = store.Commit(context.Background(), "S1", func(s models.Shift) (models.Shift, error) {
		s.Date = june3
		return s, nil
	})
	require.Error(t, err)

	current, err := store.Get("S1")
	require.NoError(t, err)
	assert.Equal(t, june4, current.Date)
}

func TestShiftStoreCommitUnchangedSkipsPersist(t *testing.T) {
	persister := &recordingPersister{}
	store := NewShiftStore(persister)
	require.NoError(t, store.Load([]models.Shift{newShift("S1", "E1", june3, "09:00", "17:00")}))

	_, err := store.Commit(context.Background(), "S1", func(s models.Shift) (models.Shift, error) { return s, nil })
	require.NoError(t, err)
	assert.Empty(t, persister.updated)
}

func TestShiftStoreCommitUnknownShift(t *testing.T) {
	store := NewShiftStore(nil)
	_, err := store.Commit(context.Background(), "ghost", func(s models.Shift) (models.Shift, error) { return s, nil })
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestShiftStoreCreatePersistFailureLeavesStoreEmpty(t *testing.T) {
	store := NewShiftStore(&recordingPersister{err: errors.New("insert failed")})
	_, err := store.Create(context.Background(), models.NewShift{Date: june3, Start: tod("09:00"), End: tod("10:00")})
	require.Error(t, err)
	assert.Zero(t, store.Len())
}
