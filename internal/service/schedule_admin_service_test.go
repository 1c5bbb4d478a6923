package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorhall/garage-api/internal/dto"
	"github.com/motorhall/garage-api/internal/models"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
)

type stubWindowStore struct {
	upserted *models.ScheduleWindow
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubWindowStore) ListForResource(context.Context, string, models.ResourceKind) ([]models.ScheduleWindow, error) {
	return nil, nil
}

func (s *stubWindowStore) Upsert(_ context.Context, window *models.ScheduleWindow) error {
	s.upserted = window
	return nil
}

func (s *stubWindowStore) Delete(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type stubBreakStore struct {
	created *models.BreakPeriod
}

func (s *stubBreakStore) ListForResource(context.Context, string, models.ResourceKind) ([]models.BreakPeriod, error) {
	return nil, nil
}

func (s *stubBreakStore) Create(_ context.Context, breakPeriod *models.BreakPeriod) error {
	s.created = breakPeriod
	return nil
}

func (s *stubBreakStore) Delete(context.Context, string) error { return nil }

func validWindowRequest() dto.UpsertScheduleWindowRequest {
	return dto.UpsertScheduleWindowRequest{
		ResourceID:   "w1",
		ResourceKind: "WORKSHOP",
		Weekday:      1,
		StartTime:    "08:00",
		EndTime:      "17:00",
		SlotDuration: 60,
	}
}

func TestUpsertWindow(t *testing.T) {
	windows := &stubWindowStore{}
	invalidator := &stubInvalidator{}
	svc := NewScheduleAdminService(windows, &stubBreakStore{}, invalidator, nil, nil)

	window, err := svc.UpsertWindow(context.Background(), validWindowRequest())
	require.NoError(t, err)
	assert.True(t, window.IsAvailable)
	assert.Equal(t, windows.upserted, window)
	assert.Equal(t, []string{"WORKSHOP:w1"}, invalidator.calls)
}

func TestUpsertWindowRejectsInvertedTimes(t *testing.T) {
	svc := NewScheduleAdminService(&stubWindowStore{}, &stubBreakStore{}, nil, nil, nil)

	req := validWindowRequest()
	req.StartTime = "17:00"
	req.EndTime = "08:00"
	_, err := svc.UpsertWindow(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestUpsertWindowRejectsBadKind(t *testing.T) {
	svc := NewScheduleAdminService(&stubWindowStore{}, &stubBreakStore{}, nil, nil, nil)

	req := validWindowRequest()
	req.ResourceKind = "ROBOT"
	_, err := svc.UpsertWindow(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestDeleteWindowNotFound(t *testing.T) {
	windows := &stubWindowStore{
		deleteFn: func(context.Context, string) error { return sql.ErrNoRows },
	}
	svc := NewScheduleAdminService(windows, &stubBreakStore{}, nil, nil, nil)

	err := svc.DeleteWindow(context.Background(), "missing", "w1", models.ResourceKindWorkshop)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCreateBreakWholeDay(t *testing.T) {
	breaks := &stubBreakStore{}
	invalidator := &stubInvalidator{}
	svc := NewScheduleAdminService(&stubWindowStore{}, breaks, invalidator, nil, nil)

	created, err := svc.CreateBreak(context.Background(), dto.CreateBreakPeriodRequest{
		ResourceID:   "m1",
		ResourceKind: "MECHANIC",
		StartDate:    "2025-12-24",
		EndDate:      "2025-12-26",
		Reason:       "holidays",
		IsRecurring:  true,
	})
	require.NoError(t, err)
	assert.True(t, created.WholeDay())
	assert.True(t, created.IsRecurring)
	assert.Equal(t, breaks.created, created)
	assert.Equal(t, []string{"MECHANIC:m1"}, invalidator.calls)
}

func TestCreateBreakRejectsHalfSubRange(t *testing.T) {
	svc := NewScheduleAdminService(&stubWindowStore{}, &stubBreakStore{}, nil, nil, nil)

	_, err := svc.CreateBreak(context.Background(), dto.CreateBreakPeriodRequest{
		ResourceID:   "m1",
		ResourceKind: "MECHANIC",
		StartDate:    "2025-07-01",
		EndDate:      "2025-07-01",
		StartTime:    strPtr("12:00"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCreateBreakRejectsInvertedDates(t *testing.T) {
	svc := NewScheduleAdminService(&stubWindowStore{}, &stubBreakStore{}, nil, nil, nil)

	_, err := svc.CreateBreak(context.Background(), dto.CreateBreakPeriodRequest{
		ResourceID:   "m1",
		ResourceKind: "MECHANIC",
		StartDate:    "2025-07-02",
		EndDate:      "2025-07-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
