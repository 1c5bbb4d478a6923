package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorhall/garage-api/internal/models"
)

func mechanicWindow(start, end string) *models.ScheduleWindow {
	return &models.ScheduleWindow{
		StartTime:           start,
		EndTime:             end,
		IsAvailable:         true,
		SlotDurationMinutes: 60,
	}
}

func TestMechanicFreeNoWindow(t *testing.T) {
	windows := &stubWindows{
		findFn: func(context.Context, string, models.ResourceKind, int) (*models.ScheduleWindow, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewMatcherService(&stubMechanics{}, windows, &stubBreaks{}, &stubLedger{}, time.UTC, nil)

	free, err := svc.MechanicFree(context.Background(), models.Mechanic{ID: "m1"}, testDate, 540, 60)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestMechanicFreeWindowContainment(t *testing.T) {
	windows := &stubWindows{
		findFn: func(context.Context, string, models.ResourceKind, int) (*models.ScheduleWindow, error) {
			return mechanicWindow("09:00", "12:00"), nil
		},
	}
	svc := NewMatcherService(&stubMechanics{}, windows, &stubBreaks{}, &stubLedger{}, time.UTC, nil)

	free, err := svc.MechanicFree(context.Background(), models.Mechanic{ID: "m1"}, testDate, 540, 60)
	require.NoError(t, err)
	assert.True(t, free)

	// 11:30 + 60min spills past the window end.
	free, err = svc.MechanicFree(context.Background(), models.Mechanic{ID: "m1"}, testDate, 690, 60)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestMechanicFreeBlockedByBooking(t *testing.T) {
	windows := &stubWindows{
		findFn: func(context.Context, string, models.ResourceKind, int) (*models.ScheduleWindow, error) {
			return mechanicWindow("08:00", "16:00"), nil
		},
	}
	ledger := &stubLedger{
		queryFn: func(context.Context, string, models.ResourceKind, time.Time, time.Time) ([]models.Booking, error) {
			return []models.Booking{{
				StartAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
				EndAt:   time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
				Status:  models.BookingStatusScheduled,
			}}, nil
		},
	}
	svc := NewMatcherService(&stubMechanics{}, windows, &stubBreaks{}, ledger, time.UTC, nil)

	free, err := svc.MechanicFree(context.Background(), models.Mechanic{ID: "m1"}, testDate, 570, 60)
	require.NoError(t, err)
	assert.False(t, free)

	// Adjacent slot right after the booking is fine.
	free, err = svc.MechanicFree(context.Background(), models.Mechanic{ID: "m1"}, testDate, 600, 60)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestGetAvailableMechanicsCounts(t *testing.T) {
	mechanics := &stubMechanics{
		listFn: func(context.Context, string) ([]models.Mechanic, error) {
			return []models.Mechanic{
				{ID: "m1", FullName: "Ada", Email: "ada@garage.test"},
				{ID: "m2", FullName: "Bo", Email: "bo@garage.test"},
			}, nil
		},
	}
	windows := &stubWindows{
		findFn: func(_ context.Context, resourceID string, _ models.ResourceKind, _ int) (*models.ScheduleWindow, error) {
			if resourceID == "m2" {
				return nil, sql.ErrNoRows
			}
			return mechanicWindow("08:00", "16:00"), nil
		},
	}
	svc := NewMatcherService(mechanics, windows, &stubBreaks{}, &stubLedger{}, time.UTC, nil)

	resp, err := svc.GetAvailableMechanics(context.Background(), "w1", testDate, 540, 60)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, 1, resp.AvailableCount)
	require.Len(t, resp.Mechanics, 2)
	assert.True(t, resp.Mechanics[0].IsAvailable)
	assert.False(t, resp.Mechanics[1].IsAvailable)
	assert.Equal(t, "09:00", resp.Time)
}

func TestFreeMechanicsKeepsAffiliationOrder(t *testing.T) {
	mechanics := &stubMechanics{
		listFn: func(context.Context, string) ([]models.Mechanic, error) {
			return []models.Mechanic{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}}, nil
		},
	}
	windows := &stubWindows{
		findFn: func(_ context.Context, resourceID string, _ models.ResourceKind, _ int) (*models.ScheduleWindow, error) {
			if resourceID == "m2" {
				return nil, sql.ErrNoRows
			}
			return mechanicWindow("08:00", "16:00"), nil
		},
	}
	svc := NewMatcherService(mechanics, windows, &stubBreaks{}, &stubLedger{}, time.UTC, nil)

	free, err := svc.FreeMechanics(context.Background(), "w1", testDate, 540, 60)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, "m1", free[0].ID)
	assert.Equal(t, "m3", free[1].ID)
}

func TestGetAvailableTimeSlots(t *testing.T) {
	mechanics := &stubMechanics{
		listFn: func(context.Context, string) ([]models.Mechanic, error) {
			return []models.Mechanic{{ID: "m1"}, {ID: "m2"}}, nil
		},
	}
	windows := &stubWindows{
		findFn: func(_ context.Context, resourceID string, _ models.ResourceKind, _ int) (*models.ScheduleWindow, error) {
			if resourceID == "m1" {
				return mechanicWindow("09:00", "11:00"), nil
			}
			return mechanicWindow("10:00", "12:00"), nil
		},
	}
	svc := NewMatcherService(mechanics, windows, &stubBreaks{}, &stubLedger{}, time.UTC, nil)

	resp, err := svc.GetAvailableTimeSlots(context.Background(), "w1", testDate, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, resp.Duration)
	assert.Equal(t, []string{"m1"}, resp.Slots["09:00"])
	assert.Equal(t, []string{"m1", "m2"}, resp.Slots["10:00"])
	assert.Equal(t, []string{"m2"}, resp.Slots["11:00"])
	assert.NotContains(t, resp.Slots, "11:30")
}
