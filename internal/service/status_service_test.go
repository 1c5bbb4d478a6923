package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/pkg/jobs"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func scheduledAppointment(id string, start time.Time) models.Appointment {
	return models.Appointment{
		ID:              id,
		Status:          models.AppointmentStatusScheduled,
		ScheduledStart:  start,
		DurationMinutes: 60,
	}
}

func TestApplyAdvancesToInProgress(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	var persisted models.AppointmentStatus
	var mirrored models.BookingStatus
	appointments := &stubAppointments{
		updateStatusFn: func(_ context.Context, _ string, status models.AppointmentStatus) error {
			persisted = status
			return nil
		},
	}
	mirror := &stubBookingMirror{
		updateFn: func(_ context.Context, _ string, status models.BookingStatus) error {
			mirrored = status
			return nil
		},
	}
	svc := NewStatusService(appointments, mirror, nil, nil, fixedClock(start.Add(10*time.Minute)))

	status, changed, err := svc.Apply(context.Background(), scheduledAppointment("a1", start))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.AppointmentStatusInProgress, status)
	assert.Equal(t, models.AppointmentStatusInProgress, persisted)
	assert.Equal(t, models.BookingStatusInProgress, mirrored)
}

func TestApplyCompletesPastEnd(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	appointments := &stubAppointments{}
	svc := NewStatusService(appointments, &stubBookingMirror{}, nil, nil, fixedClock(start.Add(2*time.Hour)))

	status, changed, err := svc.Apply(context.Background(), scheduledAppointment("a1", start))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.AppointmentStatusCompleted, status)
}

func TestApplyIsIdempotent(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	writes := 0
	appointments := &stubAppointments{
		updateStatusFn: func(context.Context, string, models.AppointmentStatus) error {
			writes++
			return nil
		},
	}
	svc := NewStatusService(appointments, &stubBookingMirror{}, nil, nil, fixedClock(start.Add(10*time.Minute)))

	appointment := scheduledAppointment("a1", start)
	status, changed, err := svc.Apply(context.Background(), appointment)
	require.NoError(t, err)
	assert.True(t, changed)

	// Re-applying the already-derived status writes nothing.
	appointment.Status = status
	_, changed, err = svc.Apply(context.Background(), appointment)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, writes)
}

func TestApplyNeverRegressesCompleted(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	appointments := &stubAppointments{
		updateStatusFn: func(context.Context, string, models.AppointmentStatus) error {
			t.Fatal("completed appointments must not be rewritten")
			return nil
		},
	}
	svc := NewStatusService(appointments, &stubBookingMirror{}, nil, nil, fixedClock(start))

	appointment := scheduledAppointment("a1", start)
	appointment.Status = models.AppointmentStatusCompleted
	status, changed, err := svc.Apply(context.Background(), appointment)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.AppointmentStatusCompleted, status)
}

func TestRunSweepIsolatesFailures(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	appointments := &stubAppointments{
		listNonTerminalFn: func(context.Context) ([]models.Appointment, error) {
			return []models.Appointment{
				scheduledAppointment("a1", start),
				scheduledAppointment("a2", start),
				scheduledAppointment("a3", start),
			}, nil
		},
		updateStatusFn: func(_ context.Context, id string, _ models.AppointmentStatus) error {
			if id == "a2" {
				return errors.New("deadlock")
			}
			return nil
		},
	}
	svc := NewStatusService(appointments, &stubBookingMirror{}, nil, nil, fixedClock(start.Add(10*time.Minute)))

	updated, failed := svc.RunSweep(context.Background())
	assert.Equal(t, 2, updated)
	assert.Equal(t, 1, failed)
}

func TestQueueHandlerSkipsDeletedAppointments(t *testing.T) {
	appointments := &stubAppointments{
		getFn: func(context.Context, string) (*models.Appointment, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewStatusService(appointments, &stubBookingMirror{}, nil, nil, nil)
	handler := svc.QueueHandler()

	// An appointment deleted between sweep and job run is not a failure.
	err := handler(context.Background(), jobs.Job{ID: "a1", Type: StatusJobType, Payload: "a1"})
	require.NoError(t, err)

	err = handler(context.Background(), jobs.Job{ID: "a1", Type: StatusJobType, Payload: 42})
	require.Error(t, err)
}
