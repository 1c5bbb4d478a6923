package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorhall/garage-api/internal/models"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
)

func TestDaySheetCSV(t *testing.T) {
	workshops := activeWorkshop("w1")
	mechanics := &stubMechanics{
		listFn: func(context.Context, string) ([]models.Mechanic, error) {
			return []models.Mechanic{{ID: "m1", FullName: "Ada Krug"}}, nil
		},
	}
	appointments := &stubAppointments{
		listByDateFn: func(context.Context, string, time.Time, time.Time) ([]models.Appointment, error) {
			return []models.Appointment{{
				ID:              "a1",
				CustomerName:    "Jo Marbach",
				VehicleInfo:     strPtr("VW Golf"),
				MechanicID:      strPtr("m1"),
				ScheduledStart:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
				DurationMinutes: 60,
				Status:          models.AppointmentStatusScheduled,
			}}, nil
		},
	}
	svc := NewExportService(workshops, mechanics, appointments, time.UTC, nil)

	file, err := svc.DaySheet(context.Background(), "w1", testDate, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.MIMEType)
	assert.Equal(t, "day-sheet-w1-2025-06-02.csv", file.Filename)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "Time,Customer,Vehicle,Mechanic,Duration,Status"))
	assert.Contains(t, content, "09:00,Jo Marbach,VW Golf,Ada Krug,60 min,SCHEDULED")
}

func TestDaySheetPDF(t *testing.T) {
	mechanics := &stubMechanics{
		listFn: func(context.Context, string) ([]models.Mechanic, error) { return nil, nil },
	}
	appointments := &stubAppointments{
		listByDateFn: func(context.Context, string, time.Time, time.Time) ([]models.Appointment, error) {
			return nil, nil
		},
	}
	svc := NewExportService(activeWorkshop("w1"), mechanics, appointments, time.UTC, nil)

	file, err := svc.DaySheet(context.Background(), "w1", testDate, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.MIMEType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestDaySheetRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(activeWorkshop("w1"), &stubMechanics{}, &stubAppointments{}, time.UTC, nil)

	_, err := svc.DaySheet(context.Background(), "w1", testDate, "xlsx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestDaySheetWorkshopMissing(t *testing.T) {
	mechanics := &stubMechanics{
		listFn: func(context.Context, string) ([]models.Mechanic, error) { return nil, nil },
	}
	svc := NewExportService(activeWorkshop("w1"), mechanics, &stubAppointments{}, time.UTC, nil)

	_, err := svc.DaySheet(context.Background(), "ghost", testDate, "csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
