package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/motorhall/garage-api/internal/models"
)

// AppointmentRepository persists appointment records.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs the repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = "id, workshop_id, mechanic_id, customer_name, vehicle_info, scheduled_start, duration_minutes, status, notes, created_at, updated_at"

// Create inserts an appointment record.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = now
	}
	appointment.UpdatedAt = now
	appointment.ScheduledStart = appointment.ScheduledStart.UTC()

	const query = `INSERT INTO appointments (id, workshop_id, mechanic_id, customer_name, vehicle_info, scheduled_start, duration_minutes, status, notes, created_at, updated_at)
VALUES (:id, :workshop_id, :mechanic_id, :customer_name, :vehicle_info, :scheduled_start, :duration_minutes, :status, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// GetByID loads an appointment.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	var appointment models.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// ListByWorkshopDate returns a workshop's appointments starting on the
// given UTC day, ordered by start time. Used by the day-sheet export.
func (r *AppointmentRepository) ListByWorkshopDate(ctx context.Context, workshopID string, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments
WHERE workshop_id = $1 AND scheduled_start >= $2 AND scheduled_start < $3
ORDER BY scheduled_start ASC`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, workshopID, dayStart.UTC(), dayEnd.UTC()); err != nil {
		return nil, fmt.Errorf("list appointments by date: %w", err)
	}
	return appointments, nil
}

// ListNonTerminal returns every appointment the status sweep may still
// need to advance.
func (r *AppointmentRepository) ListNonTerminal(ctx context.Context) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE status <> $1 ORDER BY scheduled_start ASC`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, models.AppointmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("list non-terminal appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus persists a derived status change.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	const query = `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}
