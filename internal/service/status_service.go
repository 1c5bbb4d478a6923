package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/motorhall/garage-api/internal/models"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
	"github.com/motorhall/garage-api/pkg/jobs"
)

// StatusJobType names the queued job that advances one appointment.
const StatusJobType = "appointment.status_sync"

type statusAppointmentStore interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListNonTerminal(ctx context.Context) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
}

type bookingStatusMirror interface {
	UpdateStatusByAppointment(ctx context.Context, appointmentID string, status models.BookingStatus) error
}

// StatusService advances appointment statuses on the clock. The sweep
// enqueues one job per candidate so a failure on one record never
// stops the rest of the batch.
type StatusService struct {
	appointments statusAppointmentStore
	ledger       bookingStatusMirror
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time
}

// NewStatusService constructs the service. now is overridable for tests;
// nil means time.Now.
func NewStatusService(appointments statusAppointmentStore, ledger bookingStatusMirror, metrics *MetricsService, logger *zap.Logger, now func() time.Time) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &StatusService{
		appointments: appointments,
		ledger:       ledger,
		metrics:      metrics,
		logger:       logger,
		now:          now,
	}
}

// Apply derives and persists the status one appointment should hold
// right now. Returns the status written and whether it changed.
// Applying twice with the same clock is a no-op the second time.
func (s *StatusService) Apply(ctx context.Context, appointment models.Appointment) (models.AppointmentStatus, bool, error) {
	derived := appointment.DeriveStatus(s.now().UTC())
	if derived == appointment.Status {
		return derived, false, nil
	}

	if err := s.appointments.UpdateStatus(ctx, appointment.ID, derived); err != nil {
		return appointment.Status, false, fmt.Errorf("persist status for %s: %w", appointment.ID, err)
	}
	if err := s.ledger.UpdateStatusByAppointment(ctx, appointment.ID, models.BookingStatus(derived)); err != nil {
		return derived, true, fmt.Errorf("mirror status for %s: %w", appointment.ID, err)
	}

	s.metrics.IncStatusTransition(string(derived))
	s.logger.Sugar().Infow("appointment status advanced",
		"appointment_id", appointment.ID,
		"from", appointment.Status,
		"to", derived)
	return derived, true, nil
}

// ApplyByID reloads one appointment and applies its derived status.
// This is the queue handler's entry point.
func (s *StatusService) ApplyByID(ctx context.Context, id string) error {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return fmt.Errorf("load appointment %s: %w", id, err)
	}
	_, _, err = s.Apply(ctx, *appointment)
	return err
}

// EnqueueSweep lists every non-terminal appointment and pushes one job
// per record onto the queue. Enqueue failures are logged and skipped so
// one full buffer does not abort the sweep.
func (s *StatusService) EnqueueSweep(ctx context.Context, queue *jobs.Queue) (int, error) {
	appointments, err := s.appointments.ListNonTerminal(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sweep candidates: %w", err)
	}

	enqueued := 0
	for _, appointment := range appointments {
		job := jobs.Job{
			ID:      appointment.ID,
			Type:    StatusJobType,
			Payload: appointment.ID,
		}
		if err := queue.Enqueue(job); err != nil {
			s.logger.Sugar().Warnw("failed to enqueue status job", "appointment_id", appointment.ID, "error", err)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}

// QueueHandler adapts the service to the jobs.Handler signature.
func (s *StatusService) QueueHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		id, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("status job %s: payload is not an appointment id", job.ID)
		}
		if err := s.ApplyByID(ctx, id); err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				return nil
			}
			return err
		}
		return nil
	}
}

// RunSweep applies the derived status to every non-terminal appointment
// inline, without the queue. Errors are collected per record; the sweep
// always visits the full batch.
func (s *StatusService) RunSweep(ctx context.Context) (updated int, failed int) {
	appointments, err := s.appointments.ListNonTerminal(ctx)
	if err != nil {
		s.logger.Sugar().Errorw("status sweep list failed", "error", err)
		return 0, 0
	}

	for _, appointment := range appointments {
		_, changed, err := s.Apply(ctx, appointment)
		if err != nil {
			failed++
			s.logger.Sugar().Errorw("status sweep item failed", "appointment_id", appointment.ID, "error", err)
			continue
		}
		if changed {
			updated++
		}
	}
	return updated, failed
}
