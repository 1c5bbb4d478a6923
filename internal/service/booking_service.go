package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motorhall/garage-api/internal/dto"
	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/slots"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
)

type workshopSource interface {
	FindByID(ctx context.Context, id string) (*models.Workshop, error)
}

type mechanicFinder interface {
	FindByID(ctx context.Context, id string) (*models.Mechanic, error)
}

type mechanicMatcher interface {
	MechanicFree(ctx context.Context, mechanic models.Mechanic, date time.Time, startMinute, durationMinutes int) (bool, error)
	FreeMechanics(ctx context.Context, workshopID string, date time.Time, startMinute, durationMinutes int) ([]models.Mechanic, error)
}

type bookingReserver interface {
	Reserve(ctx context.Context, bookings ...models.Booking) error
	DeleteByAppointment(ctx context.Context, appointmentID string) error
}

type appointmentStore interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
}

type availabilityInvalidator interface {
	InvalidateResource(ctx context.Context, resourceID string, kind models.ResourceKind)
}

// BookingConfig carries appointment creation defaults.
type BookingConfig struct {
	DefaultDurationMinutes int
}

// BookingService turns a booking request into a reserved ledger entry
// plus a persisted appointment. The ledger write is the arbiter under
// concurrency: the availability pre-check only produces friendly
// errors early, Reserve decides who wins.
type BookingService struct {
	workshops    workshopSource
	mechanics    mechanicFinder
	matcher      mechanicMatcher
	policy       AssignmentPolicy
	ledger       bookingReserver
	appointments appointmentStore
	invalidator  availabilityInvalidator
	validator    *validator.Validate
	location     *time.Location
	cfg          BookingConfig
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time
}

// NewBookingService constructs the service.
func NewBookingService(
	workshops workshopSource,
	mechanics mechanicFinder,
	matcher mechanicMatcher,
	policy AssignmentPolicy,
	ledger bookingReserver,
	appointments appointmentStore,
	invalidator availabilityInvalidator,
	validate *validator.Validate,
	location *time.Location,
	cfg BookingConfig,
	metrics *MetricsService,
	logger *zap.Logger,
) *BookingService {
	if policy == nil {
		policy = FirstAvailablePolicy{}
	}
	if validate == nil {
		validate = validator.New()
	}
	if location == nil {
		location = time.UTC
	}
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = models.DefaultAppointmentDurationMinutes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		workshops:    workshops,
		mechanics:    mechanics,
		matcher:      matcher,
		policy:       policy,
		ledger:       ledger,
		appointments: appointments,
		invalidator:  invalidator,
		validator:    validate,
		location:     location,
		cfg:          cfg,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateAppointment validates the request, picks a mechanic, reserves
// the slot atomically and persists the appointment. A lost race
// surfaces as ErrSlotTaken.
func (s *BookingService) CreateAppointment(ctx context.Context, req dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment request")
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, s.location)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	startMinute, err := slots.ParseClock(req.Time)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time must be HH:MM")
	}
	if startMinute%slots.StartGranularityMinutes != 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "time must align to the 30-minute grid")
	}

	duration := req.Duration
	if duration == 0 {
		duration = s.cfg.DefaultDurationMinutes
	}
	if duration < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duration must be positive")
	}

	workshop, err := s.workshops.FindByID(ctx, req.WorkshopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop")
	}
	if !workshop.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
	}

	mechanic, err := s.pickMechanic(ctx, req, date, startMinute, duration)
	if err != nil {
		return nil, err
	}

	startAt := slots.InstantOn(date, startMinute, s.location)
	appointment := &models.Appointment{
		ID:              uuid.NewString(),
		WorkshopID:      workshop.ID,
		MechanicID:      &mechanic.ID,
		CustomerName:    req.CustomerName,
		VehicleInfo:     req.VehicleInfo,
		ScheduledStart:  startAt.UTC(),
		DurationMinutes: duration,
		Status:          models.AppointmentStatusScheduled,
		Notes:           req.Notes,
	}
	// One synchronous status pass on persist: a booking whose slot has
	// already started must not wait for the next sweep tick.
	appointment.Status = appointment.DeriveStatus(s.now().UTC())

	booking := models.Booking{
		ResourceID:    mechanic.ID,
		ResourceKind:  models.ResourceKindMechanic,
		AppointmentID: appointment.ID,
		StartAt:       startAt,
		EndAt:         startAt.Add(time.Duration(duration) * time.Minute),
		Status:        models.BookingStatus(appointment.Status),
	}
	if err := s.ledger.Reserve(ctx, booking); err != nil {
		if errors.Is(err, appErrors.ErrSlotTaken) {
			s.metrics.IncReservationConflict()
			return nil, appErrors.ErrSlotTaken
		}
		return nil, appErrors.FromError(err)
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		if delErr := s.ledger.DeleteByAppointment(ctx, appointment.ID); delErr != nil {
			s.logger.Sugar().Errorw("orphaned booking after failed appointment create",
				"appointment_id", appointment.ID, "error", delErr)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist appointment")
	}

	s.metrics.IncStatusTransition(string(appointment.Status))
	if s.invalidator != nil {
		s.invalidator.InvalidateResource(ctx, mechanic.ID, models.ResourceKindMechanic)
	}

	s.logger.Sugar().Infow("appointment booked",
		"appointment_id", appointment.ID,
		"workshop_id", workshop.ID,
		"mechanic_id", mechanic.ID,
		"start_at", appointment.ScheduledStart,
		"duration_minutes", duration)

	return &dto.AppointmentResponse{Appointment: *appointment, MechanicID: mechanic.ID}, nil
}

// pickMechanic honours an explicit mechanic choice when the request
// carries one, otherwise lets the assignment policy choose from the
// free candidates in affiliation order.
func (s *BookingService) pickMechanic(ctx context.Context, req dto.CreateAppointmentRequest, date time.Time, startMinute, duration int) (*models.Mechanic, error) {
	if req.MechanicID != nil && *req.MechanicID != "" {
		mechanic, err := s.mechanics.FindByID(ctx, *req.MechanicID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "mechanic not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mechanic")
		}
		if !mechanic.Active || mechanic.WorkshopID != req.WorkshopID {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mechanic not found")
		}
		free, err := s.matcher.MechanicFree(ctx, *mechanic, date, startMinute, duration)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "mechanic is not available at the requested time")
		}
		return mechanic, nil
	}

	candidates, err := s.matcher.FreeMechanics(ctx, req.WorkshopID, date, startMinute, duration)
	if err != nil {
		return nil, err
	}
	chosen, ok := s.policy.Assign(candidates)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, "no mechanic available for the requested slot")
	}
	return &chosen, nil
}

// GetAppointment loads one appointment by id.
func (s *BookingService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	return appointment, nil
}
