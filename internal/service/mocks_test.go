package service

import (
	"context"
	"time"

	"github.com/motorhall/garage-api/internal/models"
)

type stubWindows struct {
	findFn func(ctx context.Context, resourceID string, kind models.ResourceKind, weekday int) (*models.ScheduleWindow, error)
	listFn func(ctx context.Context, resourceID string, kind models.ResourceKind) ([]models.ScheduleWindow, error)
}

func (s *stubWindows) FindForWeekday(ctx context.Context, resourceID string, kind models.ResourceKind, weekday int) (*models.ScheduleWindow, error) {
	return s.findFn(ctx, resourceID, kind, weekday)
}

func (s *stubWindows) ListForResource(ctx context.Context, resourceID string, kind models.ResourceKind) ([]models.ScheduleWindow, error) {
	return s.listFn(ctx, resourceID, kind)
}

type stubBreaks struct {
	listForDateFn func(ctx context.Context, resourceID string, kind models.ResourceKind, date time.Time) ([]models.BreakPeriod, error)
}

func (s *stubBreaks) ListForDate(ctx context.Context, resourceID string, kind models.ResourceKind, date time.Time) ([]models.BreakPeriod, error) {
	if s.listForDateFn == nil {
		return nil, nil
	}
	return s.listForDateFn(ctx, resourceID, kind, date)
}

type stubLedger struct {
	queryFn   func(ctx context.Context, resourceID string, kind models.ResourceKind, from, to time.Time) ([]models.Booking, error)
	reserveFn func(ctx context.Context, bookings ...models.Booking) error
	deleteFn  func(ctx context.Context, appointmentID string) error
}

func (s *stubLedger) Query(ctx context.Context, resourceID string, kind models.ResourceKind, from, to time.Time) ([]models.Booking, error) {
	if s.queryFn == nil {
		return nil, nil
	}
	return s.queryFn(ctx, resourceID, kind, from, to)
}

func (s *stubLedger) Reserve(ctx context.Context, bookings ...models.Booking) error {
	if s.reserveFn == nil {
		return nil
	}
	return s.reserveFn(ctx, bookings...)
}

func (s *stubLedger) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, appointmentID)
}

type stubMechanics struct {
	findFn func(ctx context.Context, id string) (*models.Mechanic, error)
	listFn func(ctx context.Context, workshopID string) ([]models.Mechanic, error)
}

func (s *stubMechanics) FindByID(ctx context.Context, id string) (*models.Mechanic, error) {
	return s.findFn(ctx, id)
}

func (s *stubMechanics) ListByWorkshop(ctx context.Context, workshopID string) ([]models.Mechanic, error) {
	return s.listFn(ctx, workshopID)
}

type stubWorkshops struct {
	findFn func(ctx context.Context, id string) (*models.Workshop, error)
}

func (s *stubWorkshops) FindByID(ctx context.Context, id string) (*models.Workshop, error) {
	return s.findFn(ctx, id)
}

type stubAppointments struct {
	createFn          func(ctx context.Context, appointment *models.Appointment) error
	getFn             func(ctx context.Context, id string) (*models.Appointment, error)
	listNonTerminalFn func(ctx context.Context) ([]models.Appointment, error)
	listByDateFn      func(ctx context.Context, workshopID string, dayStart, dayEnd time.Time) ([]models.Appointment, error)
	updateStatusFn    func(ctx context.Context, id string, status models.AppointmentStatus) error
}

func (s *stubAppointments) Create(ctx context.Context, appointment *models.Appointment) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, appointment)
}

func (s *stubAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return s.getFn(ctx, id)
}

func (s *stubAppointments) ListNonTerminal(ctx context.Context) ([]models.Appointment, error) {
	return s.listNonTerminalFn(ctx)
}

func (s *stubAppointments) ListByWorkshopDate(ctx context.Context, workshopID string, dayStart, dayEnd time.Time) ([]models.Appointment, error) {
	return s.listByDateFn(ctx, workshopID, dayStart, dayEnd)
}

func (s *stubAppointments) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, id, status)
}

type stubBookingMirror struct {
	updateFn func(ctx context.Context, appointmentID string, status models.BookingStatus) error
}

func (s *stubBookingMirror) UpdateStatusByAppointment(ctx context.Context, appointmentID string, status models.BookingStatus) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, appointmentID, status)
}

type stubCache struct {
	getFn    func(ctx context.Context, key string, dest interface{}) error
	setFn    func(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	deleteFn func(ctx context.Context, pattern string) error
}

func (s *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	return s.getFn(ctx, key, dest)
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.setFn == nil {
		return nil
	}
	return s.setFn(ctx, key, value, ttl)
}

func (s *stubCache) DeleteByPattern(ctx context.Context, pattern string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, pattern)
}

type stubInvalidator struct {
	calls []string
}

func (s *stubInvalidator) InvalidateResource(_ context.Context, resourceID string, kind models.ResourceKind) {
	s.calls = append(s.calls, string(kind)+":"+resourceID)
}

type stubMatcher struct {
	freeFn          func(ctx context.Context, mechanic models.Mechanic, date time.Time, startMinute, durationMinutes int) (bool, error)
	freeMechanicsFn func(ctx context.Context, workshopID string, date time.Time, startMinute, durationMinutes int) ([]models.Mechanic, error)
}

func (s *stubMatcher) MechanicFree(ctx context.Context, mechanic models.Mechanic, date time.Time, startMinute, durationMinutes int) (bool, error) {
	return s.freeFn(ctx, mechanic, date, startMinute, durationMinutes)
}

func (s *stubMatcher) FreeMechanics(ctx context.Context, workshopID string, date time.Time, startMinute, durationMinutes int) ([]models.Mechanic, error) {
	return s.freeMechanicsFn(ctx, workshopID, date, startMinute, durationMinutes)
}
