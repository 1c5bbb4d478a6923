package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/motorhall/garage-api/internal/dto"
	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/slots"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
)

type mechanicSource interface {
	FindByID(ctx context.Context, id string) (*models.Mechanic, error)
	ListByWorkshop(ctx context.Context, workshopID string) ([]models.Mechanic, error)
}

// MatcherService answers "which mechanics are free" questions. It runs
// the same window/break/booking pipeline as availability queries, but
// per mechanic and for a single concrete slot.
type MatcherService struct {
	mechanics mechanicSource
	windows   scheduleWindowSource
	breaks    breakPeriodSource
	ledger    bookingLedgerReader
	location  *time.Location
	logger    *zap.Logger
}

// NewMatcherService constructs the service.
func NewMatcherService(mechanics mechanicSource, windows scheduleWindowSource, breaks breakPeriodSource, ledger bookingLedgerReader, location *time.Location, logger *zap.Logger) *MatcherService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatcherService{
		mechanics: mechanics,
		windows:   windows,
		breaks:    breaks,
		ledger:    ledger,
		location:  location,
		logger:    logger,
	}
}

// MechanicFree reports whether one mechanic can take a job of the
// given duration starting at startMinute on date. A mechanic with no
// window for that weekday is simply not free, never an error.
func (s *MatcherService) MechanicFree(ctx context.Context, mechanic models.Mechanic, date time.Time, startMinute, durationMinutes int) (bool, error) {
	window, err := s.windows.FindForWeekday(ctx, mechanic.ID, models.ResourceKindMechanic, int(date.Weekday()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mechanic schedule")
	}
	if !window.IsAvailable {
		return false, nil
	}

	winStart, err := slots.ParseClock(window.StartTime)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid schedule window")
	}
	winEnd, err := slots.ParseClock(window.EndTime)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid schedule window")
	}
	if startMinute < winStart || startMinute+durationMinutes > winEnd {
		return false, nil
	}

	breaks, err := s.breaks.ListForDate(ctx, mechanic.ID, models.ResourceKindMechanic, date)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break periods")
	}
	if len(slots.FilterBreaks([]int{startMinute}, durationMinutes, breaks, date)) == 0 {
		return false, nil
	}

	dayStart := slots.InstantOn(date, 0, s.location)
	bookings, err := s.ledger.Query(ctx, mechanic.ID, models.ResourceKindMechanic, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return len(slots.FilterConflicts([]int{startMinute}, durationMinutes, bookings, date, s.location)) == 1, nil
}

// FreeMechanics returns the workshop's free mechanics for a slot, in
// affiliation order. The assignment policy consumes this list as is.
func (s *MatcherService) FreeMechanics(ctx context.Context, workshopID string, date time.Time, startMinute, durationMinutes int) ([]models.Mechanic, error) {
	mechanics, err := s.mechanics.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mechanics")
	}

	free := make([]models.Mechanic, 0, len(mechanics))
	for _, mechanic := range mechanics {
		ok, err := s.MechanicFree(ctx, mechanic, date, startMinute, durationMinutes)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, mechanic)
		}
	}
	return free, nil
}

// GetAvailableMechanics builds the full per-mechanic breakdown for a
// slot, flagging each mechanic rather than filtering them out.
func (s *MatcherService) GetAvailableMechanics(ctx context.Context, workshopID string, date time.Time, startMinute, durationMinutes int) (*dto.MechanicMatchResponse, error) {
	mechanics, err := s.mechanics.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mechanics")
	}

	resp := &dto.MechanicMatchResponse{
		Mechanics:  make([]dto.MechanicAvailability, 0, len(mechanics)),
		TotalCount: len(mechanics),
		Date:       date.Format("2006-01-02"),
		Time:       slots.FormatClock(startMinute),
	}
	for _, mechanic := range mechanics {
		ok, err := s.MechanicFree(ctx, mechanic, date, startMinute, durationMinutes)
		if err != nil {
			return nil, err
		}
		if ok {
			resp.AvailableCount++
		}
		resp.Mechanics = append(resp.Mechanics, dto.MechanicAvailability{
			ID:          mechanic.ID,
			FullName:    mechanic.FullName,
			Email:       mechanic.Email,
			IsAvailable: ok,
		})
	}
	return resp, nil
}

// GetAvailableTimeSlots maps each open slot start on a date to the
// mechanics free in it, for a job of the given duration.
func (s *MatcherService) GetAvailableTimeSlots(ctx context.Context, workshopID string, date time.Time, durationMinutes int) (*dto.TimeSlotMatchResponse, error) {
	mechanics, err := s.mechanics.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mechanics")
	}

	resp := &dto.TimeSlotMatchResponse{
		Date:     date.Format("2006-01-02"),
		Duration: durationMinutes,
		Slots:    map[string][]string{},
	}

	for _, mechanic := range mechanics {
		starts, err := s.mechanicSlots(ctx, mechanic, date, durationMinutes)
		if err != nil {
			return nil, err
		}
		for _, start := range starts {
			key := slots.FormatClock(start)
			resp.Slots[key] = append(resp.Slots[key], mechanic.ID)
		}
	}
	return resp, nil
}

func (s *MatcherService) mechanicSlots(ctx context.Context, mechanic models.Mechanic, date time.Time, durationMinutes int) ([]int, error) {
	window, err := s.windows.FindForWeekday(ctx, mechanic.ID, models.ResourceKindMechanic, int(date.Weekday()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mechanic schedule")
	}

	candidates, err := slots.Compute(*window, durationMinutes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid schedule window")
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	breaks, err := s.breaks.ListForDate(ctx, mechanic.ID, models.ResourceKindMechanic, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break periods")
	}
	candidates = slots.FilterBreaks(candidates, durationMinutes, breaks, date)

	dayStart := slots.InstantOn(date, 0, s.location)
	bookings, err := s.ledger.Query(ctx, mechanic.ID, models.ResourceKindMechanic, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	return slots.FilterConflicts(candidates, durationMinutes, bookings, date, s.location), nil
}
