package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/motorhall/garage-api/internal/dto"
	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/slots"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
)

type scheduleWindowSource interface {
	FindForWeekday(ctx context.Context, resourceID string, kind models.ResourceKind, weekday int) (*models.ScheduleWindow, error)
}

type breakPeriodSource interface {
	ListForDate(ctx context.Context, resourceID string, kind models.ResourceKind, date time.Time) ([]models.BreakPeriod, error)
}

type bookingLedgerReader interface {
	Query(ctx context.Context, resourceID string, kind models.ResourceKind, from, to time.Time) ([]models.Booking, error)
}

type availabilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AvailabilityConfig carries the tunables for availability queries.
type AvailabilityConfig struct {
	CacheTTL     time.Duration
	MaxRangeDays int
}

// AvailabilityService answers day and range availability queries for a
// single resource. Queries are pure reads and safe to run in parallel.
type AvailabilityService struct {
	windows  scheduleWindowSource
	breaks   breakPeriodSource
	ledger   bookingLedgerReader
	cache    availabilityCache
	location *time.Location
	cfg      AvailabilityConfig
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(windows scheduleWindowSource, breaks breakPeriodSource, ledger bookingLedgerReader, cache availabilityCache, location *time.Location, cfg AvailabilityConfig, metrics *MetricsService, logger *zap.Logger) *AvailabilityService {
	if location == nil {
		location = time.UTC
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		windows:  windows,
		breaks:   breaks,
		ledger:   ledger,
		cache:    cache,
		location: location,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

func availabilityCacheKey(kind models.ResourceKind, resourceID string, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s:%s", kind, resourceID, date.Format("2006-01-02"))
}

// GetDayAvailability computes the bookable slots for a resource on a
// date. A missing window or a closed day yields a well-formed
// available=false response, not an error.
func (s *AvailabilityService) GetDayAvailability(ctx context.Context, resourceID string, kind models.ResourceKind, date time.Time) (*dto.DayAvailabilityResponse, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveAvailabilityQuery(time.Since(start))
	}()

	key := availabilityCacheKey(kind, resourceID, date)
	if s.cache != nil {
		var cached dto.DayAvailabilityResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	resp, err := s.computeDay(ctx, resourceID, kind, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := s.cache.Set(ctx, key, resp, s.cfg.CacheTTL); err != nil {
			s.logger.Sugar().Warnw("availability cache write failed", "key", key, "error", err)
		}
	}
	return resp, nil
}

func (s *AvailabilityService) computeDay(ctx context.Context, resourceID string, kind models.ResourceKind, date time.Time) (*dto.DayAvailabilityResponse, error) {
	weekday := int(date.Weekday())
	window, err := s.windows.FindForWeekday(ctx, resourceID, kind, weekday)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return closedResponse("no working hours defined for this day"), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule window")
	}
	if !window.IsAvailable {
		return closedResponse("closed on this day"), nil
	}

	candidates, err := slots.Compute(*window, window.SlotDurationMinutes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid schedule window")
	}

	breaks, err := s.breaks.ListForDate(ctx, resourceID, kind, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break periods")
	}
	candidates = slots.FilterBreaks(candidates, window.SlotDurationMinutes, breaks, date)

	dayStart := slots.InstantOn(date, 0, s.location)
	bookings, err := s.ledger.Query(ctx, resourceID, kind, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	candidates = slots.FilterConflicts(candidates, window.SlotDurationMinutes, bookings, date, s.location)

	resp := &dto.DayAvailabilityResponse{
		Available: len(candidates) > 0,
		Slots:     make([]string, 0, len(candidates)),
		WorkingHours: &dto.WorkingHours{
			Start:        window.StartTime,
			End:          window.EndTime,
			SlotDuration: window.SlotDurationMinutes,
		},
	}
	for _, cand := range candidates {
		resp.Slots = append(resp.Slots, slots.FormatClock(cand))
	}
	if !resp.Available {
		resp.Message = "no slots available on this day"
	}
	return resp, nil
}

func closedResponse(message string) *dto.DayAvailabilityResponse {
	return &dto.DayAvailabilityResponse{
		Available: false,
		Message:   message,
		Slots:     []string{},
	}
}

// GetAvailableDates returns the dates within [startDate, endDate] that
// have at least one bookable slot. The range is capped to bound work.
func (s *AvailabilityService) GetAvailableDates(ctx context.Context, resourceID string, kind models.ResourceKind, startDate, endDate time.Time) (*dto.AvailableDatesResponse, error) {
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be on or before end_date")
	}
	if calendarDaysBetween(startDate, endDate) > s.cfg.MaxRangeDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("date range must not exceed %d days", s.cfg.MaxRangeDays))
	}

	resp := &dto.AvailableDatesResponse{AvailableDates: []string{}}
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		day, err := s.GetDayAvailability(ctx, resourceID, kind, date)
		if err != nil {
			return nil, err
		}
		if day.Available {
			resp.AvailableDates = append(resp.AvailableDates, date.Format("2006-01-02"))
		}
	}
	return resp, nil
}

// calendarDaysBetween counts whole calendar days from a to b. Both are
// normalized to UTC midnights first so a DST transition inside the
// range cannot skew the count.
func calendarDaysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay) / (24 * time.Hour))
}

// CheckSlot reports whether an instant is one of the resource's open
// slot starts on that day.
func (s *AvailabilityService) CheckSlot(ctx context.Context, resourceID string, kind models.ResourceKind, instant time.Time) (bool, error) {
	local := instant.In(s.location)
	day, err := s.GetDayAvailability(ctx, resourceID, kind, local)
	if err != nil {
		return false, err
	}
	want := local.Format("15:04")
	for _, slot := range day.Slots {
		if slot == want {
			return true, nil
		}
	}
	return false, nil
}

// InvalidateResource drops cached availability for a resource after a
// reservation or a schedule mutation.
func (s *AvailabilityService) InvalidateResource(ctx context.Context, resourceID string, kind models.ResourceKind) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("availability:%s:%s:*", kind, resourceID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Sugar().Warnw("availability cache invalidation failed", "pattern", pattern, "error", err)
	}
}
