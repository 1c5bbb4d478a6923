package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/motorhall/garage-api/internal/dto"
	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/slots"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
)

type scheduleWindowStore interface {
	ListForResource(ctx context.Context, resourceID string, kind models.ResourceKind) ([]models.ScheduleWindow, error)
	Upsert(ctx context.Context, window *models.ScheduleWindow) error
	Delete(ctx context.Context, id string) error
}

type breakPeriodStore interface {
	ListForResource(ctx context.Context, resourceID string, kind models.ResourceKind) ([]models.BreakPeriod, error)
	Create(ctx context.Context, breakPeriod *models.BreakPeriod) error
	Delete(ctx context.Context, id string) error
}

// ScheduleAdminService manages weekly windows and break periods for
// workshops and mechanics. Every mutation invalidates the resource's
// cached availability.
type ScheduleAdminService struct {
	windows     scheduleWindowStore
	breaks      breakPeriodStore
	invalidator availabilityInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewScheduleAdminService constructs the service.
func NewScheduleAdminService(windows scheduleWindowStore, breaks breakPeriodStore, invalidator availabilityInvalidator, validate *validator.Validate, logger *zap.Logger) *ScheduleAdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleAdminService{
		windows:     windows,
		breaks:      breaks,
		invalidator: invalidator,
		validator:   validate,
		logger:      logger,
	}
}

// GetSchedule returns a resource's full weekly schedule and breaks.
func (s *ScheduleAdminService) GetSchedule(ctx context.Context, resourceID string, kind models.ResourceKind) (*dto.ScheduleResponse, error) {
	windows, err := s.windows.ListForResource(ctx, resourceID, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule windows")
	}
	breaks, err := s.breaks.ListForResource(ctx, resourceID, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load break periods")
	}
	return &dto.ScheduleResponse{
		ResourceID:   resourceID,
		ResourceKind: string(kind),
		Windows:      windows,
		Breaks:       breaks,
	}, nil
}

// UpsertWindow validates and writes one weekly window.
func (s *ScheduleAdminService) UpsertWindow(ctx context.Context, req dto.UpsertScheduleWindowRequest) (*models.ScheduleWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule window")
	}

	start, err := slots.ParseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	end, err := slots.ParseClock(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	window := &models.ScheduleWindow{
		ResourceID:          req.ResourceID,
		ResourceKind:        models.ResourceKind(req.ResourceKind),
		Weekday:             req.Weekday,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		IsAvailable:         available,
		SlotDurationMinutes: req.SlotDuration,
	}
	if err := s.windows.Upsert(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule window")
	}

	s.invalidate(ctx, window.ResourceID, window.ResourceKind)
	s.logger.Sugar().Infow("schedule window saved",
		"resource_id", window.ResourceID, "resource_kind", window.ResourceKind, "weekday", window.Weekday)
	return window, nil
}

// DeleteWindow removes a weekly window. The caller supplies the
// resource identity so the cache can be invalidated.
func (s *ScheduleAdminService) DeleteWindow(ctx context.Context, id, resourceID string, kind models.ResourceKind) error {
	if err := s.windows.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule window not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule window")
	}
	s.invalidate(ctx, resourceID, kind)
	return nil
}

// CreateBreak validates and writes one break period.
func (s *ScheduleAdminService) CreateBreak(ctx context.Context, req dto.CreateBreakPeriodRequest) (*models.BreakPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid break period")
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be on or before end_date")
	}

	// A time sub-range needs both ends and must be ordered.
	if (req.StartTime == nil) != (req.EndTime == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time and end_time must be set together")
	}
	if req.StartTime != nil {
		start, err := slots.ParseClock(*req.StartTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
		}
		end, err := slots.ParseClock(*req.EndTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
		}
		if start >= end {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
		}
	}

	breakPeriod := &models.BreakPeriod{
		ResourceID:   req.ResourceID,
		ResourceKind: models.ResourceKind(req.ResourceKind),
		StartDate:    startDate,
		EndDate:      endDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Reason:       req.Reason,
		IsRecurring:  req.IsRecurring,
	}
	if err := s.breaks.Create(ctx, breakPeriod); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save break period")
	}

	s.invalidate(ctx, breakPeriod.ResourceID, breakPeriod.ResourceKind)
	s.logger.Sugar().Infow("break period saved",
		"resource_id", breakPeriod.ResourceID, "resource_kind", breakPeriod.ResourceKind,
		"start_date", req.StartDate, "end_date", req.EndDate, "recurring", req.IsRecurring)
	return breakPeriod, nil
}

// DeleteBreak removes a break period.
func (s *ScheduleAdminService) DeleteBreak(ctx context.Context, id, resourceID string, kind models.ResourceKind) error {
	if err := s.breaks.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "break period not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete break period")
	}
	s.invalidate(ctx, resourceID, kind)
	return nil
}

func (s *ScheduleAdminService) invalidate(ctx context.Context, resourceID string, kind models.ResourceKind) {
	if s.invalidator != nil {
		s.invalidator.InvalidateResource(ctx, resourceID, kind)
	}
}
