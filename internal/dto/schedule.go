package dto

import "github.com/motorhall/garage-api/internal/models"

// UpsertScheduleWindowRequest creates or replaces a resource's weekly
// window for one weekday. Times are wall-clock "HH:MM" strings.
type UpsertScheduleWindowRequest struct {
	ResourceID   string `json:"resource_id" validate:"required"`
	ResourceKind string `json:"resource_kind" validate:"required,oneof=WORKSHOP MECHANIC"`
	Weekday      int    `json:"weekday" validate:"min=0,max=6"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	IsAvailable  *bool  `json:"is_available"`
	SlotDuration int    `json:"slot_duration" validate:"required,gt=0"`
}

// CreateBreakPeriodRequest adds an availability exception. A nil time
// sub-range blocks the whole day.
type CreateBreakPeriodRequest struct {
	ResourceID   string  `json:"resource_id" validate:"required"`
	ResourceKind string  `json:"resource_kind" validate:"required,oneof=WORKSHOP MECHANIC"`
	StartDate    string  `json:"start_date" validate:"required"`
	EndDate      string  `json:"end_date" validate:"required"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Reason       string  `json:"reason"`
	IsRecurring  bool    `json:"is_recurring"`
}

// ScheduleResponse is a resource's full weekly schedule plus its breaks.
type ScheduleResponse struct {
	ResourceID   string                  `json:"resource_id"`
	ResourceKind string                  `json:"resource_kind"`
	Windows      []models.ScheduleWindow `json:"windows"`
	Breaks       []models.BreakPeriod    `json:"breaks"`
}
