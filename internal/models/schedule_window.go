package models

import "time"

// ResourceKind distinguishes the two bookable resource types.
type ResourceKind string

const (
	ResourceKindWorkshop ResourceKind = "WORKSHOP"
	ResourceKindMechanic ResourceKind = "MECHANIC"
)

// ScheduleWindow is a recurring weekly working window for a resource.
// Weekday follows time.Weekday numbering (Sunday = 0). Times are
// wall-clock "HH:MM" strings in the workshop's timezone. Unique per
// (resource_id, resource_kind, weekday).
type ScheduleWindow struct {
	ID                  string       `db:"id" json:"id"`
	ResourceID          string       `db:"resource_id" json:"resource_id"`
	ResourceKind        ResourceKind `db:"resource_kind" json:"resource_kind"`
	Weekday             int          `db:"weekday" json:"weekday"`
	StartTime           string       `db:"start_time" json:"start_time"`
	EndTime             string       `db:"end_time" json:"end_time"`
	IsAvailable         bool         `db:"is_available" json:"is_available"`
	SlotDurationMinutes int          `db:"slot_duration_minutes" json:"slot_duration_minutes"`
	CreatedAt           time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time    `db:"updated_at" json:"updated_at"`
}
