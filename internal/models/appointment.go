package models

import "time"

// AppointmentStatus follows scheduled -> in_progress -> completed.
// Completed is terminal for derived transitions; only an explicit
// manual override may move a record elsewhere.
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
)

// DefaultAppointmentDurationMinutes applies when a record has no duration.
const DefaultAppointmentDurationMinutes = 120

// Appointment is a confirmed service visit. MechanicID stays nil until
// a mechanic has been assigned.
type Appointment struct {
	ID              string            `db:"id" json:"id"`
	WorkshopID      string            `db:"workshop_id" json:"workshop_id"`
	MechanicID      *string           `db:"mechanic_id" json:"mechanic_id,omitempty"`
	CustomerName    string            `db:"customer_name" json:"customer_name"`
	VehicleInfo     *string           `db:"vehicle_info" json:"vehicle_info,omitempty"`
	ScheduledStart  time.Time         `db:"scheduled_start" json:"scheduled_start"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// EstimatedEnd derives the end instant from the scheduled start and
// duration, falling back to the default duration when unset.
func (a Appointment) EstimatedEnd() time.Time {
	minutes := a.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultAppointmentDurationMinutes
	}
	return a.ScheduledStart.Add(time.Duration(minutes) * time.Minute)
}

// DeriveStatus returns the status the appointment should hold at the
// given instant. It is pure and idempotent: completed never regresses,
// and re-applying with the same now yields the same result.
func (a Appointment) DeriveStatus(now time.Time) AppointmentStatus {
	if a.Status == AppointmentStatusCompleted {
		return AppointmentStatusCompleted
	}
	end := a.EstimatedEnd()
	switch {
	case now.After(end):
		return AppointmentStatusCompleted
	case a.Status == AppointmentStatusScheduled && !now.Before(a.ScheduledStart):
		return AppointmentStatusInProgress
	default:
		return a.Status
	}
}

// IsTerminal reports whether derived transitions can still change the record.
func (a Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted
}
