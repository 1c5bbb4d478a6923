package models

import "time"

// BookingStatus tracks the lifecycle of a ledger entry.
type BookingStatus string

const (
	BookingStatusScheduled  BookingStatus = "SCHEDULED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
)

// Booking is the ledger record used for conflict detection. The
// interval is half-open: [StartAt, EndAt). Instants are stored in UTC.
type Booking struct {
	ID            string        `db:"id" json:"id"`
	ResourceID    string        `db:"resource_id" json:"resource_id"`
	ResourceKind  ResourceKind  `db:"resource_kind" json:"resource_kind"`
	AppointmentID string        `db:"appointment_id" json:"appointment_id"`
	StartAt       time.Time     `db:"start_at" json:"start_at"`
	EndAt         time.Time     `db:"end_at" json:"end_at"`
	Status        BookingStatus `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// Blocks reports whether the booking still occupies its interval.
// Completed bookings no longer exclude new reservations.
func (b Booking) Blocks() bool {
	return b.Status == BookingStatusScheduled || b.Status == BookingStatusInProgress
}

// Overlaps applies the half-open overlap rule against [start, end).
// Adjacent intervals (end == start) do not overlap.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && start.Before(b.EndAt)
}
