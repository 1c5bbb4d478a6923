package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/motorhall/garage-api/internal/models"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
)

// BookingRepository is the ledger of confirmed reservations. Reads are
// plain queries; Reserve is the single write path and is transactional.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = "id, resource_id, resource_kind, appointment_id, start_at, end_at, status, created_at"

// Query returns bookings for a resource overlapping [from, to).
func (r *BookingRepository) Query(ctx context.Context, resourceID string, kind models.ResourceKind, from, to time.Time) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings
WHERE resource_id = $1 AND resource_kind = $2 AND start_at < $4 AND end_at > $3
ORDER BY start_at ASC`, bookingColumns)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, resourceID, kind, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	return bookings, nil
}

// Reserve writes one or more ledger entries atomically. The parent
// resource row is locked for the duration of the transaction, the
// overlap check is re-run under that lock, and only then are the rows
// inserted. Two concurrent attempts on the same resource serialize on
// the lock; the loser sees the winner's row and gets ErrSlotTaken.
func (r *BookingRepository) Reserve(ctx context.Context, bookings ...models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reserve: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range bookings {
		if err = r.reserveOne(ctx, tx, &bookings[i]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reserve: %w", err)
	}
	return nil
}

func (r *BookingRepository) reserveOne(ctx context.Context, tx *sqlx.Tx, booking *models.Booking) error {
	if err := r.lockResource(ctx, tx, booking.ResourceID, booking.ResourceKind); err != nil {
		return err
	}

	const overlapQuery = `SELECT COUNT(*) FROM bookings
WHERE resource_id = $1 AND resource_kind = $2 AND status IN ($3, $4)
AND start_at < $6 AND end_at > $5`
	var conflicting int
	if err := tx.GetContext(ctx, &conflicting, overlapQuery,
		booking.ResourceID, booking.ResourceKind,
		models.BookingStatusScheduled, models.BookingStatusInProgress,
		booking.StartAt.UTC(), booking.EndAt.UTC()); err != nil {
		return fmt.Errorf("recheck booking overlap: %w", err)
	}
	if conflicting > 0 {
		return appErrors.ErrSlotTaken
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.StartAt = booking.StartAt.UTC()
	booking.EndAt = booking.EndAt.UTC()
	booking.CreatedAt = time.Now().UTC()
	if booking.Status == "" {
		booking.Status = models.BookingStatusScheduled
	}

	const insertQuery = `INSERT INTO bookings (id, resource_id, resource_kind, appointment_id, start_at, end_at, status, created_at)
VALUES (:id, :resource_id, :resource_kind, :appointment_id, :start_at, :end_at, :status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, booking); err != nil {
		if isExclusionViolation(err) {
			return appErrors.ErrSlotTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) lockResource(ctx context.Context, tx *sqlx.Tx, resourceID string, kind models.ResourceKind) error {
	table := "workshops"
	if kind == models.ResourceKindMechanic {
		table = "mechanics"
	}
	var id string
	query := fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", table)
	if err := tx.GetContext(ctx, &id, query, resourceID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return fmt.Errorf("lock resource %s: %w", resourceID, err)
	}
	return nil
}

// UpdateStatusByAppointment mirrors an appointment's derived status
// onto its ledger rows so conflict checks stop counting finished work.
func (r *BookingRepository) UpdateStatusByAppointment(ctx context.Context, appointmentID string, status models.BookingStatus) error {
	const query = `UPDATE bookings SET status = $2 WHERE appointment_id = $1`
	if _, err := r.db.ExecContext(ctx, query, appointmentID, status); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

// DeleteByAppointment removes an appointment's ledger rows. Used to
// roll back a reservation when the appointment record fails to persist.
func (r *BookingRepository) DeleteByAppointment(ctx context.Context, appointmentID string) error {
	const query = `DELETE FROM bookings WHERE appointment_id = $1`
	if _, err := r.db.ExecContext(ctx, query, appointmentID); err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	return nil
}

// The bookings table carries an exclusion constraint on
// (resource_id, tstzrange(start_at, end_at)) as a data-layer backstop;
// code 23P01 is its violation, 23505 covers unique races.
func isExclusionViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23P01" || pqErr.Code == "23505"
	}
	return false
}
