package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/motorhall/garage-api/internal/models"
)

// ScheduleWindowRepository persists weekly working windows.
type ScheduleWindowRepository struct {
	db *sqlx.DB
}

// NewScheduleWindowRepository constructs the repository.
func NewScheduleWindowRepository(db *sqlx.DB) *ScheduleWindowRepository {
	return &ScheduleWindowRepository{db: db}
}

const windowColumns = "id, resource_id, resource_kind, weekday, start_time, end_time, is_available, slot_duration_minutes, created_at, updated_at"

// FindForWeekday loads the window a resource has on a weekday.
// Returns sql.ErrNoRows when no window is defined (a closed day, not
// an error condition for callers).
func (r *ScheduleWindowRepository) FindForWeekday(ctx context.Context, resourceID string, kind models.ResourceKind, weekday int) (*models.ScheduleWindow, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_windows
WHERE resource_id = $1 AND resource_kind = $2 AND weekday = $3`, windowColumns)
	var window models.ScheduleWindow
	if err := r.db.GetContext(ctx, &window, query, resourceID, kind, weekday); err != nil {
		return nil, err
	}
	return &window, nil
}

// ListForResource returns all windows of a resource ordered by weekday.
func (r *ScheduleWindowRepository) ListForResource(ctx context.Context, resourceID string, kind models.ResourceKind) ([]models.ScheduleWindow, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_windows
WHERE resource_id = $1 AND resource_kind = $2 ORDER BY weekday ASC`, windowColumns)
	var windows []models.ScheduleWindow
	if err := r.db.SelectContext(ctx, &windows, query, resourceID, kind); err != nil {
		return nil, fmt.Errorf("list schedule windows: %w", err)
	}
	return windows, nil
}

// Upsert creates or replaces the window for (resource, weekday).
func (r *ScheduleWindowRepository) Upsert(ctx context.Context, window *models.ScheduleWindow) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if window.CreatedAt.IsZero() {
		window.CreatedAt = now
	}
	window.UpdatedAt = now

	const query = `INSERT INTO schedule_windows (id, resource_id, resource_kind, weekday, start_time, end_time, is_available, slot_duration_minutes, created_at, updated_at)
VALUES (:id, :resource_id, :resource_kind, :weekday, :start_time, :end_time, :is_available, :slot_duration_minutes, :created_at, :updated_at)
ON CONFLICT (resource_id, resource_kind, weekday) DO UPDATE SET
start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
is_available = EXCLUDED.is_available, slot_duration_minutes = EXCLUDED.slot_duration_minutes,
updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("upsert schedule window: %w", err)
	}
	return nil
}

// Delete removes a window by id.
func (r *ScheduleWindowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule window: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
