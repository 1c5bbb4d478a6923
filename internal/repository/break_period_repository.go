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

// BreakPeriodRepository persists availability exceptions.
type BreakPeriodRepository struct {
	db *sqlx.DB
}

// NewBreakPeriodRepository constructs the repository.
func NewBreakPeriodRepository(db *sqlx.DB) *BreakPeriodRepository {
	return &BreakPeriodRepository{db: db}
}

const breakColumns = "id, resource_id, resource_kind, start_date, end_date, start_time, end_time, reason, is_recurring, created_at, updated_at"

// ListForDate returns breaks that may apply on the given day. Recurring
// rows are always returned; the caller decides applicability via
// BreakPeriod.ContainsDate since yearly recurrence is date arithmetic,
// not SQL.
func (r *BreakPeriodRepository) ListForDate(ctx context.Context, resourceID string, kind models.ResourceKind, date time.Time) ([]models.BreakPeriod, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	query := fmt.Sprintf(`SELECT %s FROM break_periods
WHERE resource_id = $1 AND resource_kind = $2
AND (is_recurring OR (start_date <= $3 AND end_date >= $3))
ORDER BY start_date ASC`, breakColumns)
	var breaks []models.BreakPeriod
	if err := r.db.SelectContext(ctx, &breaks, query, resourceID, kind, day); err != nil {
		return nil, fmt.Errorf("list break periods: %w", err)
	}
	return breaks, nil
}

// ListForResource returns every break of a resource.
func (r *BreakPeriodRepository) ListForResource(ctx context.Context, resourceID string, kind models.ResourceKind) ([]models.BreakPeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM break_periods
WHERE resource_id = $1 AND resource_kind = $2 ORDER BY start_date ASC`, breakColumns)
	var breaks []models.BreakPeriod
	if err := r.db.SelectContext(ctx, &breaks, query, resourceID, kind); err != nil {
		return nil, fmt.Errorf("list break periods: %w", err)
	}
	return breaks, nil
}

// Create inserts a break period.
func (r *BreakPeriodRepository) Create(ctx context.Context, breakPeriod *models.BreakPeriod) error {
	if breakPeriod.ID == "" {
		breakPeriod.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if breakPeriod.CreatedAt.IsZero() {
		breakPeriod.CreatedAt = now
	}
	breakPeriod.UpdatedAt = now

	const query = `INSERT INTO break_periods (id, resource_id, resource_kind, start_date, end_date, start_time, end_time, reason, is_recurring, created_at, updated_at)
VALUES (:id, :resource_id, :resource_kind, :start_date, :end_date, :start_time, :end_time, :reason, :is_recurring, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, breakPeriod); err != nil {
		return fmt.Errorf("create break period: %w", err)
	}
	return nil
}

// Delete removes a break period by id.
func (r *BreakPeriodRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM break_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete break period: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
