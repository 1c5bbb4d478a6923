package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/motorhall/garage-api/internal/models"
)

// MechanicRepository reads workshop crew records.
type MechanicRepository struct {
	db *sqlx.DB
}

// NewMechanicRepository constructs the repository.
func NewMechanicRepository(db *sqlx.DB) *MechanicRepository {
	return &MechanicRepository{db: db}
}

const mechanicColumns = "id, workshop_id, full_name, email, phone, position, active, created_at, updated_at"

// FindByID loads a mechanic.
func (r *MechanicRepository) FindByID(ctx context.Context, id string) (*models.Mechanic, error) {
	query := fmt.Sprintf(`SELECT %s FROM mechanics WHERE id = $1`, mechanicColumns)
	var mechanic models.Mechanic
	if err := r.db.GetContext(ctx, &mechanic, query, id); err != nil {
		return nil, err
	}
	return &mechanic, nil
}

// ListByWorkshop returns a workshop's active crew in affiliation order.
// The order matters: the default assignment policy picks the first
// free mechanic from this list.
func (r *MechanicRepository) ListByWorkshop(ctx context.Context, workshopID string) ([]models.Mechanic, error) {
	query := fmt.Sprintf(`SELECT %s FROM mechanics
WHERE workshop_id = $1 AND active = TRUE ORDER BY position ASC, created_at ASC`, mechanicColumns)
	var mechanics []models.Mechanic
	if err := r.db.SelectContext(ctx, &mechanics, query, workshopID); err != nil {
		return nil, fmt.Errorf("list mechanics: %w", err)
	}
	return mechanics, nil
}
