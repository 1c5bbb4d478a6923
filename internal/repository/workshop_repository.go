package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/motorhall/garage-api/internal/models"
)

// WorkshopRepository reads workshop records. Workshop management lives
// in a separate admin system; this API only resolves references.
type WorkshopRepository struct {
	db *sqlx.DB
}

// NewWorkshopRepository constructs the repository.
func NewWorkshopRepository(db *sqlx.DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

// FindByID loads a workshop.
func (r *WorkshopRepository) FindByID(ctx context.Context, id string) (*models.Workshop, error) {
	const query = `SELECT id, name, address, phone, active, created_at, updated_at FROM workshops WHERE id = $1`
	var workshop models.Workshop
	if err := r.db.GetContext(ctx, &workshop, query, id); err != nil {
		return nil, err
	}
	return &workshop, nil
}

// List returns active workshops ordered by name.
func (r *WorkshopRepository) List(ctx context.Context) ([]models.Workshop, error) {
	const query = `SELECT id, name, address, phone, active, created_at, updated_at FROM workshops WHERE active = TRUE ORDER BY name ASC`
	var workshops []models.Workshop
	if err := r.db.SelectContext(ctx, &workshops, query); err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, nil
}
