package models

import "time"

// Workshop represents a garage location with bookable capacity.
type Workshop struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Mechanic represents a member of a workshop's crew.
// Position defines the affiliation order used by the default
// first-available assignment policy.
type Mechanic struct {
	ID         string    `db:"id" json:"id"`
	WorkshopID string    `db:"workshop_id" json:"workshop_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	Email      string    `db:"email" json:"email"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Position   int       `db:"position" json:"position"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
