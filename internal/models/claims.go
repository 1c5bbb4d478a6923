package models

import "github.com/golang-jwt/jwt/v5"

// StaffRole identifies the caller's role carried in access tokens.
// Accounts are managed by an external identity service; this API only
// validates tokens it is handed.
type StaffRole string

const (
	RoleAdmin StaffRole = "ADMIN"
	RoleStaff StaffRole = "STAFF"
)

// JWTClaims is the access token payload.
type JWTClaims struct {
	UserID   string    `json:"user_id"`
	Role     StaffRole `json:"role"`
	FullName string    `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}
