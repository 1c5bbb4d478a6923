package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorhall/garage-api/internal/models"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := NewTokenService("secret")
	signed := signToken(t, "secret", models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStaff, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewTokenService("secret")
	signed := signToken(t, "other", models.JWTClaims{UserID: "u1"})

	_, err := svc.ValidateToken(signed)
	require.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewTokenService("secret")
	signed := signToken(t, "secret", models.JWTClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := svc.ValidateToken(signed)
	require.Error(t, err)
}

func TestFirstAvailablePolicy(t *testing.T) {
	policy := FirstAvailablePolicy{}

	_, ok := policy.Assign(nil)
	assert.False(t, ok)

	chosen, ok := policy.Assign([]models.Mechanic{{ID: "m2"}, {ID: "m1"}})
	assert.True(t, ok)
	assert.Equal(t, "m2", chosen.ID)
}
