package auth

import (
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting an access JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
	Name   string
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email"`
	Role   enums.Role `json:"role"`
	Name   string     `json:"name"`
	jwt.RegisteredClaims
}

// RefreshTokenPayload carries identity only; role and email are re-read on refresh.
type RefreshTokenPayload struct {
	UserID       uuid.UUID
	TokenVersion int
	JTI          string
}

type RefreshTokenClaims struct {
	UserID       uuid.UUID `json:"user_id"`
	TokenVersion int       `json:"token_version,omitempty"`
	jwt.RegisteredClaims
}
