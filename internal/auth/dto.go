package auth

import (
	"github.com/angelmondragon/footballzones-backend/internal/users"
	"github.com/angelmondragon/footballzones-backend/pkg/enums"
)

// RegisterRequest captures the self-service signup payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token in the body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangeRoleRequest is the admin payload for replacing a user's role.
type ChangeRoleRequest struct {
	Role enums.Role `json:"role" validate:"required"`
}

// TokenPair is returned after register and login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse bundles tokens with the authenticated user.
type AuthResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}

// RefreshResponse carries a fresh access token. The refresh token is not rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
