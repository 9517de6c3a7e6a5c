package auth

import (
	"github.com/arjunpatil/vendortrack-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the token endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair holds the bearer credentials returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expired access token and its refresh companion.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterRequest captures the payload for dev-only account creation.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterResponse returns the created user.
type RegisterResponse struct {
	User *users.UserDTO `json:"user"`
}
