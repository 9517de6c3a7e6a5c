package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/arjunpatil/vendortrack-backend/pkg/db/models"
)

// UserDTO is the user payload returned to clients. The password hash never
// leaves the persistence layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateUserDTO captures the values needed to insert a user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
}

// ToModel produces the persistence model with a fresh identifier.
func (d CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
	}
}

// FromModel maps the persisted user onto the response shape.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
