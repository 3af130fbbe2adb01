package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an operator allowed to sign in to the API.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Identity is the verified caller attached to a request by the auth middleware.
type Identity struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

type CreateUserRequest struct {
	Username string `validate:"required,min=3,max=50,alphanum"`
	Password string `validate:"required,min=8,max=72"`
	FullName string `validate:"required,max=100"`
}

type ChangePasswordRequest struct {
	Username    string `validate:"required"`
	NewPassword string `validate:"required,min=8,max=72"`
}
