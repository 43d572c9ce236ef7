package dto

import (
	"time"

	"moviereviews/internal/http-api/models"
)

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

// RegisterResponse: the created account
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPair: response payload after successful login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest: payload for refreshing access token and for logout
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// AccessResponse: response payload after refreshing access token
type AccessResponse struct {
	Access string `json:"access"`
}

// MeResponse: GET /auth/me
type MeResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

func FromUser(u *models.User) MeResponse {
	return MeResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		DateJoined: u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}

// UpdateProfileRequest: PATCH /auth/profile. Changing the password requires
// the current one.
type UpdateProfileRequest struct {
	Username        *string `json:"username" binding:"omitempty,min=3,max=150"`
	Email           *string `json:"email" binding:"omitempty,email,max=254"`
	Password        *string `json:"password"`
	CurrentPassword string  `json:"current_password"`
}
