package dto

import (
	"time"

	"github.com/spec-kit/quote-service/internal/domain"
)

// RegisterRequest payload for POST /api/register.
type RegisterRequest struct {
	Email           string  `json:"email" validate:"required,email,max=255"`
	Password        string  `json:"password" validate:"required,min=8,max=72"`
	FirstName       string  `json:"firstName" validate:"required,max=100"`
	LastName        string  `json:"lastName" validate:"required,max=100"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,url,max=500"`
}

// LoginRequest payload for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is a user without its password hash. IsAdmin is 0 or 1.
type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	IsAdmin         int       `json:"isAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UserProfileResponse is the owner block attached to quote details.
type UserProfileResponse struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	isAdmin := 0
	if u.IsAdmin {
		isAdmin = 1
	}
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		IsAdmin:         isAdmin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
