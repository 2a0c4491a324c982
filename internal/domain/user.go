package domain

import "time"

// User is an account that can request quotes. Admins may act on every quote.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	FirstName       string
	LastName        string
	ProfileImageURL *string
	IsAdmin         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserProfile is the public projection of a User attached to quote details.
type UserProfile struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL *string
}

// Profile strips credentials from the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}
