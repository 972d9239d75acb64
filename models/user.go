package models

import "time"

// User represents an account entity used for authentication and authorization.
// Journals and cost trackers are stored per user; every entity endpoint
// requires an authenticated user.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// Name is the display name of the user.
	Name string `json:"name,omitempty"`

	// Password carries the plaintext password on register/login requests
	// only; it is never stored or returned.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash kept at the persistence layer.
	// Never exposed via JSON.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
