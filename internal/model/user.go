// Package model defines the data structures shared across the application:
// plain values with json/db struct tags, no behaviour beyond the occasional
// helper method.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is empty for accounts created through an OAuth provider. Those
// users have no password to compare against, and the credentials login path
// treats them exactly like a wrong password (see service.AuthService.Login).
//
// The `json:"-"` tag on PasswordHash means the hash can never leak through an
// API response, no matter which handler serializes the user.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Image        string    `json:"image"     db:"image"` // avatar URL, may be empty
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// HasPassword reports whether this account can log in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
