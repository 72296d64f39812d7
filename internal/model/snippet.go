package model

import "time"

// Snippet represents a saved code snippet owned by a single user.
//
// Tags is serialized as a JSON array both over the API and in the database
// (SQLite has no array type, so the sqlite repository stores it as TEXT).
// A nil slice and an empty slice are equivalent: no tags.
type Snippet struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	Title       string    `json:"title"       db:"title"`
	Code        string    `json:"code"        db:"code"`
	Language    string    `json:"language"    db:"language"`
	Description string    `json:"description" db:"description"`
	Tags        []string  `json:"tags"        db:"tags"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
