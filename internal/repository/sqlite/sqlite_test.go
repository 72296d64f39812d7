package sqlite

import (
	"context"
	"testing"

	"github.com/oncode-dev/oncode/internal/model"
)

// newTestDB opens a fresh in-memory database per test: fast, isolated, and
// destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user row. Snippets have a foreign key to users,
// so every snippet test needs at least one of these.
func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, PasswordHash: "$2a$10$fakefakefakefakefakefake"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// createTestSnippet inserts a snippet owned by userID.
func createTestSnippet(t *testing.T, db *DB, userID, title string) *model.Snippet {
	t.Helper()
	snippet := &model.Snippet{
		UserID:   userID,
		Title:    title,
		Code:     "print('hello')",
		Language: "python",
	}
	if err := db.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}
