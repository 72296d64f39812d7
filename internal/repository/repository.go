// Package repository defines the storage interfaces consumed by the service
// layer. The only production implementation is repository/sqlite; services
// are written against these interfaces so tests can swap in-memory fakes.
package repository

import (
	"context"

	"github.com/oncode-dev/oncode/internal/model"
)

// SnippetRepository stores code snippets.
//
// Every read/update/delete takes the requesting user's ID and filters by
// (id, user_id) in one query. A snippet that does not exist and a snippet
// owned by another user produce the same not-found error; ownership is
// enforced at the query layer, not by a separate authorization check.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id, userID string) (*model.Snippet, error)
	ListByUser(ctx context.Context, userID string) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id, userID string) error
}

// UserRepository stores user accounts.
//
// Method names carry the entity ("User") because the sqlite implementation
// hangs both repositories off one *DB receiver, where Create/GetByID are
// already taken by snippets.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertUserByEmail creates the user on first OAuth login or refreshes
	// name/image on subsequent logins, keyed by email. It never touches
	// PasswordHash, so linking an OAuth identity to an existing credentials
	// account keeps the password intact.
	UpsertUserByEmail(ctx context.Context, user *model.User) error
}
