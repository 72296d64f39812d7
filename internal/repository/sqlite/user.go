package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/oncode-dev/oncode/internal/apperror"
	"github.com/oncode-dev/oncode/internal/model"
	"github.com/oncode-dev/oncode/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, name, email, password_hash, image, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Image,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. The service layer checks for an existing email
// first, but two concurrent registrations can still race; the UNIQUE
// constraint is the backstop, translated to apperror.ErrConflict here.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Image,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// The driver reports constraint violations as typed errors; the only
		// UNIQUE constraint on users is the email column.
		var serr *sqlite3.Error
		if errors.As(err, &serr) && serr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE {
			return apperror.Conflict("user with this email already exists")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email. Callers on the login path must not
// leak the not-found distinction to clients.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return u, nil
}

// UpsertUserByEmail creates the user on first OAuth login, or refreshes name and
// image on a returning login. The existing internal ID and password hash are
// preserved, so an OAuth login against a credentials account links rather
// than clobbers.
func (db *DB) UpsertUserByEmail(ctx context.Context, user *model.User) error {
	existing, err := db.GetUserByEmail(ctx, user.Email)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("sqlite: upserting user by email: %w", err)
	}

	if existing != nil {
		user.ID = existing.ID
		user.PasswordHash = existing.PasswordHash
		user.CreatedAt = existing.CreatedAt
		user.UpdatedAt = time.Now()
		if user.Name == "" {
			user.Name = existing.Name
		}
		if user.Image == "" {
			user.Image = existing.Image
		}

		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET name = ?, image = ?, updated_at = ? WHERE id = ?`,
			user.Name,
			user.Image,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	return db.CreateUser(ctx, user)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
