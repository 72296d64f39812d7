package handler_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/oncode-dev/oncode/internal/apperror"
	"github.com/oncode-dev/oncode/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// memUserRepo is an in-memory repository.UserRepository for handler tests.
type memUserRepo struct {
	byEmail map[string]*model.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*model.User)}
}

func (m *memUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return apperror.Conflict("user with this email already exists")
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *memUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

func (m *memUserRepo) UpsertUserByEmail(_ context.Context, user *model.User) error {
	if existing, ok := m.byEmail[user.Email]; ok {
		user.ID = existing.ID
		user.PasswordHash = existing.PasswordHash
		stored := *user
		m.byEmail[user.Email] = &stored
		return nil
	}
	return m.CreateUser(context.Background(), user)
}

// memSnippetRepo is an in-memory repository.SnippetRepository with the same
// ownership scoping as the sqlite implementation.
type memSnippetRepo struct {
	snippets map[string]*model.Snippet
	nextID   int
}

func newMemSnippetRepo() *memSnippetRepo {
	return &memSnippetRepo{snippets: make(map[string]*model.Snippet)}
}

func (m *memSnippetRepo) Create(_ context.Context, snippet *model.Snippet) error {
	m.nextID++
	snippet.ID = fmt.Sprintf("snip-%d", m.nextID)
	snippet.CreatedAt = time.Now()
	snippet.UpdatedAt = snippet.CreatedAt
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *memSnippetRepo) GetByID(_ context.Context, id, userID string) (*model.Snippet, error) {
	s, ok := m.snippets[id]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("snippet", id)
	}
	result := *s
	return &result, nil
}

func (m *memSnippetRepo) ListByUser(_ context.Context, userID string) ([]model.Snippet, error) {
	out := []model.Snippet{}
	for _, s := range m.snippets {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSnippetRepo) Update(_ context.Context, snippet *model.Snippet) error {
	existing, ok := m.snippets[snippet.ID]
	if !ok || existing.UserID != snippet.UserID {
		return apperror.NotFound("snippet", snippet.ID)
	}
	stored := *snippet
	m.snippets[snippet.ID] = &stored
	return nil
}

func (m *memSnippetRepo) Delete(_ context.Context, id, userID string) error {
	s, ok := m.snippets[id]
	if !ok || s.UserID != userID {
		return apperror.NotFound("snippet", id)
	}
	delete(m.snippets, id)
	return nil
}
