package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oncode-dev/oncode/internal/apperror"
	"github.com/oncode-dev/oncode/internal/auth"
	"github.com/oncode-dev/oncode/internal/model"
	"github.com/oncode-dev/oncode/internal/request"
)

// mockUserRepo is an in-memory repository.UserRepository. Tests only exercise
// the service logic; the sqlite behaviour has its own tests.
type mockUserRepo struct {
	byEmail map[string]*model.User
	nextID  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return apperror.Conflict("user with this email already exists")
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.byEmail[user.Email] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) UpsertUserByEmail(_ context.Context, user *model.User) error {
	if existing, ok := m.byEmail[user.Email]; ok {
		user.ID = existing.ID
		user.PasswordHash = existing.PasswordHash
		stored := *user
		m.byEmail[user.Email] = &stored
		return nil
	}
	return m.CreateUser(context.Background(), user)
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, tokens, passwords, logger), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestAuthService(t)

	user, err := svc.Register(context.Background(), request.Register{
		Name:     "Ada",
		Email:    "Ada@Example.COM",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() should return a user with an ID")
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash != "" {
		t.Error("returned user must not carry the password hash")
	}
	// The stored row does have a hash, and it is not the plaintext.
	stored := repo.byEmail["ada@example.com"]
	if stored == nil || stored.PasswordHash == "" || stored.PasswordHash == "longenough" {
		t.Errorf("stored user = %+v", stored)
	}
}

func TestRegister_ShortPassword_NoRowCreated(t *testing.T) {
	svc, repo := newTestAuthService(t)

	_, err := svc.Register(context.Background(), request.Register{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "seven77",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Register() = %v, want validation error", err)
	}
	if len(repo.byEmail) != 0 {
		t.Errorf("no user row should exist, found %d", len(repo.byEmail))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo := newTestAuthService(t)

	reg := request.Register{Name: "Ada", Email: "ada@example.com", Password: "longenough"}
	if _, err := svc.Register(context.Background(), reg); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), reg)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Register() = %v, want conflict", err)
	}
	if len(repo.byEmail) != 1 {
		t.Errorf("exactly one user row should exist, found %d", len(repo.byEmail))
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), request.Register{
		Name: "Ada", Email: "ada@example.com", Password: "longenough",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(context.Background(), request.Login{
		Email:    "ada@example.com",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() should issue a token")
	}
	if result.User.PasswordHash != "" {
		t.Error("Login() must not return the password hash")
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, repo := newTestAuthService(t)

	// A credentials account and an OAuth-only account (no password hash).
	if _, err := svc.Register(context.Background(), request.Register{
		Name: "Ada", Email: "ada@example.com", Password: "longenough",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	repo.byEmail["oauth@example.com"] = &model.User{ID: "user-oauth", Email: "oauth@example.com"}

	cases := []struct {
		name  string
		login request.Login
	}{
		{"unknown email", request.Login{Email: "ghost@example.com", Password: "whatever1"}},
		{"oauth-only account", request.Login{Email: "oauth@example.com", Password: "whatever1"}},
		{"wrong password", request.Login{Email: "ada@example.com", Password: "wrongwrong"}},
	}

	var messages []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.login)
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Fatalf("Login() = %v, want unauthorized", err)
			}
			messages = append(messages, err.Error())
		})
	}

	// All three failure shapes must produce the same message; anything else
	// lets a caller enumerate accounts.
	for i := 1; i < len(messages); i++ {
		if messages[i] != messages[0] {
			t.Errorf("failure messages differ: %q vs %q", messages[0], messages[i])
		}
	}
}

func TestLoginOAuth_FirstLoginCreatesAccount(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.LoginOAuth(context.Background(), &auth.Profile{
		Provider: "github",
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Image:    "https://img.example/ada.png",
	})
	if err != nil {
		t.Fatalf("LoginOAuth() error = %v", err)
	}
	if result.Token == "" {
		t.Error("LoginOAuth() should issue a token")
	}

	stored := repo.byEmail["ada@example.com"]
	if stored == nil {
		t.Fatal("OAuth login should create the user")
	}
	if stored.PasswordHash != "" {
		t.Error("OAuth-created account should have no password hash")
	}
}

func TestGetUserByID_StripsHash(t *testing.T) {
	svc, _ := newTestAuthService(t)

	created, err := svc.Register(context.Background(), request.Register{
		Name: "Ada", Email: "ada@example.com", Password: "longenough",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("GetUserByID() must not return the password hash")
	}
	if !strings.EqualFold(user.Email, "ada@example.com") {
		t.Errorf("Email = %q", user.Email)
	}
}
