package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/oncode-dev/oncode/internal/auth"
	"github.com/oncode-dev/oncode/internal/handler"
	"github.com/oncode-dev/oncode/internal/model"
	"github.com/oncode-dev/oncode/internal/service"
)

func newAuthHandler(t *testing.T) (*handler.AuthHandler, *memUserRepo) {
	t.Helper()

	repo := newMemUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	svc := service.NewAuthService(repo, tokens, passwords, testLogger())
	return handler.NewAuthHandler(svc, tokens, nil, testLogger()), repo
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	return nil
}

func TestHandleRegister(t *testing.T) {
	h, repo := newAuthHandler(t)

	rec := postJSON(t, h.HandleRegister, "/api/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "longenough",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Message string     `json:"message"`
		User    model.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User registered successfully", body.Message)
	assert.NotEmpty(t, body.User.ID)
	assert.NotContains(t, rec.Body.String(), "password", "response must not leak password material")

	assert.Len(t, repo.byEmail, 1)
}

func TestHandleRegister_Validation(t *testing.T) {
	h, repo := newAuthHandler(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"name": "Ada", "email": "ada@example.com", "password": "seven77"}},
		{"bad email", map[string]string{"name": "Ada", "email": "not-an-email", "password": "longenough"}},
		{"missing name", map[string]string{"email": "ada@example.com", "password": "longenough"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.HandleRegister, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	assert.Empty(t, repo.byEmail, "rejected registrations must not create rows")
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	h, _ := newAuthHandler(t)

	body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "longenough"}
	assert.Equal(t, http.StatusCreated, postJSON(t, h.HandleRegister, "/api/auth/register", body).Code)
	assert.Equal(t, http.StatusConflict, postJSON(t, h.HandleRegister, "/api/auth/register", body).Code)
}

func TestHandleLogin(t *testing.T) {
	h, _ := newAuthHandler(t)

	postJSON(t, h.HandleRegister, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "longenough",
	})

	rec := postJSON(t, h.HandleLogin, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "longenough",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	if assert.NotNil(t, cookie, "login must set the session cookie") {
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	}

	var user model.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	h, _ := newAuthHandler(t)

	postJSON(t, h.HandleRegister, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "longenough",
	})

	tests := []struct {
		name string
		body map[string]string
	}{
		{"unknown email", map[string]string{"email": "ghost@example.com", "password": "whatever1"}},
		{"wrong password", map[string]string{"email": "ada@example.com", "password": "wrongwrong"}},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.HandleLogin, "/api/auth/login", tt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, sessionCookie(rec), "failed login must not set a cookie")
			bodies = append(bodies, rec.Body.String())
		})
	}

	// Identical responses for both failure shapes.
	if len(bodies) == 2 {
		assert.Equal(t, bodies[0], bodies[1])
	}
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	if assert.NotNil(t, cookie) {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestHandleMe(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postJSON(t, h.HandleRegister, "/api/auth/register", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "longenough",
	})
	var created struct {
		User model.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), created.User.ID))
	rec = httptest.NewRecorder()
	h.HandleMe(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestHandleMe_NoSession(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	h.HandleMe(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleOAuthLogin_UnknownProvider(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/myspace/login", nil)
	req.SetPathValue("provider", "myspace")
	rec := httptest.NewRecorder()
	h.HandleOAuthLogin(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
