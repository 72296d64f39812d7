package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/oncode-dev/oncode/internal/apperror"
)

func assertValidationError(t *testing.T, err error, wantField string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if wantField != "" && appErr.Field != wantField {
		t.Errorf("Field = %q, want %q", appErr.Field, wantField)
	}
}

func TestValidateRegister(t *testing.T) {
	valid := Register{Name: "Ada", Email: "ada@example.com", Password: "longenough"}
	if err := Validate(&valid); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	tests := []struct {
		name    string
		payload Register
		field   string
	}{
		{"missing name", Register{Email: "a@b.co", Password: "longenough"}, "name"},
		{"name too long", Register{Name: strings.Repeat("x", 256), Email: "a@b.co", Password: "longenough"}, "name"},
		{"bad email", Register{Name: "Ada", Email: "not-an-email", Password: "longenough"}, "email"},
		{"password 7 chars", Register{Name: "Ada", Email: "a@b.co", Password: "seven77"}, "password"},
		{"missing password", Register{Name: "Ada", Email: "a@b.co"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidationError(t, Validate(&tt.payload), tt.field)
		})
	}
}

func TestValidateCreateSnippet(t *testing.T) {
	valid := CreateSnippet{Title: "hello", Code: "print(1)", Language: "python"}
	if err := Validate(&valid); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	tests := []struct {
		name    string
		payload CreateSnippet
	}{
		{"missing title", CreateSnippet{Code: "x", Language: "go"}},
		{"title too long", CreateSnippet{Title: strings.Repeat("t", 101), Code: "x", Language: "go"}},
		{"empty code", CreateSnippet{Title: "t", Language: "go"}},
		{"missing language", CreateSnippet{Title: "t", Code: "x"}},
		{"description too long", CreateSnippet{Title: "t", Code: "x", Language: "go", Description: strings.Repeat("d", 501)}},
		{"too many tags", CreateSnippet{Title: "t", Code: "x", Language: "go", Tags: make([]string, 11)}},
		{"tag too long", CreateSnippet{Title: "t", Code: "x", Language: "go", Tags: []string{strings.Repeat("g", 21)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidationError(t, Validate(&tt.payload), "")
		})
	}
}

func TestValidateUpdateSnippet(t *testing.T) {
	// An entirely empty update is a valid no-op.
	empty := UpdateSnippet{}
	if err := Validate(&empty); err != nil {
		t.Fatalf("empty update rejected: %v", err)
	}
	if !empty.Empty() {
		t.Error("Empty() should be true for a zero UpdateSnippet")
	}

	title := "new title"
	partial := UpdateSnippet{Title: &title}
	if err := Validate(&partial); err != nil {
		t.Fatalf("partial update rejected: %v", err)
	}
	if partial.Empty() {
		t.Error("Empty() should be false when a field is present")
	}

	// Present-but-invalid fields are still validated.
	longTitle := strings.Repeat("t", 101)
	assertValidationError(t, Validate(&UpdateSnippet{Title: &longTitle}), "title")

	emptyCode := ""
	assertValidationError(t, Validate(&UpdateSnippet{Code: &emptyCode}), "code")
}

func TestValidateExecute(t *testing.T) {
	valid := Execute{Code: "print(1)", Language: "python"}
	if err := Validate(&valid); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	withStdin := Execute{Code: "input()", Language: "python", Stdin: "42"}
	if err := Validate(&withStdin); err != nil {
		t.Fatalf("payload with stdin rejected: %v", err)
	}

	assertValidationError(t, Validate(&Execute{Language: "python"}), "code")
	assertValidationError(t, Validate(&Execute{Code: "x"}), "language")
}
