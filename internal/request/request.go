// Package request defines the API request payloads and their declarative
// validation rules.
//
// Each payload type carries `validate` struct tags interpreted by
// go-playground/validator. Validate() translates the first violation into a
// field-level apperror.ValidationFailed, so handlers get a domain error they
// can pass straight to writeError.
package request

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oncode-dev/oncode/internal/apperror"
)

// One validator instance for the whole package. The validator caches struct
// metadata internally and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Register is the payload for POST /api/auth/register.
type Register struct {
	Name     string `json:"name"     validate:"required,min=1,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login is the payload for POST /api/auth/login.
type Login struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateSnippet is the payload for POST /api/snippets.
type CreateSnippet struct {
	Title       string   `json:"title"       validate:"required,min=1,max=100"`
	Code        string   `json:"code"        validate:"required,min=1"`
	Language    string   `json:"language"    validate:"required,min=1"`
	Description string   `json:"description" validate:"max=500"`
	Tags        []string `json:"tags"        validate:"max=10,dive,max=20"`
}

// UpdateSnippet is the payload for PUT /api/snippets/{id}.
//
// All fields are pointers so that "absent" and "set to zero value" can be told
// apart: a nil field is left untouched, a non-nil field is validated and
// applied. An entirely empty body is a valid no-op update.
type UpdateSnippet struct {
	Title       *string   `json:"title"       validate:"omitempty,min=1,max=100"`
	Code        *string   `json:"code"        validate:"omitempty,min=1"`
	Language    *string   `json:"language"    validate:"omitempty,min=1"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Tags        *[]string `json:"tags"        validate:"omitempty,max=10,dive,max=20"`
}

// Empty reports whether the update carries no fields at all.
func (u *UpdateSnippet) Empty() bool {
	return u.Title == nil && u.Code == nil && u.Language == nil &&
		u.Description == nil && u.Tags == nil
}

// Execute is the payload for POST /api/execute.
type Execute struct {
	Code     string `json:"code"     validate:"required,min=1"`
	Language string `json:"language" validate:"required,min=1"`
	Stdin    string `json:"stdin"    validate:"omitempty"`
}

// Validate checks v against its struct tags and returns nil or a single
// apperror.ValidationFailed for the first failing field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		// Non-field error (e.g. passing a non-struct). Programmer mistake.
		return apperror.ValidationFailed("", err.Error())
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	return apperror.ValidationFailed(field, messageFor(fe))
}

// messageFor renders a human-readable message for one violated rule. Kept to
// the rules actually used by the payload types above.
func messageFor(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "invalid email address"
	case "min":
		if fe.Kind().String() == "string" && fe.Param() == "1" {
			return fmt.Sprintf("%s cannot be empty", field)
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s can have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s can be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
