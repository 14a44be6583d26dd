// Package forms validates user input before any store operation is
// attempted. Validation failures are rendered inline by the
// presentation layer, so the messages here are written for humans, one
// per failing field.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/prn-tf/castellan/internal/domain"
)

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterForm is the self-registration form. The password must be
// confirmed and meet the minimum length.
type RegisterForm struct {
	Username        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// ProfileForm is the profile-editing form.
type ProfileForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
}

// CreateUserForm is the administrative account-creation form; unlike
// registration the role is chosen explicitly.
type CreateUserForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Role     string `validate:"required,oneof=user admin"`
}

// Validator wraps go-playground/validator with human-readable messages.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a ready-to-use form validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate checks the given form. On failure it returns an error that
// wraps domain.ErrValidation and joins one message per failing field.
func (fv *Validator) Validate(form any) error {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// fieldError converts a single ValidationError into a human-readable
// message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
