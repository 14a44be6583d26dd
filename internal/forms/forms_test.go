package forms

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/castellan/internal/domain"
)

func TestValidate(t *testing.T) {
	fv := NewValidator()

	tests := []struct {
		name    string
		form    any
		wantMsg string // empty means the form is valid
	}{
		{
			name: "valid login",
			form: LoginForm{Email: "admin@example.com", Password: "password"},
		},
		{
			name:    "login missing email",
			form:    LoginForm{Password: "password"},
			wantMsg: "email is required",
		},
		{
			name:    "login malformed email",
			form:    LoginForm{Email: "not-an-email", Password: "password"},
			wantMsg: "email must be a valid email",
		},
		{
			name:    "login missing password",
			form:    LoginForm{Email: "admin@example.com"},
			wantMsg: "password is required",
		},
		{
			name: "valid registration",
			form: RegisterForm{
				Username:        "alice",
				Email:           "alice@example.com",
				Password:        "longenough",
				ConfirmPassword: "longenough",
			},
		},
		{
			name: "registration short password",
			form: RegisterForm{
				Username:        "alice",
				Email:           "alice@example.com",
				Password:        "short",
				ConfirmPassword: "short",
			},
			wantMsg: "password must be at least 8 characters",
		},
		{
			name: "registration confirmation mismatch",
			form: RegisterForm{
				Username:        "alice",
				Email:           "alice@example.com",
				Password:        "longenough",
				ConfirmPassword: "different1",
			},
			wantMsg: "passwords do not match",
		},
		{
			name:    "profile missing username",
			form:    ProfileForm{Email: "alice@example.com"},
			wantMsg: "username is required",
		},
		{
			name: "valid admin create",
			form: CreateUserForm{Username: "bob", Email: "bob@example.com", Role: "admin"},
		},
		{
			name:    "admin create bad role",
			form:    CreateUserForm{Username: "bob", Email: "bob@example.com", Role: "owner"},
			wantMsg: "role must be one of: user admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fv.Validate(tt.form)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrValidation)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
