// Package domain contains the core business entities for Castellan.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the user-management demo.
package domain

import "fmt"

// Role is the authorization role of a user account.
// Exactly one role is assigned per account; there are no multi-role accounts.
type Role string

const (
	// RoleUser is the default role for self-registered accounts.
	RoleUser Role = "user"

	// RoleAdmin grants access to the administrative console.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// CanAccess is the central authorization policy: it reports whether a
// holder of role may use a surface that requires the given role.
// The check is strict equality: an admin surface requires the admin
// role, a user surface requires the user role.
func CanAccess(role, required Role) bool {
	return role == required
}

// User represents an account known to the system.
type User struct {
	// ID is the unique identifier for the user, assigned at creation
	// time and immutable thereafter.
	ID int64 `json:"id"`

	// Username is the non-empty display name. Mutable.
	Username string `json:"username"`

	// Email is the login identifier. Expected to be a basic
	// local@domain.tld address; uniqueness is checked at registration
	// and administrative creation time.
	Email string `json:"email"`

	// Role determines authorization for the admin console.
	Role Role `json:"role"`

	// Active is the administrative enable flag. Inactive accounts stay
	// listed in the directory but are flagged as deactivated.
	Active bool `json:"active"`
}

// NewUser creates a user with the defaults applied at registration:
// the user role and an active account. The ID is assigned by the store.
func NewUser(username, email string) *User {
	return &User{
		Username: username,
		Email:    email,
		Role:     RoleUser,
		Active:   true,
	}
}

// Clone returns a copy of the user. Stores hand out clones so callers
// can never mutate store-owned records directly.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
