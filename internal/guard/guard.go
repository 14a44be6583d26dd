// Package guard implements the route-guard contract consumed by the
// presentation layer: given the current session state and an optional
// required role, decide whether a view may be shown or where to send
// the user instead.
package guard

import "github.com/prn-tf/castellan/internal/domain"

// Decision is the outcome of a guard check.
type Decision int

const (
	// Allow lets the requested view render.
	Allow Decision = iota

	// RedirectLogin sends an unauthenticated user to the login view.
	RedirectLogin

	// RedirectProfile sends an authenticated user without the required
	// role back to their own profile.
	RedirectProfile
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-to-login"
	case RedirectProfile:
		return "redirect-to-profile"
	default:
		return "unknown"
	}
}

// Requirement describes what a protected view demands.
type Requirement struct {
	// Role is the required role. Empty means any authenticated user.
	Role domain.Role
}

// Check decides whether a view protected by req may be shown to a
// visitor with the given authentication state and role.
func Check(authenticated bool, role domain.Role, req Requirement) Decision {
	if !authenticated {
		return RedirectLogin
	}
	if req.Role != "" && !domain.CanAccess(role, req.Role) {
		return RedirectProfile
	}
	return Allow
}
