package directory

import (
	"strings"

	"github.com/prn-tf/castellan/internal/domain"
)

// Filter narrows a listed snapshot to records whose username, email, or
// role contains the query, case-insensitively. It is a pure projection
// for the presentation layer; the store itself is never consulted or
// mutated. An empty query returns the input unchanged.
func Filter(users []*domain.User, query string) []*domain.User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.Role.String()), q) {
			out = append(out, u)
		}
	}
	return out
}
