// Package seed provides the demo accounts the directory starts with.
package seed

import "github.com/prn-tf/castellan/internal/domain"

// Users returns the reference demo accounts. The sentinel password
// signs in any of them.
func Users() []*domain.User {
	return []*domain.User{
		{ID: 1, Username: "admin", Email: "admin@example.com", Role: domain.RoleAdmin, Active: true},
		{ID: 2, Username: "user1", Email: "user1@example.com", Role: domain.RoleUser, Active: true},
		{ID: 3, Username: "user2", Email: "user2@example.com", Role: domain.RoleUser, Active: true},
	}
}
