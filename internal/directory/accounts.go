package directory

import (
	"context"

	"github.com/prn-tf/castellan/internal/domain"
)

// The methods below are the account-lookup surface the session store is
// built on (see session.Accounts). They skip simulated latency and emit
// no notifications: the session store runs its own round trip and
// reports its own outcome. Keeping both stores on one collection is
// what makes profile edits and admin edits visible to each other.

// FindByEmail returns the record with the given email, exact match, or
// domain.ErrNotFound.
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.records {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

// Find returns the record with the given ID, or domain.ErrNotFound.
func (s *Store) Find(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.locate(id); u != nil {
		return u.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

// Insert assigns the next ID to the given record, appends it, and
// returns the stored copy.
func (s *Store) Insert(ctx context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	c := u.Clone()
	c.ID = s.nextID
	s.records = append(s.records, c)
	return c.Clone(), nil
}

// SyncProfile mirrors the mutable profile fields of the given record
// into the collection, matching on ID. A missing ID is not an error:
// the account may have been deleted by an administrator while the
// session was open.
func (s *Store) SyncProfile(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.locate(u.ID)
	if rec == nil {
		return nil
	}
	rec.Username = u.Username
	rec.Email = u.Email
	return nil
}
