// Package directory implements the administrative user directory: the
// full set of accounts available to an administrator, independent of
// who is currently signed in.
//
// The directory is an explicit store object constructed once per
// process and injected into its consumers; there is no package-level
// mock data. Every operation simulates the variable-latency round trip
// of the backend call it stands in for and reports its outcome through
// the notification channel.
package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/castellan/internal/domain"
	"github.com/prn-tf/castellan/internal/metrics"
	"github.com/prn-tf/castellan/internal/notify"
)

// Delays holds the simulated round-trip latency per operation. The zero
// value disables simulation entirely, which is what tests use.
type Delays struct {
	List   time.Duration
	Get    time.Duration
	Create time.Duration
	Update time.Duration
	Delete time.Duration
	Toggle time.Duration
	Reset  time.Duration
}

// DefaultDelays returns the reference demo timings per operation.
func DefaultDelays() Delays {
	return Delays{
		List:   500 * time.Millisecond,
		Get:    300 * time.Millisecond,
		Create: 800 * time.Millisecond,
		Update: 600 * time.Millisecond,
		Delete: 700 * time.Millisecond,
		Toggle: 400 * time.Millisecond,
		Reset:  500 * time.Millisecond,
	}
}

// Store owns the account collection. Records are kept in insertion
// order; no other ordering is implied. All reads hand out clones so the
// caller can never mutate store-owned records directly.
type Store struct {
	mu      sync.Mutex
	records []*domain.User
	nextID  int64

	delays   Delays
	notifier notify.Notifier
	logger   zerolog.Logger
}

// NewStore creates a directory seeded with the given records. Seed
// records are cloned; the ID counter starts past the largest seeded ID
// and only ever moves forward, so a create after a delete can never
// mint a duplicate ID.
func NewStore(seed []*domain.User, delays Delays, notifier notify.Notifier, logger zerolog.Logger) *Store {
	s := &Store{
		delays:   delays,
		notifier: notifier,
		logger:   logger.With().Str("store", "directory").Logger(),
	}
	for _, u := range seed {
		c := u.Clone()
		s.records = append(s.records, c)
		if c.ID > s.nextID {
			s.nextID = c.ID
		}
	}
	return s
}

// wait blocks for the simulated round trip. Once an operation's latency
// begins it always runs to completion and still updates state and
// notifies, even if the initiating view has been dismissed; there is no
// cancellation and no timeout.
func wait(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// List returns a snapshot copy of all records in insertion order.
func (s *Store) List(ctx context.Context) ([]*domain.User, error) {
	start := time.Now()
	wait(s.delays.List)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.User, len(s.records))
	for i, u := range s.records {
		out[i] = u.Clone()
	}

	metrics.ObserveOp("directory", "list", nil, start)
	return out, nil
}

// GetByID returns the record with the given ID, or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	start := time.Now()
	wait(s.delays.Get)

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.locate(id)
	if u == nil {
		metrics.ObserveOp("directory", "get", domain.ErrNotFound, start)
		return nil, domain.ErrNotFound
	}

	metrics.ObserveOp("directory", "get", nil, start)
	return u.Clone(), nil
}

// CreateInput contains the fields an administrator supplies when
// creating an account. Unlike registration, the role is chosen
// explicitly.
type CreateInput struct {
	Username string
	Email    string
	Role     domain.Role
}

// Create appends a new account and returns it. The account is active by
// default and receives the next ID from the monotonic counter.
func (s *Store) Create(ctx context.Context, input CreateInput) (*domain.User, error) {
	start := time.Now()
	wait(s.delays.Create)

	s.mu.Lock()
	s.nextID++
	u := &domain.User{
		ID:       s.nextID,
		Username: input.Username,
		Email:    input.Email,
		Role:     input.Role,
		Active:   true,
	}
	s.records = append(s.records, u)
	out := u.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Int64("user_id", out.ID).
		Str("username", out.Username).
		Str("role", out.Role.String()).
		Msg("user created")
	s.notifier.Success(fmt.Sprintf("User %s created successfully", out.Username))

	metrics.ObserveOp("directory", "create", nil, start)
	return out, nil
}

// UpdateInput contains the optional fields of an administrative update.
// Nil fields are left unchanged.
type UpdateInput struct {
	Username *string
	Email    *string
	Role     *domain.Role
}

// Update merges the given fields into the record with the given ID and
// returns the updated record, or domain.ErrNotFound.
func (s *Store) Update(ctx context.Context, id int64, input UpdateInput) (*domain.User, error) {
	start := time.Now()
	wait(s.delays.Update)

	s.mu.Lock()
	u := s.locate(id)
	if u == nil {
		s.mu.Unlock()
		s.notifier.Error("User not found")
		metrics.ObserveOp("directory", "update", domain.ErrNotFound, start)
		return nil, domain.ErrNotFound
	}
	if input.Username != nil {
		u.Username = *input.Username
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.Role != nil {
		u.Role = *input.Role
	}
	out := u.Clone()
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", out.ID).Msg("user updated")
	s.notifier.Success(fmt.Sprintf("User %s updated successfully", out.Username))

	metrics.ObserveOp("directory", "update", nil, start)
	return out, nil
}

// Delete removes the record with the given ID. It reports
// domain.ErrNotFound when no record was removed; the collection is
// unchanged in that case.
func (s *Store) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	wait(s.delays.Delete)

	s.mu.Lock()
	idx := -1
	for i, u := range s.records {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.notifier.Error("User not found")
		metrics.ObserveOp("directory", "delete", domain.ErrNotFound, start)
		return domain.ErrNotFound
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	s.notifier.Success("User deleted successfully")

	metrics.ObserveOp("directory", "delete", nil, start)
	return nil
}

// ToggleStatus flips the active flag of the record with the given ID
// and returns the updated record, or domain.ErrNotFound.
func (s *Store) ToggleStatus(ctx context.Context, id int64) (*domain.User, error) {
	start := time.Now()
	wait(s.delays.Toggle)

	s.mu.Lock()
	u := s.locate(id)
	if u == nil {
		s.mu.Unlock()
		s.notifier.Error("User not found")
		metrics.ObserveOp("directory", "toggle_status", domain.ErrNotFound, start)
		return nil, domain.ErrNotFound
	}
	u.Active = !u.Active
	out := u.Clone()
	s.mu.Unlock()

	status := "deactivated"
	if out.Active {
		status = "activated"
	}
	s.logger.Info().Int64("user_id", out.ID).Bool("active", out.Active).Msg("user status toggled")
	s.notifier.Success(fmt.Sprintf("User %s %s successfully", out.Username, status))

	metrics.ObserveOp("directory", "toggle_status", nil, start)
	return out, nil
}

// ResetPassword verifies the ID exists and reports that a reset link
// was sent. No credential state is modeled, so nothing is mutated; the
// minted token only gives the notification something concrete to carry.
func (s *Store) ResetPassword(ctx context.Context, id int64) error {
	start := time.Now()
	wait(s.delays.Reset)

	s.mu.Lock()
	u := s.locate(id)
	if u == nil {
		s.mu.Unlock()
		s.notifier.Error("User not found")
		metrics.ObserveOp("directory", "reset_password", domain.ErrNotFound, start)
		return domain.ErrNotFound
	}
	email := u.Email
	s.mu.Unlock()

	token := uuid.NewString()
	s.logger.Info().Int64("user_id", id).Str("reset_token", token).Msg("password reset requested")
	s.notifier.Success(fmt.Sprintf("Password reset link sent to %s", email))

	metrics.ObserveOp("directory", "reset_password", nil, start)
	return nil
}

// Len returns the current number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// locate returns the store-owned record with the given ID. Callers must
// hold s.mu.
func (s *Store) locate(id int64) *domain.User {
	for _, u := range s.records {
		if u.ID == id {
			return u
		}
	}
	return nil
}
