// Package session implements the state of the currently signed-in
// user: who they are, whether anyone is signed in at all, and the
// durable slot that lets the session survive a restart.
//
// The store owns at most one current record at a time. It is built on
// the account directory (a single source of truth for account records),
// so profile edits made here are immediately visible to the admin
// console and vice versa.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/castellan/internal/domain"
	"github.com/prn-tf/castellan/internal/metrics"
	"github.com/prn-tf/castellan/internal/notify"
	"github.com/prn-tf/castellan/internal/session/slot"
)

// DefaultSentinelPassword is the fixed string accepted in place of real
// credential verification. There are no stored credentials in this mock
// model.
const DefaultSentinelPassword = "password"

// DefaultDelay is the reference simulated round-trip latency of login
// and registration.
const DefaultDelay = time.Second

// Accounts is the directory surface the session store needs. It is
// satisfied by *directory.Store; a remote-backed implementation can be
// swapped in without touching the session logic.
type Accounts interface {
	// FindByEmail returns the account with exactly this email, or
	// domain.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Find returns the account with the given ID, or domain.ErrNotFound.
	Find(ctx context.Context, id int64) (*domain.User, error)

	// Insert assigns an ID to the record, stores it, and returns the
	// stored copy.
	Insert(ctx context.Context, u *domain.User) (*domain.User, error)

	// SyncProfile mirrors the record's mutable profile fields into the
	// directory, matching on ID.
	SyncProfile(ctx context.Context, u *domain.User) error
}

// Config holds the tunables of the session store.
type Config struct {
	// SentinelPassword is the only password Login accepts. Defaults to
	// DefaultSentinelPassword when empty.
	SentinelPassword string

	// Delay is the simulated latency of login and registration. Zero
	// disables simulation.
	Delay time.Duration
}

// Store holds the current authenticated identity.
type Store struct {
	mu      sync.Mutex
	current *domain.User
	loading bool

	accounts Accounts
	slot     slot.Slot
	notifier notify.Notifier
	logger   zerolog.Logger
	sentinel string
	delay    time.Duration
}

// NewStore creates a session store over the given account directory and
// durable slot. The store starts in the loading state until Restore has
// run.
func NewStore(accounts Accounts, sl slot.Slot, cfg Config, notifier notify.Notifier, logger zerolog.Logger) *Store {
	sentinel := cfg.SentinelPassword
	if sentinel == "" {
		sentinel = DefaultSentinelPassword
	}
	return &Store{
		loading:  true,
		accounts: accounts,
		slot:     sl,
		notifier: notifier,
		logger:   logger.With().Str("store", "session").Logger(),
		sentinel: sentinel,
		delay:    cfg.Delay,
	}
}

// wait blocks for the simulated round trip. As with the directory,
// latency that has begun always runs to completion; cancellation is not
// supported.
func wait(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Restore reads the durable slot and, if it holds a well-formed record,
// re-establishes the session. Malformed or missing data degrades to "no
// session" without a notification. The loading flag is cleared in every
// case. Call once at startup.
func (s *Store) Restore(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	stored, err := s.slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, slot.ErrEmpty) {
			s.logger.Warn().Err(err).Msg("could not restore session from slot")
		}
		return
	}

	// The directory is the source of truth: if the account still exists,
	// adopt its current copy rather than the stored snapshot. A deleted
	// account falls back to the snapshot.
	u := stored
	if fresh, err := s.accounts.Find(ctx, stored.ID); err == nil {
		u = fresh
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("session restored")
}

// Login attempts to sign in with the given email and password. The
// password must equal the configured sentinel value; there is no real
// credential verification. On success the session is set to the
// matching directory record and persisted. On failure the session is
// left untouched. Exactly one notification is emitted either way.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	start := time.Now()
	wait(s.delay)

	u, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound) || (err == nil && password != s.sentinel):
		s.logger.Debug().Str("email", email).Msg("login rejected")
		s.notifier.Error("Invalid email or password")
		metrics.ObserveOp("session", "login", domain.ErrInvalidCredentials, start)
		return false
	case err != nil:
		s.logger.Error().Err(err).Str("email", email).Msg("login lookup failed")
		s.notifier.Error("Login failed")
		metrics.ObserveOp("session", "login", err, start)
		return false
	}

	if err := s.slot.Save(ctx, u); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
		s.notifier.Error("Login failed")
		metrics.ObserveOp("session", "login", err, start)
		return false
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("user logged in")
	s.notifier.Success("Login successful")
	metrics.ObserveOp("session", "login", nil, start)
	return true
}

// Register creates a new account with the user role, signs it in, and
// persists the session. Registration fails when the email is already
// taken; the directory is left unchanged in that case.
func (s *Store) Register(ctx context.Context, username, email, password string) bool {
	start := time.Now()
	wait(s.delay)

	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Debug().Str("email", email).Msg("registration rejected: duplicate email")
		s.notifier.Error("User with this email already exists")
		metrics.ObserveOp("session", "register", domain.ErrDuplicateEmail, start)
		return false
	case !errors.Is(err, domain.ErrNotFound):
		s.logger.Error().Err(err).Str("email", email).Msg("registration lookup failed")
		s.notifier.Error("Registration failed")
		metrics.ObserveOp("session", "register", err, start)
		return false
	}

	u, err := s.accounts.Insert(ctx, domain.NewUser(username, email))
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create account")
		s.notifier.Error("Registration failed")
		metrics.ObserveOp("session", "register", err, start)
		return false
	}

	if err := s.slot.Save(ctx, u); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("user registered")
	s.notifier.Success("Registration successful")
	metrics.ObserveOp("session", "register", nil, start)
	return true
}

// Logout clears the session and the durable slot. It always succeeds
// and is idempotent: logging out twice leaves the session absent both
// times.
func (s *Store) Logout(ctx context.Context) {
	start := time.Now()

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.slot.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear session slot")
	}

	s.logger.Info().Msg("user logged out")
	s.notifier.Success("Logged out successfully")
	metrics.ObserveOp("session", "logout", nil, start)
}

// UpdateProfileInput contains the optional profile fields. Nil fields
// are left unchanged.
type UpdateProfileInput struct {
	Username *string
	Email    *string
}

// UpdateProfile merges the given fields into the current user, persists
// the merged record, and mirrors the change into the directory. As with
// Login, the session only adopts the merged record once the slot write
// has succeeded; a failed save leaves session, slot, and directory all
// at their previous values. Without an active session this is a
// complete no-op: no state change and no notification.
func (s *Store) UpdateProfile(ctx context.Context, input UpdateProfileInput) {
	start := time.Now()

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	u := s.current.Clone()
	s.mu.Unlock()

	if input.Username != nil {
		u.Username = *input.Username
	}
	if input.Email != nil {
		u.Email = *input.Email
	}

	if err := s.slot.Save(ctx, u); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist updated session")
		s.notifier.Error("Profile update failed")
		metrics.ObserveOp("session", "update_profile", err, start)
		return
	}
	if err := s.accounts.SyncProfile(ctx, u); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", u.ID).Msg("failed to mirror profile into directory")
	}

	s.mu.Lock()
	s.current = u
	s.mu.Unlock()

	s.logger.Info().Int64("user_id", u.ID).Msg("profile updated")
	s.notifier.Success("Profile updated successfully")
	metrics.ObserveOp("session", "update_profile", nil, start)
}

// Refresh re-reads the current user's directory record, picking up
// administrative edits made while the session was open. A no-op without
// a session; a deleted account keeps its last known snapshot.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if cur == nil {
		return
	}

	fresh, err := s.accounts.Find(ctx, cur.ID)
	if err != nil {
		s.logger.Debug().Int64("user_id", cur.ID).Msg("refresh: account no longer in directory")
		return
	}

	if err := s.slot.Save(ctx, fresh); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist refreshed session")
	}

	s.mu.Lock()
	s.current = fresh
	s.mu.Unlock()
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Loading reports whether the startup restore is still pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
