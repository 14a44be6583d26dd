// Package integration exercises the full Castellan stack end to end:
// session store, account directory, durable slot, and route guard wired
// together the way the console wires them.
package integration

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/castellan/internal/directory"
	"github.com/prn-tf/castellan/internal/domain"
	"github.com/prn-tf/castellan/internal/guard"
	"github.com/prn-tf/castellan/internal/notify"
	"github.com/prn-tf/castellan/internal/seed"
	"github.com/prn-tf/castellan/internal/session"
	"github.com/prn-tf/castellan/internal/session/slot"
)

// app mirrors the console's wiring with latency disabled and an
// in-memory slot.
type app struct {
	dir     *directory.Store
	session *session.Store
	slot    *slot.MemorySlot
	rec     *notify.Recorder
}

func newApp(t *testing.T) *app {
	t.Helper()

	rec := notify.NewRecorder()
	dir := directory.NewStore(seed.Users(), directory.Delays{}, rec, zerolog.Nop())
	sl := slot.NewMemorySlot()
	st := session.NewStore(dir, sl, session.Config{}, rec, zerolog.Nop())
	st.Restore(context.Background())
	rec.Drain()
	return &app{dir: dir, session: st, slot: sl, rec: rec}
}

func (a *app) messages() []string {
	items := a.rec.Drain()
	msgs := make([]string, len(items))
	for i, n := range items {
		msgs[i] = n.Message
	}
	return msgs
}

func TestAdminWorkflow(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	// Fresh start: nobody signed in, loading finished.
	require.False(t, a.session.Loading())
	require.False(t, a.session.IsAuthenticated())
	require.Equal(t, guard.RedirectLogin,
		guard.Check(a.session.IsAuthenticated(), "", guard.Requirement{Role: domain.RoleAdmin}))

	// Sign in as the seeded administrator.
	require.True(t, a.session.Login(ctx, "admin@example.com", "password"))
	admin := a.session.CurrentUser()
	require.Equal(t, guard.Allow,
		guard.Check(true, admin.Role, guard.Requirement{Role: domain.RoleAdmin}))

	// Deactivate user1, then remove user2.
	u, err := a.dir.ToggleStatus(ctx, 2)
	require.NoError(t, err)
	require.False(t, u.Active)
	require.NoError(t, a.dir.Delete(ctx, 3))

	users, err := a.dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "admin", users[0].Username)
	require.Equal(t, "user1", users[1].Username)
	require.False(t, users[1].Active)

	require.Equal(t, []string{
		"Login successful",
		"User user1 deactivated successfully",
		"User deleted successfully",
	}, a.messages())
}

func TestRegistrationToProfileEdit(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	require.True(t, a.session.Register(ctx, "carol", "carol@example.com", "longenough"))
	carol := a.session.CurrentUser()
	require.Equal(t, domain.RoleUser, carol.Role)
	require.Equal(t, int64(4), carol.ID)

	// A regular user cannot reach the admin surface.
	require.Equal(t, guard.RedirectProfile,
		guard.Check(true, carol.Role, guard.Requirement{Role: domain.RoleAdmin}))

	// Rename the account from the profile screen.
	name := "caroline"
	a.session.UpdateProfile(ctx, session.UpdateProfileInput{Username: &name})

	// The rename is visible in the directory and in the slot.
	got, err := a.dir.GetByID(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, "caroline", got.Username)
	stored, err := a.slot.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "caroline", stored.Username)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	require.True(t, a.session.Login(ctx, "user1@example.com", "password"))

	// Simulate a restart: a new session store over the same slot and
	// directory.
	st2 := session.NewStore(a.dir, a.slot, session.Config{}, notify.Discard{}, zerolog.Nop())
	st2.Restore(ctx)

	require.True(t, st2.IsAuthenticated())
	require.Equal(t, "user1", st2.CurrentUser().Username)

	// Logging out clears the slot, so the next restart stays signed out.
	st2.Logout(ctx)
	st3 := session.NewStore(a.dir, a.slot, session.Config{}, notify.Discard{}, zerolog.Nop())
	st3.Restore(ctx)
	require.False(t, st3.IsAuthenticated())
}

func TestFailedLoginLeavesEverythingUntouched(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)

	require.False(t, a.session.Login(ctx, "admin@example.com", "wrong"))
	require.False(t, a.session.IsAuthenticated())
	require.Equal(t, 3, a.dir.Len())

	_, err := a.slot.Load(ctx)
	require.ErrorIs(t, err, slot.ErrEmpty)

	require.Equal(t, []string{"Invalid email or password"}, a.messages())

	// Once signed in, a rejected attempt keeps the existing session.
	require.True(t, a.session.Login(ctx, "admin@example.com", "password"))
	require.False(t, a.session.Login(ctx, "user1@example.com", "wrong"))
	require.True(t, a.session.IsAuthenticated())
	require.Equal(t, "admin", a.session.CurrentUser().Username)

	stored, err := a.slot.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin", stored.Username)
}
