package slot

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/castellan/internal/domain"
)

func TestMemorySlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySlot()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrEmpty)

	u := &domain.User{ID: 7, Username: "alice", Email: "alice@example.com", Role: domain.RoleAdmin, Active: true}
	require.NoError(t, s.Save(ctx, u))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, u, got)

	// Save overwrites the previous record.
	require.NoError(t, s.Save(ctx, &domain.User{ID: 8, Username: "bob", Email: "bob@example.com", Role: domain.RoleUser}))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(8), got.ID)
}

func TestMemorySlotClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySlot()

	require.NoError(t, s.Save(ctx, &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrEmpty)

	// Clearing an already empty slot is not an error.
	require.NoError(t, s.Clear(ctx))
}

func TestMemorySlotMalformedData(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySlot()
	s.Corrupt()

	_, err := s.Load(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrUnexpected)
	require.NotErrorIs(t, err, ErrEmpty)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: DriverMemory}, zerolog.Nop())
	require.NoError(t, err)
	require.IsType(t, &MemorySlot{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Config{Driver: "etcd"}, zerolog.Nop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown slot driver")
}
