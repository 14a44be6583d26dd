// Package slot implements the single durable key-value entry holding
// the serialized current session. It is written on login, registration,
// and profile update, removed on logout, and read once at startup.
//
// The slot is deliberately tiny (one record), but the backend is
// pluggable so the same interface can sit on an embedded file, a shared
// Postgres instance, or Redis, selected by configuration.
package slot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prn-tf/castellan/internal/domain"
)

// ErrEmpty indicates the slot holds no session record.
var ErrEmpty = errors.New("session slot is empty")

// Slot is the durable storage for the current session record.
type Slot interface {
	// Load reads the stored record. Returns ErrEmpty when no session is
	// stored, or a decode error when the stored data is malformed.
	Load(ctx context.Context) (*domain.User, error)

	// Save overwrites the slot with the given record.
	Save(ctx context.Context, u *domain.User) error

	// Clear removes the stored record. Clearing an empty slot is not an
	// error.
	Clear(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// encode serializes a session record for storage.
func encode(u *domain.User) ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session record: %w", err)
	}
	return data, nil
}

// decode deserializes a stored session record. Malformed data is
// reported as domain.ErrUnexpected so the session store can degrade it
// to "no session restored".
func decode(data []byte) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: malformed session record: %v", domain.ErrUnexpected, err)
	}
	return &u, nil
}
