package slot

import (
	"context"
	"sync"

	"github.com/prn-tf/castellan/internal/domain"
)

// MemorySlot keeps the session record in process memory. It survives
// nothing, which is exactly what tests and throwaway console runs want.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Load implements Slot.
func (s *MemorySlot) Load(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, ErrEmpty
	}
	return decode(s.data)
}

// Save implements Slot.
func (s *MemorySlot) Save(ctx context.Context, u *domain.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// Clear implements Slot.
func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// Close implements Slot.
func (s *MemorySlot) Close() error {
	return nil
}

// Corrupt overwrites the stored bytes with data that will not decode.
// Test hook for the malformed-slot degradation path.
func (s *MemorySlot) Corrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = []byte("{not json")
}

var _ Slot = (*MemorySlot)(nil)
