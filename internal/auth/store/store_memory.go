package store

import (
	"sync"

	"intake/internal/auth/models"
)

// MemoryRepository keeps credential slots in memory for tests and for the
// guard/service unit suites.
type MemoryRepository struct {
	mu    sync.RWMutex
	slots slots
}

// NewMemory constructs an empty in-memory credential repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(token string, user *models.User) error {
	s, err := modernSlots(token, user)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = s
	return nil
}

func (r *MemoryRepository) SaveLegacy(user *models.User) error {
	s, err := legacySlots(user)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = s
	return nil
}

func (r *MemoryRepository) Load() models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return decode(r.slots)
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = slots{}
	return nil
}

// Corrupt overwrites the modern user slot with a non-JSON value. Test helper
// for the fail-closed load path.
func (r *MemoryRepository) Corrupt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots.AuthToken = "some-token"
	r.slots.User = "{not json"
}
