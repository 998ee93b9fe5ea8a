package quota

import (
	"context"
	"sync"
)

// implements Store using in-memory storage
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// creates a new in-memory profile store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]Profile),
	}
}

// retrieves a copy of the stored profile
func (s *MemoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	return &profile, nil
}

// saves the profile, replacing any existing row
func (s *MemoryStore) Upsert(_ context.Context, profile *Profile) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.UserID] = *profile

	stored := *profile
	return &stored, nil
}

// applies a partial update to an existing profile
func (s *MemoryStore) Update(_ context.Context, userID string, update ProfileUpdate) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, exists := s.profiles[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	update.apply(&profile)
	s.profiles[userID] = profile

	return &profile, nil
}
