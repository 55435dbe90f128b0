package repository

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// MemoryStore keeps the collection in memory only (no persistence).
// Load and Save hand out deep copies so callers never share state.
type MemoryStore struct {
	mu         sync.RWMutex
	activities []model.Activity
	saves      int
}

// NewMemoryStore creates a store seeded with activities.
func NewMemoryStore(activities []model.Activity) *MemoryStore {
	return &MemoryStore{activities: cloneAll(activities)}
}

// Load returns a copy of the stored collection.
func (s *MemoryStore) Load(ctx context.Context) ([]model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.activities), nil
}

// Save replaces the stored collection.
func (s *MemoryStore) Save(ctx context.Context, activities []model.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = cloneAll(activities)
	s.saves++
	return nil
}

// Saves returns how many times Save has succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneAll(activities []model.Activity) []model.Activity {
	out := make([]model.Activity, len(activities))
	for i := range activities {
		out[i] = activities[i].Clone()
	}
	return out
}
