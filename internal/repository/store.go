// Package repository implements persistence for the activity collection.
//
// Every store reads and writes the collection as a whole: Load returns the
// full ordered sequence and Save replaces it entirely. Stores do no caching
// between calls.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// ErrNotFound is returned when no activity has the requested name.
var ErrNotFound = errors.New("activity not found")

// ErrAlreadyRegistered is returned when the same email signs up twice.
var ErrAlreadyRegistered = errors.New("student is already signed up")

// ErrNotRegistered is returned when unregistering an email that is not a participant.
var ErrNotRegistered = errors.New("student is not signed up for this activity")

// ErrStorage marks failures of the underlying storage medium.
var ErrStorage = errors.New("storage failure")

// Store loads and saves the whole activity collection.
type Store interface {
	// Load returns the persisted collection in stored order.
	Load(ctx context.Context) ([]model.Activity, error)
	// Save overwrites the persisted collection with activities.
	Save(ctx context.Context, activities []model.Activity) error
}

// FindByName returns the index of the first activity whose name matches
// exactly, or -1.
func FindByName(activities []model.Activity, name string) int {
	for i := range activities {
		if activities[i].Name == name {
			return i
		}
	}
	return -1
}
