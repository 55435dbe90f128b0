// Package service implements the list, signup and unregister operations on
// top of a repository.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Shivanand-hulikatti/activity-signup/internal/logger"
	"github.com/Shivanand-hulikatti/activity-signup/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/query"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
)

// Options tune an ActivityService.
type Options struct {
	// SerializeWrites makes signup and unregister run their
	// load-mutate-save sequence one at a time within this process.
	SerializeWrites bool
}

// ActivityService orchestrates activity queries and participant changes.
// Every call loads the collection fresh from the store.
type ActivityService struct {
	store   repository.Store
	metrics *metrics.Metrics
	log     *logger.Logger
	opts    Options

	writeMu sync.Mutex
}

// NewActivityService constructs an ActivityService with its dependencies.
func NewActivityService(store repository.Store, m *metrics.Metrics, log *logger.Logger, opts Options) *ActivityService {
	return &ActivityService{store: store, metrics: m, log: log, opts: opts}
}

// List returns the activities matching p, in the order produced by the query.
func (s *ActivityService) List(ctx context.Context, p query.Params) ([]model.Activity, error) {
	activities, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result := query.Apply(activities, p)
	s.metrics.ObserveListSize(len(result))
	return result, nil
}

// Signup adds email to the participants of the activity named name.
func (s *ActivityService) Signup(ctx context.Context, name, email string) error {
	err := s.mutate(ctx, name, func(a *model.Activity) error {
		if !a.AddParticipant(email) {
			return repository.ErrAlreadyRegistered
		}
		return nil
	})
	s.metrics.Signup(outcome(err))
	if err != nil {
		return err
	}

	s.log.Info("student signed up", "activity", name, "email", email)
	return nil
}

// Unregister removes email from the participants of the activity named name.
func (s *ActivityService) Unregister(ctx context.Context, name, email string) error {
	err := s.mutate(ctx, name, func(a *model.Activity) error {
		if !a.RemoveParticipant(email) {
			return repository.ErrNotRegistered
		}
		return nil
	})
	s.metrics.Unregister(outcome(err))
	if err != nil {
		return err
	}

	s.log.Info("student unregistered", "activity", name, "email", email)
	return nil
}

// mutate loads the collection, applies change to the first activity whose
// name matches exactly and saves the whole collection. Nothing is saved when
// the lookup or change fails.
func (s *ActivityService) mutate(ctx context.Context, name string, change func(*model.Activity) error) error {
	if s.opts.SerializeWrites {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}

	activities, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := repository.FindByName(activities, name)
	if i < 0 {
		return repository.ErrNotFound
	}
	if err := change(&activities[i]); err != nil {
		return err
	}

	start := time.Now()
	err = s.store.Save(ctx, activities)
	s.metrics.ObserveSave(start, err)
	if err != nil {
		s.log.Error("failed to save activities", "activity", name, "error", err)
		return fmt.Errorf("save activities: %w", err)
	}
	return nil
}

func (s *ActivityService) load(ctx context.Context) ([]model.Activity, error) {
	start := time.Now()
	activities, err := s.store.Load(ctx)
	s.metrics.ObserveLoad(start, err)
	if err != nil {
		s.log.Error("failed to load activities", "error", err)
		return nil, fmt.Errorf("load activities: %w", err)
	}
	return activities, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, repository.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrNotRegistered):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeStorageFailure
	}
}
