package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/activity-signup/internal/logger"
	"github.com/Shivanand-hulikatti/activity-signup/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/query"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
)

func seed() []model.Activity {
	return []model.Activity{
		{Name: "Chess Club", Category: model.StringPtr("Games"), Participants: []string{"a@x.com"}},
		{Name: "Art Studio", Category: model.StringPtr("Arts"), Participants: []string{}},
	}
}

func newService(store repository.Store) *ActivityService {
	return NewActivityService(store, metrics.New(prometheus.NewRegistry()), logger.NewNop(), Options{SerializeWrites: true})
}

// flakyStore wraps a MemoryStore and fails on demand.
type flakyStore struct {
	*repository.MemoryStore
	loadErr error
	saveErr error
}

func (f *flakyStore) Load(ctx context.Context) ([]model.Activity, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.MemoryStore.Load(ctx)
}

func (f *flakyStore) Save(ctx context.Context, activities []model.Activity) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.Save(ctx, activities)
}

func participants(t *testing.T, store repository.Store, name string) []string {
	t.Helper()
	activities, err := store.Load(context.Background())
	require.NoError(t, err)
	i := repository.FindByName(activities, name)
	require.GreaterOrEqual(t, i, 0)
	return activities[i].Participants
}

func TestSignupUnregisterScenario(t *testing.T) {
	store := repository.NewMemoryStore(seed())
	svc := newService(store)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Chess Club", "b@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, participants(t, store, "Chess Club"))

	err := svc.Signup(ctx, "Chess Club", "b@x.com")
	require.ErrorIs(t, err, repository.ErrAlreadyRegistered)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, participants(t, store, "Chess Club"))

	require.NoError(t, svc.Unregister(ctx, "Chess Club", "a@x.com"))
	assert.Equal(t, []string{"b@x.com"}, participants(t, store, "Chess Club"))

	err = svc.Unregister(ctx, "Chess Club", "a@x.com")
	require.ErrorIs(t, err, repository.ErrNotRegistered)
	assert.Equal(t, []string{"b@x.com"}, participants(t, store, "Chess Club"))

	// Two successful mutations, two rejected ones that never saved.
	assert.Equal(t, 2, store.Saves())
}

func TestSignupOnlyChangesTargetActivity(t *testing.T) {
	store := repository.NewMemoryStore(seed())
	svc := newService(store)

	require.NoError(t, svc.Signup(context.Background(), "Art Studio", "c@x.com"))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	want := seed()
	want[1].Participants = []string{"c@x.com"}
	assert.Equal(t, want, got)
}

func TestSignupNameMatchIsExact(t *testing.T) {
	store := repository.NewMemoryStore(seed())
	svc := newService(store)

	err := svc.Signup(context.Background(), "chess club", "b@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = svc.Unregister(context.Background(), "Chess", "a@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 0, store.Saves())
}

func TestSignupUsesFirstDuplicateName(t *testing.T) {
	store := repository.NewMemoryStore([]model.Activity{
		{Name: "Chess Club", Participants: []string{}},
		{Name: "Chess Club", Participants: []string{}},
	})
	svc := newService(store)

	require.NoError(t, svc.Signup(context.Background(), "Chess Club", "a@x.com"))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, got[0].Participants)
	assert.Empty(t, got[1].Participants)
}

func TestEmptyEmailIsAnOrdinaryParticipant(t *testing.T) {
	store := repository.NewMemoryStore(seed())
	svc := newService(store)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Chess Club", ""))
	assert.Equal(t, []string{"a@x.com", ""}, participants(t, store, "Chess Club"))
	assert.ErrorIs(t, svc.Signup(ctx, "Chess Club", ""), repository.ErrAlreadyRegistered)

	require.NoError(t, svc.Unregister(ctx, "Chess Club", ""))
	assert.Equal(t, []string{"a@x.com"}, participants(t, store, "Chess Club"))
}

func TestStorageFailuresPropagate(t *testing.T) {
	diskErr := fmt.Errorf("%w: disk full", repository.ErrStorage)

	store := &flakyStore{MemoryStore: repository.NewMemoryStore(seed()), saveErr: diskErr}
	svc := newService(store)

	err := svc.Signup(context.Background(), "Chess Club", "b@x.com")
	require.ErrorIs(t, err, repository.ErrStorage)
	assert.Equal(t, []string{"a@x.com"}, participants(t, store.MemoryStore, "Chess Club"))

	store.loadErr = errors.New("unreadable")
	_, err = svc.List(context.Background(), query.Params{})
	require.Error(t, err)
	err = svc.Unregister(context.Background(), "Chess Club", "a@x.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrNotRegistered))
}

func TestListAppliesQuery(t *testing.T) {
	svc := newService(repository.NewMemoryStore(seed()))

	got, err := svc.List(context.Background(), query.Params{Category: "games"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Chess Club", got[0].Name)

	got, err = svc.List(context.Background(), query.Params{Sort: query.SortName})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Art Studio", got[0].Name)
}

func TestConcurrentSignupsAreSerialized(t *testing.T) {
	store := repository.NewMemoryStore(seed())
	svc := newService(store)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, svc.Signup(context.Background(), "Art Studio", fmt.Sprintf("student%d@x.com", i)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, participants(t, store, "Art Studio"), n)
}

func TestConcurrentDuplicateSignupAcceptsOnce(t *testing.T) {
	store := repository.NewMemoryStore(seed())
	svc := newService(store)

	const n = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Signup(context.Background(), "Art Studio", "same@x.com"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, []string{"same@x.com"}, participants(t, store, "Art Studio"))
}
