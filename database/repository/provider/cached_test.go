package providerRepo

import (
	"context"
	"testing"
	"time"

	"bookingcore/database/repository"
	"bookingcore/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	providers  map[string]*models.Provider
	gets       int
	increments int
}

func (s *stubRepo) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	s.gets++
	p, ok := s.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *stubRepo) CreateProvider(_ context.Context, p *models.Provider) error {
	s.providers[p.ID] = p
	return nil
}

func (s *stubRepo) IncrementConfirmed(_ context.Context, _ string, _ time.Time) error {
	s.increments++
	return nil
}

func (s *stubRepo) SetBookingPreferences(_ context.Context, id string, accepting, autoConfirm bool) error {
	p, ok := s.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.AcceptingBookings = accepting
	p.AutoConfirm = autoConfirm
	return nil
}

func (s *stubRepo) EnsureIndexes() error { return nil }

// unreachableRedis points at a closed port so every cache call fails fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedRepoFallsThroughWhenCacheIsDown(t *testing.T) {
	stub := &stubRepo{providers: map[string]*models.Provider{
		"p1": {ID: "p1", Name: "Jane", Status: models.ProviderActive},
	}}
	repo := NewCachedRepo(stub, unreachableRedis(), time.Minute, nil)

	p, err := repo.GetProvider(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", p.Name)
	assert.Equal(t, 1, stub.gets)

	_, err = repo.GetProvider(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.IncrementConfirmed(context.Background(), "p1", time.Now()))
	assert.Equal(t, 1, stub.increments)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "provider:p1", cacheKey("p1"))
}

func TestCachedRepoWritesPassThrough(t *testing.T) {
	stub := &stubRepo{providers: map[string]*models.Provider{}}
	repo := NewCachedRepo(stub, unreachableRedis(), time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, repo.CreateProvider(ctx, &models.Provider{ID: "p2", Status: models.ProviderActive}))
	require.NoError(t, repo.SetBookingPreferences(ctx, "p2", true, true))

	p, err := repo.GetProvider(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, p.AcceptingBookings)
	assert.True(t, p.AutoConfirm)

	assert.ErrorIs(t, repo.SetBookingPreferences(ctx, "missing", true, false), repository.ErrNotFound)
}
