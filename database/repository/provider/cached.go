package providerRepo

import (
	"context"
	"errors"
	"time"

	"bookingcore/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CachedRepo is a read-through redis cache in front of a ProviderRepository.
// Cache failures are logged and the call falls through to the backing store.
type CachedRepo struct {
	ProviderRepository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRepo(next ProviderRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRepo{ProviderRepository: next, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(id string) string {
	return "provider:" + id
}

func (c *CachedRepo) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	raw, err := c.cache.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var provider models.Provider
		if decodeErr := bson.Unmarshal(raw, &provider); decodeErr == nil {
			return &provider, nil
		}
		c.logger.Warn("Discarding undecodable provider cache entry", zap.String("provider_id", id))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Provider cache read failed", zap.String("provider_id", id), zap.Error(err))
	}

	provider, err := c.ProviderRepository.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := bson.Marshal(provider); err == nil {
		if err := c.cache.Set(ctx, cacheKey(id), raw, c.ttl).Err(); err != nil {
			c.logger.Warn("Provider cache write failed", zap.String("provider_id", id), zap.Error(err))
		}
	}
	return provider, nil
}

func (c *CachedRepo) IncrementConfirmed(ctx context.Context, providerID string, at time.Time) error {
	if err := c.ProviderRepository.IncrementConfirmed(ctx, providerID, at); err != nil {
		return err
	}
	c.invalidate(ctx, providerID)
	return nil
}

func (c *CachedRepo) SetBookingPreferences(ctx context.Context, providerID string, accepting, autoConfirm bool) error {
	if err := c.ProviderRepository.SetBookingPreferences(ctx, providerID, accepting, autoConfirm); err != nil {
		return err
	}
	c.invalidate(ctx, providerID)
	return nil
}

func (c *CachedRepo) invalidate(ctx context.Context, providerID string) {
	if err := c.cache.Del(ctx, cacheKey(providerID)).Err(); err != nil {
		c.logger.Warn("Provider cache invalidation failed", zap.String("provider_id", providerID), zap.Error(err))
	}
}
