package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingcore/database"
	"bookingcore/database/repository"
	"bookingcore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo() ProviderRepository {
	return NewMongoProviderRepoWithDB(database.DB())
}

func NewMongoProviderRepoWithDB(db *mongo.Database) ProviderRepository {
	return &MongoProviderRepo{coll: db.Collection("providers")}
}

// newContext derives a bounded context from the caller's.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoProviderRepo) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	filter := bson.M{"id": id, "deletedAt": nil}
	if err := r.coll.FindOne(ctx, filter).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &provider, nil
}

// CreateProvider inserts a new provider document.
func (r *MongoProviderRepo) CreateProvider(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	provider.CreatedAt = now
	provider.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("provider %s: %w", provider.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}
