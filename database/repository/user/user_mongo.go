package userRepo

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements ClientRepository over the users collection.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of ClientRepository using MongoDB.
func NewMongoUserRepo() ClientRepository {
	return NewMongoUserRepoWithDB(database.DB())
}

func NewMongoUserRepoWithDB(db *mongo.Database) ClientRepository {
	return &MongoUserRepo{coll: db.Collection("users")}
}

// newContext derives a bounded context from the caller's.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// clientProjection limits user documents to the fields a booking needs.
var clientProjection = bson.M{
	"id":          1,
	"name":        1,
	"email":       1,
	"phoneNumber": 1,
	"fcmToken":    1,
}

func (r *MongoUserRepo) GetClient(ctx context.Context, id string) (*models.Client, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var client models.Client
	opts := options.FindOne().SetProjection(clientProjection)
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&client); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &client, nil
}

// Create inserts a new client document.
func (r *MongoUserRepo) Create(ctx context.Context, client *models.Client) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, client); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", client.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// EnsureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) EnsureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
