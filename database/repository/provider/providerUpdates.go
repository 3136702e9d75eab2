package providerRepo

import (
	"context"
	"fmt"
	"time"

	"bookingcore/database/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// IncrementConfirmed records one more confirmed booking for the provider.
func (r *MongoProviderRepo) IncrementConfirmed(ctx context.Context, providerID string, at time.Time) error {
	return r.updateWithDocument(ctx, providerID, bson.M{
		"$inc": bson.M{"stats.confirmedBookings": 1},
		"$set": bson.M{"stats.lastConfirmedAt": at, "updatedAt": at},
	})
}

func (r *MongoProviderRepo) SetBookingPreferences(ctx context.Context, providerID string, accepting, autoConfirm bool) error {
	return r.updateWithDocument(ctx, providerID, bson.M{
		"$set": bson.M{
			"acceptingBookings": accepting,
			"autoConfirm":       autoConfirm,
			"updatedAt":         time.Now(),
		},
	})
}

func (r *MongoProviderRepo) updateWithDocument(ctx context.Context, id string, updateDoc bson.M) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "deletedAt": nil}
	result, err := r.coll.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return fmt.Errorf("failed to update provider with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
