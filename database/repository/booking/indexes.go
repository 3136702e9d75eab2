package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (repo *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("booking_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "booking_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("booking_number_idx"),
		},
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "start_time", Value: 1},
			},
			Options: options.Index().SetName("provider_status_start_idx"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("status_created_idx"),
		},
	}
	_, err := repo.bookingColl.Indexes().CreateMany(ctx, indexes)
	return err
}
