package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"bookingcore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// conflictFilter matches schedule-blocking bookings of providerID that
// overlap the half-open window [start, end).
func conflictFilter(providerID string, start, end time.Time, excludeID string) bson.M {
	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": models.ScheduleBlockingStatuses},
		"start_time":  bson.M{"$lt": end},
		"end_time":    bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return notDeleted(filter)
}

// HasTimeConflict reports whether any confirmed or in-progress booking of the
// provider overlaps [start, end).
func (repo *MongoBookingRepo) HasTimeConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := repo.bookingColl.CountDocuments(ctx, conflictFilter(providerID, start, end, excludeID), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking conflicts for provider %s: %w", providerID, err)
	}
	return count > 0, nil
}

// ListPendingCreatedBefore returns pending bookings created before the cutoff,
// oldest first.
func (repo *MongoBookingRepo) ListPendingCreatedBefore(ctx context.Context, before time.Time, limit int) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := notDeleted(bson.M{
		"status":     models.StatusPending,
		"created_at": bson.M{"$lt": before},
	})
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing pending bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding pending bookings: %w", err)
	}
	return bookings, nil
}
