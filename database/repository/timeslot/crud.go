// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookingcore/models"
)

// CreateMany inserts slots in order. Passing the session context from a
// provider transaction makes the insert part of it.
func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.ScheduleSlot) error {
	if len(slots) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		docs[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to insert schedule slots: %w", err)
	}
	return nil
}

// DeleteByBooking removes every slot materialized for bookingID. Deleting
// nothing is not an error.
func (r *mongoSlotRepo) DeleteByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"bookingId": bookingID}); err != nil {
		return fmt.Errorf("failed to delete slots for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *mongoSlotRepo) GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.ScheduleSlot, error) {
	return r.find(ctx, bson.M{"providerId": providerID, "date": date})
}

func (r *mongoSlotRepo) GetByBooking(ctx context.Context, bookingID string) ([]models.ScheduleSlot, error) {
	return r.find(ctx, bson.M{"bookingId": bookingID})
}

func (r *mongoSlotRepo) find(ctx context.Context, filter bson.M) ([]models.ScheduleSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.ScheduleSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode schedule slots: %w", err)
	}
	return slots, nil
}
