// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"bookingcore/database"
	"bookingcore/models"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository stores schedule slots materialized from confirmed bookings.
type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.ScheduleSlot) error
	DeleteByBooking(ctx context.Context, bookingID string) error
	GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.ScheduleSlot, error)
	GetByBooking(ctx context.Context, bookingID string) ([]models.ScheduleSlot, error)
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return NewMongoSlotRepoWithDB(database.DB())
}

func NewMongoSlotRepoWithDB(db *mongo.Database) SlotRepository {
	return &mongoSlotRepo{
		coll: db.Collection("schedule_slots"),
	}
}
