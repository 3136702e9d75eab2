package bookingRepo

import (
	"context"
	"time"

	"bookingcore/database"
	"bookingcore/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository is the Mongo-backed booking store.
type BookingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByNumber(ctx context.Context, number string) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	AttachServices(ctx context.Context, bookingID string, serviceIDs []string) error
	HasTimeConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, u models.StatusUpdate) (*models.Booking, error)
	AppendAuditEntry(ctx context.Context, entry models.AuditEntry) error
	ListPendingCreatedBefore(ctx context.Context, before time.Time, limit int) ([]models.Booking, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
	WithinTransaction(ctx context.Context, providerID string, fn func(ctx context.Context) error) error
	EnsureIndexes() error
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	client      *mongo.Client
	bookingColl *mongo.Collection
	lockColl    *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	return NewMongoBookingRepoWithDB(database.DB())
}

func NewMongoBookingRepoWithDB(db *mongo.Database) BookingRepository {
	return &MongoBookingRepo{
		client:      db.Client(),
		bookingColl: db.Collection("bookings"),
		lockColl:    db.Collection("provider_locks"),
	}
}
