package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingcore/database/repository"
	"bookingcore/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// notDeleted restricts a filter to bookings without a tombstone.
func notDeleted(filter bson.M) bson.M {
	filter["deleted_at"] = nil
	return filter
}

// Create inserts a new booking document. Array fields are stored as empty
// arrays so later $push updates never hit a null field.
func (repo *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := b.Clone()
	if doc.ServiceIDs == nil {
		doc.ServiceIDs = []string{}
	}
	if doc.AuditLog == nil {
		doc.AuditLog = []models.AuditEntry{}
	}

	if _, err := repo.bookingColl.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("booking %s: %w", doc.BookingNumber, repository.ErrDuplicate)
		}
		return nil, fmt.Errorf("error creating booking: %w", err)
	}
	return doc, nil
}

// FindByID retrieves a booking by its ID.
func (repo *MongoBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	return repo.findOne(ctx, bson.M{"id": id})
}

func (repo *MongoBookingRepo) FindByNumber(ctx context.Context, number string) (*models.Booking, error) {
	return repo.findOne(ctx, bson.M{"booking_number": number})
}

func (repo *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := repo.bookingColl.FindOne(ctx, notDeleted(filter)).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking: %w", err)
	}
	return &b, nil
}

// AttachServices appends service line items in request order.
func (repo *MongoBookingRepo) AttachServices(ctx context.Context, bookingID string, serviceIDs []string) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$push": bson.M{"service_ids": bson.M{"$each": serviceIDs}}}
	res, err := repo.bookingColl.UpdateOne(ctx, notDeleted(bson.M{"id": bookingID}), update)
	if err != nil {
		return fmt.Errorf("error attaching services to booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendAuditEntry pushes one entry onto the booking's audit log.
func (repo *MongoBookingRepo) AppendAuditEntry(ctx context.Context, entry models.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": entry.BookingID}, bson.M{"$push": bson.M{"audit_log": entry}})
	if err != nil {
		return fmt.Errorf("error appending audit entry to booking %s: %w", entry.BookingID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus applies u only if the stored status still equals expected.
// A lost race surfaces as repository.ErrStatusChanged.
func (repo *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, u models.StatusUpdate) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := notDeleted(bson.M{"id": id, "status": expected})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := repo.bookingColl.FindOneAndUpdate(ctx, filter, statusUpdateDoc(u), opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, findErr := repo.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("booking %s is no longer %s: %w", id, expected, repository.ErrStatusChanged)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating booking %s: %w", id, err)
	}
	return &updated, nil
}

// statusUpdateDoc renders u as a Mongo update. Metadata keys are merged with
// dotted $set paths so existing keys survive.
func statusUpdateDoc(u models.StatusUpdate) bson.M {
	set := bson.M{"status": u.Status}
	if !u.UpdatedAt.IsZero() {
		set["updated_at"] = u.UpdatedAt
	}
	if u.ConfirmedAt != nil {
		set["confirmed_at"] = *u.ConfirmedAt
	}
	if u.CancelledAt != nil {
		set["cancelled_at"] = *u.CancelledAt
	}
	if u.CompletedAt != nil {
		set["completed_at"] = *u.CompletedAt
	}
	if u.CancellationReason != "" {
		set["cancellation_reason"] = u.CancellationReason
	}
	if u.CancelledBy != "" {
		set["cancelled_by"] = u.CancelledBy
	}
	if u.InternalNotes != nil {
		set["internal_notes"] = *u.InternalNotes
	}
	if len(u.EquipmentRequired) > 0 {
		set["equipment_required"] = u.EquipmentRequired
	}
	if u.ProviderPhone != nil {
		set["provider_phone"] = *u.ProviderPhone
	}
	if u.ProviderAddress != nil {
		set["provider_address"] = *u.ProviderAddress
	}
	for k, v := range u.Metadata {
		set["metadata."+k] = v
	}
	return bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
}

// SoftDelete sets the tombstone. The document is kept for audit.
func (repo *MongoBookingRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.bookingColl.UpdateOne(ctx, notDeleted(bson.M{"id": id}), bson.M{"$set": bson.M{"deleted_at": at}})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
