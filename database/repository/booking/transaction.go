package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingcore/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver"
)

// WithinTransaction runs fn inside a multi-document transaction scoped to the
// provider. Every transaction bumps the provider's lock document first, so two
// transactions for the same provider always write-conflict and one of them is
// retried or rejected. A call made while a session is already open joins it.
func (repo *MongoBookingRepo) WithinTransaction(ctx context.Context, providerID string, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := repo.lockProvider(sc, providerID); err != nil {
			return nil, err
		}
		return nil, fn(sc)
	}, txnOpts)
	if err != nil {
		if isTransientConflict(err) {
			return fmt.Errorf("provider %s: %w", providerID, repository.ErrConflict)
		}
		return err
	}
	return nil
}

func (repo *MongoBookingRepo) lockProvider(ctx context.Context, providerID string) error {
	_, err := repo.lockColl.UpdateOne(ctx,
		bson.M{"_id": providerID},
		bson.M{
			"$inc": bson.M{"seq": 1},
			"$set": bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to lock provider %s: %w", providerID, err)
	}
	return nil
}

func isTransientConflict(err error) bool {
	var labeled mongo.LabeledError
	if errors.As(err, &labeled) {
		return labeled.HasErrorLabel(driver.TransientTransactionError)
	}
	return false
}
