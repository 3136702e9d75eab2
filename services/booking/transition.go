package booking

import (
	"context"
	"errors"

	"bookingcore/database/repository"
	"bookingcore/models"

	"github.com/google/uuid"
)

// transition writes u onto b with a compare-and-set on b's current status and
// appends the matching audit entry. Call it inside the provider transaction so
// both writes commit or roll back together.
func transition(ctx context.Context, store BookingStore, b *models.Booking, action, actorID, reason string, u models.StatusUpdate) (*models.Booking, error) {
	from := b.Status
	if !models.CanTransition(from, u.Status) {
		return nil, newError(ErrInvalidStatusTransition, "cannot move booking from %s to %s", from, u.Status)
	}

	updated, err := store.UpdateStatus(ctx, b.ID, from, u)
	if err != nil {
		return nil, translateStoreError("status update failed", err)
	}

	entry := models.AuditEntry{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		Action:     action,
		FromStatus: from,
		ToStatus:   u.Status,
		Reason:     reason,
		ActorID:    actorID,
		Timestamp:  u.UpdatedAt,
	}
	if err := store.AppendAuditEntry(ctx, entry); err != nil {
		return nil, persistenceError("audit append failed", err)
	}
	updated.AuditLog = append(updated.AuditLog, entry)
	return updated, nil
}

// translateStoreError maps store sentinels onto the typed taxonomy.
func translateStoreError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return newError(ErrBookingNotFound, "%s: booking not found", op)
	case errors.Is(err, repository.ErrStatusChanged):
		return newError(ErrInvalidStatusTransition, "%s: booking status changed concurrently", op)
	default:
		return persistenceError(op, err)
	}
}
