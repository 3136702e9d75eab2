package booking

import (
	"context"
	"time"

	"bookingcore/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CalendarDateLayout is the layout of ScheduleSlot.Date.
const CalendarDateLayout = "2006-01-02"

// Calendar returns the materialized slots of providerID on date (YYYY-MM-DD),
// ordered by start.
func (s *Service) Calendar(ctx context.Context, providerID, date string) ([]models.ScheduleSlot, error) {
	if _, err := time.Parse(CalendarDateLayout, date); err != nil {
		return nil, newError(ErrInvalidRequest, "date %q is not in YYYY-MM-DD form", date)
	}
	slots, err := s.slots.GetByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, persistenceError("calendar lookup failed", err)
	}
	return slots, nil
}

// Slots returns the slots materialized for a booking. Only its parties and
// admins may read them.
func (s *Service) Slots(ctx context.Context, bookingID, actorID string) ([]models.ScheduleSlot, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !s.isParty(b, actorID) {
		return nil, newError(ErrPermissionDenied, "user %s cannot read booking %s", actorID, bookingID)
	}
	slots, err := s.slots.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, persistenceError("slot lookup failed", err)
	}
	return slots, nil
}

// Delete tombstones a finished booking and clears its slots. Admin only.
func (s *Service) Delete(ctx context.Context, bookingID, actorID string) error {
	start := s.clock()
	s.logger.Info("Deleting booking",
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actorID))

	_, err := s.runTransition(ctx, bookingID, func(txCtx context.Context, b *models.Booking) (*models.Booking, error) {
		if !s.policy.IsAdmin(actorID) {
			return nil, newError(ErrPermissionDenied, "user %s cannot delete booking %s", actorID, b.ID)
		}
		if !b.Status.IsTerminal() {
			return nil, newError(ErrInvalidStatusTransition, "cannot delete booking in status %s", b.Status)
		}

		now := s.clock()
		entry := models.AuditEntry{
			ID:         uuid.New().String(),
			BookingID:  b.ID,
			Action:     models.ActionDeleted,
			FromStatus: b.Status,
			ToStatus:   b.Status,
			Reason:     "deleted by admin",
			ActorID:    actorID,
			Timestamp:  now,
		}
		if err := s.store.AppendAuditEntry(txCtx, entry); err != nil {
			return nil, persistenceError("audit append failed", err)
		}
		if err := s.store.SoftDelete(txCtx, b.ID, now); err != nil {
			return nil, translateStoreError("booking delete failed", err)
		}
		if err := s.slots.DeleteByBooking(txCtx, b.ID); err != nil {
			return nil, persistenceError("clearing schedule slots failed", err)
		}
		return b, nil
	})
	s.record(models.ActionDeleted, start, err)
	if err != nil {
		s.logFailure("Booking deletion rejected", err, zap.String("booking_id", bookingID))
		return err
	}
	return nil
}

func (s *Service) isParty(b *models.Booking, actorID string) bool {
	return actorID != "" && (actorID == b.ClientID || actorID == b.ProviderID || s.policy.IsAdmin(actorID))
}
