package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingcore/models"

	"go.uber.org/zap"
)

// CanCancel reports whether b may still be cancelled at now: the status must
// allow it and the start must be at least minLead away.
func CanCancel(b *models.Booking, now time.Time, minLead time.Duration) bool {
	return b.Status.CanBeCancelled() && b.StartTime.Sub(now) >= minLead
}

// Cancel cancels bookingID on behalf of actorID. Clients produce
// cancelled_by_client, providers and admins cancelled_by_provider.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	start := s.clock()
	s.logger.Info("Cancelling booking",
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actorID))

	cancelled, err := s.runTransition(ctx, bookingID, func(txCtx context.Context, b *models.Booking) (*models.Booking, error) {
		if actorID == "" || (actorID != b.ClientID && actorID != b.ProviderID && !s.policy.IsAdmin(actorID)) {
			return nil, newError(ErrPermissionDenied, "user %s cannot cancel booking %s", actorID, b.ID)
		}

		to := models.StatusCancelledByProvider
		if actorID == b.ClientID {
			to = models.StatusCancelledByClient
		}
		if !b.Status.CanBeCancelled() || !models.CanTransition(b.Status, to) {
			return nil, newError(ErrInvalidStatusTransition, "cannot cancel booking in status %s", b.Status)
		}

		now := s.clock()
		lead := s.policy.RulesFor(b.ServiceType).MinCancelLeadTime
		if !CanCancel(b, now, lead) {
			return nil, newError(ErrCancellationTooLate, "bookings must be cancelled at least %s before start", lead)
		}

		if reason == "" {
			reason = "cancelled"
		}
		updated, err := transition(txCtx, s.store, b, models.ActionCancelled, actorID, reason, models.StatusUpdate{
			Status:             to,
			CancelledAt:        &now,
			CancellationReason: reason,
			CancelledBy:        actorID,
			UpdatedAt:          now,
		})
		if err != nil {
			return nil, err
		}
		if err := s.slots.DeleteByBooking(txCtx, b.ID); err != nil {
			return nil, persistenceError("clearing schedule slots failed", err)
		}
		return updated, nil
	})
	s.record(models.ActionCancelled, start, err)
	if err != nil {
		s.logFailure("Booking cancellation rejected", err, zap.String("booking_id", bookingID))
		return nil, err
	}

	s.notifier.NotifyCancellation(ctx, cancelled, actorID)
	s.publish(ctx, EventBookingCancelled, cancelled)
	return cancelled, nil
}

// Start moves a confirmed booking to in_progress.
func (s *Service) Start(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	return s.providerTransition(ctx, bookingID, actorID, models.ActionStarted, EventBookingStarted,
		func(b *models.Booking, now time.Time) (models.StatusUpdate, string, error) {
			return models.StatusUpdate{Status: models.StatusInProgress, UpdatedAt: now}, "service started", nil
		})
}

// Complete moves an in-progress booking to completed.
func (s *Service) Complete(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	return s.providerTransition(ctx, bookingID, actorID, models.ActionCompleted, EventBookingCompleted,
		func(b *models.Booking, now time.Time) (models.StatusUpdate, string, error) {
			return models.StatusUpdate{Status: models.StatusCompleted, CompletedAt: &now, UpdatedAt: now}, "service completed", nil
		})
}

// MarkNoShow records that the client did not turn up for a confirmed booking.
func (s *Service) MarkNoShow(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	return s.providerTransition(ctx, bookingID, actorID, models.ActionNoShow, EventBookingNoShow,
		func(b *models.Booking, now time.Time) (models.StatusUpdate, string, error) {
			if !models.CanTransition(b.Status, models.StatusNoShow) {
				return models.StatusUpdate{}, "", newError(ErrInvalidStatusTransition, "cannot mark booking in status %s as no-show", b.Status)
			}
			if now.Before(b.StartTime) {
				return models.StatusUpdate{}, "", newError(ErrBookingNotStarted, "booking %s starts at %s", b.ID, b.StartTime.Format("2006-01-02 15:04"))
			}
			return models.StatusUpdate{Status: models.StatusNoShow, UpdatedAt: now}, "client did not show up", nil
		})
}

// ExpireStale moves pending bookings older than their auto-cancel threshold to
// expired. It returns the number of bookings expired; failures on individual
// bookings are joined into the returned error.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	now := s.clock()
	candidates, err := s.store.ListPendingCreatedBefore(ctx, now.Add(-s.policy.minAutoCancelThreshold()), s.policy.expiryBatchSize())
	if err != nil {
		return 0, persistenceError("listing pending bookings failed", err)
	}

	expired := 0
	var errs []error
	for i := range candidates {
		c := candidates[i]
		threshold := s.policy.RulesFor(c.ServiceType).AutoCancelThreshold()
		if now.Sub(c.CreatedAt) <= threshold {
			continue
		}

		b, err := s.runTransition(ctx, c.ID, func(txCtx context.Context, b *models.Booking) (*models.Booking, error) {
			if b.Status != models.StatusPending {
				return nil, nil
			}
			reason := fmt.Sprintf("not confirmed within %d hours", int(threshold.Hours()))
			return transition(txCtx, s.store, b, models.ActionExpired, models.SystemActorID, reason, models.StatusUpdate{
				Status:    models.StatusExpired,
				UpdatedAt: now,
			})
		})
		if err != nil {
			s.logger.Error("Failed to expire booking", zap.String("booking_id", c.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if b == nil {
			continue
		}
		expired++
		s.record(models.ActionExpired, now, nil)
		s.publish(ctx, EventBookingExpired, b)
	}

	if expired > 0 {
		s.logger.Info("Expired stale bookings", zap.Int("count", expired))
	}
	return expired, errors.Join(errs...)
}

type updateFunc func(b *models.Booking, now time.Time) (models.StatusUpdate, string, error)

// providerTransition runs a provider-or-admin transition built by fn.
func (s *Service) providerTransition(ctx context.Context, bookingID, actorID, action, event string, fn updateFunc) (*models.Booking, error) {
	start := s.clock()
	s.logger.Info("Booking transition",
		zap.String("action", action),
		zap.String("booking_id", bookingID),
		zap.String("actor_id", actorID))

	updated, err := s.runTransition(ctx, bookingID, func(txCtx context.Context, b *models.Booking) (*models.Booking, error) {
		if actorID == "" || (actorID != b.ProviderID && !s.policy.IsAdmin(actorID)) {
			return nil, newError(ErrPermissionDenied, "user %s cannot update booking %s", actorID, b.ID)
		}
		now := s.clock()
		u, reason, err := fn(b, now)
		if err != nil {
			return nil, err
		}
		return transition(txCtx, s.store, b, action, actorID, reason, u)
	})
	s.record(action, start, err)
	if err != nil {
		s.logFailure("Booking transition rejected", err,
			zap.String("action", action),
			zap.String("booking_id", bookingID))
		return nil, err
	}

	s.publish(ctx, event, updated)
	return updated, nil
}

// runTransition loads bookingID and runs fn against the fresh copy inside the
// provider transaction.
func (s *Service) runTransition(ctx context.Context, bookingID string, fn func(txCtx context.Context, b *models.Booking) (*models.Booking, error)) (*models.Booking, error) {
	current, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var result *models.Booking
	err = s.store.WithinTransaction(ctx, current.ProviderID, func(txCtx context.Context) error {
		b, err := s.load(txCtx, bookingID)
		if err != nil {
			return err
		}
		result, err = fn(txCtx, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
