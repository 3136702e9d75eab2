package booking

import (
	"context"

	"bookingcore/models"

	"go.uber.org/zap"
)

// ConfirmationValidator runs the confirmation preconditions in a fixed order
// and stops at the first failure: permission, transition, start time, staleness.
type ConfirmationValidator struct {
	policy    Policy
	clock     Clock
	conflicts *ConflictDetector
	logger    *zap.Logger
}

func NewConfirmationValidator(policy Policy, clock Clock, conflicts *ConflictDetector, logger *zap.Logger) *ConfirmationValidator {
	return &ConfirmationValidator{policy: policy, clock: clock, conflicts: conflicts, logger: logger}
}

// Validate checks whether requesterID may confirm b right now.
func (v *ConfirmationValidator) Validate(b *models.Booking, requesterID string) error {
	if requesterID == "" || (requesterID != b.ProviderID && !v.policy.IsAdmin(requesterID)) {
		return newError(ErrPermissionDenied, "user %s cannot confirm booking %s", requesterID, b.ID)
	}

	if !models.CanTransition(b.Status, models.StatusConfirmed) {
		return newError(ErrInvalidStatusTransition, "cannot confirm booking in status %s", b.Status)
	}

	now := v.clock()
	if !b.StartTime.After(now) {
		return newError(ErrBookingAlreadyStarted, "booking %s started at %s", b.ID, b.StartTime.Format("2006-01-02 15:04"))
	}

	threshold := v.policy.RulesFor(b.ServiceType).AutoCancelThreshold()
	if now.Sub(b.CreatedAt) > threshold {
		return newError(ErrConfirmationWindowExpired, "booking %s was not confirmed within %s", b.ID, threshold)
	}
	return nil
}

// CheckScheduleConflict re-verifies that no other confirmed or in-progress
// booking of providerID overlaps b. Run it inside the provider transaction.
func (v *ConfirmationValidator) CheckScheduleConflict(ctx context.Context, b *models.Booking, providerID string) error {
	conflict, err := v.conflicts.HasConflict(ctx, providerID, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return err
	}
	if conflict {
		v.logger.Warn("Schedule conflict at confirmation",
			zap.String("booking_id", b.ID),
			zap.String("provider_id", providerID))
		return newError(ErrScheduleConflict, "provider %s already has a booking overlapping %s", providerID, b.StartTime.Format("2006-01-02 15:04"))
	}
	return nil
}
