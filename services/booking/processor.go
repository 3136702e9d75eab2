package booking

import (
	"context"
	"fmt"
	"time"

	"bookingcore/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmationProcessor performs the pending -> confirmed transition and its
// transactional side tables. Confirm must run inside the provider transaction.
type ConfirmationProcessor struct {
	store  BookingStore
	slots  SlotStore
	policy Policy
	clock  Clock
	logger *zap.Logger
}

func NewConfirmationProcessor(store BookingStore, slots SlotStore, policy Policy, clock Clock, logger *zap.Logger) *ConfirmationProcessor {
	return &ConfirmationProcessor{store: store, slots: slots, policy: policy, clock: clock, logger: logger}
}

// Confirm moves b to confirmed and returns the stored result.
func (p *ConfirmationProcessor) Confirm(ctx context.Context, b *models.Booking, actorID string, opts models.ConfirmationOptions) (*models.Booking, error) {
	now := p.clock()

	method := opts.Method
	if method == "" {
		method = models.ConfirmationManual
	}
	meta := models.ConfirmationMeta{
		ConfirmedBy:        actorID,
		ConfirmedAt:        now.UTC().Format(time.RFC3339),
		ConfirmationMethod: method,
		AutoConfirmed:      opts.AutoConfirmed,
	}

	update := models.StatusUpdate{
		Status:      models.StatusConfirmed,
		ConfirmedAt: &now,
		Metadata:    map[string]any{"confirmation": meta.AsMap()},
		UpdatedAt:   now,
	}
	mergeConfirmationOptions(&update, b, opts)

	reason := "confirmed by provider"
	if opts.AutoConfirmed {
		reason = "confirmed automatically"
	} else if actorID != b.ProviderID {
		reason = "confirmed by admin"
	}

	confirmed, err := transition(ctx, p.store, b, models.ActionConfirmed, actorID, reason, update)
	if err != nil {
		return nil, err
	}

	if opts.CreateSlots {
		if err := p.materializeSlots(ctx, confirmed); err != nil {
			return nil, err
		}
	}

	return confirmed, nil
}

// mergeConfirmationOptions copies non-empty options onto the update. The
// provider address is only filled when the booking has none.
func mergeConfirmationOptions(u *models.StatusUpdate, b *models.Booking, opts models.ConfirmationOptions) {
	if opts.InternalNotes != "" {
		notes := opts.InternalNotes
		u.InternalNotes = &notes
	}
	if len(opts.EquipmentList) > 0 {
		u.EquipmentRequired = append([]string(nil), opts.EquipmentList...)
	}
	if opts.ProviderPhone != "" {
		phone := opts.ProviderPhone
		u.ProviderPhone = &phone
	}
	if opts.ProviderAddress != "" && b.ProviderAddress == "" {
		addr := opts.ProviderAddress
		u.ProviderAddress = &addr
	}
}

// materializeSlots replaces any slots previously created for the booking with
// the booking window plus, when the service type needs setup, a preparation
// slot ending at the booking start.
func (p *ConfirmationProcessor) materializeSlots(ctx context.Context, b *models.Booking) error {
	if err := p.slots.DeleteByBooking(ctx, b.ID); err != nil {
		return persistenceError("clearing schedule slots failed", err)
	}

	slots := BuildScheduleSlots(b, p.policy.RulesFor(b.ServiceType), p.policy.preparationBuffer(), p.clock())
	if err := p.slots.CreateMany(ctx, slots); err != nil {
		return persistenceError("creating schedule slots failed", err)
	}
	return nil
}

// BuildScheduleSlots returns the calendar blocks for a confirmed booking.
func BuildScheduleSlots(b *models.Booking, rules models.ServiceType, buffer time.Duration, now time.Time) []models.ScheduleSlot {
	slots := []models.ScheduleSlot{{
		ID:         uuid.New().String(),
		ProviderID: b.ProviderID,
		BookingID:  b.ID,
		Kind:       models.SlotBooking,
		Date:       b.StartTime.Format("2006-01-02"),
		Start:      b.StartTime,
		End:        b.EndTime,
		Notes:      fmt.Sprintf("Booking %s", b.BookingNumber),
		CreatedAt:  now,
	}}

	if rules.RequiresSetup && buffer > 0 {
		prepStart := b.StartTime.Add(-buffer)
		slots = append(slots, models.ScheduleSlot{
			ID:         uuid.New().String(),
			ProviderID: b.ProviderID,
			BookingID:  b.ID,
			Kind:       models.SlotPreparation,
			Date:       prepStart.Format("2006-01-02"),
			Start:      prepStart,
			End:        b.StartTime,
			Notes:      fmt.Sprintf("Preparation for booking %s", b.BookingNumber),
			CreatedAt:  now,
		})
	}
	return slots
}
