package booking

import (
	"context"
	"testing"

	"bookingcore/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarListsMaterializedSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := request(at(14, 0), at(15, 0))
	req.ServiceType = models.ServiceOutcall
	b, err := env.svc.Create(ctx, req)
	require.NoError(t, err)
	_, err = env.svc.Confirm(ctx, b.ID, providerID, models.ConfirmationOptions{CreateSlots: true})
	require.NoError(t, err)
	env.create(t, at(16, 0), at(17, 0)) // pending, no slots

	slots, err := env.svc.Calendar(ctx, providerID, "2025-03-01")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, models.SlotPreparation, slots[0].Kind)
	assert.Equal(t, models.SlotBooking, slots[1].Kind)

	slots, err = env.svc.Calendar(ctx, providerID, "2025-03-02")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = env.svc.Calendar(ctx, providerID, "01/03/2025")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSlotsAreVisibleToPartiesOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.create(t, at(14, 0), at(15, 0))
	_, err := env.svc.Confirm(ctx, b.ID, providerID, models.ConfirmationOptions{CreateSlots: true})
	require.NoError(t, err)

	for _, actor := range []string{clientID, providerID, adminID} {
		slots, err := env.svc.Slots(ctx, b.ID, actor)
		require.NoError(t, err, actor)
		require.Len(t, slots, 1)
		assert.Equal(t, at(14, 0), slots[0].Start)
	}

	_, err = env.svc.Slots(ctx, b.ID, "stranger")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.Slots(ctx, "missing", adminID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestDeleteTombstonesFinishedBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.create(t, at(14, 0), at(15, 0))
	_, err := env.svc.Confirm(ctx, b.ID, providerID, models.ConfirmationOptions{CreateSlots: true})
	require.NoError(t, err)

	assert.ErrorIs(t, env.svc.Delete(ctx, b.ID, adminID), ErrInvalidStatusTransition, "active bookings are kept")

	_, err = env.svc.Start(ctx, b.ID, providerID)
	require.NoError(t, err)
	_, err = env.svc.Complete(ctx, b.ID, providerID)
	require.NoError(t, err)
	require.NotEmpty(t, env.store.SlotsForBooking(b.ID))

	assert.ErrorIs(t, env.svc.Delete(ctx, b.ID, providerID), ErrPermissionDenied)
	require.NoError(t, env.svc.Delete(ctx, b.ID, adminID))

	_, err = env.svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, env.store.SlotsForBooking(b.ID))

	stored := env.store.Bookings()
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].DeletedAt)
	last := stored[0].AuditLog[len(stored[0].AuditLog)-1]
	assert.Equal(t, models.ActionDeleted, last.Action)
	assert.Equal(t, adminID, last.ActorID)

	assert.ErrorIs(t, env.svc.Delete(ctx, b.ID, adminID), ErrBookingNotFound)
}
