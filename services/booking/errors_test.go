package booking

import (
	"errors"
	"fmt"
	"testing"

	"bookingcore/database/repository"

	"github.com/stretchr/testify/assert"
)

func TestBookingErrorMatchesByCode(t *testing.T) {
	err := newError(ErrScheduleConflict, "provider %s is busy", "p1")

	assert.ErrorIs(t, err, ErrScheduleConflict)
	assert.NotErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "scheduleConflict: provider p1 is busy", err.Error())

	wrapped := fmt.Errorf("confirm: %w", err)
	assert.ErrorIs(t, wrapped, ErrScheduleConflict)
	assert.Equal(t, CodeScheduleConflict, CodeOf(wrapped))
}

func TestPersistenceErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := persistenceError("insert failed", cause)

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.ErrorIs(t, err, cause)

	typed := newError(ErrBookingNotFound, "gone")
	assert.Same(t, typed, persistenceError("lookup", typed), "typed errors pass through")
}

func TestTranslateStoreError(t *testing.T) {
	assert.ErrorIs(t, translateStoreError("op", repository.ErrNotFound), ErrBookingNotFound)
	assert.ErrorIs(t, translateStoreError("op", fmt.Errorf("update: %w", repository.ErrStatusChanged)), ErrInvalidStatusTransition)
	assert.ErrorIs(t, translateStoreError("op", errors.New("boom")), ErrPersistenceFailure)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrScheduleConflict, "The selected time is no longer available. Please choose another slot."},
		{newError(ErrPermissionDenied, "nope"), "You are not allowed to change this booking."},
		{persistenceError("insert", errors.New("timeout")), genericUserMessage},
		{errors.New("unexpected"), genericUserMessage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
