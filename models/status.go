package models

import "fmt"

// BookingStatus is the single canonical status of a booking. Values are stable wire strings.
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByClient   BookingStatus = "cancelled_by_client"
	StatusCancelledByProvider BookingStatus = "cancelled_by_provider"
	StatusNoShow              BookingStatus = "no_show"
	StatusExpired             BookingStatus = "expired"
)

// AllStatuses lists every known status in lifecycle order.
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelledByClient,
	StatusCancelledByProvider,
	StatusNoShow,
	StatusExpired,
}

// transitions is the only transition table. Terminal states map to an empty set.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:             {StatusConfirmed, StatusCancelledByClient, StatusCancelledByProvider, StatusExpired},
	StatusConfirmed:           {StatusInProgress, StatusCancelledByClient, StatusCancelledByProvider, StatusNoShow},
	StatusInProgress:          {StatusCompleted, StatusCancelledByProvider},
	StatusCompleted:           {},
	StatusCancelledByClient:   {},
	StatusCancelledByProvider: {},
	StatusNoShow:              {},
	StatusExpired:             {},
}

// CanTransition reports whether from -> to is a legal move. Unknown statuses never transition.
func CanTransition(from, to BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses returns a copy of the legal destinations from s.
func NextStatuses(s BookingStatus) []BookingStatus {
	next := transitions[s]
	out := make([]BookingStatus, len(next))
	copy(out, next)
	return out
}

// IsValid reports whether s is a recognized status.
func (s BookingStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsActive is true for PENDING, CONFIRMED and IN_PROGRESS.
func (s BookingStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return !s.IsActive()
}

// BlocksSchedule is true for the statuses that hold a provider's time exclusively.
func (s BookingStatus) BlocksSchedule() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

func (s BookingStatus) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s BookingStatus) RequiresPayment() bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s BookingStatus) IsCancelled() bool {
	return s == StatusCancelledByClient || s == StatusCancelledByProvider
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a wire string into a BookingStatus.
func ParseBookingStatus(v string) (BookingStatus, error) {
	s := BookingStatus(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", v)
	}
	return s, nil
}

// ScheduleBlockingStatuses are the statuses considered by conflict detection.
var ScheduleBlockingStatuses = []BookingStatus{StatusConfirmed, StatusInProgress}
