package booking

import (
	"errors"
	"fmt"
)

// Error codes. They are stable and safe to expose to API clients.
const (
	CodeProviderNotFound          = "providerNotFound"
	CodeProviderInactive          = "providerInactive"
	CodeScheduleConflict          = "scheduleConflict"
	CodePermissionDenied          = "permissionDenied"
	CodeInvalidStatusTransition   = "invalidStatusTransition"
	CodeBookingAlreadyStarted     = "bookingAlreadyStarted"
	CodeConfirmationWindowExpired = "confirmationWindowExpired"
	CodePersistenceFailure        = "persistenceFailure"
	CodeBookingNotFound           = "bookingNotFound"
	CodeInvalidBookingWindow      = "invalidBookingWindow"
	CodeCancellationTooLate       = "cancellationTooLate"
	CodeBookingNotStarted         = "bookingNotStarted"
	CodeInvalidRequest            = "invalidRequest"
	CodeProviderExists            = "providerExists"
)

// BookingError is a typed domain error. Two BookingErrors match under
// errors.Is when their codes are equal, so callers compare against the
// exported sentinels below.
type BookingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Code == e.Code
}

var (
	ErrProviderNotFound          = &BookingError{Code: CodeProviderNotFound, Message: "provider not found"}
	ErrProviderInactive          = &BookingError{Code: CodeProviderInactive, Message: "provider is not accepting bookings"}
	ErrScheduleConflict          = &BookingError{Code: CodeScheduleConflict, Message: "time window overlaps an existing booking"}
	ErrPermissionDenied          = &BookingError{Code: CodePermissionDenied, Message: "not allowed to perform this action"}
	ErrInvalidStatusTransition   = &BookingError{Code: CodeInvalidStatusTransition, Message: "status transition not allowed"}
	ErrBookingAlreadyStarted     = &BookingError{Code: CodeBookingAlreadyStarted, Message: "booking has already started"}
	ErrConfirmationWindowExpired = &BookingError{Code: CodeConfirmationWindowExpired, Message: "confirmation window has expired"}
	ErrPersistenceFailure        = &BookingError{Code: CodePersistenceFailure, Message: "storage operation failed"}
	ErrBookingNotFound           = &BookingError{Code: CodeBookingNotFound, Message: "booking not found"}
	ErrInvalidBookingWindow      = &BookingError{Code: CodeInvalidBookingWindow, Message: "invalid booking window"}
	ErrCancellationTooLate       = &BookingError{Code: CodeCancellationTooLate, Message: "too late to cancel this booking"}
	ErrBookingNotStarted         = &BookingError{Code: CodeBookingNotStarted, Message: "booking has not started yet"}
	ErrInvalidRequest            = &BookingError{Code: CodeInvalidRequest, Message: "invalid booking request"}
	ErrProviderExists            = &BookingError{Code: CodeProviderExists, Message: "provider already registered"}
)

// newError returns a copy of sentinel carrying a request-specific message.
func newError(sentinel *BookingError, format string, args ...any) error {
	return &BookingError{Code: sentinel.Code, Message: fmt.Sprintf(format, args...)}
}

// persistenceError wraps a store failure. Typed errors pass through unchanged.
func persistenceError(op string, err error) error {
	var be *BookingError
	if errors.As(err, &be) {
		return err
	}
	return &BookingError{Code: CodePersistenceFailure, Message: op, Err: err}
}

// CodeOf returns the code of a typed error, or CodePersistenceFailure for anything else.
func CodeOf(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodePersistenceFailure
}

var userMessages = map[string]string{
	CodeProviderNotFound:          "This provider could not be found.",
	CodeProviderInactive:          "This provider is not accepting bookings right now.",
	CodeScheduleConflict:          "The selected time is no longer available. Please choose another slot.",
	CodePermissionDenied:          "You are not allowed to change this booking.",
	CodeInvalidStatusTransition:   "This booking has changed. Please refresh and try again.",
	CodeBookingAlreadyStarted:     "This booking has already started and can no longer be confirmed.",
	CodeConfirmationWindowExpired: "This booking request has expired and can no longer be confirmed.",
	CodeBookingNotFound:           "Booking not found.",
	CodeInvalidBookingWindow:      "The requested booking time is not valid.",
	CodeCancellationTooLate:       "This booking can no longer be cancelled.",
	CodeBookingNotStarted:         "This booking has not started yet.",
	CodeInvalidRequest:            "The booking request is not valid.",
	CodeProviderExists:            "This provider is already registered.",
}

const genericUserMessage = "Something went wrong. Please try again."

// UserMessage maps err to a stable user-facing message.
func UserMessage(err error) string {
	if msg, ok := userMessages[CodeOf(err)]; ok {
		return msg
	}
	return genericUserMessage
}
