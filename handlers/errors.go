package handlers

import (
	"net/http"

	"bookingcore/services/booking"
	"bookingcore/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByCode = map[string]int{
	booking.CodeBookingNotFound:           http.StatusNotFound,
	booking.CodeProviderNotFound:          http.StatusNotFound,
	booking.CodeScheduleConflict:          http.StatusConflict,
	booking.CodeInvalidStatusTransition:   http.StatusConflict,
	booking.CodeProviderExists:            http.StatusConflict,
	booking.CodePermissionDenied:          http.StatusForbidden,
	booking.CodeProviderInactive:          http.StatusUnprocessableEntity,
	booking.CodeBookingAlreadyStarted:     http.StatusUnprocessableEntity,
	booking.CodeConfirmationWindowExpired: http.StatusUnprocessableEntity,
	booking.CodeCancellationTooLate:       http.StatusUnprocessableEntity,
	booking.CodeBookingNotStarted:         http.StatusUnprocessableEntity,
	booking.CodeInvalidBookingWindow:      http.StatusBadRequest,
	booking.CodeInvalidRequest:            http.StatusBadRequest,
}

// httpStatus maps a booking error code to its HTTP status.
func httpStatus(err error) int {
	if status, ok := statusByCode[booking.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError renders a service error. Internal details never reach the client.
func writeError(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		getLogger(c).Error("Booking request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	utils.JSONCodedError(c, status, booking.CodeOf(err), booking.UserMessage(err), "")
}
