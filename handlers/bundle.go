package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	CreateBooking     gin.HandlerFunc
	GetBooking        gin.HandlerFunc
	BookingHistory    gin.HandlerFunc
	ConfirmBooking    gin.HandlerFunc
	CancelBooking     gin.HandlerFunc
	StartBooking      gin.HandlerFunc
	CompleteBooking   gin.HandlerFunc
	MarkNoShow        gin.HandlerFunc
	BookingSlots      gin.HandlerFunc
	DeleteBooking     gin.HandlerFunc

	// Provider endpoints
	ProviderAvailable   gin.HandlerFunc
	ProviderCalendar    gin.HandlerFunc
	RegisterProvider    gin.HandlerFunc
	ProviderPreferences gin.HandlerFunc

	// Operational endpoints
	Health gin.HandlerFunc
}

// NewHandlerBundle wires the booking and provider handlers.
func NewHandlerBundle(h *BookingHandler, p *ProviderHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateBooking:       h.Create,
		GetBooking:          h.Get,
		BookingHistory:      h.History,
		ConfirmBooking:      h.Confirm,
		CancelBooking:       h.Cancel,
		StartBooking:        h.Start,
		CompleteBooking:     h.Complete,
		MarkNoShow:          h.NoShow,
		BookingSlots:        h.Slots,
		DeleteBooking:       h.Delete,
		ProviderAvailable:   h.Availability,
		ProviderCalendar:    p.Calendar,
		RegisterProvider:    p.Register,
		ProviderPreferences: p.SetPreferences,
		Health:              HealthHandler,
	}
}
