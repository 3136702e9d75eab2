package models

import "time"

// Slot kinds.
const (
	SlotBooking     = "booking"
	SlotPreparation = "preparation"
)

// ScheduleSlot is a concrete calendar block materialized from a confirmed booking.
type ScheduleSlot struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	BookingID  string    `bson:"bookingId" json:"bookingId"`
	Kind       string    `bson:"kind" json:"kind"`   // "booking" or "preparation"
	Date       string    `bson:"date" json:"date"`   // e.g., "2025-02-25"
	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
