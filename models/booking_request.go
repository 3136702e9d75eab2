package models

import "time"

// CreateBookingRequest holds the client's requested appointment.
type CreateBookingRequest struct {
	ClientID        string          `json:"clientId"`                  // Requesting client.
	ProviderID      string          `json:"providerId"`                // The selected provider's ID.
	ServiceType     ServiceTypeCode `json:"serviceType,omitempty"`     // Defaults to incall.
	ServiceName     string          `json:"serviceName,omitempty"`
	ServiceIDs      []string        `json:"serviceIds,omitempty"`      // Line items, attached in order.
	StartTime       time.Time       `json:"startTime"`
	EndTime         time.Time       `json:"endTime"`
	DurationMinutes int             `json:"durationMinutes,omitempty"` // Derived from the window when zero.
	Price           float64         `json:"price"`
	DepositAmount   *float64        `json:"depositAmount,omitempty"`
	ClientPhone     string          `json:"clientPhone,omitempty"`
	ClientEmail     string          `json:"clientEmail,omitempty"`
	ClientAddress   string          `json:"clientAddress,omitempty"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}
