package models

import "time"

// Provider status values.
const (
	ProviderActive    = "active"
	ProviderSuspended = "suspended"
	ProviderInactive  = "inactive"
)

// Provider is the service-performing party of a booking.
type Provider struct {
	ID                string        `bson:"id" json:"id"`
	Name              string        `bson:"name" json:"name"`
	Email             string        `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber       string        `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Address           string        `bson:"address,omitempty" json:"address,omitempty"`
	Status            string        `bson:"status" json:"status"`
	AcceptingBookings bool          `bson:"acceptingBookings" json:"acceptingBookings"`
	AutoConfirm       bool          `bson:"autoConfirm" json:"autoConfirm"` // new bookings are confirmed right after creation
	FCMToken          string        `bson:"fcmToken,omitempty" json:"-"`
	Schedule          []WorkingDay  `bson:"schedule,omitempty" json:"schedule,omitempty"` // empty means no working-hours restriction
	Stats             ProviderStats `bson:"stats" json:"stats"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updatedAt" json:"updatedAt"`
	DeletedAt         *time.Time    `bson:"deletedAt,omitempty" json:"-"`
}

// ProviderStats are running counters maintained best-effort on confirmation.
type ProviderStats struct {
	ConfirmedBookings int        `bson:"confirmedBookings" json:"confirmedBookings"`
	LastConfirmedAt   *time.Time `bson:"lastConfirmedAt,omitempty" json:"lastConfirmedAt,omitempty"`
}

// CanAcceptBookings reports whether new bookings may be created for the provider.
func (p *Provider) CanAcceptBookings() bool {
	return p.DeletedAt == nil && p.Status == ProviderActive && p.AcceptingBookings
}

// Client is the minimal view of the booking party used for notifications.
type Client struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	FCMToken    string `bson:"fcmToken,omitempty" json:"-"`
}
