package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a time-boxed appointment between a client and a provider.
type Booking struct {
	ID              string          `bson:"id" json:"id"`
	BookingNumber   string          `bson:"booking_number" json:"booking_number"`
	ClientID        string          `bson:"client_id" json:"client_id"`
	ProviderID      string          `bson:"provider_id" json:"provider_id"`
	ServiceType     ServiceTypeCode `bson:"service_type,omitempty" json:"service_type,omitempty"`
	ServiceName     string          `bson:"service_name,omitempty" json:"service_name,omitempty"`
	ServiceIDs      []string        `bson:"service_ids" json:"service_ids"`
	StartTime       time.Time       `bson:"start_time" json:"start_time"`
	EndTime         time.Time       `bson:"end_time" json:"end_time"`
	DurationMinutes int             `bson:"duration_minutes" json:"duration_minutes"`
	Status          BookingStatus   `bson:"status" json:"status"`
	Price           float64         `bson:"price" json:"price"`
	DepositAmount   *float64        `bson:"deposit_amount,omitempty" json:"deposit_amount,omitempty"`

	ConfirmedAt        *time.Time `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	CancelledBy        string     `bson:"cancelled_by,omitempty" json:"cancelled_by,omitempty"`

	// Contact and logistics details filled at creation or merged in on confirmation.
	ClientPhone       string   `bson:"client_phone,omitempty" json:"client_phone,omitempty"`
	ClientEmail       string   `bson:"client_email,omitempty" json:"client_email,omitempty"`
	ClientAddress     string   `bson:"client_address,omitempty" json:"client_address,omitempty"`
	ProviderPhone     string   `bson:"provider_phone,omitempty" json:"provider_phone,omitempty"`
	ProviderAddress   string   `bson:"provider_address,omitempty" json:"provider_address,omitempty"`
	InternalNotes     string   `bson:"internal_notes,omitempty" json:"internal_notes,omitempty"`
	EquipmentRequired []string `bson:"equipment_required,omitempty" json:"equipment_required,omitempty"`

	Metadata map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	AuditLog []AuditEntry   `bson:"audit_log" json:"audit_log"`

	Version   int        `bson:"version" json:"-"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// AuditEntry records one status transition. Entries are append-only.
type AuditEntry struct {
	ID         string        `bson:"id" json:"id"`
	BookingID  string        `bson:"booking_id" json:"booking_id"`
	Action     string        `bson:"action" json:"action"`
	FromStatus BookingStatus `bson:"from_status,omitempty" json:"from_status,omitempty"`
	ToStatus   BookingStatus `bson:"to_status" json:"to_status"`
	Reason     string        `bson:"reason,omitempty" json:"reason,omitempty"`
	ActorID    string        `bson:"actor_id" json:"actor_id"`
	Timestamp  time.Time     `bson:"timestamp" json:"timestamp"`
}

// Audit actions.
const (
	ActionCreated   = "created"
	ActionConfirmed = "confirmed"
	ActionStarted   = "started"
	ActionCompleted = "completed"
	ActionCancelled = "cancelled"
	ActionNoShow    = "no_show"
	ActionExpired   = "expired"
	ActionDeleted   = "deleted"
)

// SystemActorID is recorded on transitions performed by background jobs.
const SystemActorID = "system"

// StatusUpdate carries the fields written together with a status change.
// Nil pointers and empty values leave the stored field untouched.
type StatusUpdate struct {
	Status             BookingStatus
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CompletedAt        *time.Time
	CancellationReason string
	CancelledBy        string
	InternalNotes      *string
	EquipmentRequired  []string
	ProviderPhone      *string
	ProviderAddress    *string
	Metadata           map[string]any
	UpdatedAt          time.Time
}

// IsDeleted reports whether the booking carries a tombstone.
func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}

// Deposit returns the deposit amount or zero when none is set.
func (b *Booking) Deposit() float64 {
	if b.DepositAmount == nil {
		return 0
	}
	return *b.DepositAmount
}

// Clone returns a deep copy safe to mutate independently.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.ServiceIDs = append([]string(nil), b.ServiceIDs...)
	c.EquipmentRequired = append([]string(nil), b.EquipmentRequired...)
	c.AuditLog = append([]AuditEntry(nil), b.AuditLog...)
	c.Metadata = cloneMap(b.Metadata)
	c.DepositAmount = cloneFloat(b.DepositAmount)
	c.ConfirmedAt = cloneTime(b.ConfirmedAt)
	c.CancelledAt = cloneTime(b.CancelledAt)
	c.CompletedAt = cloneTime(b.CompletedAt)
	c.DeletedAt = cloneTime(b.DeletedAt)
	return &c
}

// Apply writes a StatusUpdate onto the booking. Metadata keys are merged, never removed.
func (b *Booking) Apply(u StatusUpdate) {
	b.Status = u.Status
	if u.ConfirmedAt != nil && b.ConfirmedAt == nil {
		b.ConfirmedAt = cloneTime(u.ConfirmedAt)
	}
	if u.CancelledAt != nil && b.CancelledAt == nil {
		b.CancelledAt = cloneTime(u.CancelledAt)
	}
	if u.CompletedAt != nil && b.CompletedAt == nil {
		b.CompletedAt = cloneTime(u.CompletedAt)
	}
	if u.CancellationReason != "" {
		b.CancellationReason = u.CancellationReason
	}
	if u.CancelledBy != "" {
		b.CancelledBy = u.CancelledBy
	}
	if u.InternalNotes != nil {
		b.InternalNotes = *u.InternalNotes
	}
	if len(u.EquipmentRequired) > 0 {
		b.EquipmentRequired = append([]string(nil), u.EquipmentRequired...)
	}
	if u.ProviderPhone != nil {
		b.ProviderPhone = *u.ProviderPhone
	}
	if u.ProviderAddress != nil {
		b.ProviderAddress = *u.ProviderAddress
	}
	if len(u.Metadata) > 0 {
		if b.Metadata == nil {
			b.Metadata = make(map[string]any, len(u.Metadata))
		}
		for k, v := range u.Metadata {
			b.Metadata[k] = cloneValue(v)
		}
	}
	if !u.UpdatedAt.IsZero() {
		b.UpdatedAt = u.UpdatedAt
	}
	b.Version++
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the container shapes that JSON and BSON decoding
// put into metadata. Scalars are returned as is.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case primitive.M:
		if t == nil {
			return t
		}
		return primitive.M(cloneMap(t))
	case primitive.D:
		if t == nil {
			return t
		}
		out := make(primitive.D, len(t))
		for i, e := range t {
			out[i] = primitive.E{Key: e.Key, Value: cloneValue(e.Value)}
		}
		return out
	case []any:
		return cloneSlice(t)
	case primitive.A:
		if t == nil {
			return t
		}
		return primitive.A(cloneSlice(t))
	default:
		return v
	}
}

func cloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
