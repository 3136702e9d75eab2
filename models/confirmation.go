package models

// Confirmation methods recorded in the booking metadata.
const (
	ConfirmationManual    = "manual"
	ConfirmationAutomatic = "automatic"
)

// ConfirmationOptions tune a single confirmation.
type ConfirmationOptions struct {
	InternalNotes   string   `json:"internalNotes,omitempty"`
	EquipmentList   []string `json:"equipmentList,omitempty"`
	ProviderPhone   string   `json:"providerPhone,omitempty"`
	ProviderAddress string   `json:"providerAddress,omitempty"` // only applied when the booking has none
	Method          string   `json:"-"`                         // set by the service, defaults to "manual"
	AutoConfirmed   bool     `json:"-"`
	CreateSlots     bool     `json:"createSlots,omitempty"`
	SendSMS         bool     `json:"sendSms,omitempty"`
	SendEmail       bool     `json:"sendEmail,omitempty"`
}

// ConfirmationMeta is the metadata block written under the "confirmation" key.
type ConfirmationMeta struct {
	ConfirmedBy        string `bson:"confirmedBy" json:"confirmedBy"`
	ConfirmedAt        string `bson:"confirmedAt" json:"confirmedAt"` // RFC3339
	ConfirmationMethod string `bson:"confirmationMethod" json:"confirmationMethod"`
	AutoConfirmed      bool   `bson:"autoConfirmed" json:"autoConfirmed"`
}

// AsMap renders the block for storage in the open metadata map.
func (m ConfirmationMeta) AsMap() map[string]any {
	return map[string]any{
		"confirmedBy":        m.ConfirmedBy,
		"confirmedAt":        m.ConfirmedAt,
		"confirmationMethod": m.ConfirmationMethod,
		"autoConfirmed":      m.AutoConfirmed,
	}
}
