package booking

import (
	"time"

	"bookingcore/models"
)

// Policy holds the tunable workflow rules.
type Policy struct {
	AutoCancelHours   int
	MinCancelLeadTime time.Duration
	PreparationBuffer time.Duration
	ReminderOffsets   []time.Duration
	Channels          []string
	AdminIDs          []string
	// NumberAttempts bounds booking number regeneration on collision.
	NumberAttempts int
	// ExpiryBatchSize bounds a single expiry sweep.
	ExpiryBatchSize int
}

func DefaultPolicy() Policy {
	return Policy{
		AutoCancelHours:   24,
		MinCancelLeadTime: 2 * time.Hour,
		PreparationBuffer: 15 * time.Minute,
		ReminderOffsets:   []time.Duration{24 * time.Hour, 2 * time.Hour},
		Channels:          []string{models.ChannelPush},
		NumberAttempts:    10,
		ExpiryBatchSize:   500,
	}
}

// RulesFor returns the service-type rules with policy defaults filled in.
func (p Policy) RulesFor(code models.ServiceTypeCode) models.ServiceType {
	d := DefaultPolicy()
	defaults := models.ServiceType{
		AutoCancelHours:   firstPositive(p.AutoCancelHours, d.AutoCancelHours),
		ReminderOffsets:   p.ReminderOffsets,
		MinCancelLeadTime: p.MinCancelLeadTime,
	}
	if len(defaults.ReminderOffsets) == 0 {
		defaults.ReminderOffsets = d.ReminderOffsets
	}
	if defaults.MinCancelLeadTime <= 0 {
		defaults.MinCancelLeadTime = d.MinCancelLeadTime
	}
	return models.LookupServiceType(code).WithDefaults(defaults)
}

// IsAdmin reports whether id is a platform admin allowed to act on any booking.
func (p Policy) IsAdmin(id string) bool {
	if id == "" {
		return false
	}
	for _, a := range p.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

func (p Policy) preparationBuffer() time.Duration {
	if p.PreparationBuffer > 0 {
		return p.PreparationBuffer
	}
	return DefaultPolicy().PreparationBuffer
}

func (p Policy) numberAttempts() int {
	return firstPositive(p.NumberAttempts, DefaultPolicy().NumberAttempts)
}

func (p Policy) expiryBatchSize() int {
	return firstPositive(p.ExpiryBatchSize, DefaultPolicy().ExpiryBatchSize)
}

func (p Policy) channels() []string {
	if len(p.Channels) == 0 {
		return DefaultPolicy().Channels
	}
	return p.Channels
}

// minAutoCancelThreshold is the smallest staleness threshold across all service types.
func (p Policy) minAutoCancelThreshold() time.Duration {
	var shortest time.Duration
	for _, code := range models.ServiceTypeCodes() {
		t := p.RulesFor(code).AutoCancelThreshold()
		if shortest == 0 || t < shortest {
			shortest = t
		}
	}
	return shortest
}

func firstPositive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
