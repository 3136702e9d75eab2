package models

import "time"

// ServiceTypeCode identifies how a service is delivered.
type ServiceTypeCode string

const (
	ServiceIncall  ServiceTypeCode = "incall"  // client visits the provider
	ServiceOutcall ServiceTypeCode = "outcall" // provider travels to the client
	ServiceOnline  ServiceTypeCode = "online"
	ServicePackage ServiceTypeCode = "package"
)

// ServiceType carries the per-type workflow rules used by confirmation and cancellation.
type ServiceType struct {
	Code              ServiceTypeCode `bson:"code" json:"code"`
	Name              string          `bson:"name" json:"name"`
	AutoCancelHours   int             `bson:"autoCancelHours" json:"autoCancelHours"`     // pending age after which confirmation is refused
	ReminderOffsets   []time.Duration `bson:"reminderOffsets" json:"reminderOffsets"`     // durations before start
	RequiresSetup     bool            `bson:"requiresSetup" json:"requiresSetup"`         // adds a preparation slot before the booking
	SupportsPrepay    bool            `bson:"supportsPrepay" json:"supportsPrepay"`       // deposit link sent on confirmation
	MinCancelLeadTime time.Duration   `bson:"minCancelLeadTime" json:"minCancelLeadTime"` // cancellation must happen at least this long before start
	MinAdvance        time.Duration   `bson:"minAdvance" json:"minAdvance"`               // earliest start relative to creation
	MaxDuration       time.Duration   `bson:"maxDuration" json:"maxDuration"`

	RequiresClientAddress   bool `bson:"requiresClientAddress" json:"requiresClientAddress"`
	RequiresClientPhone     bool `bson:"requiresClientPhone" json:"requiresClientPhone"`
	RequiresProviderAddress bool `bson:"requiresProviderAddress" json:"requiresProviderAddress"`
	RequiresServiceList     bool `bson:"requiresServiceList" json:"requiresServiceList"`
}

var serviceTypes = map[ServiceTypeCode]ServiceType{
	ServiceIncall: {
		Code: ServiceIncall, Name: "In-call",
		MinAdvance: time.Hour, MaxDuration: 4 * time.Hour,
		RequiresProviderAddress: true,
	},
	ServiceOutcall: {
		Code: ServiceOutcall, Name: "Out-call", RequiresSetup: true, SupportsPrepay: true,
		MinAdvance: 3 * time.Hour, MaxDuration: 6 * time.Hour,
		RequiresClientAddress: true, RequiresClientPhone: true,
	},
	ServiceOnline: {
		Code: ServiceOnline, Name: "Online",
		MinAdvance: time.Hour, MaxDuration: 2 * time.Hour,
	},
	ServicePackage: {
		Code: ServicePackage, Name: "Package", SupportsPrepay: true,
		MinAdvance: 4 * time.Hour, MaxDuration: 8 * time.Hour,
		RequiresServiceList: true,
	},
}

// LookupServiceType returns the rules registered for code. Unknown or empty codes
// resolve to the in-call rules. Zero durations mean "use the configured default".
func LookupServiceType(code ServiceTypeCode) ServiceType {
	st, ok := serviceTypes[code]
	if !ok {
		st = serviceTypes[ServiceIncall]
	}
	st.ReminderOffsets = append([]time.Duration(nil), st.ReminderOffsets...)
	return st
}

// ServiceTypeCodes lists every registered code.
func ServiceTypeCodes() []ServiceTypeCode {
	return []ServiceTypeCode{ServiceIncall, ServiceOutcall, ServiceOnline, ServicePackage}
}

// WithDefaults fills every unset rule from d.
func (st ServiceType) WithDefaults(d ServiceType) ServiceType {
	if st.AutoCancelHours <= 0 {
		st.AutoCancelHours = d.AutoCancelHours
	}
	if len(st.ReminderOffsets) == 0 {
		st.ReminderOffsets = append([]time.Duration(nil), d.ReminderOffsets...)
	}
	if st.MinCancelLeadTime <= 0 {
		st.MinCancelLeadTime = d.MinCancelLeadTime
	}
	return st
}

// AutoCancelThreshold is the pending age after which confirmation is refused.
func (st ServiceType) AutoCancelThreshold() time.Duration {
	return time.Duration(st.AutoCancelHours) * time.Hour
}

func (c ServiceTypeCode) IsValid() bool {
	_, ok := serviceTypes[c]
	return ok
}
