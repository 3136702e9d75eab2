package models

import "fmt"

// RefKind names the entity a Ref points at.
type RefKind string

const (
	RefUser     RefKind = "user"
	RefProvider RefKind = "provider"
	RefBooking  RefKind = "booking"
)

// Ref is a typed reference to another entity.
type Ref struct {
	Kind RefKind `bson:"kind" json:"kind"`
	ID   string  `bson:"id" json:"id"`
}

func UserRef(id string) Ref     { return Ref{Kind: RefUser, ID: id} }
func ProviderRef(id string) Ref { return Ref{Kind: RefProvider, ID: id} }
func BookingRef(id string) Ref  { return Ref{Kind: RefBooking, ID: id} }

func (r Ref) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool {
	return r.Kind == "" || r.ID == ""
}
