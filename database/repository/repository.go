package repository

import "errors"

// Errors shared by every store implementation. Callers match them with errors.Is.
var (
	ErrNotFound = errors.New("record not found")

	// ErrStatusChanged is returned by a compare-and-set status write whose
	// expected status no longer matches the stored record.
	ErrStatusChanged = errors.New("status changed concurrently")

	ErrDuplicate = errors.New("duplicate record")

	// ErrConflict is returned when a provider-scoped transaction lost a write
	// conflict and could not be retried.
	ErrConflict = errors.New("write conflict")
)
