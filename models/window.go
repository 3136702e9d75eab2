package models

import "time"

// Overlaps reports whether the half-open windows [aStart, aEnd) and [bStart, bEnd)
// share any instant. Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Contains reports whether t falls inside [start, end).
func Contains(start, end, t time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// ConflictingBookings filters candidates down to the schedule-blocking bookings
// of providerID that overlap [start, end). Bookings with id excludeID and
// tombstoned bookings are skipped.
func ConflictingBookings(candidates []Booking, providerID string, start, end time.Time, excludeID string) []Booking {
	var out []Booking
	for _, b := range candidates {
		if b.ProviderID != providerID || b.IsDeleted() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.Status.BlocksSchedule() {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			out = append(out, b)
		}
	}
	return out
}
