package memory

import (
	"context"
	"sort"

	"bookingcore/models"
)

func (s *Store) DeleteByBooking(ctx context.Context, bookingID string) error {
	return s.write(ctx, func(v view) error {
		if v.t == nil {
			delete(s.slots, bookingID)
			return nil
		}
		v.t.clearedSlots[bookingID] = true
		kept := v.t.newSlots[:0]
		for _, slot := range v.t.newSlots {
			if slot.BookingID != bookingID {
				kept = append(kept, slot)
			}
		}
		v.t.newSlots = kept
		return nil
	})
}

func (s *Store) CreateMany(ctx context.Context, slots []models.ScheduleSlot) error {
	return s.write(ctx, func(v view) error {
		if v.t != nil {
			v.t.newSlots = append(v.t.newSlots, slots...)
			return nil
		}
		for _, slot := range slots {
			s.slots[slot.BookingID] = append(s.slots[slot.BookingID], slot)
		}
		return nil
	})
}

// SlotsForBooking returns the committed slots of a booking.
func (s *Store) SlotsForBooking(bookingID string) []models.ScheduleSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ScheduleSlot(nil), s.slots[bookingID]...)
}

func (s *Store) GetByBooking(ctx context.Context, bookingID string) ([]models.ScheduleSlot, error) {
	return s.findSlots(ctx, func(slot models.ScheduleSlot) bool { return slot.BookingID == bookingID }), nil
}

func (s *Store) GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.ScheduleSlot, error) {
	return s.findSlots(ctx, func(slot models.ScheduleSlot) bool {
		return slot.ProviderID == providerID && slot.Date == date
	}), nil
}

// findSlots reads committed slots overlaid with the writes staged in ctx's
// transaction, sorted by start.
func (s *Store) findSlots(ctx context.Context, match func(models.ScheduleSlot) bool) []models.ScheduleSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := txFrom(ctx)
	var out []models.ScheduleSlot
	for bookingID, slots := range s.slots {
		if t != nil && t.clearedSlots[bookingID] {
			continue
		}
		for _, slot := range slots {
			if match(slot) {
				out = append(out, slot)
			}
		}
	}
	if t != nil {
		for _, slot := range t.newSlots {
			if match(slot) {
				out = append(out, slot)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
