// Package memory is an in-process store with the same transaction and
// compare-and-set guarantees as the Mongo repositories. It backs tests and the
// "memory" store driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookingcore/database/repository"
	"bookingcore/models"
)

type Store struct {
	mu        sync.RWMutex
	bookings  map[string]*models.Booking
	numbers   map[string]string
	providers map[string]*models.Provider
	clients   map[string]*models.Client
	slots     map[string][]models.ScheduleSlot

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		bookings:  make(map[string]*models.Booking),
		numbers:   make(map[string]string),
		providers: make(map[string]*models.Provider),
		clients:   make(map[string]*models.Client),
		slots:     make(map[string][]models.ScheduleSlot),
		locks:     make(map[string]*sync.Mutex),
	}
}

// tx stages writes until commit so readers never observe a partial transition.
type tx struct {
	providerID   string
	bookings     map[string]*models.Booking
	clearedSlots map[string]bool
	newSlots     []models.ScheduleSlot
}

type txKey struct{}

func txFrom(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// WithinTransaction runs fn while holding providerID's lock. Writes made
// through the ctx passed to fn become visible only if fn returns nil. A call
// nested in an open transaction joins it.
func (s *Store) WithinTransaction(ctx context.Context, providerID string, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.providerLock(providerID)
	lock.Lock()
	defer lock.Unlock()

	t := &tx{
		providerID:   providerID,
		bookings:     make(map[string]*models.Booking),
		clearedSlots: make(map[string]bool),
	}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	s.commit(t)
	return nil
}

func (s *Store) providerLock(providerID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[providerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[providerID] = l
	}
	return l
}

func (s *Store) commit(t *tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range t.bookings {
		s.bookings[b.ID] = b
		s.numbers[b.BookingNumber] = b.ID
	}
	for bookingID := range t.clearedSlots {
		delete(s.slots, bookingID)
	}
	for _, slot := range t.newSlots {
		s.slots[slot.BookingID] = append(s.slots[slot.BookingID], slot)
	}
}

// view reads through staged writes of an open transaction.
type view struct {
	s *Store
	t *tx
}

func (v view) get(id string) (*models.Booking, bool) {
	if v.t != nil {
		if b, ok := v.t.bookings[id]; ok {
			return b, true
		}
	}
	b, ok := v.s.bookings[id]
	return b, ok
}

func (v view) put(b *models.Booking) {
	if v.t != nil {
		v.t.bookings[b.ID] = b
		return
	}
	v.s.bookings[b.ID] = b
	v.s.numbers[b.BookingNumber] = b.ID
}

func (v view) byNumber(number string) (*models.Booking, bool) {
	if v.t != nil {
		for _, b := range v.t.bookings {
			if b.BookingNumber == number {
				return b, true
			}
		}
	}
	id, ok := v.s.numbers[number]
	if !ok {
		return nil, false
	}
	return v.get(id)
}

func (v view) providerBookings(providerID string) []models.Booking {
	var out []models.Booking
	seen := make(map[string]bool)
	if v.t != nil {
		for _, b := range v.t.bookings {
			if b.ProviderID == providerID {
				out = append(out, *b)
				seen[b.ID] = true
			}
		}
	}
	for _, b := range v.s.bookings {
		if b.ProviderID == providerID && !seen[b.ID] {
			out = append(out, *b)
		}
	}
	return out
}

// write runs fn with exclusive access when outside a transaction. Inside one,
// the provider lock already serializes writers and fn stages into the tx.
func (s *Store) write(ctx context.Context, fn func(v view) error) error {
	if t := txFrom(ctx); t != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return fn(view{s: s, t: t})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(view{s: s})
}

func (s *Store) read(ctx context.Context, fn func(v view) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(view{s: s, t: txFrom(ctx)})
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var out *models.Booking
	err := s.read(ctx, func(v view) error {
		b, ok := v.get(id)
		if !ok || b.IsDeleted() {
			return repository.ErrNotFound
		}
		out = b.Clone()
		return nil
	})
	return out, err
}

func (s *Store) FindByNumber(ctx context.Context, number string) (*models.Booking, error) {
	var out *models.Booking
	err := s.read(ctx, func(v view) error {
		b, ok := v.byNumber(number)
		if !ok || b.IsDeleted() {
			return repository.ErrNotFound
		}
		out = b.Clone()
		return nil
	})
	return out, err
}

func (s *Store) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	stored := b.Clone()
	err := s.write(ctx, func(v view) error {
		if _, ok := v.get(stored.ID); ok {
			return repository.ErrDuplicate
		}
		if _, ok := v.byNumber(stored.BookingNumber); ok {
			return repository.ErrDuplicate
		}
		v.put(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (s *Store) AttachServices(ctx context.Context, bookingID string, serviceIDs []string) error {
	return s.write(ctx, func(v view) error {
		b, ok := v.get(bookingID)
		if !ok || b.IsDeleted() {
			return repository.ErrNotFound
		}
		updated := b.Clone()
		updated.ServiceIDs = append(updated.ServiceIDs, serviceIDs...)
		v.put(updated)
		return nil
	})
}

func (s *Store) HasTimeConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error) {
	var conflict bool
	err := s.read(ctx, func(v view) error {
		conflict = len(models.ConflictingBookings(v.providerBookings(providerID), providerID, start, end, excludeID)) > 0
		return nil
	})
	return conflict, err
}

func (s *Store) UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, u models.StatusUpdate) (*models.Booking, error) {
	var out *models.Booking
	err := s.write(ctx, func(v view) error {
		b, ok := v.get(id)
		if !ok || b.IsDeleted() {
			return repository.ErrNotFound
		}
		if b.Status != expected {
			return repository.ErrStatusChanged
		}
		updated := b.Clone()
		updated.Apply(u)
		v.put(updated)
		out = updated.Clone()
		return nil
	})
	return out, err
}

func (s *Store) AppendAuditEntry(ctx context.Context, entry models.AuditEntry) error {
	return s.write(ctx, func(v view) error {
		b, ok := v.get(entry.BookingID)
		if !ok {
			return repository.ErrNotFound
		}
		updated := b.Clone()
		updated.AuditLog = append(updated.AuditLog, entry)
		v.put(updated)
		return nil
	})
}

func (s *Store) ListPendingCreatedBefore(ctx context.Context, before time.Time, limit int) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.Status == models.StatusPending && !b.IsDeleted() && b.CreatedAt.Before(before) {
			out = append(out, *b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SoftDelete tombstones a booking. It stays stored but disappears from every query.
func (s *Store) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return s.write(ctx, func(v view) error {
		b, ok := v.get(id)
		if !ok {
			return repository.ErrNotFound
		}
		updated := b.Clone()
		updated.DeletedAt = &at
		v.put(updated)
		return nil
	})
}

// PutBooking stores b as is, bypassing every check. Used for seeding.
func (s *Store) PutBooking(b *models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := b.Clone()
	s.bookings[c.ID] = c
	s.numbers[c.BookingNumber] = c.ID
}

// Bookings returns a snapshot of every committed booking, tombstones included.
func (s *Store) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, *b.Clone())
	}
	return out
}
