package memory

import (
	"context"
	"time"

	"bookingcore/database/repository"
	"bookingcore/models"
)

func (s *Store) PutProvider(p *models.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.providers[p.ID] = &c
}

func (s *Store) GetProvider(_ context.Context, id string) (*models.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.providers[id]
	if !ok || p.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

// CreateProvider registers a new provider. Ids are unique.
func (s *Store) CreateProvider(_ context.Context, p *models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[p.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	c := *p
	s.providers[p.ID] = &c
	return nil
}

func (s *Store) SetBookingPreferences(_ context.Context, providerID string, accepting, autoConfirm bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[providerID]
	if !ok || p.DeletedAt != nil {
		return repository.ErrNotFound
	}
	p.AcceptingBookings = accepting
	p.AutoConfirm = autoConfirm
	p.UpdatedAt = time.Now()
	return nil
}

// IncrementConfirmed bumps the provider's running counters. It ignores any
// open transaction and is applied immediately.
func (s *Store) IncrementConfirmed(_ context.Context, providerID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.providers[providerID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Stats.ConfirmedBookings++
	t := at
	p.Stats.LastConfirmedAt = &t
	return nil
}

func (s *Store) PutClient(c *models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.clients[c.ID] = &cp
}

func (s *Store) GetClient(_ context.Context, id string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}
