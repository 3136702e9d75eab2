package booking

import (
	"context"
	"errors"
	"strings"

	"bookingcore/database/repository"
	"bookingcore/models"

	"go.uber.org/zap"
)

var errNoRegistry = errors.New("no provider registry configured")

// RegisterProvider creates a provider record. A user may register itself;
// admins may register anyone. New providers start active with the requested
// booking switches.
func (s *Service) RegisterProvider(ctx context.Context, actorID string, p models.Provider) (*models.Provider, error) {
	if actorID == "" || (actorID != p.ID && !s.policy.IsAdmin(actorID)) {
		return nil, newError(ErrPermissionDenied, "user %s cannot register provider %s", actorID, p.ID)
	}
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return nil, newError(ErrInvalidRequest, "provider id and name are required")
	}
	if err := validateSchedule(p.Schedule); err != nil {
		return nil, err
	}

	if s.registry == nil {
		return nil, persistenceError("provider insert failed", errNoRegistry)
	}

	p.Status = models.ProviderActive
	p.Stats = models.ProviderStats{}
	p.DeletedAt = nil
	if err := s.registry.CreateProvider(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrProviderExists, "provider %s already exists", p.ID)
		}
		return nil, persistenceError("provider insert failed", err)
	}
	s.logger.Info("Provider registered", zap.String("provider_id", p.ID), zap.String("actor_id", actorID))
	return &p, nil
}

// SetProviderPreferences switches whether providerID accepts new bookings and
// whether they are confirmed automatically.
func (s *Service) SetProviderPreferences(ctx context.Context, actorID, providerID string, accepting, autoConfirm bool) error {
	if actorID == "" || (actorID != providerID && !s.policy.IsAdmin(actorID)) {
		return newError(ErrPermissionDenied, "user %s cannot update provider %s", actorID, providerID)
	}
	if s.registry == nil {
		return persistenceError("provider update failed", errNoRegistry)
	}
	err := s.registry.SetBookingPreferences(ctx, providerID, accepting, autoConfirm)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrProviderNotFound, "provider %s not found", providerID)
	}
	if err != nil {
		return persistenceError("provider update failed", err)
	}
	s.logger.Info("Provider booking preferences updated",
		zap.String("provider_id", providerID),
		zap.Bool("accepting", accepting),
		zap.Bool("auto_confirm", autoConfirm))
	return nil
}

func validateSchedule(days []models.WorkingDay) error {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 || seen[int(d.Weekday)] {
			return newError(ErrInvalidRequest, "schedule lists weekday %d more than once or out of range", d.Weekday)
		}
		seen[int(d.Weekday)] = true

		start, err := models.ClockMinutes(d.Start)
		if err != nil {
			return newError(ErrInvalidRequest, "schedule: %v", err)
		}
		end, err := models.ClockMinutes(d.End)
		if err != nil {
			return newError(ErrInvalidRequest, "schedule: %v", err)
		}
		if start >= end {
			return newError(ErrInvalidRequest, "schedule: %s opens at %s after closing at %s", d.Weekday, d.Start, d.End)
		}
		if d.BreakStart == "" && d.BreakEnd == "" {
			continue
		}
		bs, err := models.ClockMinutes(d.BreakStart)
		if err != nil {
			return newError(ErrInvalidRequest, "schedule: %v", err)
		}
		be, err := models.ClockMinutes(d.BreakEnd)
		if err != nil {
			return newError(ErrInvalidRequest, "schedule: %v", err)
		}
		if bs >= be || bs < start || be > end {
			return newError(ErrInvalidRequest, "schedule: break %s-%s must sit inside %s-%s", d.BreakStart, d.BreakEnd, d.Start, d.End)
		}
	}
	return nil
}
