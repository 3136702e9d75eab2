package booking

import (
	"context"
	"time"

	"bookingcore/metrics"
	"bookingcore/models"

	"go.uber.org/zap"
)

// Deps are the collaborators of Service. Deposits and Events are optional.
// Providers may be a cache; LiveProviders, when set, must read the store
// directly and is what booking creation checks the provider against.
type Deps struct {
	Bookings      BookingStore
	Providers     ProviderDirectory
	LiveProviders ProviderDirectory
	Registry      ProviderRegistry
	Clients       ClientDirectory
	Stats         ProviderStats
	Slots         SlotStore
	Notifier      Notifier
	Deposits      DepositLinker
	Events        EventPublisher
	Clock         Clock
}

// Service is the entry point of the booking lifecycle.
type Service struct {
	store    BookingStore
	slots    SlotStore
	stats    ProviderStats
	registry ProviderRegistry
	events   EventPublisher
	policy   Policy
	clock    Clock
	logger   *zap.Logger

	conflicts *ConflictDetector
	validator *ConfirmationValidator
	processor *ConfirmationProcessor
	notifier  *ConfirmationNotifier
	creator   *CreateBookingOrchestrator
}

func NewService(deps Deps, policy Policy, logger *zap.Logger) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	events := deps.Events
	if events == nil {
		events = nopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	live := deps.LiveProviders
	if live == nil {
		live = deps.Providers
	}
	registry := deps.Registry
	if registry == nil {
		registry, _ = deps.Providers.(ProviderRegistry)
	}

	conflicts := NewConflictDetector(deps.Bookings, logger)
	resolver := NewResolver(deps.Providers, deps.Clients, deps.Bookings)
	numbers := NewNumberGenerator(deps.Bookings, clock, policy.numberAttempts())
	validator := NewConfirmationValidator(policy, clock, conflicts, logger)
	processor := NewConfirmationProcessor(deps.Bookings, deps.Slots, policy, clock, logger)

	return &Service{
		store:     deps.Bookings,
		slots:     deps.Slots,
		stats:     deps.Stats,
		registry:  registry,
		events:    events,
		policy:    policy,
		clock:     clock,
		logger:    logger,
		conflicts: conflicts,
		validator: validator,
		processor: processor,
		notifier:  NewConfirmationNotifier(deps.Notifier, deps.Deposits, resolver, policy, clock, logger),
		creator:   NewCreateBookingOrchestrator(deps.Bookings, live, conflicts, numbers, validator, processor, policy, clock, logger),
	}
}

// Create persists a pending booking. Providers with auto-confirm enabled get
// the booking confirmed in the same transaction.
func (s *Service) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	start := s.clock()
	s.logger.Info("Creating booking",
		zap.String("client_id", req.ClientID),
		zap.String("provider_id", req.ProviderID),
		zap.Time("start", req.StartTime),
		zap.Time("end", req.EndTime))

	created, autoConfirmed, err := s.creator.Create(ctx, req)
	s.record(models.ActionCreated, start, err)
	if err != nil {
		s.logFailure("Booking creation rejected", err, zap.String("provider_id", req.ProviderID))
		return nil, err
	}
	s.publish(ctx, EventBookingCreated, created)

	if autoConfirmed {
		s.logger.Info("Booking confirmed automatically", zap.String("booking_id", created.ID))
		s.record(models.ActionConfirmed, start, nil)
		s.recordProviderStats(ctx, created)
		s.notifier.AfterConfirmation(ctx, created, AutoConfirmOptions)
		s.publish(ctx, EventBookingConfirmed, created)
	}
	return created, nil
}

// Confirm validates and performs the confirmation of bookingID by requesterID.
// Side effects run after commit and never fail the call.
func (s *Service) Confirm(ctx context.Context, bookingID, requesterID string, opts models.ConfirmationOptions) (*models.Booking, error) {
	start := s.clock()
	s.logger.Info("Confirming booking",
		zap.String("booking_id", bookingID),
		zap.String("requester_id", requesterID))

	confirmed, err := s.runTransition(ctx, bookingID, func(txCtx context.Context, b *models.Booking) (*models.Booking, error) {
		if err := s.validator.Validate(b, requesterID); err != nil {
			return nil, err
		}
		if err := s.validator.CheckScheduleConflict(txCtx, b, b.ProviderID); err != nil {
			return nil, err
		}
		return s.processor.Confirm(txCtx, b, requesterID, opts)
	})
	s.record(models.ActionConfirmed, start, err)
	if err != nil {
		s.logFailure("Booking confirmation rejected", err, zap.String("booking_id", bookingID))
		return nil, err
	}

	s.recordProviderStats(ctx, confirmed)
	s.notifier.AfterConfirmation(ctx, confirmed, opts)
	s.publish(ctx, EventBookingConfirmed, confirmed)
	return confirmed, nil
}

// recordProviderStats bumps the provider counters after commit. Failures are logged only.
func (s *Service) recordProviderStats(ctx context.Context, b *models.Booking) {
	if s.stats == nil {
		return
	}
	at := s.clock()
	if b.ConfirmedAt != nil {
		at = *b.ConfirmedAt
	}
	if err := s.stats.IncrementConfirmed(ctx, b.ProviderID, at); err != nil {
		s.logger.Warn("Failed to update provider statistics",
			zap.String("provider_id", b.ProviderID),
			zap.String("booking_id", b.ID),
			zap.Error(err))
		metrics.RecordSideEffectFailure("provider_stats")
	}
}

// Get returns a booking that has not been tombstoned.
func (s *Service) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.load(ctx, bookingID)
}

// IsAvailable reports whether [start, end) is free of confirmed or
// in-progress bookings for providerID.
func (s *Service) IsAvailable(ctx context.Context, providerID string, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, newError(ErrInvalidBookingWindow, "start time must be before end time")
	}
	conflict, err := s.conflicts.HasConflict(ctx, providerID, start, end, "")
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// History returns the audit trail of a booking in append order.
func (s *Service) History(ctx context.Context, bookingID string) ([]models.AuditEntry, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return b.AuditLog, nil
}

func (s *Service) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.store.FindByID(ctx, bookingID)
	if err != nil {
		return nil, translateStoreError("booking lookup failed", err)
	}
	if b == nil || b.IsDeleted() {
		return nil, newError(ErrBookingNotFound, "booking %s not found", bookingID)
	}
	return b, nil
}

func (s *Service) record(action string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = CodeOf(err)
	}
	metrics.RecordTransition(action, outcome, s.clock().Sub(start))
}

// logFailure logs typed rejections at warn and store failures at error.
func (s *Service) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("code", CodeOf(err)), zap.Error(err))
	if CodeOf(err) == CodePersistenceFailure {
		s.logger.Error(msg, fields...)
		return
	}
	s.logger.Warn(msg, fields...)
}
