package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookingcore/database/repository"
	"bookingcore/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBookingOrchestrator creates pending bookings. The conflict check, the
// insert, the service line items and the "created" audit entry share one
// provider transaction. For providers with auto-confirm enabled the
// confirmation joins that transaction too.
type CreateBookingOrchestrator struct {
	store     BookingStore
	providers ProviderDirectory
	conflicts *ConflictDetector
	numbers   *NumberGenerator
	validator *ConfirmationValidator
	processor *ConfirmationProcessor
	policy    Policy
	clock     Clock
	logger    *zap.Logger
}

// AutoConfirmOptions are applied when a provider confirms automatically.
var AutoConfirmOptions = models.ConfirmationOptions{
	Method:        models.ConfirmationAutomatic,
	AutoConfirmed: true,
	CreateSlots:   true,
}

func NewCreateBookingOrchestrator(
	store BookingStore,
	providers ProviderDirectory,
	conflicts *ConflictDetector,
	numbers *NumberGenerator,
	validator *ConfirmationValidator,
	processor *ConfirmationProcessor,
	policy Policy,
	clock Clock,
	logger *zap.Logger,
) *CreateBookingOrchestrator {
	return &CreateBookingOrchestrator{
		store:     store,
		providers: providers,
		conflicts: conflicts,
		numbers:   numbers,
		validator: validator,
		processor: processor,
		policy:    policy,
		clock:     clock,
		logger:    logger,
	}
}

// Create validates req, resolves the provider and persists a pending booking.
// The returned flag reports whether the booking was confirmed automatically.
func (o *CreateBookingOrchestrator) Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, bool, error) {
	now := o.clock()
	if err := ValidateCreateRequest(req, now); err != nil {
		return nil, false, err
	}

	provider, err := o.resolveProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, false, err
	}
	if err := ValidateProviderRules(req, provider); err != nil {
		return nil, false, err
	}

	var created *models.Booking
	err = o.store.WithinTransaction(ctx, provider.ID, func(txCtx context.Context) error {
		conflict, err := o.conflicts.HasConflict(txCtx, provider.ID, req.StartTime, req.EndTime, "")
		if err != nil {
			return err
		}
		if conflict {
			return newError(ErrScheduleConflict, "provider %s already has a booking overlapping %s",
				provider.ID, req.StartTime.Format("2006-01-02 15:04"))
		}

		number, err := o.numbers.Next(txCtx)
		if err != nil {
			return err
		}

		b := newPendingBooking(req, provider, number, now)
		stored, err := o.store.Create(txCtx, b)
		if err != nil {
			return persistenceError("booking insert failed", err)
		}

		if len(req.ServiceIDs) > 0 {
			if err := o.store.AttachServices(txCtx, stored.ID, req.ServiceIDs); err != nil {
				return persistenceError("attaching services failed", err)
			}
			stored.ServiceIDs = append([]string(nil), req.ServiceIDs...)
		}

		entry := models.AuditEntry{
			ID:        uuid.New().String(),
			BookingID: stored.ID,
			Action:    models.ActionCreated,
			ToStatus:  models.StatusPending,
			Reason:    "booking requested",
			ActorID:   req.ClientID,
			Timestamp: now,
		}
		if err := o.store.AppendAuditEntry(txCtx, entry); err != nil {
			return persistenceError("audit append failed", err)
		}
		stored.AuditLog = append(stored.AuditLog, entry)

		if provider.AutoConfirm {
			if err := o.validator.Validate(stored, provider.ID); err != nil {
				return err
			}
			confirmed, err := o.processor.Confirm(txCtx, stored, provider.ID, AutoConfirmOptions)
			if err != nil {
				return err
			}
			stored = confirmed
		}

		created = stored
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return created, created.Status == models.StatusConfirmed, nil
}

func (o *CreateBookingOrchestrator) resolveProvider(ctx context.Context, id string) (*models.Provider, error) {
	provider, err := o.providers.GetProvider(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && (provider == nil || provider.DeletedAt != nil)) {
		return nil, newError(ErrProviderNotFound, "provider %s not found", id)
	}
	if err != nil {
		return nil, persistenceError("provider lookup failed", err)
	}
	if !provider.CanAcceptBookings() {
		return nil, newError(ErrProviderInactive, "provider %s is %s", id, provider.Status)
	}
	return provider, nil
}

// ValidateCreateRequest checks the request fields that do not need the store.
func ValidateCreateRequest(req models.CreateBookingRequest, now time.Time) error {
	if req.ClientID == "" || req.ProviderID == "" {
		return newError(ErrInvalidRequest, "client and provider are required")
	}
	if req.ClientID == req.ProviderID {
		return newError(ErrInvalidRequest, "client and provider must differ")
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.StartTime.Before(req.EndTime) {
		return newError(ErrInvalidBookingWindow, "start time must be before end time")
	}
	if !req.StartTime.After(now) {
		return newError(ErrInvalidBookingWindow, "start time must be in the future")
	}
	if req.DurationMinutes != 0 && req.DurationMinutes != windowMinutes(req.StartTime, req.EndTime) {
		return newError(ErrInvalidBookingWindow, "duration %d does not match the requested window", req.DurationMinutes)
	}
	if req.Price < 0 || (req.DepositAmount != nil && *req.DepositAmount < 0) {
		return newError(ErrInvalidRequest, "amounts must not be negative")
	}
	if req.ServiceType != "" && !req.ServiceType.IsValid() {
		return newError(ErrInvalidRequest, "unknown service type %s", req.ServiceType)
	}
	return validateServiceTypeRules(req, now)
}

func validateServiceTypeRules(req models.CreateBookingRequest, now time.Time) error {
	rules := models.LookupServiceType(req.ServiceType)
	if rules.MinAdvance > 0 && req.StartTime.Sub(now) < rules.MinAdvance {
		return newError(ErrInvalidRequest, "%s bookings must be made at least %s in advance", rules.Name, rules.MinAdvance)
	}
	if rules.MaxDuration > 0 && req.EndTime.Sub(req.StartTime) > rules.MaxDuration {
		return newError(ErrInvalidRequest, "%s bookings cannot exceed %s", rules.Name, rules.MaxDuration)
	}
	if rules.RequiresClientAddress && strings.TrimSpace(req.ClientAddress) == "" {
		return newError(ErrInvalidRequest, "%s bookings require a client address", rules.Name)
	}
	if rules.RequiresClientPhone && strings.TrimSpace(req.ClientPhone) == "" {
		return newError(ErrInvalidRequest, "%s bookings require a client phone number", rules.Name)
	}
	if rules.RequiresServiceList && len(req.ServiceIDs) == 0 {
		return newError(ErrInvalidRequest, "%s bookings must list at least one service", rules.Name)
	}
	return nil
}

// ValidateProviderRules checks the creation rules that depend on the resolved
// provider: the in-call address requirement and the weekly working schedule.
func ValidateProviderRules(req models.CreateBookingRequest, provider *models.Provider) error {
	rules := models.LookupServiceType(req.ServiceType)
	if rules.RequiresProviderAddress && strings.TrimSpace(provider.Address) == "" {
		return newError(ErrInvalidRequest, "provider %s has no address for %s bookings", provider.ID, rules.Name)
	}
	if len(provider.Schedule) == 0 {
		return nil
	}

	day, ok := provider.WorkingDayFor(req.StartTime.Weekday())
	if !ok {
		return newError(ErrInvalidRequest, "provider %s does not work on %s", provider.ID, req.StartTime.Weekday())
	}
	open, err := models.On(req.StartTime, day.Start)
	if err != nil {
		return newError(ErrInvalidRequest, "provider %s has an invalid schedule: %v", provider.ID, err)
	}
	closing, err := models.On(req.StartTime, day.End)
	if err != nil {
		return newError(ErrInvalidRequest, "provider %s has an invalid schedule: %v", provider.ID, err)
	}
	if req.StartTime.Before(open) || req.EndTime.After(closing) {
		return newError(ErrInvalidRequest, "booking falls outside working hours %s-%s", day.Start, day.End)
	}
	if day.HasBreak() {
		breakStart, err := models.On(req.StartTime, day.BreakStart)
		if err != nil {
			return newError(ErrInvalidRequest, "provider %s has an invalid schedule: %v", provider.ID, err)
		}
		breakEnd, err := models.On(req.StartTime, day.BreakEnd)
		if err != nil {
			return newError(ErrInvalidRequest, "provider %s has an invalid schedule: %v", provider.ID, err)
		}
		if models.Overlaps(req.StartTime, req.EndTime, breakStart, breakEnd) {
			return newError(ErrInvalidRequest, "booking overlaps the break %s-%s", day.BreakStart, day.BreakEnd)
		}
	}
	return nil
}

func newPendingBooking(req models.CreateBookingRequest, provider *models.Provider, number string, now time.Time) *models.Booking {
	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = models.ServiceIncall
	}
	var deposit *float64
	if req.DepositAmount != nil {
		d := *req.DepositAmount
		deposit = &d
	}
	// the provider's own address only matters when the client travels to it
	var providerAddress string
	if models.LookupServiceType(serviceType).RequiresProviderAddress {
		providerAddress = provider.Address
	}
	return &models.Booking{
		ID:              uuid.New().String(),
		BookingNumber:   number,
		ClientID:        req.ClientID,
		ProviderID:      provider.ID,
		ServiceType:     serviceType,
		ServiceName:     req.ServiceName,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: windowMinutes(req.StartTime, req.EndTime),
		Status:          models.StatusPending,
		Price:           req.Price,
		DepositAmount:   deposit,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
		ClientAddress:   req.ClientAddress,
		ProviderPhone:   provider.PhoneNumber,
		ProviderAddress: providerAddress,
		Metadata:        req.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func windowMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
