package booking

import (
	"context"

	"bookingcore/metrics"
	"bookingcore/models"

	"go.uber.org/zap"
)

// ConfirmationNotifier runs the post-commit side effects of the booking
// lifecycle. Every failure is logged and counted, never returned.
type ConfirmationNotifier struct {
	notifier Notifier
	deposits DepositLinker
	resolver Resolver
	policy   Policy
	clock    Clock
	logger   *zap.Logger
}

func NewConfirmationNotifier(notifier Notifier, deposits DepositLinker, resolver Resolver, policy Policy, clock Clock, logger *zap.Logger) *ConfirmationNotifier {
	return &ConfirmationNotifier{
		notifier: notifier,
		deposits: deposits,
		resolver: resolver,
		policy:   policy,
		clock:    clock,
		logger:   logger,
	}
}

// AfterConfirmation schedules reminders and sends the confirmation messages.
func (n *ConfirmationNotifier) AfterConfirmation(ctx context.Context, b *models.Booking, opts models.ConfirmationOptions) {
	n.ScheduleReminders(ctx, b)
	n.DispatchConfirmation(ctx, b, opts)
}

// ScheduleReminders queues one reminder per offset, party and channel at
// start - offset. Offsets already in the past are skipped. It returns the
// number of reminders accepted by the notifier.
func (n *ConfirmationNotifier) ScheduleReminders(ctx context.Context, b *models.Booking) int {
	now := n.clock()
	rules := n.policy.RulesFor(b.ServiceType)
	clientName, providerName := n.partyNames(ctx, b)

	scheduled := 0
	for _, offset := range rules.ReminderOffsets {
		at := b.StartTime.Add(-offset)
		if !at.After(now) {
			n.logger.Debug("Skipping reminder in the past",
				zap.String("booking_id", b.ID),
				zap.Duration("offset", offset))
			continue
		}
		for _, payload := range []models.NotificationPayload{
			BuildPayload(b, b.ClientID, providerName),
			BuildPayload(b, b.ProviderID, clientName),
		} {
			for _, channel := range n.policy.channels() {
				if err := n.notifier.ScheduleReminder(ctx, b.ID, channel, at, payload); err != nil {
					n.logger.Error("Failed to schedule reminder",
						zap.String("booking_id", b.ID),
						zap.String("recipient_id", payload.RecipientID),
						zap.String("channel", channel),
						zap.Time("at", at),
						zap.Error(err))
					metrics.RecordSideEffectFailure("reminder")
					continue
				}
				scheduled++
			}
		}
	}
	return scheduled
}

// DispatchConfirmation notifies both parties and, when the service type takes
// prepayment and a deposit is set, sends the client a payment link.
func (n *ConfirmationNotifier) DispatchConfirmation(ctx context.Context, b *models.Booking, opts models.ConfirmationOptions) {
	channels := n.channelsFor(opts)
	clientName, providerName := n.partyNames(ctx, b)

	n.dispatch(ctx, b.ClientID, models.TemplateBookingConfirmed, BuildPayload(b, b.ClientID, providerName), channels)
	n.dispatch(ctx, b.ProviderID, models.TemplateBookingConfirmedProv, BuildPayload(b, b.ProviderID, clientName), channels)

	rules := n.policy.RulesFor(b.ServiceType)
	if !rules.SupportsPrepay || b.Deposit() <= 0 {
		return
	}
	if n.deposits == nil {
		n.logger.Warn("No deposit linker configured, skipping payment link", zap.String("booking_id", b.ID))
		return
	}
	url, err := n.deposits.CreateDepositLink(ctx, b, b.Deposit())
	if err != nil {
		n.logger.Error("Failed to create deposit link",
			zap.String("booking_id", b.ID),
			zap.Float64("amount", b.Deposit()),
			zap.Error(err))
		metrics.RecordSideEffectFailure("deposit_link")
		return
	}
	payload := BuildPayload(b, b.ClientID, providerName)
	payload.PaymentURL = url
	payload.Amount = b.Deposit()
	n.dispatch(ctx, b.ClientID, models.TemplatePaymentLink, payload, channels)
}

// NotifyCancellation tells the party that did not cancel.
func (n *ConfirmationNotifier) NotifyCancellation(ctx context.Context, b *models.Booking, actorID string) {
	clientName, providerName := n.partyNames(ctx, b)

	recipient, counterparty := b.ClientID, providerName
	if actorID == b.ClientID {
		recipient, counterparty = b.ProviderID, clientName
	}
	payload := BuildPayload(b, recipient, counterparty)
	payload.Reason = b.CancellationReason
	n.dispatch(ctx, recipient, models.TemplateBookingCancelled, payload, n.policy.channels())
}

func (n *ConfirmationNotifier) dispatch(ctx context.Context, userID, template string, payload models.NotificationPayload, channels []string) {
	if err := n.notifier.Dispatch(ctx, userID, template, payload, channels); err != nil {
		n.logger.Error("Failed to dispatch notification",
			zap.String("booking_id", payload.BookingID),
			zap.String("user_id", userID),
			zap.String("template", template),
			zap.Error(err))
		metrics.RecordSideEffectFailure("dispatch")
	}
}

func (n *ConfirmationNotifier) channelsFor(opts models.ConfirmationOptions) []string {
	channels := append([]string(nil), n.policy.channels()...)
	if opts.SendSMS && !contains(channels, models.ChannelSMS) {
		channels = append(channels, models.ChannelSMS)
	}
	if opts.SendEmail && !contains(channels, models.ChannelEmail) {
		channels = append(channels, models.ChannelEmail)
	}
	return channels
}

// partyNames resolves display names, falling back to empty strings.
func (n *ConfirmationNotifier) partyNames(ctx context.Context, b *models.Booking) (client, provider string) {
	client = n.displayName(ctx, models.UserRef(b.ClientID))
	provider = n.displayName(ctx, models.ProviderRef(b.ProviderID))
	return client, provider
}

func (n *ConfirmationNotifier) displayName(ctx context.Context, ref models.Ref) string {
	name, err := n.resolver.DisplayName(ctx, ref)
	if err != nil {
		n.logger.Debug("Could not resolve display name", zap.String("ref", ref.String()), zap.Error(err))
		return ""
	}
	return name
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
