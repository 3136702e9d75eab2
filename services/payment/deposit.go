package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"bookingcore/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"
)

// StripeDepositLinker creates Stripe Checkout sessions for booking deposits.
type StripeDepositLinker struct {
	successURL string
	cancelURL  string
	currency   string
	newSession func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	logger     *zap.Logger
}

func NewStripeDepositLinker(successURL, cancelURL, currency string, logger *zap.Logger) *StripeDepositLinker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeDepositLinker{
		successURL: successURL,
		cancelURL:  cancelURL,
		currency:   currency,
		newSession: session.New,
		logger:     logger,
	}
}

// CreateDepositLink returns the hosted checkout URL for the deposit amount.
func (l *StripeDepositLinker) CreateDepositLink(ctx context.Context, b *models.Booking, amount float64) (string, error) {
	if amount <= 0 {
		return "", errors.New("deposit amount must be positive")
	}
	params := l.checkoutParams(b, amount)
	params.Context = ctx

	s, err := l.newSession(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session for booking %s: %w", b.ID, err)
	}
	l.logger.Info("Deposit checkout session created",
		zap.String("booking_id", b.ID),
		zap.String("session_id", s.ID),
		zap.Float64("amount", amount))
	return s.URL, nil
}

func (l *StripeDepositLinker) checkoutParams(b *models.Booking, amount float64) *stripe.CheckoutSessionParams {
	name := fmt.Sprintf("Deposit for booking %s", b.BookingNumber)
	if b.ServiceName != "" {
		name = fmt.Sprintf("%s deposit (%s)", b.ServiceName, b.BookingNumber)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(l.successURL),
		CancelURL:         stripe.String(l.cancelURL),
		ClientReferenceID: stripe.String(b.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(l.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
					UnitAmount: stripe.Int64(toMinorUnits(amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("booking_id", b.ID)
	params.AddMetadata("booking_number", b.BookingNumber)
	if b.ClientEmail != "" {
		params.CustomerEmail = stripe.String(b.ClientEmail)
	}
	return params
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
