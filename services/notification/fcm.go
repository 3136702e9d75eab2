package notification

import (
	"context"
	"errors"
	"fmt"

	"bookingcore/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrNoPushToken is returned when the recipient has no registered device.
var ErrNoPushToken = errors.New("recipient has no push token")

// FCMSender delivers push notifications through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
	tokens TokenLookup
	logger *zap.Logger
}

func NewFCMSender(client *messaging.Client, tokens TokenLookup, logger *zap.Logger) *FCMSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMSender{client: client, tokens: tokens, logger: logger}
}

func (s *FCMSender) Send(ctx context.Context, n models.Notification) error {
	token, err := s.tokens(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("could not resolve push token for %s: %w", n.UserID, err)
	}
	if token == "" {
		// Nothing to retry; the recipient has no device.
		s.logger.Info("Skipping push, no token", zap.String("user_id", n.UserID))
		return nil
	}

	response, err := s.client.Send(ctx, pushMessage(token, n))
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	s.logger.Debug("Push sent", zap.String("user_id", n.UserID), zap.String("message_id", response))
	return nil
}

func pushMessage(token string, n models.Notification) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}

// LogSender records notifications for channels without a delivery backend.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, n models.Notification) error {
	s.logger.Info("Notification",
		zap.String("channel", n.Channel),
		zap.String("user_id", n.UserID),
		zap.String("title", n.Title),
		zap.String("body", n.Body))
	return nil
}
